package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/profile"
	"github.com/ppiankov/fuzzkit/internal/profilediff"
)

var (
	diffFormat     string
	diffFailLooser bool
)

func init() {
	profileCmd.AddCommand(profileDiffCmd)
	profileDiffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text|json)")
	profileDiffCmd.Flags().BoolVar(&diffFailLooser, "fail-on-looser", false, "Exit 1 if the new profile loosens any guardrail")
}

var profileDiffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two profiles",
	Long: "Loads two profiles and shows every changed field, labelling limit and\n" +
		"safety changes as stricter or looser. Use --fail-on-looser in CI review.",
	Args: cobra.ExactArgs(2),
	RunE: runProfileDiff,
}

func runProfileDiff(cmd *cobra.Command, args []string) error {
	oldProfile, err := profile.Load(args[0])
	if err != nil {
		return err
	}
	newProfile, err := profile.Load(args[1])
	if err != nil {
		return err
	}

	result := profilediff.Diff(oldProfile, newProfile)
	result.OldPath = args[0]
	result.NewPath = args[1]

	w := cmd.OutOrStdout()
	switch diffFormat {
	case "json":
		out, err := profilediff.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	default:
		fmt.Fprint(w, profilediff.FormatText(result))
	}

	if diffFailLooser && result.Looser {
		return fmt.Errorf("%s loosens guardrails relative to %s", args[1], args[0])
	}
	return nil
}
