package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/profile"
)

var (
	initOutput string
	initFormat string
)

func init() {
	profileCmd.AddCommand(profileInitCmd)
	profileInitCmd.Flags().StringVarP(&initOutput, "output", "o", "", "Output path, or - for stdout (default: profiles/<name>.<format>)")
	profileInitCmd.Flags().StringVarP(&initFormat, "format", "f", "toml", "Template format (toml|yaml|json)")
}

var profileInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Generate a starter profile template",
	Long:  "Creates a commented profile template that you can customize for your target.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileInit,
}

func runProfileInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	format, err := profile.ParseFormat(initFormat)
	if err != nil {
		return err
	}
	content := profile.InitProfile(name, format)

	if initOutput == "-" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	outPath := initOutput
	if outPath == "" {
		outPath = filepath.Join("profiles", name+"."+string(format))
	}

	// Refuse to overwrite existing files
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("file already exists: %s (remove it first or use --output)", outPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created profile template: %s\n", outPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Edit it, then validate with: fuzzkit check --profile %s\n", outPath)
	return nil
}
