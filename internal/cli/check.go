package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/enforce"
	"github.com/ppiankov/fuzzkit/internal/model"
	"github.com/ppiankov/fuzzkit/internal/policy"
	"github.com/ppiankov/fuzzkit/internal/profile"
	"github.com/ppiankov/fuzzkit/internal/watch"
)

var (
	checkProfile string
	checkSandbox bool
	checkAll     bool
	checkExplain bool
	checkFormat  string
	checkWatch   bool
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkProfile, "profile", "p", DefaultProfile, "Profile file path or built-in name")
	checkCmd.Flags().BoolVar(&checkSandbox, "sandbox", false, "Evaluate as if --sandbox were passed to a run")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "List every failing guardrail, not just the first")
	checkCmd.Flags().BoolVar(&checkExplain, "explain", false, "Print the guardrail order before the verdict")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-evaluate whenever the profile file changes")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a profile against the guardrails",
	Long: "Loads a profile and evaluates the guardrails without planning a session.\n\n" +
		"Exit code 0 if permitted, 77 if rejected, 65 if the profile is malformed.\n" +
		"With --watch, keeps running and re-evaluates on every save.",
	RunE: runCheck,
}

// checkReport is the JSON form of a check result.
type checkReport struct {
	Profile     string        `json:"profile"`
	ProfileHash string        `json:"profile_hash"`
	Decision    string        `json:"decision"`
	Kind        string        `json:"kind,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	Violations  []checkReason `json:"violations,omitempty"`
	Checks      []string      `json:"checks,omitempty"`
}

type checkReason struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFormat != "text" && checkFormat != "json" {
		return fmt.Errorf("unknown format %q (text|json)", checkFormat)
	}
	if checkWatch {
		return watchCheck(cmd)
	}
	return checkOnce(cmd.OutOrStdout())
}

func checkOnce(w io.Writer) error {
	p, hash, err := profile.LoadWithHash(checkProfile)
	if err != nil {
		return err
	}

	flags := model.RuntimeFlags{SandboxRequested: checkSandbox}
	verdict := policy.Evaluate(p, flags)

	report := checkReport{
		Profile:     p.Name,
		ProfileHash: hash,
		Decision:    verdict.Decision(),
	}
	if !verdict.Permitted {
		report.Kind = string(verdict.Kind)
		report.Reason = verdict.Reason()
	}
	if checkAll {
		for _, v := range policy.Violations(p, flags) {
			report.Violations = append(report.Violations, checkReason{Kind: string(v.Kind), Reason: v.Reason()})
		}
	}
	if checkExplain {
		report.Checks = policy.Checks()
	}

	if checkFormat == "json" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	} else {
		fmt.Fprint(w, formatCheck(report))
	}

	return enforce.Enforce(verdict)
}

func formatCheck(r checkReport) string {
	var b strings.Builder
	if len(r.Checks) > 0 {
		b.WriteString("Guardrails (in order):\n")
		for i, name := range r.Checks {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
		}
	}
	if r.Kind == "" {
		fmt.Fprintf(&b, "%s: permitted\n", r.Profile)
	} else {
		fmt.Fprintf(&b, "%s: rejected (%s)\n  %s\n", r.Profile, r.Kind, r.Reason)
	}
	if len(r.Violations) > 1 {
		b.WriteString("All violations:\n")
		for _, v := range r.Violations {
			fmt.Fprintf(&b, "  - %s: %s\n", v.Kind, v.Reason)
		}
	}
	return b.String()
}

// watchCheck evaluates once, then again on every change until interrupted.
// Verdicts and load errors are printed but never end the loop.
func watchCheck(cmd *cobra.Command) error {
	if info, err := os.Stat(checkProfile); err != nil || info.IsDir() {
		return fmt.Errorf("--watch needs a profile file, got %q", checkProfile)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	w := cmd.OutOrStdout()
	evaluate := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := checkOnce(w); err != nil {
			fmt.Fprintf(w, "%v\n", err)
		}
	}

	watcher, err := watch.New(checkProfile, getLogger(), evaluate)
	if err != nil {
		return err
	}
	evaluate()
	getLogger().InfoContext(ctx, "watching profile", "path", checkProfile)
	return watcher.Run(ctx)
}
