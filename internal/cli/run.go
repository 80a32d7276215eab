package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/audit"
	"github.com/ppiankov/fuzzkit/internal/enforce"
	"github.com/ppiankov/fuzzkit/internal/model"
	"github.com/ppiankov/fuzzkit/internal/policy"
	"github.com/ppiankov/fuzzkit/internal/profile"
	"github.com/ppiankov/fuzzkit/internal/session"
)

// DefaultProfile is the profile loaded when --profile is not given.
const DefaultProfile = "profiles/kra-sandbox.toml"

var (
	runProfile  string
	runSandbox  bool
	runDryRun   bool
	runAuditLog string
)

func init() {
	rootCmd.Flags().StringVarP(&runProfile, "profile", "p", DefaultProfile, "Profile file path or built-in name")
	rootCmd.Flags().BoolVar(&runSandbox, "sandbox", false, "Confirm the target is a sandbox (required by most profiles)")
	rootCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Plan the session without sending requests")
	rootCmd.Flags().StringVar(&runAuditLog, "audit-log", "", "Append the verdict to this hash-chained JSONL log")
}

func runSession(cmd *cobra.Command, args []string) error {
	p, hash, err := profile.LoadWithHash(runProfile)
	if err != nil {
		return err
	}

	flags := model.RuntimeFlags{SandboxRequested: runSandbox, DryRun: runDryRun}
	verdict := policy.Evaluate(p, flags)
	plan := session.New(p, flags)

	if runAuditLog != "" {
		if err := recordVerdict(runAuditLog, audit.NewEntry(plan.RunID, p, hash, flags, verdict)); err != nil {
			return err
		}
	}

	planner := session.NewPlanner(getLogger(), cmd.OutOrStdout())
	if !verdict.Permitted {
		planner.ReportRejection(cmdContext(cmd), p.Name, verdict)
		return enforce.Enforce(verdict)
	}
	planner.Report(cmdContext(cmd), plan)
	return nil
}

func recordVerdict(path string, entry audit.AuditEntry) error {
	al, err := audit.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer al.Close()

	if err := al.Record(entry); err != nil {
		return fmt.Errorf("failed to record verdict: %w", err)
	}
	return nil
}
