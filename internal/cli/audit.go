package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/audit"
)

var (
	tailLines      int
	auditTailJSON  bool
	auditVerifyOut string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditVerifyCmd.Flags().StringVarP(&auditVerifyOut, "format", "f", "text", "Output format (text|json)")
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
	auditTailCmd.Flags().BoolVar(&auditTailJSON, "json", false, "Print raw JSON entries instead of a table")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained verdict log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an audit log",
	Long:  "Walks the JSONL audit log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent audit log entries",
	Long:  "Reads the last N entries from the JSONL audit log and prints them.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	result := audit.Verify(args[0])

	if auditVerifyOut == "json" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	} else if result.Valid {
		fmt.Fprintf(w, "OK: %d entries verified (%d permitted, %d rejected)\n",
			result.Lines, result.Permitted, result.Rejected)
	}

	if !result.Valid {
		if result.ErrorLine > 0 {
			return fmt.Errorf("audit log verification failed at line %d: %s", result.ErrorLine, result.Error)
		}
		return fmt.Errorf("audit log verification failed: %s", result.Error)
	}
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	entries, err := audit.Tail(args[0], tailLines)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if auditTailJSON {
		for _, e := range entries {
			out, err := json.Marshal(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(out))
		}
		return nil
	}
	fmt.Fprint(w, audit.FormatEntries(entries))
	return nil
}
