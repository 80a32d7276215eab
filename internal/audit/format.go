package audit

import (
	"fmt"
	"strings"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatEntries renders audit entries as a fixed-width text table.
func FormatEntries(entries []AuditEntry) string {
	if len(entries) == 0 {
		return "No audit entries.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-10s %-22s %-10s %s\n", "TIME", "DECISION", "KIND", "MODE", "PROFILE")
	b.WriteString(separator + "\n")
	for _, e := range entries {
		kind := e.Kind
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(&b, "%-24s %-10s %-22s %-10s %s\n",
			e.Timestamp, strings.ToUpper(e.Decision), kind, e.Mode, truncate(e.Profile, 30))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
