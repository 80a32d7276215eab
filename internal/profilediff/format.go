package profilediff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders the diff result as human-readable text.
func FormatText(r *DiffResult) string {
	if !r.HasChanges {
		return fmt.Sprintf("Profile diff: %s → %s\n\nNo changes detected.\n", r.OldPath, r.NewPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Profile diff: %s → %s\n", r.OldPath, r.NewPath)

	topLevel := filterTopLevel(r.Changes)
	limits := filterChanges(r.Changes, "limits.")
	timeouts := filterChanges(r.Changes, "timeouts.")
	safety := filterChanges(r.Changes, "safety.")

	if len(topLevel) > 0 {
		b.WriteString("\n")
		for _, c := range topLevel {
			writeChange(&b, "  %-24s", c.Field, c)
		}
	}
	writeSection(&b, "Limits", "limits.", limits)
	writeSection(&b, "Timeouts", "timeouts.", timeouts)
	writeSection(&b, "Safety", "safety.", safety)

	if len(r.SetChanges) > 0 {
		b.WriteString("\n  Lists:\n")
		for _, sc := range r.SetChanges {
			switch sc.Type {
			case "added":
				fmt.Fprintf(&b, "    + %s: %s\n", sc.Field, sc.Entry)
			case "removed":
				fmt.Fprintf(&b, "    - %s: %s\n", sc.Field, sc.Entry)
			case "changed":
				fmt.Fprintf(&b, "    ~ %s: %s\n", sc.Field, sc.Entry)
			}
		}
	}

	if r.Looser {
		b.WriteString("\nWARNING: the new profile loosens at least one guardrail.\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, prefix string, changes []Change) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  %s:\n", title)
	for _, c := range changes {
		writeChange(b, "    %-22s", strings.TrimPrefix(c.Field, prefix), c)
	}
}

func writeChange(b *strings.Builder, layout, name string, c Change) {
	fmt.Fprintf(b, layout, name+":")
	fmt.Fprintf(b, " %s → %s", c.Old, c.New)
	if c.Comment != "" {
		fmt.Fprintf(b, "  (%s)", c.Comment)
	}
	b.WriteString("\n")
}

// FormatJSON renders the diff result as JSON.
func FormatJSON(r *DiffResult) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff result: %w", err)
	}
	return string(data), nil
}

func filterChanges(changes []Change, prefix string) []Change {
	var out []Change
	for _, c := range changes {
		if strings.HasPrefix(c.Field, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func filterTopLevel(changes []Change) []Change {
	var out []Change
	for _, c := range changes {
		if !strings.Contains(c.Field, ".") {
			out = append(out, c)
		}
	}
	return out
}
