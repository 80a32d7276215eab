// Package profilediff compares two target profiles field by field and labels
// each guardrail change as stricter or looser.
package profilediff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/fuzzkit/internal/model"
)

// Change represents a scalar field change.
type Change struct {
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Comment string `json:"comment,omitempty"`
}

// SetChange represents an entry added to or removed from a list or table.
type SetChange struct {
	Field string `json:"field"`
	Type  string `json:"type"` // "added", "removed", "changed"
	Entry string `json:"entry"`
}

// DiffResult holds the comparison of two profiles.
type DiffResult struct {
	OldPath    string      `json:"old_path"`
	NewPath    string      `json:"new_path"`
	Changes    []Change    `json:"changes"`
	SetChanges []SetChange `json:"set_changes"`
	HasChanges bool        `json:"has_changes"`
	// Looser is true when any change widens what a session may do.
	Looser bool `json:"looser"`
}

// Diff compares two profiles and returns the differences.
func Diff(old, new *model.Profile) *DiffResult {
	r := &DiffResult{}

	diffString(r, "name", old.Name, new.Name)
	diffString(r, "base_url", old.BaseURL, new.BaseURL)
	diffString(r, "endpoint", old.Endpoint, new.Endpoint)
	diffString(r, "method", strings.ToUpper(old.Method), strings.ToUpper(new.Method))

	diffUint(r, "limits.concurrency", uint64(old.Limits.Concurrency), uint64(new.Limits.Concurrency))
	diffUint(r, "limits.rate_per_sec", uint64(old.Limits.RatePerSec), uint64(new.Limits.RatePerSec))
	diffUint(r, "limits.request_budget", uint64(old.Limits.RequestBudget), uint64(new.Limits.RequestBudget))
	diffUint(r, "limits.max_rate_per_sec", uint64(old.Limits.MaxRatePerSec), uint64(new.Limits.MaxRatePerSec))

	diffString(r, "timeouts.connect_ms", fmt.Sprint(old.Timeouts.ConnectMS), fmt.Sprint(new.Timeouts.ConnectMS))
	diffString(r, "timeouts.read_ms", fmt.Sprint(old.Timeouts.ReadMS), fmt.Sprint(new.Timeouts.ReadMS))

	if old.Safety.RequireSandboxFlag != new.Safety.RequireSandboxFlag {
		comment := "looser"
		if new.Safety.RequireSandboxFlag {
			comment = "stricter"
		}
		r.Changes = append(r.Changes, Change{
			Field:   "safety.require_sandbox_flag",
			Old:     fmt.Sprint(old.Safety.RequireSandboxFlag),
			New:     fmt.Sprint(new.Safety.RequireSandboxFlag),
			Comment: comment,
		})
	}

	// Set membership is case-insensitive, matching the guardrails.
	diffSet(r, "limits.allowed_methods", upper(old.Limits.AllowedMethods), upper(new.Limits.AllowedMethods))
	diffSet(r, "safety.allowlist_hosts", lower(old.Safety.AllowlistHosts), lower(new.Safety.AllowlistHosts))
	diffHeaders(r, old.Safety.ForceHeaders, new.Safety.ForceHeaders)

	r.HasChanges = len(r.Changes) > 0 || len(r.SetChanges) > 0
	for _, c := range r.Changes {
		if c.Comment == "looser" {
			r.Looser = true
		}
	}
	for _, sc := range r.SetChanges {
		// Adding a method or host, or dropping a forced header, widens the profile.
		if (sc.Type == "added" && sc.Field != "safety.force_headers") ||
			(sc.Type == "removed" && sc.Field == "safety.force_headers") {
			r.Looser = true
		}
	}
	return r
}

func diffString(r *DiffResult, field, old, new string) {
	if old != new {
		r.Changes = append(r.Changes, Change{Field: field, Old: old, New: new})
	}
}

// diffUint records a change to a limit. Every limit is looser when raised.
func diffUint(r *DiffResult, field string, old, new uint64) {
	if old == new {
		return
	}
	comment := "stricter"
	if new > old {
		comment = "looser"
	}
	r.Changes = append(r.Changes, Change{
		Field:   field,
		Old:     fmt.Sprintf("%d", old),
		New:     fmt.Sprintf("%d", new),
		Comment: comment,
	})
}

func diffSet(r *DiffResult, field string, oldItems, newItems []string) {
	oldSet := make(map[string]bool)
	for _, k := range oldItems {
		oldSet[k] = true
	}
	newSet := make(map[string]bool)
	for _, k := range newItems {
		newSet[k] = true
	}

	for _, k := range newItems {
		if !oldSet[k] {
			r.SetChanges = append(r.SetChanges, SetChange{Field: field, Type: "added", Entry: k})
		}
	}
	for _, k := range oldItems {
		if !newSet[k] {
			r.SetChanges = append(r.SetChanges, SetChange{Field: field, Type: "removed", Entry: k})
		}
	}
}

func diffHeaders(r *DiffResult, old, new map[string]string) {
	const field = "safety.force_headers"
	for _, name := range sortedKeys(new) {
		oldValue, exists := old[name]
		switch {
		case !exists:
			r.SetChanges = append(r.SetChanges, SetChange{Field: field, Type: "added", Entry: name + ": " + new[name]})
		case oldValue != new[name]:
			r.SetChanges = append(r.SetChanges, SetChange{
				Field: field,
				Type:  "changed",
				Entry: fmt.Sprintf("%s: %s (was: %s)", name, new[name], oldValue),
			})
		}
	}
	for _, name := range sortedKeys(old) {
		if _, exists := new[name]; !exists {
			r.SetChanges = append(r.SetChanges, SetChange{Field: field, Type: "removed", Entry: name + ": " + old[name]})
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func upper(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func lower(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}
