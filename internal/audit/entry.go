package audit

import (
	"time"

	"github.com/ppiankov/fuzzkit/internal/model"
	"github.com/ppiankov/fuzzkit/internal/session"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// AuditTarget is the flattened target recorded in each audit entry.
type AuditTarget struct {
	BaseURL string `json:"base_url"`
	Method  string `json:"method"`
}

// AuditEntry is one preflight verdict in the hash-chained JSONL audit log.
// All fields are structs (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type AuditEntry struct {
	Timestamp   string      `json:"ts"`
	RunID       string      `json:"run_id"`
	Profile     string      `json:"profile"`
	ProfileHash string      `json:"profile_hash"`
	Target      AuditTarget `json:"target"`
	Decision    string      `json:"decision"`
	Kind        string      `json:"kind,omitempty"`
	Reason      string      `json:"reason"`
	Mode        string      `json:"mode"`
	Sandbox     bool        `json:"sandbox"`
	PrevHash    string      `json:"prev_hash"`
}

// NewEntry builds the audit record for one evaluation.
func NewEntry(runID string, p *model.Profile, profileHash string, flags model.RuntimeFlags, v model.Verdict) AuditEntry {
	return AuditEntry{
		Timestamp:   time.Now().UTC().Format(timestampLayout),
		RunID:       runID,
		Profile:     p.Name,
		ProfileHash: profileHash,
		Target:      AuditTarget{BaseURL: p.BaseURL, Method: p.Method},
		Decision:    v.Decision(),
		Kind:        string(v.Kind),
		Reason:      v.Reason(),
		Mode:        string(session.ModeFor(flags)),
		Sandbox:     flags.SandboxRequested,
	}
}
