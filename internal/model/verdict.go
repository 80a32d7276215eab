package model

import "fmt"

// RejectionKind names the guardrail that refused a session.
type RejectionKind string

const (
	SandboxRequired     RejectionKind = "sandbox_required"
	InvalidBaseURL      RejectionKind = "invalid_base_url"
	HostNotAllowed      RejectionKind = "host_not_allowed"
	MethodNotAllowed    RejectionKind = "method_not_allowed"
	RateCeilingExceeded RejectionKind = "rate_ceiling_exceeded"
	EmptyBudget         RejectionKind = "empty_budget"
)

// Verdict is the outcome of a guardrail evaluation.
// A zero Kind together with Permitted=true means every guardrail passed.
type Verdict struct {
	Permitted bool          `json:"permitted"`
	Kind      RejectionKind `json:"kind,omitempty"`
	// Subject is the configured value that tripped the guardrail, if any.
	Subject string `json:"subject,omitempty"`
}

// Permit returns the verdict for a profile that passed every guardrail.
func Permit() Verdict {
	return Verdict{Permitted: true}
}

// Reject returns a rejection of the given kind.
func Reject(kind RejectionKind, subject string) Verdict {
	return Verdict{Kind: kind, Subject: subject}
}

// Decision returns "permitted" or "rejected".
func (v Verdict) Decision() string {
	if v.Permitted {
		return "permitted"
	}
	return "rejected"
}

// Reason renders an operator-facing explanation of the verdict.
func (v Verdict) Reason() string {
	switch v.Kind {
	case "":
		if v.Permitted {
			return "guardrails OK"
		}
		return "rejected"
	case SandboxRequired:
		return "sandbox flag required: re-run with --sandbox"
	case InvalidBaseURL:
		return fmt.Sprintf("invalid base_url: %s", v.Subject)
	case HostNotAllowed:
		return fmt.Sprintf("base_url host not in allowlist: %s", v.Subject)
	case MethodNotAllowed:
		return fmt.Sprintf("HTTP method '%s' not allowed by policy", v.Subject)
	case RateCeilingExceeded:
		return fmt.Sprintf("rate_per_sec exceeds policy ceiling: %s", v.Subject)
	case EmptyBudget:
		return "request_budget must be > 0"
	default:
		return string(v.Kind)
	}
}
