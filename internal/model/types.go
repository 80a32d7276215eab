package model

import (
	"strings"
	"time"
)

// Limits bounds what a session against the target may do.
type Limits struct {
	Concurrency    uint     `yaml:"concurrency" toml:"concurrency" json:"concurrency"`
	RatePerSec     uint32   `yaml:"rate_per_sec" toml:"rate_per_sec" json:"rate_per_sec"`
	RequestBudget  uint32   `yaml:"request_budget" toml:"request_budget" json:"request_budget"`
	MaxRatePerSec  uint32   `yaml:"max_rate_per_sec" toml:"max_rate_per_sec" json:"max_rate_per_sec"`
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods" json:"allowed_methods"`
}

// Timeouts are carried for the transport. Nothing in the guardrail path reads them.
type Timeouts struct {
	ConnectMS uint64 `yaml:"connect_ms" toml:"connect_ms" json:"connect_ms"`
	ReadMS    uint64 `yaml:"read_ms" toml:"read_ms" json:"read_ms"`
}

// Connect returns the connect timeout as a duration.
func (t Timeouts) Connect() time.Duration {
	return time.Duration(t.ConnectMS) * time.Millisecond
}

// Read returns the read timeout as a duration.
func (t Timeouts) Read() time.Duration {
	return time.Duration(t.ReadMS) * time.Millisecond
}

// Safety holds the sandbox and allowlist rules of a profile.
type Safety struct {
	RequireSandboxFlag bool              `yaml:"require_sandbox_flag" toml:"require_sandbox_flag" json:"require_sandbox_flag"`
	AllowlistHosts     []string          `yaml:"allowlist_hosts" toml:"allowlist_hosts" json:"allowlist_hosts"`
	ForceHeaders       map[string]string `yaml:"force_headers" toml:"force_headers" json:"force_headers"`
}

// Profile is the safety and operating policy for one fuzzing target.
// Values are stored exactly as configured; comparisons normalize at check time.
// A loaded Profile is read-only and may be shared between goroutines.
type Profile struct {
	Name     string   `yaml:"name" toml:"name" json:"name"`
	BaseURL  string   `yaml:"base_url" toml:"base_url" json:"base_url"`
	Endpoint string   `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	Method   string   `yaml:"method" toml:"method" json:"method"`
	Limits   Limits   `yaml:"limits" toml:"limits" json:"limits"`
	Timeouts Timeouts `yaml:"timeouts" toml:"timeouts" json:"timeouts"`
	Safety   Safety   `yaml:"safety" toml:"safety" json:"safety"`
}

// TargetURL joins the base URL and endpoint the way requests will address the target.
func (p *Profile) TargetURL() string {
	if p.Endpoint == "" {
		return p.BaseURL
	}
	return strings.TrimRight(p.BaseURL, "/") + "/" + strings.TrimLeft(p.Endpoint, "/")
}

// RuntimeFlags are the per-invocation switches that influence the guardrails.
type RuntimeFlags struct {
	SandboxRequested bool `json:"sandbox_requested"`
	DryRun           bool `json:"dry_run"`
}
