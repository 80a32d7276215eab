package policy

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/ppiankov/fuzzkit/internal/model"
)

// check is one guardrail. It returns a rejection and false when the profile violates it.
type check struct {
	name string
	run  func(p *model.Profile, flags model.RuntimeFlags) (model.Verdict, bool)
}

// Evaluation order (must not be changed):
//  1. Sandbox requirement
//  2. Base URL well-formedness
//  3. Host allowlist
//  4. Method policy
//  5. Rate ceiling
//  6. Budget positivity
//
// Each check stands alone. Order only decides which rejection is reported
// when several guardrails fail at once.
var checks = []check{
	{name: "sandbox", run: checkSandbox},
	{name: "base_url", run: checkBaseURL},
	{name: "host_allowlist", run: checkHost},
	{name: "method", run: checkMethod},
	{name: "rate_ceiling", run: checkRate},
	{name: "budget", run: checkBudget},
}

// Evaluate decides whether a session may start for the given profile and flags.
// It reports the first violated guardrail and never performs I/O.
// A nil profile is evaluated as an empty one.
func Evaluate(p *model.Profile, flags model.RuntimeFlags) model.Verdict {
	if p == nil {
		p = &model.Profile{}
	}
	for _, c := range checks {
		if v, ok := c.run(p, flags); !ok {
			return v
		}
	}
	return model.Permit()
}

// Violations runs every guardrail and returns all rejections in evaluation order.
// The first element, if any, is what Evaluate returns.
func Violations(p *model.Profile, flags model.RuntimeFlags) []model.Verdict {
	if p == nil {
		p = &model.Profile{}
	}
	var out []model.Verdict
	for _, c := range checks {
		if v, ok := c.run(p, flags); !ok {
			out = append(out, v)
		}
	}
	return out
}

// Checks returns the guardrail names in evaluation order.
func Checks() []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.name
	}
	return names
}

func checkSandbox(p *model.Profile, flags model.RuntimeFlags) (model.Verdict, bool) {
	if p.Safety.RequireSandboxFlag && !flags.SandboxRequested {
		return model.Reject(model.SandboxRequired, ""), false
	}
	return model.Verdict{}, true
}

func checkBaseURL(p *model.Profile, _ model.RuntimeFlags) (model.Verdict, bool) {
	if _, ok := Host(p.BaseURL); !ok {
		return model.Reject(model.InvalidBaseURL, p.BaseURL), false
	}
	return model.Verdict{}, true
}

// checkHost passes when the base URL is unparsable; that case belongs to checkBaseURL.
func checkHost(p *model.Profile, _ model.RuntimeFlags) (model.Verdict, bool) {
	host, ok := Host(p.BaseURL)
	if !ok {
		return model.Verdict{}, true
	}
	if !containsFold(p.Safety.AllowlistHosts, host) {
		return model.Reject(model.HostNotAllowed, host), false
	}
	return model.Verdict{}, true
}

func checkMethod(p *model.Profile, _ model.RuntimeFlags) (model.Verdict, bool) {
	if !containsFold(p.Limits.AllowedMethods, p.Method) {
		return model.Reject(model.MethodNotAllowed, p.Method), false
	}
	return model.Verdict{}, true
}

func checkRate(p *model.Profile, _ model.RuntimeFlags) (model.Verdict, bool) {
	if p.Limits.RatePerSec > p.Limits.MaxRatePerSec {
		subject := fmt.Sprintf("%d > %d", p.Limits.RatePerSec, p.Limits.MaxRatePerSec)
		return model.Reject(model.RateCeilingExceeded, subject), false
	}
	return model.Verdict{}, true
}

func checkBudget(p *model.Profile, _ model.RuntimeFlags) (model.Verdict, bool) {
	if p.Limits.RequestBudget == 0 {
		return model.Reject(model.EmptyBudget, "0"), false
	}
	return model.Verdict{}, true
}

// Host extracts the host of an absolute URL, without port or IPv6 brackets.
// It reports false unless the URL has both a scheme and a host.
func Host(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	host := u.Hostname()
	if host == "" {
		return "", false
	}
	return host, true
}

// containsFold reports whether set holds s, ignoring case.
func containsFold(set []string, s string) bool {
	return slices.ContainsFunc(set, func(e string) bool {
		return strings.EqualFold(e, s)
	})
}
