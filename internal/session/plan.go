// Package session turns a permitted profile into a planned run and reports it.
// No transport exists yet: an execution-mode plan ends with a notice.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/fuzzkit/internal/model"
)

// Mode is what happens after the guardrails permit a session.
type Mode string

const (
	ModeDryRun    Mode = "dry-run"
	ModeExecution Mode = "execution"
)

// ModeFor returns the session mode selected by the runtime flags.
func ModeFor(flags model.RuntimeFlags) Mode {
	if flags.DryRun {
		return ModeDryRun
	}
	return ModeExecution
}

// Plan summarizes the session a permitted profile would run.
type Plan struct {
	RunID          string        `json:"run_id"`
	Profile        string        `json:"profile"`
	Mode           Mode          `json:"mode"`
	Method         string        `json:"method"`
	Target         string        `json:"target"`
	Budget         uint32        `json:"request_budget"`
	RatePerSec     uint32        `json:"rate_per_sec"`
	MaxRatePerSec  uint32        `json:"max_rate_per_sec"`
	Concurrency    uint          `json:"concurrency"`
	ForcedHeaders  []string      `json:"forced_headers"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	// EstimatedDuration is budget/rate. Zero when the rate is zero.
	EstimatedDuration time.Duration `json:"estimated_duration"`
}

// New builds a plan for a profile. It does not re-check the guardrails.
func New(p *model.Profile, flags model.RuntimeFlags) Plan {
	headers := make([]string, 0, len(p.Safety.ForceHeaders))
	for name := range p.Safety.ForceHeaders {
		headers = append(headers, name)
	}
	sort.Strings(headers)

	plan := Plan{
		RunID:          uuid.NewString(),
		Profile:        p.Name,
		Mode:           ModeFor(flags),
		Method:         strings.ToUpper(p.Method),
		Target:         p.TargetURL(),
		Budget:         p.Limits.RequestBudget,
		RatePerSec:     p.Limits.RatePerSec,
		MaxRatePerSec:  p.Limits.MaxRatePerSec,
		Concurrency:    p.Limits.Concurrency,
		ForcedHeaders:  headers,
		ConnectTimeout: p.Timeouts.Connect(),
		ReadTimeout:    p.Timeouts.Read(),
	}
	if plan.RatePerSec > 0 {
		plan.EstimatedDuration = time.Duration(plan.Budget) * time.Second / time.Duration(plan.RatePerSec)
	}
	return plan
}

// Planner reports verdicts and plans. Logs go to the logger, operator text to out.
type Planner struct {
	logger *slog.Logger
	out    io.Writer
}

// NewPlanner returns a planner writing to the given logger and writer.
func NewPlanner(logger *slog.Logger, out io.Writer) *Planner {
	return &Planner{logger: logger.With("component", "session"), out: out}
}

// Report logs a permitted session and prints what happens next.
func (pl *Planner) Report(ctx context.Context, plan Plan) {
	pl.logger.InfoContext(ctx, fmt.Sprintf("guardrails OK; %s mode", plan.Mode),
		slog.String("run_id", plan.RunID),
		slog.String("name", plan.Profile),
		slog.String("target", plan.Target),
		slog.String("method", plan.Method),
		slog.Uint64("budget", uint64(plan.Budget)),
		slog.Uint64("rate", uint64(plan.RatePerSec)),
		slog.Uint64("concurrency", uint64(plan.Concurrency)),
	)

	if plan.Mode == ModeExecution {
		fmt.Fprintln(pl.out, "Execution would start here (transport not wired yet).")
		return
	}

	fmt.Fprintln(pl.out, "(dry-run) Ready to plan test cases. No requests will be sent.")
	fmt.Fprint(pl.out, FormatPlan(plan))
}

// ReportRejection logs a rejected session.
func (pl *Planner) ReportRejection(ctx context.Context, profileName string, v model.Verdict) {
	pl.logger.WarnContext(ctx, "guardrails rejected session",
		slog.String("name", profileName),
		slog.String("kind", string(v.Kind)),
		slog.String("reason", v.Reason()),
	)
}

// FormatPlan renders a plan as an indented text block.
func FormatPlan(plan Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  profile:      %s\n", plan.Profile)
	fmt.Fprintf(&b, "  run id:       %s\n", plan.RunID)
	fmt.Fprintf(&b, "  target:       %s %s\n", plan.Method, plan.Target)
	fmt.Fprintf(&b, "  budget:       %d requests\n", plan.Budget)
	fmt.Fprintf(&b, "  rate:         %d/s (ceiling %d/s)\n", plan.RatePerSec, plan.MaxRatePerSec)
	fmt.Fprintf(&b, "  concurrency:  %d\n", plan.Concurrency)
	fmt.Fprintf(&b, "  timeouts:     connect %s, read %s\n", plan.ConnectTimeout, plan.ReadTimeout)
	if plan.EstimatedDuration > 0 {
		fmt.Fprintf(&b, "  est. time:    %s\n", plan.EstimatedDuration)
	} else {
		b.WriteString("  est. time:    n/a (rate 0, no traffic scheduled)\n")
	}
	if len(plan.ForcedHeaders) > 0 {
		fmt.Fprintf(&b, "  forced hdrs:  %s\n", strings.Join(plan.ForcedHeaders, ", "))
	}
	return b.String()
}
