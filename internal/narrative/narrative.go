// Package narrative turns weekly numbers into at most two short social insight lines.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/limbo/accountability/pkg/logger"
)

const MaxLines = 2

// TextGenerator is an external free-text service. The reply is expected, not guaranteed, to be JSON.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	Spacing        time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 15 * time.Second,
		Spacing:        time.Second,
	}
}

type Performer struct {
	Name string
	Rate float64
}

type Input struct {
	TopPerformers []Performer
	TotalUsers    int
	ChargedUsers  int
	PerfectWeeks  int
	TotalCharges  decimal.Decimal
	GroupAverage  float64
}

// Result is either generated by the text service or computed locally.
type Result struct {
	Lines  []string
	Source entity.NarrativeSource
}

type Generator struct {
	text   TextGenerator
	policy RetryPolicy
}

// NewGenerator accepts a nil text generator, in which case every result is the fallback.
func NewGenerator(text TextGenerator, policy RetryPolicy) *Generator {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.AttemptTimeout <= 0 {
		policy.AttemptTimeout = DefaultRetryPolicy().AttemptTimeout
	}
	return &Generator{
		text:   text,
		policy: policy,
	}
}

// Generate never fails. When every attempt fails, or ctx ends, it returns the fallback lines.
func (g *Generator) Generate(ctx context.Context, in Input) Result {
	log := logger.FromContext(ctx)
	if g.text == nil {
		return Fallback(in)
	}
	prompt := BuildPrompt(in)
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if !g.wait(ctx) {
				break
			}
			prompt = BuildPrompt(in) + strictReminder
		}
		lines, err := g.attempt(ctx, prompt)
		if err == nil {
			return Result{Lines: lines, Source: entity.NarrativeGenerated}
		}
		log.Warn("narrative attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", g.policy.MaxAttempts),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, errorvalues.ErrGeneratorDisabled) || ctx.Err() != nil {
			break
		}
	}
	log.Info("using fallback narrative")
	return Fallback(in)
}

func (g *Generator) attempt(ctx context.Context, prompt string) ([]string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.policy.AttemptTimeout)
	defer cancel()
	raw, err := g.text.Generate(attemptCtx, prompt)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func (g *Generator) wait(ctx context.Context) bool {
	if g.policy.Spacing <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(g.policy.Spacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

const strictReminder = "\nYour previous reply was not usable. Reply with ONLY a JSON array of at most two strings."

// BuildPrompt keeps the prompt compact: top performers and group totals only.
func BuildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You write the social insight lines of a weekly habit accountability report.\n")
	b.WriteString("Top performers:\n")
	if len(in.TopPerformers) == 0 {
		b.WriteString("- none\n")
	}
	for _, p := range in.TopPerformers {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, percent(p.Rate))
	}
	fmt.Fprintf(&b, "Participants: %d\n", in.TotalUsers)
	fmt.Fprintf(&b, "Perfect weeks: %d\n", in.PerfectWeeks)
	fmt.Fprintf(&b, "Users charged: %d\n", in.ChargedUsers)
	fmt.Fprintf(&b, "Total charges: €%s\n", in.TotalCharges.StringFixed(2))
	b.WriteString("Return a JSON array of at most 2 strings, each under 80 characters, encouraging and specific. No markdown.")
	return b.String()
}

// Fallback summarizes the week without the text service.
func Fallback(in Input) Result {
	var lines []string
	if len(in.TopPerformers) > 0 {
		leader := in.TopPerformers[0]
		lines = append(lines, fmt.Sprintf("%s leads with %s", leader.Name, percent(leader.Rate)))
	}
	if in.TotalUsers > 0 {
		lines = append(lines, fmt.Sprintf("Group average %s · %d charged", percent(in.GroupAverage), in.ChargedUsers))
	}
	if len(lines) == 0 {
		lines = append(lines, "No compliance data this week")
	}
	return Result{Lines: sanitizeAll(lines), Source: entity.NarrativeFallback}
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate)
}
