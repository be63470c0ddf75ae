package narrative_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/internal/narrative"
	"github.com/limbo/accountability/pkg/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedText struct {
	replies []string
	errs    []error
	calls   atomic.Int32
}

func (s *scriptedText) Generate(ctx context.Context, _ string) (string, error) {
	i := int(s.calls.Add(1)) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

type slowText struct {
	calls atomic.Int32
}

func (s *slowText) Generate(ctx context.Context, _ string) (string, error) {
	s.calls.Add(1)
	<-ctx.Done()
	return "", ctx.Err()
}

var fastPolicy = narrative.RetryPolicy{MaxAttempts: 3, AttemptTimeout: time.Second}

func sampleInput() narrative.Input {
	return narrative.Input{
		TopPerformers: []narrative.Performer{{Name: "Marc", Rate: 90}, {Name: "Lea", Rate: 75}},
		TotalUsers:    3,
		ChargedUsers:  2,
		PerfectWeeks:  1,
		TotalCharges:  decimal.RequireFromString("3.50"),
		GroupAverage:  68.4,
	}
}

func TestGenerateAlwaysFailingFallsBack(t *testing.T) {
	text := &scriptedText{errs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom")}}
	res := narrative.NewGenerator(text, fastPolicy).Generate(context.Background(), sampleInput())

	assert.Equal(t, entity.NarrativeFallback, res.Source)
	assert.Equal(t, []string{"Marc leads with 90%", "Group average 68% · 2 charged"}, res.Lines)
	assert.EqualValues(t, 3, text.calls.Load())
}

func TestGenerateRetriesUntilUsable(t *testing.T) {
	testCases := []struct {
		Desc    string
		Replies []string
		Errs    []error
		Calls   int32
		Lines   []string
		Source  entity.NarrativeSource
	}{
		{
			Desc:    "first reply usable",
			Replies: []string{`["Great week, team!", "Keep it up."]`},
			Calls:   1,
			Lines:   []string{"Great week, team", "Keep it up"},
			Source:  entity.NarrativeGenerated,
		},
		{
			Desc:    "fenced json",
			Replies: []string{"```json\n[\"- Marc carried the group\"]\n```"},
			Calls:   1,
			Lines:   []string{"Marc carried the group"},
			Source:  entity.NarrativeGenerated,
		},
		{
			Desc:    "object then empty array then success",
			Replies: []string{`{"lines": ["x"]}`, `[]`, `["1. Three in a row"]`},
			Calls:   3,
			Lines:   []string{"Three in a row"},
			Source:  entity.NarrativeGenerated,
		},
		{
			Desc:    "error then success",
			Replies: []string{"", `["Solid week"]`},
			Errs:    []error{errors.New("503")},
			Calls:   2,
			Lines:   []string{"Solid week"},
			Source:  entity.NarrativeGenerated,
		},
		{
			Desc:    "only first two lines kept",
			Replies: []string{`["one", "", "two", "three"]`},
			Calls:   1,
			Lines:   []string{"one", "two"},
			Source:  entity.NarrativeGenerated,
		},
		{
			Desc:    "prose every time",
			Replies: []string{"Sure! Here you go", "not json", "[not json"},
			Calls:   3,
			Lines:   []string{"Marc leads with 90%", "Group average 68% · 2 charged"},
			Source:  entity.NarrativeFallback,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			text := &scriptedText{replies: tc.Replies, errs: tc.Errs}
			res := narrative.NewGenerator(text, fastPolicy).Generate(context.Background(), sampleInput())
			assert.Equal(t, tc.Source, res.Source)
			assert.Equal(t, tc.Lines, res.Lines)
			assert.Equal(t, tc.Calls, text.calls.Load())
		})
	}
}

func TestGenerateDisabledSkipsRetries(t *testing.T) {
	text := &scriptedText{errs: []error{errorvalues.ErrGeneratorDisabled}}
	res := narrative.NewGenerator(text, fastPolicy).Generate(context.Background(), sampleInput())
	assert.Equal(t, entity.NarrativeFallback, res.Source)
	assert.EqualValues(t, 1, text.calls.Load())
}

func TestGenerateNilTextUsesFallback(t *testing.T) {
	res := narrative.NewGenerator(nil, fastPolicy).Generate(context.Background(), narrative.Input{})
	assert.Equal(t, entity.NarrativeFallback, res.Source)
	assert.Equal(t, []string{"No compliance data this week"}, res.Lines)
}

func TestGenerateAttemptTimeout(t *testing.T) {
	text := &slowText{}
	policy := narrative.RetryPolicy{MaxAttempts: 2, AttemptTimeout: 20 * time.Millisecond}
	start := time.Now()
	res := narrative.NewGenerator(text, policy).Generate(context.Background(), sampleInput())

	assert.Equal(t, entity.NarrativeFallback, res.Source)
	assert.EqualValues(t, 2, text.calls.Load())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	text := &slowText{}
	policy := narrative.RetryPolicy{MaxAttempts: 3, AttemptTimeout: time.Minute, Spacing: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := narrative.NewGenerator(text, policy).Generate(ctx, sampleInput())
	assert.Equal(t, entity.NarrativeFallback, res.Source)
	assert.EqualValues(t, 1, text.calls.Load())
}

func TestSanitize(t *testing.T) {
	long := strings.Repeat("abcdefghij", 10)
	testCases := []struct {
		Desc     string
		In       string
		Expected string
	}{
		{Desc: "trim", In: "  hello  ", Expected: "hello"},
		{Desc: "dash bullet", In: "- hello", Expected: "hello"},
		{Desc: "star bullet", In: "* hello", Expected: "hello"},
		{Desc: "dot bullet", In: "• hello", Expected: "hello"},
		{Desc: "middle dot bullet", In: "· hello", Expected: "hello"},
		{Desc: "numbered", In: "2) hello", Expected: "hello"},
		{Desc: "numbered dot", In: "1. hello", Expected: "hello"},
		{Desc: "trailing punctuation", In: "hello!!!", Expected: "hello"},
		{Desc: "percent kept", In: "Marc leads with 90%.", Expected: "Marc leads with 90%"},
		{Desc: "truncated", In: long, Expected: long[:79] + "…"},
		{Desc: "empty", In: " - ", Expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			got := narrative.Sanitize(tc.In)
			assert.Equal(t, tc.Expected, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 80)
		})
	}
}

func TestFallbackLinesAreSanitized(t *testing.T) {
	in := sampleInput()
	in.TopPerformers[0].Name = strings.Repeat("Maximilian ", 10)
	res := narrative.Fallback(in)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, 80, utf8.RuneCountInString(res.Lines[0]))
	assert.True(t, strings.HasSuffix(res.Lines[0], "…"))
}

func TestBuildPromptMentionsTotals(t *testing.T) {
	prompt := narrative.BuildPrompt(sampleInput())
	assert.Contains(t, prompt, "Marc: 90%")
	assert.Contains(t, prompt, "Users charged: 2")
	assert.Contains(t, prompt, "€3.50")
	assert.Contains(t, prompt, "JSON array")
}
