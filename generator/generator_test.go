package generator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReviewPrompt(t *testing.T) {
	p := BuildReviewPrompt(ReviewContext{
		BusinessName: "Acme Plumbing",
		Platform:     "Google",
		TargetWords:  120,
		Prompts:      []string{"How quickly did Acme Plumbing respond?"},
		Notes:        "  emergency repairs  ",
	})
	assert.Equal(t, reviewSystem, p.System)
	assert.Contains(t, p.User, "Write a review of Acme Plumbing to post on Google.")
	assert.Contains(t, p.User, "about 120 words")
	assert.Contains(t, p.User, "  - How quickly did Acme Plumbing respond?")
	assert.Contains(t, p.User, "Context from the business: emergency repairs")
	assert.Empty(t, p.History)
	assert.NotContains(t, p.User, "new version")
}

func TestBuildReviewPrompt_Regeneration(t *testing.T) {
	p := BuildReviewPrompt(ReviewContext{Previous: []string{"first", "second"}})
	assert.Contains(t, p.User, "Write a review of this business.")
	assert.Contains(t, p.User, "new version")
	require.Len(t, p.History, 4)
	assert.Equal(t, Message{Role: "assistant", Content: "second"}, p.History[3])
}

func TestPostProcess(t *testing.T) {
	for _, tc := range []struct {
		name   string
		raw    string
		target int
		want   string
	}{
		{"plain", "Great service.", 0, "Great service."},
		{"heading and label", "# My Review\nReview: \"Great   service,\n fast.\"", 0, "Great service, fast."},
		{"curly quotes", "“Lovely staff.”", 0, "Lovely staff."},
		{"cut at sentence", "One two three four. Five six seven eight nine.", 4, "One two three four."},
		{"cut mid sentence", "one two three four five six seven", 2, "one two three"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PostProcess(tc.raw, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	_, err := PostProcess("## Only a heading\n  ", 0)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestAgent_WithMock(t *testing.T) {
	agent, err := NewAgent(MockLLM{})
	require.NoError(t, err)

	first, err := agent.Generate(context.Background(), ReviewContext{BusinessName: "Acme", Platform: "Yelp"})
	require.NoError(t, err)
	assert.Contains(t, first, "Acme")
	assert.Contains(t, first, "(draft 1)")

	second, err := agent.Generate(context.Background(), ReviewContext{BusinessName: "Acme", Previous: []string{first}})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	fixed, err := agent.FixGrammar(context.Background(), "  i  liked it ")
	require.NoError(t, err)
	assert.Equal(t, "i liked it", fixed)

	blank, err := agent.FixGrammar(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "   ", blank)

	_, err = NewAgent(nil)
	assert.Error(t, err)
}

type failingLLM struct {
	calls atomic.Int32
	err   error
}

func (f *failingLLM) Complete(context.Context, Prompt) (string, error) {
	f.calls.Add(1)
	return "", f.err
}

func TestGuarded_BreakerOpens(t *testing.T) {
	inner := &failingLLM{err: errors.New("provider 500")}
	g := NewGuarded("test", inner, GuardSettings{FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := g.Complete(context.Background(), Prompt{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, "open", g.State())

	_, err := g.Complete(context.Background(), Prompt{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 2, inner.calls.Load(), "open breaker must not call through")
}

func TestGuarded_CancellationDoesNotTrip(t *testing.T) {
	inner := &failingLLM{err: context.Canceled}
	g := NewGuarded("test", inner, GuardSettings{FailureThreshold: 1, OpenTimeout: time.Minute})
	for i := 0; i < 3; i++ {
		_, err := g.Complete(context.Background(), Prompt{})
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", g.State())
}

func TestGuarded_RateLimit(t *testing.T) {
	g := NewGuarded("test", MockLLM{}, GuardSettings{RPS: 0.001, Burst: 1})
	_, err := g.Complete(context.Background(), Prompt{User: "Write a review of X."})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Complete(ctx, Prompt{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMockLLM_Subject(t *testing.T) {
	out, err := MockLLM{}.Complete(context.Background(), BuildReviewPrompt(ReviewContext{BusinessName: "Joe's Diner", Platform: "TripAdvisor"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "I had a great experience with Joe's Diner."))
}
