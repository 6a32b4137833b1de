package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Agent drafts reviews and fixes grammar on behalf of page visitors.
type Agent struct {
	llm     LLMClient
	timeout time.Duration
}

// DefaultTimeout bounds one model call.
const DefaultTimeout = 30 * time.Second

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, timeout: DefaultTimeout}, nil
}

// Generate returns a review draft for rc. Non-empty rc.Previous turns the call
// into a regeneration.
func (a *Agent) Generate(ctx context.Context, rc ReviewContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.llm.Complete(ctx, BuildReviewPrompt(rc))
	if err != nil {
		return "", err
	}
	text, err := PostProcess(raw, rc.TargetWords)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("platform", rc.Platform).
		Int("previous", len(rc.Previous)).
		Dur("took", time.Since(start)).
		Msg("review draft generated")
	return text, nil
}

// FixGrammar returns text with spelling and grammar corrected. Blank input is
// returned unchanged without a model call.
func (a *Agent) FixGrammar(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.llm.Complete(ctx, BuildGrammarPrompt(text))
	if err != nil {
		return "", err
	}
	return PostProcess(raw, 0)
}
