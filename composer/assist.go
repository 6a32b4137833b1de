package composer

import (
	"context"
	"fmt"

	"prompt_page_studio/generator"
	"prompt_page_studio/kickstarters"
)

// Generate asks the assistant for a review draft for the platform at index.
// Drafts are remembered per platform for the session, and each regeneration
// sends the earlier ones so the new draft differs.
func (e *Engine) Generate(ctx context.Context, index int) (string, error) {
	rc, key, err := e.reviewContext(index)
	if err != nil {
		return "", err
	}
	text, err := e.deps.Assistant.Generate(ctx, rc)
	e.deps.Observer.Generated(err)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.drafts[key] = append(e.drafts[key], generator.Turn{Platform: key, Text: text, CreatedAt: e.deps.Now()})
	e.mu.Unlock()
	return text, nil
}

func (e *Engine) reviewContext(index int) (generator.ReviewContext, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.AIAssist.GenerationEnabled {
		return generator.ReviewContext{}, "", ErrAssistDisabled
	}
	if e.deps.Assistant == nil {
		return generator.ReviewContext{}, "", ErrNoAssistant
	}
	if index < 0 || index >= len(e.cfg.Platforms) {
		return generator.ReviewContext{}, "", fmt.Errorf("%w: index %d", ErrPlatformNotFound, index)
	}
	p := e.cfg.Platforms[index]
	key := p.DisplayName()

	rc := generator.ReviewContext{
		BusinessName: e.cfg.BusinessName,
		Platform:     key,
		TargetWords:  p.TargetWordCount,
	}
	if e.cfg.Kickstarters.Enabled && e.deps.Catalog != nil {
		for _, id := range e.cfg.Kickstarters.SelectedIDs {
			if it, ok := e.deps.Catalog.Get(id); ok {
				rc.Prompts = append(rc.Prompts, kickstarters.Render(it, e.cfg.BusinessName))
			}
		}
	}
	if e.cfg.Note.Enabled {
		rc.Notes = e.cfg.Note.Text
	}
	for _, t := range e.drafts[key] {
		rc.Previous = append(rc.Previous, t.Text)
	}
	return rc, key, nil
}

// Drafts returns the drafts generated for a platform in this session.
func (e *Engine) Drafts(platform string) []generator.Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]generator.Turn(nil), e.drafts[platform]...)
}

// FixGrammar runs the grammar fixer when the page allows it.
func (e *Engine) FixGrammar(ctx context.Context, text string) (string, error) {
	e.mu.Lock()
	enabled := e.cfg.AIAssist.GrammarFixEnabled
	e.mu.Unlock()
	if !enabled {
		return "", ErrAssistDisabled
	}
	if e.deps.Assistant == nil {
		return "", ErrNoAssistant
	}
	return e.deps.Assistant.FixGrammar(ctx, text)
}
