package features

import (
	"strings"

	"prompt_page_studio/pageconfig"
)

// NotePatch updates the personalized note.
type NotePatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Text    *string `json:"text,omitempty"`
}

func (NotePatch) Feature() Key { return KeyNote }

// Note is the personalized note module.
type Note struct{}

func (Note) Key() Key { return KeyNote }
func (Note) Group() Group { return GroupIntro }
func (Note) Enabled(cfg *pageconfig.Config) bool { return cfg.Note.Enabled }

func (Note) Enables(cfg *pageconfig.Config, p Patch) bool {
	np, ok := p.(NotePatch)
	return ok && enables(cfg.Note.Enabled, np.Enabled)
}

func (Note) Apply(cfg *pageconfig.Config, p Patch, _ Env) error {
	np, ok := p.(NotePatch)
	if !ok {
		return mismatch(KeyNote, p)
	}
	if np.Enabled != nil {
		cfg.Note.Enabled = *np.Enabled
	}
	if np.Text != nil {
		cfg.Note.Text = *np.Text
	}
	return nil
}

func (Note) Validate(cfg *pageconfig.Config, _ Env) []Violation {
	if cfg.Note.Enabled && strings.TrimSpace(cfg.Note.Text) == "" {
		return []Violation{{Feature: KeyNote, Field: "text", Message: "a personalized note needs some text"}}
	}
	return nil
}

// SentimentPatch updates the emoji sentiment flow.
type SentimentPatch struct {
	Enabled        *bool   `json:"enabled,omitempty"`
	Question       *string `json:"question,omitempty"`
	FeedbackPrompt *string `json:"feedback_prompt,omitempty"`
	ThankYouText   *string `json:"thank_you_text,omitempty"`
	PopupHeader    *string `json:"popup_header,omitempty"`
	PageHeader     *string `json:"page_header,omitempty"`
}

func (SentimentPatch) Feature() Key { return KeySentiment }

// Sentiment is the emoji sentiment flow module. Its sub-config also feeds the
// embeddable widget.
type Sentiment struct{}

func (Sentiment) Key() Key { return KeySentiment }
func (Sentiment) Group() Group { return GroupIntro }
func (Sentiment) Enabled(cfg *pageconfig.Config) bool { return cfg.Sentiment.Enabled }

func (Sentiment) Enables(cfg *pageconfig.Config, p Patch) bool {
	sp, ok := p.(SentimentPatch)
	return ok && enables(cfg.Sentiment.Enabled, sp.Enabled)
}

func (Sentiment) Apply(cfg *pageconfig.Config, p Patch, _ Env) error {
	sp, ok := p.(SentimentPatch)
	if !ok {
		return mismatch(KeySentiment, p)
	}
	s := &cfg.Sentiment
	if sp.Enabled != nil {
		s.Enabled = *sp.Enabled
	}
	setString(&s.Question, sp.Question)
	setString(&s.FeedbackPrompt, sp.FeedbackPrompt)
	setString(&s.ThankYouText, sp.ThankYouText)
	setString(&s.PopupHeader, sp.PopupHeader)
	setString(&s.PageHeader, sp.PageHeader)
	return nil
}

func (Sentiment) Validate(cfg *pageconfig.Config, _ Env) []Violation {
	if !cfg.Sentiment.Enabled {
		return nil
	}
	var out []Violation
	if strings.TrimSpace(cfg.Sentiment.Question) == "" {
		out = append(out, Violation{Feature: KeySentiment, Field: "question", Message: "the sentiment question is required"})
	}
	if strings.TrimSpace(cfg.Sentiment.ThankYouText) == "" {
		out = append(out, Violation{Feature: KeySentiment, Field: "thank_you_text", Message: "a thank-you message is required"})
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
