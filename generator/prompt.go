package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message set sent to the model.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message is one prior exchange (optional).
type Message struct {
	Role    string
	Content string
}

const reviewSystem = "You write short, genuine customer reviews in the first person. " +
	"Output only the review text: no title, no quotes, no hashtags, no emoji."

// BuildReviewPrompt asks for a review draft. Previous drafts are replayed as
// assistant turns so the model produces something different.
func BuildReviewPrompt(rc ReviewContext) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write a review of %s", nonEmpty(rc.BusinessName, "this business")))
	if rc.Platform != "" {
		sb.WriteString(fmt.Sprintf(" to post on %s", rc.Platform))
	}
	sb.WriteString(".\n")
	if rc.TargetWords > 0 {
		sb.WriteString(fmt.Sprintf("- Aim for about %d words.\n", rc.TargetWords))
	}
	if len(rc.Prompts) > 0 {
		sb.WriteString("- Let these questions inspire the content:\n")
		for _, p := range rc.Prompts {
			sb.WriteString(fmt.Sprintf("  - %s\n", p))
		}
	}
	if notes := strings.TrimSpace(rc.Notes); notes != "" {
		sb.WriteString(fmt.Sprintf("- Context from the business: %s\n", notes))
	}

	var history []Message
	if len(rc.Previous) > 0 {
		sb.WriteString("- Write a new version that does not reuse the wording of earlier drafts.\n")
		for _, prev := range rc.Previous {
			history = append(history,
				Message{Role: "user", Content: "Draft a review."},
				Message{Role: "assistant", Content: prev},
			)
		}
	}

	return Prompt{
		System:  reviewSystem,
		User:    sb.String(),
		History: history,
	}
}

// BuildGrammarPrompt asks for a minimal spelling and grammar correction.
func BuildGrammarPrompt(text string) Prompt {
	return Prompt{
		System: "You are a careful copy editor. Fix spelling, grammar and punctuation only. " +
			"Keep the author's words, tone and length. Output only the corrected text.",
		User: text,
	}
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
