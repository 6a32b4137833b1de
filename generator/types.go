package generator

import "time"

// ReviewContext describes the review a visitor is about to post. It is the
// "context" handed to the AI collaborator.
type ReviewContext struct {
	BusinessName string
	Platform     string
	// TargetWords is the desired review length; zero means the model decides.
	TargetWords int
	// Prompts are kickstarter questions already rendered with the business name.
	Prompts []string
	// Notes is free text from the page owner (services, tone, things to mention).
	Notes string
	// Previous drafts for the same platform; a regeneration must not repeat them.
	Previous []string
}

// Turn records one generated draft.
type Turn struct {
	Platform  string    `json:"platform"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
