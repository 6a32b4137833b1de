package pageconfig

import (
	"sort"
	"time"
)

// Config describes one prompt page: every feature's flag and parameters plus
// bookkeeping. It is plain data; behaviour lives in the features package.
type Config struct {
	Slug         string    `json:"slug"`
	BusinessName string    `json:"business_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Note             NoteSettings        `json:"note"`
	Sentiment        SentimentSettings   `json:"sentiment"`
	FallingAnimation FallingSettings     `json:"falling_animation"`
	AIAssist         AIAssistSettings    `json:"ai_assist"`
	Offer            OfferSettings       `json:"offer"`
	Platforms        []Platform          `json:"platforms"`
	Kickstarters     KickstarterSettings `json:"kickstarters"`
}

// NoteSettings is the personalized note shown above the review flow.
type NoteSettings struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

// SentimentSettings drives the emoji sentiment flow and the embeddable widget.
type SentimentSettings struct {
	Enabled        bool   `json:"enabled"`
	Question       string `json:"question"`
	FeedbackPrompt string `json:"feedback_prompt"`
	ThankYouText   string `json:"thank_you_text"`
	PopupHeader    string `json:"popup_header"`
	PageHeader     string `json:"page_header"`
}

type FallingSettings struct {
	Enabled  bool   `json:"enabled"`
	IconKey  string `json:"icon_key"`
	ColorHex string `json:"color_hex"`
}

type AIAssistSettings struct {
	GenerationEnabled bool `json:"generation_enabled"`
	GrammarFixEnabled bool `json:"grammar_fix_enabled"`
}

type OfferSettings struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	URL     string `json:"url"`
}

// Platform is one review destination (Google, Yelp, ...).
type Platform struct {
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	TargetWordCount int        `json:"target_word_count"`
	CustomName      string     `json:"custom_name,omitempty"`
	Verified        bool       `json:"verified"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

// DisplayName prefers the custom name when one is set.
func (p Platform) DisplayName() string {
	if p.CustomName != "" {
		return p.CustomName
	}
	return p.Name
}

// KickstarterSettings holds the selected catalog item ids. SelectedIDs is a set;
// Normalize keeps it sorted and free of duplicates.
type KickstarterSettings struct {
	Enabled     bool     `json:"enabled"`
	SelectedIDs []string `json:"selected_ids"`
}

// Contains reports whether id is selected.
func (k KickstarterSettings) Contains(id string) bool {
	for _, s := range k.SelectedIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Normalize sorts and de-duplicates SelectedIDs in place.
func (k *KickstarterSettings) Normalize() {
	if len(k.SelectedIDs) == 0 {
		k.SelectedIDs = nil
		return
	}
	sort.Strings(k.SelectedIDs)
	out := k.SelectedIDs[:1]
	for _, id := range k.SelectedIDs[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	k.SelectedIDs = out
}

// Clone returns a deep copy that shares no slices or pointers with c.
func (c Config) Clone() Config {
	out := c
	if c.Platforms != nil {
		out.Platforms = make([]Platform, len(c.Platforms))
		for i, p := range c.Platforms {
			if p.VerifiedAt != nil {
				t := *p.VerifiedAt
				p.VerifiedAt = &t
			}
			out.Platforms[i] = p
		}
	}
	if c.Kickstarters.SelectedIDs != nil {
		out.Kickstarters.SelectedIDs = append([]string(nil), c.Kickstarters.SelectedIDs...)
	}
	return out
}
