// Package events publishes studio notifications after state has been saved.
package events

import (
	"context"
	"time"
)

const (
	TopicPageSaved          = "studio.page.saved"
	TopicPagePublished      = "studio.page.published"
	TopicKickstarterCreated = "studio.kickstarter.created"
	TopicKickstarterDeleted = "studio.kickstarter.deleted"
)

type PageSaved struct {
	PageID  string    `json:"page_id"`
	Slug    string    `json:"slug"`
	Mode    string    `json:"mode"`
	SavedAt time.Time `json:"saved_at"`
}

type PagePublished struct {
	PageID string `json:"page_id"`
	Slug   string `json:"slug"`
	// URL is where the public page was uploaded, when a publisher is configured.
	URL string `json:"url,omitempty"`
}

type KickstarterCreated struct {
	AccountID string `json:"account_id"`
	ItemID    string `json:"item_id"`
	Category  string `json:"category"`
}

type KickstarterDeleted struct {
	AccountID string `json:"account_id"`
	ItemID    string `json:"item_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
