// Package store defines the persistence contract for prompt pages and custom
// kickstarter items. A page is stored as one opaque record keyed by page id.
package store

import (
	"context"
	"errors"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

// ErrNotFound is returned by Load for unknown page ids.
var ErrNotFound = errors.New("page not found")

// Pages loads and saves whole page records.
type Pages interface {
	Load(ctx context.Context, pageID string) (pageconfig.Record, error)
	Save(ctx context.Context, pageID string, rec pageconfig.Record) error
}

// Store is everything the studio persists.
type Store interface {
	Pages
	kickstarters.CustomStore
	Close() error
}
