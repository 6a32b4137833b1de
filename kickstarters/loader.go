package kickstarters

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// CustomStore persists an account's custom items.
type CustomStore interface {
	ListCustomItems(ctx context.Context, accountID string) ([]Item, error)
	SaveCustomItem(ctx context.Context, accountID string, item Item) error
	DeleteCustomItem(ctx context.Context, accountID, itemID string) error
}

// Loader fills a catalog from a CustomStore. At most one load runs at a time.
type Loader struct {
	store    CustomStore
	inFlight atomic.Bool
}

func NewLoader(store CustomStore) *Loader {
	return &Loader{store: store}
}

// Load merges the account's persisted custom items into catalog in place and
// returns how many were new.
func (l *Loader) Load(ctx context.Context, accountID string, catalog *Catalog) (int, error) {
	if !l.inFlight.CompareAndSwap(false, true) {
		return 0, ErrLoadInFlight
	}
	defer l.inFlight.Store(false)

	items, err := l.store.ListCustomItems(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("load kickstarter catalog: %w", err)
	}
	added := catalog.AddCustom(items...)
	if skipped := len(items) - added; skipped > 0 {
		log.Debug().Str("account_id", accountID).Int("skipped", skipped).Msg("kickstarter items already loaded or invalid")
	}
	return added, nil
}

// Create adds a custom item to catalog and persists it. The in-memory item is
// rolled back when the store write fails.
func (l *Loader) Create(ctx context.Context, accountID string, catalog *Catalog, question string, category Category) (Item, error) {
	item, err := catalog.CreateCustom(question, category)
	if err != nil {
		return Item{}, err
	}
	if err := l.store.SaveCustomItem(ctx, accountID, item); err != nil {
		_ = catalog.DeleteCustom(item.ID)
		return Item{}, fmt.Errorf("save kickstarter: %w", err)
	}
	return item, nil
}

// Delete removes a custom item from the store and from catalog.
func (l *Loader) Delete(ctx context.Context, accountID string, catalog *Catalog, itemID string) error {
	it, ok := catalog.Get(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if it.IsDefault {
		return ErrImmutable
	}
	if err := l.store.DeleteCustomItem(ctx, accountID, itemID); err != nil {
		return fmt.Errorf("delete kickstarter: %w", err)
	}
	return catalog.DeleteCustom(itemID)
}
