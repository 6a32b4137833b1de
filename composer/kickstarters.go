package composer

import (
	"context"

	"github.com/rs/zerolog/log"

	"prompt_page_studio/features"
	"prompt_page_studio/kickstarters"
)

// ToggleKickstarter selects or deselects one catalog item.
func (e *Engine) ToggleKickstarter(id string) (Outcome, error) {
	return e.Update(features.KeyKickstarters, features.KickstartersPatch{Toggle: id})
}

// CreateKickstarter adds a custom question to the catalog and, when selectAfter
// is set, selects it. Creating and selecting are separate steps; with
// selectAfter the selection cap is checked first so a full page leaves the
// catalog unchanged, and the new item is removed again if selecting it fails.
func (e *Engine) CreateKickstarter(ctx context.Context, question string, category kickstarters.Category, selectAfter bool) (kickstarters.Item, error) {
	if e.deps.Catalog == nil {
		return kickstarters.Item{}, features.ErrNoCatalog
	}
	if selectAfter {
		e.mu.Lock()
		full := len(e.cfg.Kickstarters.SelectedIDs) >= e.deps.Catalog.Limits().SelectionCap
		e.mu.Unlock()
		if full {
			return kickstarters.Item{}, kickstarters.ErrCapacity
		}
	}

	var (
		item kickstarters.Item
		err  error
	)
	if e.deps.Loader != nil {
		item, err = e.deps.Loader.Create(ctx, e.deps.AccountID, e.deps.Catalog, question, category)
	} else {
		item, err = e.deps.Catalog.CreateCustom(question, category)
	}
	if err != nil {
		return kickstarters.Item{}, err
	}
	if selectAfter {
		if _, err := e.ToggleKickstarter(item.ID); err != nil {
			// The cap check above ran unlocked; a concurrent toggle may have
			// filled the page since.
			e.removeCustom(ctx, item.ID)
			return kickstarters.Item{}, err
		}
	}
	return item, nil
}

func (e *Engine) removeCustom(ctx context.Context, id string) {
	var err error
	if e.deps.Loader != nil {
		err = e.deps.Loader.Delete(ctx, e.deps.AccountID, e.deps.Catalog, id)
	} else {
		err = e.deps.Catalog.DeleteCustom(id)
	}
	if err != nil {
		log.Error().Err(err).Str("item", id).Msg("kickstarter rollback failed")
	}
}

// DeleteKickstarter deselects a custom item from this page and removes it from
// the catalog.
func (e *Engine) DeleteKickstarter(ctx context.Context, id string) error {
	if e.deps.Catalog == nil {
		return features.ErrNoCatalog
	}
	if it, ok := e.deps.Catalog.Get(id); ok && it.IsDefault {
		return kickstarters.ErrImmutable
	}
	e.mu.Lock()
	selected := e.cfg.Kickstarters.Contains(id)
	e.mu.Unlock()
	if selected {
		if _, err := e.ToggleKickstarter(id); err != nil {
			return err
		}
	}
	if e.deps.Loader != nil {
		return e.deps.Loader.Delete(ctx, e.deps.AccountID, e.deps.Catalog, id)
	}
	return e.deps.Catalog.DeleteCustom(id)
}

// KickstarterExample is the question shown in the page preview.
func (e *Engine) KickstarterExample() (string, error) {
	if e.deps.Catalog == nil {
		return "", features.ErrNoCatalog
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return kickstarters.ExampleForPreview(e.cfg.Kickstarters.SelectedIDs, e.deps.Catalog, e.cfg.BusinessName, e.deps.Now()), nil
}
