package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"prompt_page_studio/features"
	"prompt_page_studio/idgen"
	"prompt_page_studio/pageconfig"
)

// Mode selects what a submit does beyond writing the record.
type Mode string

const (
	ModeSave    Mode = "save"
	ModePublish Mode = "publish"
)

// ParseMode validates s as a submit mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSave:
		return ModeSave, nil
	case ModePublish:
		return ModePublish, nil
	}
	return "", fmt.Errorf("unknown submit mode %q", s)
}

// ErrSubmitInFlight is returned when a submit is already waiting on the store.
var ErrSubmitInFlight = errors.New("a save is already in progress")

// ValidationError lists why a submit was refused. Nothing was written.
type ValidationError struct {
	Violations []features.Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "page is not valid: " + strings.Join(msgs, "; ")
}

// PersistenceError wraps a store failure. The session config is unchanged, so
// the same submit can simply be retried.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "could not save page, please try again: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Retryable() bool { return true }

// Receipt describes a successful submit.
type Receipt struct {
	PageID  string            `json:"page_id"`
	Mode    Mode              `json:"mode"`
	Config  pageconfig.Config `json:"config"`
	Record  pageconfig.Record `json:"-"`
	SavedAt time.Time         `json:"saved_at"`
	// HookError is the after-publish failure, if any. The record was saved.
	HookError string `json:"hook_error,omitempty"`
}

// Submit validates the session config and writes it as one record. The
// engine lock is not held while the store works; a second Submit in that
// window gets ErrSubmitInFlight. Only bookkeeping fields (slug, timestamps,
// active flag) are copied back into the session after the write succeeds.
func (e *Engine) Submit(ctx context.Context, mode Mode) (Receipt, error) {
	if mode != ModeSave && mode != ModePublish {
		return Receipt{}, fmt.Errorf("unknown submit mode %q", mode)
	}
	if !e.submitting.CompareAndSwap(false, true) {
		return Receipt{}, ErrSubmitInFlight
	}
	defer e.submitting.Store(false)

	r, version, err := e.prepare(mode)
	if err != nil {
		e.deps.Observer.Submitted(mode, err)
		return Receipt{}, err
	}

	if err := e.deps.Pages.Save(ctx, e.pageID, r.Record); err != nil {
		log.Warn().Err(err).Str("page_id", e.pageID).Str("mode", string(mode)).Msg("page save failed")
		perr := &PersistenceError{Err: err}
		e.deps.Observer.Submitted(mode, perr)
		return Receipt{}, perr
	}

	e.mu.Lock()
	e.cfg.Slug = r.Config.Slug
	e.cfg.CreatedAt = r.Config.CreatedAt
	e.cfg.UpdatedAt = r.Config.UpdatedAt
	e.cfg.IsActive = r.Config.IsActive
	e.saved = version
	e.mu.Unlock()

	e.deps.Observer.Submitted(mode, nil)
	log.Info().Str("page_id", e.pageID).Str("slug", r.Config.Slug).Str("mode", string(mode)).Msg("page saved")

	if e.deps.AfterSave != nil {
		e.deps.AfterSave(ctx, r)
	}
	if mode == ModePublish && e.deps.AfterPublish != nil {
		if err := e.deps.AfterPublish(ctx, r); err != nil {
			log.Error().Err(err).Str("page_id", e.pageID).Msg("after publish failed")
			r.HookError = err.Error()
		}
	}
	return r, nil
}

// prepare validates and builds the record to write from a clone of the
// session config.
func (e *Engine) prepare(mode Mode) (Receipt, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if v := e.deps.Registry.Validate(&e.cfg, e.env()); len(v) > 0 {
		e.deps.Observer.ValidationFailed(len(v))
		return Receipt{}, 0, &ValidationError{Violations: v}
	}

	next := e.cfg.Clone()
	now := e.deps.Now().UTC()
	if next.Slug == "" {
		slug, err := idgen.Slug(next.BusinessName)
		if err != nil {
			return Receipt{}, 0, fmt.Errorf("generate slug: %w", err)
		}
		next.Slug = slug
	}
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	if mode == ModePublish {
		next.IsActive = true
	}
	rec, err := pageconfig.Encode(next)
	if err != nil {
		return Receipt{}, 0, err
	}
	return Receipt{PageID: e.pageID, Mode: mode, Config: next, Record: rec, SavedAt: now}, e.version, nil
}
