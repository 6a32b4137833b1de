// Package composer hosts the feature modules of one prompt page during an edit
// session. The Engine is the single writer of the page config: every change
// goes through a feature module, conflicts inside exclusivity groups are
// rejected, and save/publish writes the whole record at once.
package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"prompt_page_studio/features"
	"prompt_page_studio/generator"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
	"prompt_page_studio/store"
)

// Assistant is the AI-assist collaborator.
type Assistant interface {
	Generate(ctx context.Context, rc generator.ReviewContext) (string, error)
	FixGrammar(ctx context.Context, text string) (string, error)
}

// Observer receives engine outcomes, typically for metrics.
type Observer interface {
	Conflict(feature features.Key)
	ValidationFailed(violations int)
	Submitted(mode Mode, err error)
	Generated(err error)
}

type nopObserver struct{}

func (nopObserver) Conflict(features.Key) {}
func (nopObserver) ValidationFailed(int) {}
func (nopObserver) Submitted(Mode, error) {}
func (nopObserver) Generated(error) {}

// Deps are the engine's collaborators. Only Pages is required.
type Deps struct {
	Pages    store.Pages
	Registry *features.Registry
	Catalog  *kickstarters.Catalog
	// Loader persists custom kickstarters; without it they live in Catalog only.
	Loader    *kickstarters.Loader
	AccountID string
	Assistant Assistant
	// AfterSave runs after every successful save, in both modes.
	AfterSave func(ctx context.Context, r Receipt)
	// AfterPublish runs after a successful publish.
	AfterPublish func(ctx context.Context, r Receipt) error
	Observer     Observer
	Now          func() time.Time
}

// Engine owns one page config for the length of an edit session.
type Engine struct {
	pageID string
	deps   Deps

	mu       sync.Mutex
	cfg      pageconfig.Config
	hydrated bool
	edited   bool
	// version counts applied updates; a save only clears dirty when no update
	// landed while it was in flight.
	version uint64
	saved   uint64
	drafts  map[string][]generator.Turn

	submitting atomic.Bool
}

// Outcome reports what an update did. A conflict is a normal outcome.
type Outcome struct {
	Applied  bool                    `json:"applied"`
	Conflict *features.ConflictError `json:"conflict,omitempty"`
}

var (
	ErrAssistDisabled   = errors.New("ai assist is turned off for this page")
	ErrNoAssistant      = errors.New("no ai assistant configured")
	ErrSentimentOff     = errors.New("the sentiment flow is turned off for this page")
	ErrPlatformNotFound = errors.New("platform not found")
	// ErrNotSaved is returned for embed markup on a page without a slug; its
	// links would have no destination.
	ErrNotSaved = errors.New("save the page before generating embed markup")
)

// New starts a session for pageID from the built-in defaults.
func New(pageID string, deps Deps) (*Engine, error) {
	if deps.Pages == nil {
		return nil, errors.New("composer: page store is required")
	}
	if deps.Registry == nil {
		deps.Registry = features.Standard()
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{
		pageID: pageID,
		deps:   deps,
		cfg:    pageconfig.Defaults(),
		drafts: make(map[string][]generator.Turn),
	}, nil
}

// Open starts a session and hydrates it from the store. A missing page starts
// from defaults.
func Open(ctx context.Context, pageID string, deps Deps) (*Engine, error) {
	e, err := New(pageID, deps)
	if err != nil {
		return nil, err
	}
	rec, err := deps.Pages.Load(ctx, pageID)
	if errors.Is(err, store.ErrNotFound) {
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", pageID, err)
	}
	if _, err := e.Hydrate(rec); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) PageID() string { return e.pageID }

func (e *Engine) env() features.Env {
	return features.Env{Catalog: e.deps.Catalog, Now: e.deps.Now}
}

// Hydrate merges rec over the defaults and replaces the session config. Once
// an update has been applied later hydrations are ignored and Hydrate reports
// false, so late-arriving data never overwrites edits.
func (e *Engine) Hydrate(rec pageconfig.Record) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edited {
		log.Debug().Str("page_id", e.pageID).Msg("hydration ignored after edits")
		return false, nil
	}
	cfg, err := pageconfig.Hydrate(rec)
	if err != nil {
		return false, err
	}
	e.cfg = cfg
	e.hydrated = true
	return true, nil
}

// Update applies p to the feature named key. Enabling a feature while another
// member of its group is on returns a conflict outcome and changes nothing.
func (e *Engine) Update(key features.Key, p features.Patch) (Outcome, error) {
	m, ok := e.deps.Registry.Module(key)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", features.ErrUnknownFeature, key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if m.Enables(&e.cfg, p) {
		if with := e.deps.Registry.Conflicts(&e.cfg, m); len(with) > 0 {
			e.deps.Observer.Conflict(key)
			return Outcome{Conflict: &features.ConflictError{Feature: key, Group: m.Group(), With: with}}, nil
		}
	}
	next := e.cfg.Clone()
	if err := m.Apply(&next, p, e.env()); err != nil {
		return Outcome{}, err
	}
	e.cfg = next
	e.edited = true
	e.version++
	return Outcome{Applied: true}, nil
}

// Validate returns every violation in feature order; empty means valid.
func (e *Engine) Validate() []features.Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deps.Registry.Validate(&e.cfg, e.env())
}

// SetBusinessName changes the name interpolated into kickstarters and drafts.
// It is page bookkeeping rather than a feature, but counts as an edit.
func (e *Engine) SetBusinessName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.BusinessName = strings.TrimSpace(name)
	e.edited = true
	e.version++
}

// Snapshot returns a copy of the live config.
func (e *Engine) Snapshot() pageconfig.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

// Dirty reports whether updates were applied since the last successful save.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version != e.saved
}

// Hydrated reports whether a persisted record has been merged in.
func (e *Engine) Hydrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hydrated
}
