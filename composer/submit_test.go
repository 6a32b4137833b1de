package composer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt_page_studio/features"
	"prompt_page_studio/pageconfig"
	"prompt_page_studio/store"
)

type countingObserver struct {
	conflicts int
	invalid   int
	submits   map[Mode][]error
	generated int
}

func (o *countingObserver) Conflict(features.Key) { o.conflicts++ }
func (o *countingObserver) ValidationFailed(int) { o.invalid++ }
func (o *countingObserver) Generated(error) { o.generated++ }

func (o *countingObserver) Submitted(m Mode, err error) {
	if o.submits == nil {
		o.submits = map[Mode][]error{}
	}
	o.submits[m] = append(o.submits[m], err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Publish ")
	require.NoError(t, err)
	assert.Equal(t, ModePublish, m)
	_, err = ParseMode("draft")
	assert.Error(t, err)
}

func TestSubmit_ValidationFailureWritesNothing(t *testing.T) {
	obs := &countingObserver{}
	e, pages := newEngine(t, func(d *Deps) { d.Observer = obs })
	_, err := e.Update(features.KeyNote, features.NotePatch{Enabled: on()})
	require.NoError(t, err)

	_, err = e.Submit(context.Background(), ModeSave)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "text", verr.Violations[0].Field)
	assert.Contains(t, err.Error(), "note.text")
	assert.Zero(t, pages.calls)
	assert.Equal(t, 1, obs.invalid)

	_, err = pages.Load(context.Background(), "page-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_SaveFillsBookkeeping(t *testing.T) {
	e, pages := newEngine(t)
	e.SetBusinessName("  Acme Plumbing ")
	require.True(t, e.Dirty())

	r, err := e.Submit(context.Background(), ModeSave)
	require.NoError(t, err)
	assert.Equal(t, ModeSave, r.Mode)
	assert.Regexp(t, `^acme-plumbing-[a-z0-9]{6}$`, r.Config.Slug)
	assert.Equal(t, fixedNow, r.Config.CreatedAt)
	assert.Equal(t, fixedNow, r.Config.UpdatedAt)
	assert.False(t, r.Config.IsActive)
	assert.False(t, e.Dirty())

	snap := e.Snapshot()
	assert.Equal(t, r.Config.Slug, snap.Slug)
	assert.Equal(t, "Acme Plumbing", snap.BusinessName)

	rec, err := pages.Load(context.Background(), "page-1")
	require.NoError(t, err)
	stored, err := pageconfig.Hydrate(rec)
	require.NoError(t, err)
	assert.Equal(t, snap.Slug, stored.Slug)
}

func TestSubmit_PersistenceFailureKeepsStateAndRetries(t *testing.T) {
	obs := &countingObserver{}
	e, pages := newEngine(t, func(d *Deps) { d.Observer = obs })
	pages.fails = 1
	_, err := e.Update(features.KeyOffer, features.OfferPatch{Enabled: on(), Title: str("Free coffee"), URL: str("https://acme.test/offer")})
	require.NoError(t, err)
	before := e.Snapshot()

	_, err = e.Submit(context.Background(), ModePublish)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Retryable())
	assert.Equal(t, before, e.Snapshot(), "failed save must not touch the session")
	assert.True(t, e.Dirty())

	r, err := e.Submit(context.Background(), ModePublish)
	require.NoError(t, err)
	assert.True(t, r.Config.IsActive)
	assert.True(t, e.Snapshot().IsActive)
	assert.Equal(t, "Free coffee", r.Config.Offer.Title)
	assert.Equal(t, 2, pages.calls)
	require.Len(t, obs.submits[ModePublish], 2)
	assert.Error(t, obs.submits[ModePublish][0])
	assert.NoError(t, obs.submits[ModePublish][1])
}

func TestSubmit_KeepsCreatedAtAndSlugOnResave(t *testing.T) {
	clock := fixedNow
	e, _ := newEngine(t, func(d *Deps) { d.Now = func() time.Time { return clock } })
	first, err := e.Submit(context.Background(), ModeSave)
	require.NoError(t, err)
	assert.Regexp(t, `^[a-z0-9]{10}$`, first.Config.Slug)

	clock = clock.Add(time.Hour)
	second, err := e.Submit(context.Background(), ModeSave)
	require.NoError(t, err)
	assert.Equal(t, first.Config.Slug, second.Config.Slug)
	assert.Equal(t, fixedNow, second.Config.CreatedAt)
	assert.Equal(t, fixedNow.Add(time.Hour), second.Config.UpdatedAt)
}

func TestSubmit_AtMostOneInFlight(t *testing.T) {
	e, pages := newEngine(t)
	pages.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background(), ModeSave)
		done <- err
	}()
	require.Eventually(t, func() bool {
		pages.mu.Lock()
		defer pages.mu.Unlock()
		return pages.calls == 1
	}, time.Second, time.Millisecond)

	_, err := e.Submit(context.Background(), ModeSave)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	// the session stays editable while the store works
	out, err := e.Update(features.KeyNote, features.NotePatch{Text: str("edited during save")})
	require.NoError(t, err)
	assert.True(t, out.Applied)

	close(pages.gate)
	require.NoError(t, <-done)
	assert.True(t, e.Dirty(), "edits made during the save are still unsaved")
	assert.Equal(t, "edited during save", e.Snapshot().Note.Text)
}

func TestSubmit_Hooks(t *testing.T) {
	var saved []Mode
	var published []string
	hookErr := errors.New("cdn down")
	e, _ := newEngine(t, func(d *Deps) {
		d.AfterSave = func(_ context.Context, r Receipt) { saved = append(saved, r.Mode) }
		d.AfterPublish = func(_ context.Context, r Receipt) error {
			published = append(published, r.Config.Slug)
			return hookErr
		}
	})

	_, err := e.Submit(context.Background(), ModeSave)
	require.NoError(t, err)
	assert.Empty(t, published)

	r, err := e.Submit(context.Background(), ModePublish)
	require.NoError(t, err)
	assert.Equal(t, []Mode{ModeSave, ModePublish}, saved)
	assert.Equal(t, []string{r.Config.Slug}, published)
	assert.Equal(t, "cdn down", r.HookError)
}

func TestSubmit_UnknownMode(t *testing.T) {
	e, pages := newEngine(t)
	_, err := e.Submit(context.Background(), Mode("draft"))
	assert.Error(t, err)
	assert.Zero(t, pages.calls)
}
