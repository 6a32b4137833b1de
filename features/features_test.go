package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

func ptr[T any](v T) *T { return &v }

func TestStandardRegistry(t *testing.T) {
	r := Standard()
	mods := r.Modules()
	require.Len(t, mods, len(Keys()))
	for i, k := range Keys() {
		assert.Equal(t, k, mods[i].Key())
		m, ok := r.Module(k)
		require.True(t, ok)
		assert.Equal(t, k, m.Key())
	}
	_, err := NewRegistry(Note{}, Note{})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("falling_animation")
	require.NoError(t, err)
	assert.Equal(t, KeyFallingAnimation, k)
	_, err = ParseKey("confetti")
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestConflicts_IntroGroup(t *testing.T) {
	r := Standard()
	cfg := pageconfig.Defaults()
	note, _ := r.Module(KeyNote)
	sentiment, _ := r.Module(KeySentiment)
	offer, _ := r.Module(KeyOffer)

	assert.Empty(t, r.Conflicts(&cfg, note))
	cfg.Sentiment.Enabled = true
	assert.Equal(t, []Key{KeySentiment}, r.Conflicts(&cfg, note))
	assert.Empty(t, r.Conflicts(&cfg, sentiment))
	assert.Empty(t, r.Conflicts(&cfg, offer))
}

func TestEnables(t *testing.T) {
	cfg := pageconfig.Defaults()
	assert.True(t, Note{}.Enables(&cfg, NotePatch{Enabled: ptr(true)}))
	assert.False(t, Note{}.Enables(&cfg, NotePatch{Text: ptr("x")}))
	assert.False(t, Note{}.Enables(&cfg, SentimentPatch{Enabled: ptr(true)}))
	cfg.Note.Enabled = true
	assert.False(t, Note{}.Enables(&cfg, NotePatch{Enabled: ptr(true)}), "already enabled")

	cfg.AIAssist = pageconfig.AIAssistSettings{}
	assert.True(t, AIAssist{}.Enables(&cfg, AIAssistPatch{GrammarFixEnabled: ptr(true)}))
	assert.False(t, Platforms{}.Enables(&cfg, PlatformsPatch{Op: OpAdd}))
}

func TestApply_Mismatch(t *testing.T) {
	cfg := pageconfig.Defaults()
	for _, m := range Standard().Modules() {
		err := m.Apply(&cfg, wrongPatch(m.Key()), Env{})
		assert.ErrorIs(t, err, ErrPatchMismatch, m.Key())
	}
}

func wrongPatch(k Key) Patch {
	if k == KeyNote {
		return OfferPatch{}
	}
	return NotePatch{}
}

func TestNoteAndSentiment(t *testing.T) {
	cfg := pageconfig.Defaults()
	require.NoError(t, Note{}.Apply(&cfg, NotePatch{Enabled: ptr(true)}, Env{}))
	v := Note{}.Validate(&cfg, Env{})
	require.Len(t, v, 1)
	assert.Equal(t, "note.text: a personalized note needs some text", v[0].String())

	require.NoError(t, Note{}.Apply(&cfg, NotePatch{Text: ptr("Thanks, Sam!")}, Env{}))
	assert.Empty(t, Note{}.Validate(&cfg, Env{}))

	require.NoError(t, Sentiment{}.Apply(&cfg, SentimentPatch{Enabled: ptr(true), Question: ptr(" ")}, Env{}))
	v = Sentiment{}.Validate(&cfg, Env{})
	require.Len(t, v, 1)
	assert.Equal(t, "question", v[0].Field)
	assert.Equal(t, pageconfig.DefaultThankYouText, cfg.Sentiment.ThankYouText)
}

func TestFallingAnimation(t *testing.T) {
	cfg := pageconfig.Defaults()
	require.NoError(t, FallingAnimation{}.Apply(&cfg, FallingPatch{Enabled: ptr(true), IconKey: ptr(" Heart "), ColorHex: ptr("#abc")}, Env{}))
	assert.Equal(t, "heart", cfg.FallingAnimation.IconKey)
	assert.Empty(t, FallingAnimation{}.Validate(&cfg, Env{}))

	cfg.FallingAnimation.IconKey = "meteor"
	cfg.FallingAnimation.ColorHex = "yellow"
	assert.Len(t, FallingAnimation{}.Validate(&cfg, Env{}), 2)

	assert.Contains(t, FallingIconKeys(), "star")
	assert.True(t, ValidHexColor("#A1b2C3"))
	assert.False(t, ValidHexColor("#abcd"))
}

func TestOfferValidation(t *testing.T) {
	cfg := pageconfig.Defaults()
	require.NoError(t, Offer{}.Apply(&cfg, OfferPatch{Enabled: ptr(true), URL: ptr(" ftp://x ")}, Env{}))
	v := Offer{}.Validate(&cfg, Env{})
	require.Len(t, v, 2)
	assert.Equal(t, "title", v[0].Field)
	assert.Contains(t, v[1].Message, "http(s)")

	require.NoError(t, Offer{}.Apply(&cfg, OfferPatch{Title: ptr("10% off"), URL: ptr("https://acme.test/offer")}, Env{}))
	assert.Empty(t, Offer{}.Validate(&cfg, Env{}))
}

func TestPlatformsOps(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := Env{Now: func() time.Time { return now }}
	cfg := pageconfig.Defaults()
	m := Platforms{}

	add := func(name string) {
		require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpAdd, Platform: &pageconfig.Platform{Name: name, URL: "https://" + name + ".test"}}, env))
	}
	add("google")
	add("yelp")
	add("facebook")
	assert.Equal(t, pageconfig.DefaultTargetWordCount, cfg.Platforms[0].TargetWordCount)

	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpMove, Index: 2, To: 0}, env))
	assert.Equal(t, []string{"facebook", "google", "yelp"}, names(cfg.Platforms))

	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpVerify, Index: 1}, env))
	assert.True(t, cfg.Platforms[1].Verified)
	assert.Equal(t, now, *cfg.Platforms[1].VerifiedAt)

	// same URL keeps verification, new URL drops it
	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpUpdate, Index: 1, Platform: &pageconfig.Platform{Name: "Google", URL: "https://google.test", TargetWordCount: 80}}, env))
	assert.True(t, cfg.Platforms[1].Verified)
	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpUpdate, Index: 1, Platform: &pageconfig.Platform{Name: "Google", URL: "https://g.page/x", TargetWordCount: 80}}, env))
	assert.False(t, cfg.Platforms[1].Verified)
	assert.Nil(t, cfg.Platforms[1].VerifiedAt)

	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpRemove, Index: 0}, env))
	assert.Equal(t, []string{"Google", "yelp"}, names(cfg.Platforms))

	err := m.Apply(&cfg, PlatformsPatch{Op: OpRemove, Index: 5}, env)
	assert.ErrorIs(t, err, ErrInvalidPatch)
	err = m.Apply(&cfg, PlatformsPatch{Op: "shuffle"}, env)
	assert.ErrorIs(t, err, ErrInvalidPatch)
	assert.Len(t, cfg.Platforms, 2)

	require.NoError(t, m.Apply(&cfg, PlatformsPatch{Op: OpReplace}, env))
	assert.Empty(t, cfg.Platforms)
}

func names(ps []pageconfig.Platform) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestPlatformsValidate(t *testing.T) {
	cfg := pageconfig.Defaults()
	cfg.Platforms = []pageconfig.Platform{
		{Name: "Google", URL: "https://g.page/acme", TargetWordCount: 100},
		{Name: "google", URL: "notaurl", TargetWordCount: 5000},
		{Name: "", URL: "https://yelp.com/acme"},
	}
	v := Platforms{}.Validate(&cfg, Env{})
	require.Len(t, v, 4)
	assert.Equal(t, "platforms[1].name", v[0].Field)
	assert.Equal(t, "platforms[1].url", v[1].Field)
	assert.Equal(t, "platforms[1].target_word_count", v[2].Field)
	assert.Equal(t, "platforms[2].name", v[3].Field)
}

func TestKickstartersModule(t *testing.T) {
	cfg := pageconfig.Defaults()
	catalog := kickstarters.NewCatalog(kickstarters.Limits{SelectionCap: 1})
	env := Env{Catalog: catalog}

	err := Kickstarters{}.Apply(&cfg, KickstartersPatch{Toggle: "default-people-1"}, Env{})
	assert.ErrorIs(t, err, ErrNoCatalog)

	require.NoError(t, Kickstarters{}.Apply(&cfg, KickstartersPatch{Enabled: ptr(true), Toggle: "default-people-1"}, env))
	assert.True(t, cfg.Kickstarters.Enabled)
	assert.Equal(t, []string{"default-people-1"}, cfg.Kickstarters.SelectedIDs)

	cfg.Kickstarters.Enabled = false
	err = Kickstarters{}.Apply(&cfg, KickstartersPatch{Enabled: ptr(true), Toggle: "default-people-2"}, env)
	assert.ErrorIs(t, err, kickstarters.ErrCapacity)
	assert.False(t, cfg.Kickstarters.Enabled, "flag untouched when toggle fails")

	cfg.Kickstarters.SelectedIDs = append(cfg.Kickstarters.SelectedIDs, "ghost")
	v := Kickstarters{}.Validate(&cfg, env)
	assert.Len(t, v, 2)
	assert.Len(t, Kickstarters{}.Validate(&cfg, Env{}), 1)
}

func TestRegistryValidate_GroupViolation(t *testing.T) {
	cfg := pageconfig.Defaults()
	cfg.Note = pageconfig.NoteSettings{Enabled: true, Text: "hi"}
	cfg.Sentiment.Enabled = true
	v := Standard().Validate(&cfg, Env{Catalog: kickstarters.NewCatalog(kickstarters.Limits{})})
	require.Len(t, v, 1)
	assert.Contains(t, v[0].Message, "only one of")
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Feature: KeyNote, Group: GroupIntro, With: []Key{KeySentiment}}
	assert.Equal(t, "cannot enable note while sentiment is enabled; turn it off first", err.Error())
}

func TestDecodePatch(t *testing.T) {
	p, err := DecodePatch(KeyNote, []byte(`{"enabled":true,"text":"hello"}`))
	require.NoError(t, err)
	np, ok := p.(NotePatch)
	require.True(t, ok)
	assert.True(t, *np.Enabled)
	assert.Equal(t, "hello", *np.Text)

	p, err = DecodePatch(KeyPlatforms, []byte(`{"op":"add","platform":{"name":"Yelp","url":"https://yelp.com"}}`))
	require.NoError(t, err)
	assert.Equal(t, OpAdd, p.(PlatformsPatch).Op)

	for _, k := range Keys() {
		p, err := DecodePatch(k, []byte(`{}`))
		require.NoError(t, err, k)
		assert.Equal(t, k, p.Feature())
	}

	_, err = DecodePatch(KeyNote, []byte(`{"enabled":true,"colour":"red"}`))
	assert.ErrorIs(t, err, ErrInvalidPatch)
	_, err = DecodePatch("confetti", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownFeature)
}
