package pageconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydrate_EmptyRecordYieldsDefaults(t *testing.T) {
	for _, rec := range []Record{nil, Record(""), Record("  \n")} {
		cfg, err := Hydrate(rec)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	}
}

func TestHydrate_MissingFieldsKeepDefaults(t *testing.T) {
	cfg, err := Hydrate(Record(`{"sentiment":{"enabled":true},"slug":"demo"}`))
	require.NoError(t, err)

	assert.True(t, cfg.Sentiment.Enabled)
	assert.Equal(t, DefaultSentimentQuestion, cfg.Sentiment.Question)
	assert.Equal(t, DefaultThankYouText, cfg.Sentiment.ThankYouText)
	assert.Equal(t, DefaultFallingIcon, cfg.FallingAnimation.IconKey)
	assert.True(t, cfg.AIAssist.GenerationEnabled)
	assert.Equal(t, "demo", cfg.Slug)
}

func TestHydrate_ExplicitFalseOverridesDefault(t *testing.T) {
	cfg, err := Hydrate(Record(`{"ai_assist":{"generation_enabled":false}}`))
	require.NoError(t, err)
	assert.False(t, cfg.AIAssist.GenerationEnabled)
	assert.True(t, cfg.AIAssist.GrammarFixEnabled)
}

func TestHydrate_Idempotent(t *testing.T) {
	rec := Record(`{"note":{"enabled":true,"text":"hi"},"kickstarters":{"selected_ids":["b","a","b"]}}`)
	once, err := Hydrate(rec)
	require.NoError(t, err)
	twice, err := Hydrate(rec)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"a", "b"}, once.Kickstarters.SelectedIDs)
}

func TestHydrate_InvalidJSON(t *testing.T) {
	_, err := Hydrate(Record(`{"note":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode page config")
}

func TestEncodeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := Defaults()
	cfg.Slug = "acme"
	cfg.Platforms = []Platform{{Name: "Google", URL: "https://g.page/acme", TargetWordCount: 120, Verified: true, VerifiedAt: &now}}
	cfg.Kickstarters.SelectedIDs = []string{"z", "a"}

	rec, err := Encode(cfg)
	require.NoError(t, err)
	back, err := Hydrate(rec)
	require.NoError(t, err)

	assert.Equal(t, "acme", back.Slug)
	require.Len(t, back.Platforms, 1)
	assert.True(t, back.Platforms[0].VerifiedAt.Equal(now))
	assert.Equal(t, []string{"a", "z"}, back.Kickstarters.SelectedIDs)
	// Encode must not reorder the caller's slice.
	assert.Equal(t, []string{"z", "a"}, cfg.Kickstarters.SelectedIDs)
}

func TestClone_DoesNotAlias(t *testing.T) {
	now := time.Now()
	cfg := Defaults()
	cfg.Platforms = []Platform{{Name: "Yelp", VerifiedAt: &now}}
	cfg.Kickstarters.SelectedIDs = []string{"a"}

	cp := cfg.Clone()
	cp.Platforms[0].Name = "Other"
	*cp.Platforms[0].VerifiedAt = now.Add(time.Hour)
	cp.Kickstarters.SelectedIDs[0] = "b"

	assert.Equal(t, "Yelp", cfg.Platforms[0].Name)
	assert.True(t, cfg.Platforms[0].VerifiedAt.Equal(now))
	assert.Equal(t, "a", cfg.Kickstarters.SelectedIDs[0])
}

func TestNormalize(t *testing.T) {
	k := KickstarterSettings{SelectedIDs: []string{"c", "a", "c", "b", "a"}}
	k.Normalize()
	assert.Equal(t, []string{"a", "b", "c"}, k.SelectedIDs)
	assert.True(t, k.Contains("b"))
	assert.False(t, k.Contains("d"))

	empty := KickstarterSettings{SelectedIDs: []string{}}
	empty.Normalize()
	assert.Nil(t, empty.SelectedIDs)
}

func TestPlatformDisplayName(t *testing.T) {
	assert.Equal(t, "Google", Platform{Name: "Google"}.DisplayName())
	assert.Equal(t, "Our Google page", Platform{Name: "Google", CustomName: "Our Google page"}.DisplayName())
}
