package composer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt_page_studio/features"
	"prompt_page_studio/generator"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

func TestGenerate(t *testing.T) {
	ai := &recordingAssistant{}
	e, _ := newEngine(t, func(d *Deps) { d.Assistant = ai })
	ctx := context.Background()

	_, err := e.Generate(ctx, 0)
	assert.ErrorIs(t, err, ErrPlatformNotFound)

	e.SetBusinessName("Acme")
	_, err = e.Update(features.KeyPlatforms, features.PlatformsPatch{Op: features.OpAdd, Platform: &pageconfig.Platform{Name: "Google", URL: "https://g.test/acme"}})
	require.NoError(t, err)
	_, err = e.Update(features.KeyKickstarters, features.KickstartersPatch{Enabled: on(), Toggle: "default-people-1"})
	require.NoError(t, err)

	first, err := e.Generate(ctx, 0)
	require.NoError(t, err)
	second, err := e.Generate(ctx, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.Len(t, ai.rcs, 2)
	rc := ai.rcs[0]
	assert.Equal(t, "Acme", rc.BusinessName)
	assert.Equal(t, "Google", rc.Platform)
	assert.Equal(t, pageconfig.DefaultTargetWordCount, rc.TargetWords)
	require.Len(t, rc.Prompts, 1)
	assert.NotContains(t, rc.Prompts[0], kickstarters.Placeholder)
	assert.Empty(t, rc.Previous)
	assert.Equal(t, []string{first}, ai.rcs[1].Previous)
	assert.Len(t, e.Drafts("Google"), 2)
}

func TestGenerate_Disabled(t *testing.T) {
	ai := &recordingAssistant{}
	e, _ := newEngine(t, func(d *Deps) { d.Assistant = ai })
	_, err := e.Update(features.KeyPlatforms, features.PlatformsPatch{Op: features.OpAdd, Platform: &pageconfig.Platform{Name: "Yelp", URL: "https://y.test"}})
	require.NoError(t, err)
	_, err = e.Update(features.KeyAIAssist, features.AIAssistPatch{GenerationEnabled: off()})
	require.NoError(t, err)

	_, err = e.Generate(context.Background(), 0)
	assert.ErrorIs(t, err, ErrAssistDisabled)
	assert.Empty(t, ai.rcs)
}

func TestGenerate_NoAssistant(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Generate(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoAssistant)
}

func TestGenerate_WithMockAgent(t *testing.T) {
	agent, err := generator.NewAgent(generator.MockLLM{})
	require.NoError(t, err)
	e, _ := newEngine(t, func(d *Deps) { d.Assistant = agent })
	e.SetBusinessName("Joe's Diner")
	_, err = e.Update(features.KeyPlatforms, features.PlatformsPatch{Op: features.OpAdd, Platform: &pageconfig.Platform{Name: "Other", CustomName: "TripAdvisor", URL: "https://t.test"}})
	require.NoError(t, err)

	text, err := e.Generate(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Joe's Diner")
	again, err := e.Generate(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, again, "(draft 2)")
}

func TestFixGrammar(t *testing.T) {
	e, _ := newEngine(t, func(d *Deps) { d.Assistant = &recordingAssistant{} })
	out, err := e.FixGrammar(context.Background(), "great")
	require.NoError(t, err)
	assert.Equal(t, "GREAT", out)

	_, err = e.Update(features.KeyAIAssist, features.AIAssistPatch{GrammarFixEnabled: off()})
	require.NoError(t, err)
	_, err = e.FixGrammar(context.Background(), "great")
	assert.ErrorIs(t, err, ErrAssistDisabled)
}
