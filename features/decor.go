package features

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"prompt_page_studio/pageconfig"
)

// FallingIcons are the icons the falling animation can use.
var FallingIcons = map[string]string{
	"star":     "★",
	"heart":    "♥",
	"sparkle":  "✨",
	"smile":    "☺",
	"sun":      "☀",
	"flower":   "✿",
	"leaf":     "❦",
	"thumbsup": "👍",
}

// FallingIconKeys returns the icon keys in sorted order.
func FallingIconKeys() []string {
	keys := make([]string, 0, len(FallingIcons))
	for k := range FallingIcons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidHexColor reports whether s is #rgb or #rrggbb.
func ValidHexColor(s string) bool {
	return hexColor.MatchString(s)
}

type FallingPatch struct {
	Enabled  *bool   `json:"enabled,omitempty"`
	IconKey  *string `json:"icon_key,omitempty"`
	ColorHex *string `json:"color_hex,omitempty"`
}

func (FallingPatch) Feature() Key { return KeyFallingAnimation }

// FallingAnimation shows icons falling over the page after a visitor arrives.
type FallingAnimation struct{}

func (FallingAnimation) Key() Key { return KeyFallingAnimation }
func (FallingAnimation) Group() Group { return "" }
func (FallingAnimation) Enabled(cfg *pageconfig.Config) bool { return cfg.FallingAnimation.Enabled }

func (FallingAnimation) Enables(cfg *pageconfig.Config, p Patch) bool {
	fp, ok := p.(FallingPatch)
	return ok && enables(cfg.FallingAnimation.Enabled, fp.Enabled)
}

func (FallingAnimation) Apply(cfg *pageconfig.Config, p Patch, _ Env) error {
	fp, ok := p.(FallingPatch)
	if !ok {
		return mismatch(KeyFallingAnimation, p)
	}
	if fp.Enabled != nil {
		cfg.FallingAnimation.Enabled = *fp.Enabled
	}
	if fp.IconKey != nil {
		cfg.FallingAnimation.IconKey = strings.ToLower(strings.TrimSpace(*fp.IconKey))
	}
	if fp.ColorHex != nil {
		cfg.FallingAnimation.ColorHex = strings.TrimSpace(*fp.ColorHex)
	}
	return nil
}

func (FallingAnimation) Validate(cfg *pageconfig.Config, _ Env) []Violation {
	f := cfg.FallingAnimation
	if !f.Enabled {
		return nil
	}
	var out []Violation
	if _, ok := FallingIcons[f.IconKey]; !ok {
		out = append(out, Violation{Feature: KeyFallingAnimation, Field: "icon_key", Message: fmt.Sprintf("unknown icon %q", f.IconKey)})
	}
	if !ValidHexColor(f.ColorHex) {
		out = append(out, Violation{Feature: KeyFallingAnimation, Field: "color_hex", Message: fmt.Sprintf("%q is not a hex colour like #fbbf24", f.ColorHex)})
	}
	return out
}

type AIAssistPatch struct {
	GenerationEnabled *bool `json:"generation_enabled,omitempty"`
	GrammarFixEnabled *bool `json:"grammar_fix_enabled,omitempty"`
}

func (AIAssistPatch) Feature() Key { return KeyAIAssist }

// AIAssist gates the AI review drafting and grammar fix buttons.
type AIAssist struct{}

func (AIAssist) Key() Key { return KeyAIAssist }
func (AIAssist) Group() Group { return "" }

func (AIAssist) Enabled(cfg *pageconfig.Config) bool {
	return cfg.AIAssist.GenerationEnabled || cfg.AIAssist.GrammarFixEnabled
}

func (m AIAssist) Enables(cfg *pageconfig.Config, p Patch) bool {
	ap, ok := p.(AIAssistPatch)
	if !ok || m.Enabled(cfg) {
		return false
	}
	return (ap.GenerationEnabled != nil && *ap.GenerationEnabled) ||
		(ap.GrammarFixEnabled != nil && *ap.GrammarFixEnabled)
}

func (AIAssist) Apply(cfg *pageconfig.Config, p Patch, _ Env) error {
	ap, ok := p.(AIAssistPatch)
	if !ok {
		return mismatch(KeyAIAssist, p)
	}
	if ap.GenerationEnabled != nil {
		cfg.AIAssist.GenerationEnabled = *ap.GenerationEnabled
	}
	if ap.GrammarFixEnabled != nil {
		cfg.AIAssist.GrammarFixEnabled = *ap.GrammarFixEnabled
	}
	return nil
}

func (AIAssist) Validate(*pageconfig.Config, Env) []Violation { return nil }
