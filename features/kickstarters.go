package features

import (
	"errors"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

// KickstartersPatch toggles the feature and, optionally, one catalog item.
type KickstartersPatch struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Toggle  string `json:"toggle,omitempty"`
}

func (KickstartersPatch) Feature() Key { return KeyKickstarters }

// ErrNoCatalog is returned when a kickstarter selection is edited before the
// catalog has been attached.
var ErrNoCatalog = errors.New("kickstarter catalog not loaded")

// Kickstarters shows prompt questions that help visitors start their review.
type Kickstarters struct{}

func (Kickstarters) Key() Key { return KeyKickstarters }
func (Kickstarters) Group() Group { return "" }
func (Kickstarters) Enabled(cfg *pageconfig.Config) bool { return cfg.Kickstarters.Enabled }

func (Kickstarters) Enables(cfg *pageconfig.Config, p Patch) bool {
	kp, ok := p.(KickstartersPatch)
	return ok && enables(cfg.Kickstarters.Enabled, kp.Enabled)
}

// Apply toggles the item before flipping the flag so a capacity failure leaves
// the whole config untouched.
func (Kickstarters) Apply(cfg *pageconfig.Config, p Patch, env Env) error {
	kp, ok := p.(KickstartersPatch)
	if !ok {
		return mismatch(KeyKickstarters, p)
	}
	if kp.Toggle != "" {
		if env.Catalog == nil {
			return ErrNoCatalog
		}
		next, err := kickstarters.Toggle(cfg.Kickstarters.SelectedIDs, kp.Toggle, env.Catalog)
		if err != nil {
			return err
		}
		cfg.Kickstarters.SelectedIDs = next
	}
	if kp.Enabled != nil {
		cfg.Kickstarters.Enabled = *kp.Enabled
	}
	return nil
}

func (Kickstarters) Validate(cfg *pageconfig.Config, env Env) []Violation {
	if env.Catalog == nil {
		if len(cfg.Kickstarters.SelectedIDs) > 0 {
			return []Violation{{Feature: KeyKickstarters, Field: "selected_ids", Message: "kickstarter catalog is still loading"}}
		}
		return nil
	}
	var out []Violation
	for _, msg := range kickstarters.Check(cfg.Kickstarters.SelectedIDs, env.Catalog) {
		out = append(out, Violation{Feature: KeyKickstarters, Field: "selected_ids", Message: msg})
	}
	return out
}
