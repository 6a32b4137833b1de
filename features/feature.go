// Package features implements the toggleable modules that make up a prompt page.
// Each module owns one slice of pageconfig.Config and is the only code allowed to
// mutate it.
package features

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

// Key names a feature module. The set is closed.
type Key string

const (
	KeyNote             Key = "note"
	KeySentiment        Key = "sentiment"
	KeyFallingAnimation Key = "falling_animation"
	KeyAIAssist         Key = "ai_assist"
	KeyOffer            Key = "offer"
	KeyPlatforms        Key = "platforms"
	KeyKickstarters     Key = "kickstarters"
)

// Keys lists every feature in page order.
func Keys() []Key {
	return []Key{KeyNote, KeySentiment, KeyFallingAnimation, KeyAIAssist, KeyOffer, KeyPlatforms, KeyKickstarters}
}

// ParseKey validates s as a feature key.
func ParseKey(s string) (Key, error) {
	for _, k := range Keys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

// Group names an exclusivity group: at most one member may be enabled.
type Group string

// GroupIntro holds the features that take over the top of the page.
const GroupIntro Group = "intro"

// Patch is a partial update addressed to one feature. Nil pointer fields are
// left untouched.
type Patch interface {
	Feature() Key
}

// Env carries the collaborators some modules need while applying or validating.
type Env struct {
	Catalog *kickstarters.Catalog
	Now     func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Module is one feature of a prompt page.
type Module interface {
	Key() Key
	// Group is the module's exclusivity group, or "" when it has none.
	Group() Group
	Enabled(cfg *pageconfig.Config) bool
	// Enables reports whether applying p would switch the module from disabled
	// to enabled.
	Enables(cfg *pageconfig.Config, p Patch) bool
	Apply(cfg *pageconfig.Config, p Patch, env Env) error
	Validate(cfg *pageconfig.Config, env Env) []Violation
}

// Violation is one human-readable validation failure tied to a feature field.
type Violation struct {
	Feature Key    `json:"feature"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Feature, v.Message)
	}
	return fmt.Sprintf("%s.%s: %s", v.Feature, v.Field, v.Message)
}

var (
	ErrUnknownFeature = errors.New("unknown feature")
	ErrPatchMismatch  = errors.New("patch does not belong to this feature")
	ErrInvalidPatch   = errors.New("invalid patch")
)

// ConflictError is returned (as a value, not a failure) when enabling a feature
// while another member of its exclusivity group is enabled.
type ConflictError struct {
	Feature Key   `json:"feature"`
	Group   Group `json:"group"`
	With    []Key `json:"with"`
}

func (e *ConflictError) Error() string {
	names := make([]string, len(e.With))
	for i, k := range e.With {
		names[i] = string(k)
	}
	return fmt.Sprintf("cannot enable %s while %s is enabled; turn it off first", e.Feature, strings.Join(names, ", "))
}

func mismatch(want Key, p Patch) error {
	if p == nil {
		return fmt.Errorf("%w: nil patch for %s", ErrPatchMismatch, want)
	}
	return fmt.Errorf("%w: %s patch sent to %s", ErrPatchMismatch, p.Feature(), want)
}

func enables(current bool, next *bool) bool {
	return !current && next != nil && *next
}
