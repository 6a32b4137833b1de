// Package widget generates the embeddable sentiment widget. Both copy-paste
// markup variants and the in-app preview are rendered from one Layout tree so
// they cannot drift apart.
package widget

import (
	"regexp"
	"strings"
)

// LabelCount is the size of the sentiment scale.
const LabelCount = 5

// DefaultLabels is the sentiment scale from best to worst.
var DefaultLabels = [LabelCount]string{"Excellent", "Satisfied", "Neutral", "Unsatisfied", "Frustrated"}

// Target is where the markup will be pasted.
type Target string

const (
	// TargetEmail uses PNG images and table layout; email clients have patchy
	// flexbox and SVG support.
	TargetEmail Target = "email"
	// TargetWebsite uses SVG images and flexbox layout.
	TargetWebsite Target = "website"
)

// ParseTarget maps unknown values to TargetEmail, the variant that renders
// everywhere.
func ParseTarget(s string) Target {
	if Target(strings.ToLower(strings.TrimSpace(s))) == TargetWebsite {
		return TargetWebsite
	}
	return TargetEmail
}

const (
	// MarketingURL is the single outbound attribution link.
	MarketingURL    = "https://promptreviews.app"
	AttributionText = "Powered by Prompt Reviews"

	DefaultHeaderColor = "#1f2937"
	DefaultQuestion    = "How was your experience?"
)

// Options is everything the generator reads. Labels is a fixed-size array: the
// scale length is a domain constant.
type Options struct {
	Question    string             `json:"question"`
	Labels      [LabelCount]string `json:"labels"`
	EmojiSize   string             `json:"emoji_size"`
	HeaderSize  string             `json:"header_size"`
	HeaderColor string             `json:"header_color"`
	ShowCard    bool               `json:"show_card"`
	Target      Target             `json:"target"`
	BaseURL     string             `json:"base_url"`
	Slug        string             `json:"slug"`
	// AssetBaseURL hosts the emoji images; empty means BaseURL + "/emoji".
	AssetBaseURL string `json:"asset_base_url,omitempty"`
}

type tier struct {
	name string
	px   int
}

// scale orders every tier name we understand, smallest first. Tier sets pick a
// subset; unknown names on the scale snap to the nearest member of the set.
var scale = []string{"xxs", "xs", "sm", "md", "lg", "xl", "xxl"}

var (
	emojiTiers  = []tier{{"xs", 32}, {"sm", 40}, {"md", 48}}
	headerTiers = []tier{{"sm", 16}, {"md", 20}, {"lg", 24}}
)

const (
	defaultEmojiTier  = "sm"
	defaultHeaderTier = "md"
)

func scaleIndex(name string) int {
	for i, s := range scale {
		if s == name {
			return i
		}
	}
	return -1
}

// resolveTier fails closed: exact match, else nearest tier on the scale, else
// the default tier.
func resolveTier(value string, tiers []tier, def string) tier {
	value = strings.ToLower(strings.TrimSpace(value))
	var fallback tier
	for _, t := range tiers {
		if t.name == value {
			return t
		}
		if t.name == def {
			fallback = t
		}
	}
	at := scaleIndex(value)
	if at < 0 {
		return fallback
	}
	best, bestDist := fallback, len(scale)+1
	for _, t := range tiers {
		d := scaleIndex(t.name) - at
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// EmojiSizePx resolves an emoji size tier to pixels.
func EmojiSizePx(value string) int {
	return resolveTier(value, emojiTiers, defaultEmojiTier).px
}

// HeaderSizePx resolves a header size tier to pixels.
func HeaderSizePx(value string) int {
	return resolveTier(value, headerTiers, defaultHeaderTier).px
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func resolveColor(c string) string {
	c = strings.TrimSpace(c)
	if hexColor.MatchString(c) {
		return strings.ToLower(c)
	}
	return DefaultHeaderColor
}
