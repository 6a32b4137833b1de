package features

import (
	"net/url"
	"strings"

	"prompt_page_studio/pageconfig"
)

type OfferPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Title   *string `json:"title,omitempty"`
	Body    *string `json:"body,omitempty"`
	URL     *string `json:"url,omitempty"`
}

func (OfferPatch) Feature() Key { return KeyOffer }

// Offer is the special offer banner shown after a review is posted.
type Offer struct{}

func (Offer) Key() Key { return KeyOffer }
func (Offer) Group() Group { return "" }
func (Offer) Enabled(cfg *pageconfig.Config) bool { return cfg.Offer.Enabled }

func (Offer) Enables(cfg *pageconfig.Config, p Patch) bool {
	op, ok := p.(OfferPatch)
	return ok && enables(cfg.Offer.Enabled, op.Enabled)
}

func (Offer) Apply(cfg *pageconfig.Config, p Patch, _ Env) error {
	op, ok := p.(OfferPatch)
	if !ok {
		return mismatch(KeyOffer, p)
	}
	if op.Enabled != nil {
		cfg.Offer.Enabled = *op.Enabled
	}
	setString(&cfg.Offer.Title, op.Title)
	setString(&cfg.Offer.Body, op.Body)
	if op.URL != nil {
		cfg.Offer.URL = strings.TrimSpace(*op.URL)
	}
	return nil
}

func (Offer) Validate(cfg *pageconfig.Config, _ Env) []Violation {
	o := cfg.Offer
	if !o.Enabled {
		return nil
	}
	var out []Violation
	if strings.TrimSpace(o.Title) == "" {
		out = append(out, Violation{Feature: KeyOffer, Field: "title", Message: "an offer needs a title"})
	}
	if o.URL == "" {
		out = append(out, Violation{Feature: KeyOffer, Field: "url", Message: "an offer needs a link"})
	} else if !ValidHTTPURL(o.URL) {
		out = append(out, Violation{Feature: KeyOffer, Field: "url", Message: "the offer link must be a full http(s) URL"})
	}
	return out
}

// ValidHTTPURL reports whether s is an absolute http or https URL with a host.
func ValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
