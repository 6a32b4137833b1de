package widget

import (
	"net/url"
	"strings"
)

// Layout is the shared description both renderers consume.
type Layout struct {
	Target      Target
	Card        bool
	Header      Header
	Row         []Choice
	Attribution Link
	// Gap is the spacing between choices in pixels.
	Gap int
}

type Header struct {
	Text     string
	FontSize int
	Color    string
}

// Choice is one clickable sentiment.
type Choice struct {
	Label string
	Href  string
	Image string
	Size  int
}

type Link struct {
	Text string
	Href string
}

// Build resolves opts into a Layout. It never fails: unknown tiers, colours
// and targets fall back to defined values, and blank labels or question use
// the defaults.
func Build(opts Options) Layout {
	target := ParseTarget(string(opts.Target))
	size := EmojiSizePx(opts.EmojiSize)

	question := strings.TrimSpace(opts.Question)
	if question == "" {
		question = DefaultQuestion
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	assets := strings.TrimRight(strings.TrimSpace(opts.AssetBaseURL), "/")
	if assets == "" {
		assets = base + "/emoji"
	}
	ext := ".svg"
	if target == TargetEmail {
		ext = ".png"
	}

	l := Layout{
		Target: target,
		Card:   opts.ShowCard,
		Header: Header{
			Text:     question,
			FontSize: HeaderSizePx(opts.HeaderSize),
			Color:    resolveColor(opts.HeaderColor),
		},
		Attribution: Link{Text: AttributionText, Href: MarketingURL},
		Gap:         size / 4,
	}
	for i, label := range opts.Labels {
		label = strings.TrimSpace(label)
		if label == "" {
			label = DefaultLabels[i]
		}
		key := strings.ToLower(label)
		l.Row = append(l.Row, Choice{
			Label: label,
			Href:  SentimentURL(base, opts.Slug, label),
			Image: assets + "/" + url.PathEscape(key) + ext,
			Size:  size,
		})
	}
	return l
}

// SentimentURL is the destination of one choice:
// {base}/r/{slug}?emoji_sentiment={label}&source=embed with the label lowercased.
func SentimentURL(base, slug, label string) string {
	return strings.TrimRight(base, "/") + "/r/" + url.PathEscape(slug) +
		"?emoji_sentiment=" + url.QueryEscape(strings.ToLower(label)) + "&source=embed"
}

// Links returns every outbound href in document order: the choices, then the
// attribution.
func (l Layout) Links() []string {
	out := make([]string, 0, len(l.Row)+1)
	for _, c := range l.Row {
		out = append(out, c.Href)
	}
	return append(out, l.Attribution.Href)
}
