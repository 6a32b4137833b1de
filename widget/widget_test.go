package widget

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoOptions(target Target) Options {
	return Options{
		Question:    "How did we do?",
		Labels:      DefaultLabels,
		EmojiSize:   "sm",
		HeaderSize:  "md",
		HeaderColor: "#111827",
		ShowCard:    true,
		Target:      target,
		BaseURL:     "https://example.com",
		Slug:        "demo",
	}
}

var (
	hrefRe = regexp.MustCompile(`href="([^"]*)"`)
	imgRe  = regexp.MustCompile(`<img src="([^"]*)"`)
)

func hrefs(markup string) []string {
	var out []string
	for _, m := range hrefRe.FindAllStringSubmatch(markup, -1) {
		out = append(out, html.UnescapeString(m[1]))
	}
	return out
}

func sentimentLinks() []string {
	var out []string
	for _, l := range DefaultLabels {
		out = append(out, "https://example.com/r/demo?emoji_sentiment="+strings.ToLower(l)+"&source=embed")
	}
	return out
}

func TestRender_Email(t *testing.T) {
	markup := Render(Build(demoOptions(TargetEmail)))

	links := hrefs(markup)
	require.Len(t, links, LabelCount+1)
	assert.Equal(t, sentimentLinks(), links[:LabelCount])
	assert.Equal(t, MarketingURL, links[LabelCount])
	for _, want := range sentimentLinks() {
		assert.Contains(t, markup, `href="`+want+`"`, "link must appear byte for byte")
	}

	imgs := imgRe.FindAllStringSubmatch(markup, -1)
	require.Len(t, imgs, LabelCount)
	for _, m := range imgs {
		assert.True(t, strings.HasSuffix(m[1], ".png"), m[1])
	}
	assert.NotContains(t, markup, ".svg")
	assert.Contains(t, markup, "<table")
	assert.NotContains(t, markup, "display:flex")
	assert.NotContains(t, markup, "<link")
	assert.NotContains(t, markup, "<script")
	assert.NotContains(t, markup, "<style")
}

func TestRender_Website(t *testing.T) {
	markup := Render(Build(demoOptions(TargetWebsite)))

	links := hrefs(markup)
	require.Len(t, links, LabelCount+1)
	assert.Equal(t, sentimentLinks(), links[:LabelCount])

	imgs := imgRe.FindAllStringSubmatch(markup, -1)
	require.Len(t, imgs, LabelCount)
	for _, m := range imgs {
		assert.True(t, strings.HasSuffix(m[1], ".svg"), m[1])
	}
	assert.NotContains(t, markup, ".png")
	assert.NotContains(t, markup, "<table")
	assert.NotContains(t, markup, "<td")
	assert.Contains(t, markup, "display:flex")

	emailLinks := hrefs(Render(Build(demoOptions(TargetEmail))))
	assert.Equal(t, emailLinks, links)
}

func TestRender_Deterministic(t *testing.T) {
	for _, target := range []Target{TargetEmail, TargetWebsite} {
		opts := demoOptions(target)
		first, err := Generate(opts)
		require.NoError(t, err)
		second, err := Generate(opts)
		require.NoError(t, err)
		assert.Equal(t, first.Markup, second.Markup)
		assert.Equal(t, first.Preview, second.Preview)
	}
}

func TestRender_ExactlyOneAttribution(t *testing.T) {
	for _, target := range []Target{TargetEmail, TargetWebsite} {
		for _, card := range []bool{true, false} {
			opts := demoOptions(target)
			opts.ShowCard = card
			markup := Render(Build(opts))
			assert.Equal(t, 1, strings.Count(markup, MarketingURL))
			assert.Equal(t, 1, strings.Count(markup, AttributionText))
		}
	}
}

func TestRender_EscapesText(t *testing.T) {
	opts := demoOptions(TargetEmail)
	opts.Question = `<b>"Rate" us</b> & more`
	opts.Labels[0] = `Great<script>`
	markup := Render(Build(opts))
	assert.NotContains(t, markup, "<b>")
	assert.NotContains(t, markup, "<script>")
	assert.Contains(t, markup, "&lt;b&gt;&#34;Rate&#34; us&lt;/b&gt; &amp; more")
	assert.Contains(t, markup, "emoji_sentiment=great%3Cscript%3E&source=embed")
}

func TestBuild_FailsClosed(t *testing.T) {
	for _, tc := range []struct {
		emoji, header   string
		wantEmoji, want int
	}{
		{"xs", "sm", 32, 16},
		{"md", "lg", 48, 24},
		{"", "", 40, 20},
		{"huge", "tiny", 40, 20},
		{"xxs", "xs", 32, 16},
		{"lg", "xl", 48, 24},
		{"XXL", " LG ", 48, 24},
	} {
		opts := demoOptions(TargetEmail)
		opts.EmojiSize, opts.HeaderSize = tc.emoji, tc.header
		l := Build(opts)
		assert.Equal(t, tc.wantEmoji, l.Row[0].Size, "emoji %q", tc.emoji)
		assert.Equal(t, tc.want, l.Header.FontSize, "header %q", tc.header)
	}

	opts := demoOptions("fax")
	opts.HeaderColor = "red;position:fixed"
	opts.Question = "  "
	opts.Labels = [LabelCount]string{}
	l := Build(opts)
	assert.Equal(t, TargetEmail, l.Target)
	assert.Equal(t, DefaultHeaderColor, l.Header.Color)
	assert.Equal(t, DefaultQuestion, l.Header.Text)
	require.Len(t, l.Row, LabelCount)
	for i, c := range l.Row {
		assert.Equal(t, DefaultLabels[i], c.Label)
	}
	assert.NotEmpty(t, Render(l))
}

func TestBuild_AssetBase(t *testing.T) {
	opts := demoOptions(TargetWebsite)
	l := Build(opts)
	assert.Equal(t, "https://example.com/emoji/excellent.svg", l.Row[0].Image)

	opts.AssetBaseURL = "https://cdn.example.com/img/"
	opts.BaseURL = "https://example.com/"
	l = Build(opts)
	assert.Equal(t, "https://cdn.example.com/img/excellent.svg", l.Row[0].Image)
	assert.Equal(t, "https://example.com/r/demo?emoji_sentiment=excellent&source=embed", l.Row[0].Href)
}

func TestPreviewParity(t *testing.T) {
	for _, target := range []Target{TargetEmail, TargetWebsite} {
		res, err := Generate(demoOptions(target))
		require.NoError(t, err)

		assert.Equal(t, hrefs(res.Markup), hrefs(string(res.Preview)))
		assert.Equal(t, res.Links, hrefs(res.Markup))

		markupImgs := imgRe.FindAllStringSubmatch(res.Markup, -1)
		previewImgs := imgRe.FindAllStringSubmatch(string(res.Preview), -1)
		require.Len(t, previewImgs, len(markupImgs))
		for i := range markupImgs {
			assert.Equal(t, html.UnescapeString(markupImgs[i][1]), html.UnescapeString(previewImgs[i][1]))
		}
		assert.Contains(t, string(res.Preview), `width="40" height="40"`)
		assert.Contains(t, string(res.Preview), "font-size:20px")
		assert.Contains(t, res.Markup, "font-size:20px")
	}
}

func TestSentimentURL(t *testing.T) {
	assert.Equal(t, "https://x.test/r/my%20page?emoji_sentiment=neutral&source=embed",
		SentimentURL("https://x.test/", "my page", "Neutral"))
}
