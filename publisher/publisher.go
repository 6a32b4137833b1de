// Package publisher renders the public prompt page when a page is published
// and uploads the snapshot to an S3-compatible bucket.
package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

// Uploader stores one object.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Options configures a Publisher.
type Options struct {
	// Prefix is prepended to every object key, e.g. "pages/".
	Prefix string
	// PublicBaseURL is where uploaded pages are served from.
	PublicBaseURL string
	Catalog       *kickstarters.Catalog
}

// Publisher renders and uploads public pages.
type Publisher struct {
	up   Uploader
	opts Options
}

func New(up Uploader, opts Options) (*Publisher, error) {
	if up == nil {
		return nil, errors.New("publisher: uploader is required")
	}
	return &Publisher{up: up, opts: opts}, nil
}

// Key is the object key of a page's snapshot.
func (p *Publisher) Key(slug string) string {
	return path.Join(p.opts.Prefix, slug, "index.html")
}

// Publish renders cfg and uploads it, returning the public URL.
func (p *Publisher) Publish(ctx context.Context, cfg pageconfig.Config) (string, error) {
	if cfg.Slug == "" {
		return "", errors.New("publisher: page has no slug")
	}
	page, err := RenderPage(cfg, p.opts.Catalog)
	if err != nil {
		return "", err
	}
	key := p.Key(cfg.Slug)
	if err := p.up.Put(ctx, key, []byte(page), "text/html; charset=utf-8"); err != nil {
		return "", fmt.Errorf("upload page %s: %w", cfg.Slug, err)
	}
	url := strings.TrimRight(p.opts.PublicBaseURL, "/") + "/" + key
	log.Info().Str("slug", cfg.Slug).Str("key", key).Int("bytes", len(page)).Msg("page snapshot uploaded")
	return url, nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return inlineStyles(buf.String()), nil
}

var (
	headingRe = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	listRe    = regexp.MustCompile(`<(ul|ol)>`)
	linkRe    = regexp.MustCompile(`<a href=`)
)

var headingSizes = map[string]string{
	"1": "24px",
	"2": "22px",
	"3": "20px",
	"4": "18px",
	"5": "16px",
	"6": "15px",
}

// inlineStyles turns headings into sized paragraphs so they sit under the page
// header, and styles lists and links inline; the public page ships without a
// stylesheet.
func inlineStyles(html string) string {
	html = headingRe.ReplaceAllStringFunc(html, func(block string) string {
		parts := headingRe.FindStringSubmatch(block)
		if len(parts) != 3 {
			return block
		}
		size := headingSizes[parts[1]]
		if size == "" {
			size = "18px"
		}
		return fmt.Sprintf(`<p style="font-size:%s;font-weight:700;margin:1em 0 0.6em;">%s</p>`, size, strings.TrimSpace(parts[2]))
	})
	html = listRe.ReplaceAllString(html, `<$1 style="margin:0.5em 0;padding-left:1.5em;">`)
	return linkRe.ReplaceAllString(html, `<a style="color:#2563eb;" href=`)
}

var mdSyntaxRe = regexp.MustCompile("[#*_`>\\[\\]]|\\(https?://[^)]*\\)")

// description is a plain-text summary of md for the page's meta tag.
func description(md string, limit int) string {
	plain := strings.Join(strings.Fields(mdSyntaxRe.ReplaceAllString(md, "")), " ")
	if utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
