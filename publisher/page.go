package publisher

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"prompt_page_studio/features"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/pageconfig"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	Title        string
	Description  string
	Header       string
	Note         template.HTML
	Sentiment    *pageconfig.SentimentSettings
	Offer        *offerView
	Platforms    []platformView
	Questions    []string
	FallingIcon  string
	FallingColor string
}

type offerView struct {
	Title string
	Body  template.HTML
	URL   string
}

type platformView struct {
	Name  string
	URL   string
	Words int
}

// RenderPage renders the public page for cfg. catalog may be nil, in which
// case kickstarter questions are left out.
func RenderPage(cfg pageconfig.Config, catalog *kickstarters.Catalog) (string, error) {
	d := pageData{
		Title:  cfg.BusinessName,
		Header: cfg.Sentiment.PageHeader,
	}
	if d.Title == "" {
		d.Title = "Leave a review"
	}
	if d.Header == "" {
		d.Header = pageconfig.DefaultPageHeader
	}

	if cfg.Note.Enabled {
		html, err := mdToHTML(cfg.Note.Text)
		if err != nil {
			return "", fmt.Errorf("render note: %w", err)
		}
		d.Note = template.HTML(html)
		d.Description = description(cfg.Note.Text, 150)
	}
	if cfg.Sentiment.Enabled {
		s := cfg.Sentiment
		d.Sentiment = &s
	}
	if cfg.Offer.Enabled {
		body, err := mdToHTML(cfg.Offer.Body)
		if err != nil {
			return "", fmt.Errorf("render offer: %w", err)
		}
		d.Offer = &offerView{Title: cfg.Offer.Title, Body: template.HTML(body), URL: cfg.Offer.URL}
	}
	for _, p := range cfg.Platforms {
		d.Platforms = append(d.Platforms, platformView{Name: p.DisplayName(), URL: p.URL, Words: p.TargetWordCount})
	}
	if cfg.Kickstarters.Enabled && catalog != nil {
		for _, id := range cfg.Kickstarters.SelectedIDs {
			if it, ok := catalog.Get(id); ok {
				d.Questions = append(d.Questions, kickstarters.Render(it, cfg.BusinessName))
			}
		}
	}
	if cfg.FallingAnimation.Enabled {
		d.FallingIcon = features.FallingIcons[cfg.FallingAnimation.IconKey]
		d.FallingColor = cfg.FallingAnimation.ColorHex
	}

	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page", d); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}
