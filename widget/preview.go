package widget

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/preview.html
var templateFS embed.FS

var previewTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	// colours are validated hex strings by the time they reach a Layout
	"safeCSS": func(s string) template.CSS { return template.CSS(s) },
}).ParseFS(templateFS, "templates/preview.html"))

// Preview renders the in-app preview of l.
func Preview(l Layout) (template.HTML, error) {
	var buf bytes.Buffer
	if err := previewTmpl.ExecuteTemplate(&buf, "preview", l); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Result is the output of one generator run.
type Result struct {
	Target  Target        `json:"target"`
	Markup  string        `json:"markup"`
	Preview template.HTML `json:"preview"`
	Links   []string      `json:"links"`
}

// Generate builds the layout once and renders both the markup and the preview
// from it.
func Generate(opts Options) (Result, error) {
	l := Build(opts)
	preview, err := Preview(l)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Target:  l.Target,
		Markup:  Render(l),
		Preview: preview,
		Links:   l.Links(),
	}, nil
}
