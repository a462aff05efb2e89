package web

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/thenoetrevino/studio/internal/models"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Document content is user input; the rendered HTML goes through the UGC policy.
var sanitizer = bluemonday.UGCPolicy()

var documentPage = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<article>
<h1>{{.Title}}</h1>
{{.Body}}
</article>
</body>
</html>
`))

// renderMarkdown converts markdown to sanitized HTML
func renderMarkdown(src string) ([]byte, error) {
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return nil, err
	}
	return sanitizer.SanitizeBytes(b.Bytes()), nil
}

// renderDocument renders a document as a standalone HTML page
func renderDocument(d *models.Document) ([]byte, error) {
	body, err := renderMarkdown(d.Content)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	err = documentPage.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: d.Title, Body: template.HTML(body)})
	return out.Bytes(), err
}
