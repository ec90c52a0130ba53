package pipeline

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// LayoutOverrides follow the stylesheets in every exported document: they
// center the body at a readable width and keep colors when printing.
const LayoutOverrides = `  body { box-sizing: border-box; min-width: 200px; max-width: 980px; margin: 0 auto; padding: 45px; }
  @media (max-width: 767px) { body { padding: 15px; } }
  @media print {
    body { background: white; }
    * { -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
  }`

// DefaultDocumentLang is the <html lang> used when none is given.
const DefaultDocumentLang = "en"

// DocumentParts holds everything a standalone export is built from.
type DocumentParts struct {
	Lang         string
	Title        string
	BaseCSS      string
	HighlightCSS string
	Body         string // Trusted rendered markup
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
{{.BaseCSS}}
{{.HighlightCSS}}
{{.Overrides}}
</style>
</head>
<body>
<div class="markdown-body">
{{.Body}}
</div>
</body>
</html>
`))

type documentData struct {
	Lang         string
	Title        string
	BaseCSS      template.CSS
	HighlightCSS template.CSS
	Overrides    template.CSS
	Body         template.HTML
}

// BuildDocument assembles a self-contained HTML5 document.
// The title and lang are escaped; stylesheets are inlined verbatim except
// for "</" sequences; the body markup is inserted as-is.
func BuildDocument(parts DocumentParts) ([]byte, error) {
	lang := strings.TrimSpace(parts.Lang)
	if lang == "" {
		lang = DefaultDocumentLang
	}

	// #nosec G203 -- stylesheets are sanitized, overrides are constant, body is rendered markup
	data := documentData{
		Lang:         lang,
		Title:        parts.Title,
		BaseCSS:      template.CSS(sanitizeCSS(parts.BaseCSS)),
		HighlightCSS: template.CSS(sanitizeCSS(parts.HighlightCSS)),
		Overrides:    template.CSS(LayoutOverrides),
		Body:         template.HTML(parts.Body),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
