package mdconv

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdconv/internal/fileutil"
	"github.com/alnah/go-mdconv/internal/pipeline"
)

const htmlExtension = ".html"

// ExportOption configures ExportHTML.
type ExportOption func(*exportConfig)

type exportConfig struct {
	lang string
}

// WithDocumentLang sets the lang attribute of the exported <html> element.
func WithDocumentLang(lang string) ExportOption {
	return func(c *exportConfig) {
		c.lang = lang
	}
}

// ExportFilename derives the download name: a trailing .md, .markdown or
// .txt (any case) becomes .html, and .html is appended if still missing.
func ExportFilename(name string) string {
	out := name
	if suffix, ok := fileutil.HasSuffixFold(name, AcceptedExtensions...); ok {
		out = name[:len(name)-len(suffix)] + htmlExtension
	}
	if _, ok := fileutil.HasSuffixFold(out, htmlExtension); !ok {
		out += htmlExtension
	}
	return out
}

// exportTitle is the filename without its text extension.
func exportTitle(name string) string {
	return fileutil.TrimSuffixFold(name, AcceptedExtensions...)
}

// ExportHTML wraps rendered markup and stylesheets into a standalone HTML5
// document. It does no I/O.
func ExportHTML(markupHTML, filename string, sheets Stylesheets, opts ...ExportOption) (*ExportedDocument, error) {
	var cfg exportConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := pipeline.BuildDocument(pipeline.DocumentParts{
		Lang:         cfg.lang,
		Title:        exportTitle(filename),
		BaseCSS:      sheets.Base,
		HighlightCSS: sheets.Highlight,
		Body:         markupHTML,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	return &ExportedDocument{
		HTML:     data,
		Filename: ExportFilename(filename),
		MIMEType: HTMLMIMEType,
	}, nil
}

// Export serializes markup and wraps it with the configured stylesheets.
// Missing stylesheets degrade the result instead of failing it; only
// context errors are returned.
func (c *Converter) Export(ctx context.Context, markup *Markup, filename string) (doc *ExportedDocument, err error) {
	defer recoverInto(&err, "export")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := markup.Serialize()

	sheets, warnings, err := c.loadStylesheets(ctx)
	if err != nil {
		return nil, err
	}

	doc, err = ExportHTML(body, filename, sheets, WithDocumentLang(c.cfg.exportLang))
	if err != nil {
		return nil, err
	}
	doc.Degraded = len(warnings) > 0
	doc.Warnings = warnings
	return doc, nil
}
