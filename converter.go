package mdconv

import (
	"fmt"

	"github.com/go-kit/log"

	"github.com/alnah/go-mdconv/internal/logging"
	"github.com/alnah/go-mdconv/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.TextPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pdfPrinter                    = (*rodPrinter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
	_ AssetLoader                   = (*Converter)(nil)
	_ Renderer                      = (*Converter)(nil)
	_ Exporter                      = (*Converter)(nil)
)

// Converter renders Markdown, exports self-contained HTML, and prints PDFs.
// Rendering and export are safe for concurrent use. Printing drives one
// browser and must not be called concurrently; use a PrinterPool for that.
// Create with NewConverter and Close when done.
type Converter struct {
	cfg           converterConfig
	logger        log.Logger
	assetLoader   AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	printer       pdfPrinter
}

// NewConverter creates a Converter with default configuration.
// Returns ErrInvalidAssetPath if WithAssetPath names an unusable directory.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:          defaultConverterConfig(),
		logger:       log.NewNopLogger(),
		preprocessor: &pipeline.TextPreprocessor{},
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.Component(c.logger, "converter")

	if c.assetLoader == nil {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.assetLoader = loader
	}

	// Injected by tests.
	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.GoldmarkOptions{
			AllowRawHTML: c.cfg.allowRawHTML,
			HardWraps:    c.cfg.hardWraps,
		})
	}
	if c.printer == nil {
		c.printer = newRodPrinter(c.cfg.timeout, c.logger)
	}

	return c, nil
}

// LoadStyle loads a stylesheet through the configured asset loader.
func (c *Converter) LoadStyle(name string) (string, error) {
	return c.assetLoader.LoadStyle(name)
}

// LoadTemplate loads a page template through the configured asset loader.
func (c *Converter) LoadTemplate(name string) (string, error) {
	return c.assetLoader.LoadTemplate(name)
}

// Styles returns the configured base and highlight stylesheet names.
func (c *Converter) Styles() (base, highlight string) {
	return c.cfg.baseStyle, c.cfg.highlightStyle
}

// Close releases the headless browser, if one was started.
func (c *Converter) Close() error {
	if c.printer != nil {
		if err := c.printer.Close(); err != nil {
			return fmt.Errorf("closing printer: %w", err)
		}
	}
	return nil
}

// recoverInto turns a panic into an error on *errp.
func recoverInto(errp *error, op string) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("%s: internal error: %v", op, r)
	}
}
