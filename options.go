package mdconv

import (
	"strings"
	"time"

	"github.com/go-kit/log"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	assetPath      string
	allowRawHTML   bool
	hardWraps      bool
	baseStyle      string
	highlightStyle string
	exportLang     string
}

// defaultTimeout bounds a single print when the context has no deadline.
const defaultTimeout = 30 * time.Second

func defaultConverterConfig() converterConfig {
	return converterConfig{
		timeout:        defaultTimeout,
		allowRawHTML:   true,
		baseStyle:      DefaultBaseStyle,
		highlightStyle: DefaultHighlightStyle,
	}
}

// WithTimeout sets the print timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdconv: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. The converter adds its own component key.
func WithLogger(logger log.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRawHTML controls whether HTML embedded in Markdown passes through
// unescaped. Enabled by default; disable it for untrusted input.
func WithRawHTML(allow bool) Option {
	return func(c *Converter) {
		c.cfg.allowRawHTML = allow
	}
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.hardWraps = enabled
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets. Ignored if WithAssetLoader is also given.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.assetLoader = loader
	}
}

// WithStyles selects the base and highlight stylesheets by name.
// Empty names keep the defaults.
func WithStyles(base, highlight string) Option {
	return func(c *Converter) {
		if base = strings.TrimSpace(base); base != "" {
			c.cfg.baseStyle = base
		}
		if highlight = strings.TrimSpace(highlight); highlight != "" {
			c.cfg.highlightStyle = highlight
		}
	}
}

// WithExportLang sets the lang attribute of exported documents.
func WithExportLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.exportLang = lang
	}
}
