// Package config loads and validates the mdconv YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdconv/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength      = 255
	MaxLangLength      = 35 // BCP 47 tags are short; generous for private-use subtags
	MaxStyleNameLength = 64
	MaxPathLength      = 4096
	MaxTimeoutLength   = 20
)

// Margin bounds in inches, mirrored from the print settings.
const (
	minMargin = 0.25
	maxMargin = 3.0
)

// appDirName is the directory under os.UserConfigDir searched for named configs.
const appDirName = "mdconv"

// Config holds all configuration for mdconv.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
	Styles StylesConfig `yaml:"styles"`
	Assets AssetsConfig `yaml:"assets"`
	Export ExportConfig `yaml:"export"`
	Print  PrintConfig  `yaml:"print"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig defines the local preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address, loopback by default
	Lang string `yaml:"lang"` // Fallback UI language when Accept-Language does not match
}

// RenderConfig defines markdown rendering options.
type RenderConfig struct {
	AllowRawHTML bool `yaml:"allowRawHTML"` // Pass embedded HTML through unescaped
	HardWraps    bool `yaml:"hardWraps"`    // Treat single newlines as <br>
}

// StylesConfig names the two stylesheets inlined into exports.
type StylesConfig struct {
	Base      string `yaml:"base"`      // Document stylesheet name
	Highlight string `yaml:"highlight"` // Syntax highlighting stylesheet name
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded assets only
}

// ExportConfig defines HTML export options.
type ExportConfig struct {
	Lang string `yaml:"lang"` // <html lang> of exported documents
}

// PrintConfig defines print-to-PDF options.
type PrintConfig struct {
	PageSize    string  `yaml:"pageSize"`    // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
	Timeout     string  `yaml:"timeout"`     // Go duration, e.g. "30s"
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "logfmt", "json"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080", Lang: "en"},
		Render: RenderConfig{AllowRawHTML: true, HardWraps: false},
		Styles: StylesConfig{Base: "github-markdown", Highlight: "chroma-github"},
		Assets: AssetsConfig{BasePath: ""},
		Export: ExportConfig{Lang: "en"},
		Print:  PrintConfig{PageSize: "letter", Orientation: "portrait", Margin: 0.5, Timeout: "30s"},
		Log:    LogConfig{Level: "info", Format: "logfmt"},
	}
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"server.lang", c.Server.Lang, MaxLangLength},
		{"styles.base", c.Styles.Base, MaxStyleNameLength},
		{"styles.highlight", c.Styles.Highlight, MaxStyleNameLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"export.lang", c.Export.Lang, MaxLangLength},
		{"print.timeout", c.Print.Timeout, MaxTimeoutLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if err := validateEnum("print.pageSize", c.Print.PageSize, "letter", "a4", "legal"); err != nil {
		return err
	}
	if err := validateEnum("print.orientation", c.Print.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if c.Print.Margin != 0 && (c.Print.Margin < minMargin || c.Print.Margin > maxMargin) {
		return fmt.Errorf("%w: print.margin must be between %.2f and %.2f, got %.2f",
			ErrInvalidValue, minMargin, maxMargin, c.Print.Margin)
	}
	if c.Print.Timeout != "" {
		d, err := time.ParseDuration(c.Print.Timeout)
		if err != nil {
			return fmt.Errorf("%w: print.timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: print.timeout must be positive, got %s", ErrInvalidValue, c.Print.Timeout)
		}
	}

	if err := validateEnum("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return validateEnum("log.format", c.Log.Format, "logfmt", "json")
}

// PrintTimeout returns the parsed print timeout, or fallback when unset.
func (c *Config) PrintTimeout(fallback time.Duration) time.Duration {
	if c.Print.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Print.Timeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed (case-insensitive).
func validateEnum(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/mdconv/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
