package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdconv/internal/config"
)

const envPrefix = "MDCONV_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without a YAML file.
type envConfig struct {
	ConfigPath string        // MDCONV_CONFIG: config file name or path
	Addr       string        // MDCONV_ADDR: server listen address
	Lang       string        // MDCONV_LANG: fallback UI and export language
	Style      string        // MDCONV_STYLE: document stylesheet name
	Highlight  string        // MDCONV_HIGHLIGHT: highlight stylesheet name
	AssetPath  string        // MDCONV_ASSET_PATH: custom asset directory
	Timeout    time.Duration // MDCONV_TIMEOUT: print timeout
	PageSize   string        // MDCONV_PAGE_SIZE: letter, a4, legal
	LogLevel   string        // MDCONV_LOG_LEVEL: debug, info, warn, error
	Workers    int           // MDCONV_WORKERS: parallel workers
}

// knownEnvVars lists valid MDCONV_* variables, for typo detection.
var knownEnvVars = map[string]bool{
	"MDCONV_CONFIG":     true,
	"MDCONV_ADDR":       true,
	"MDCONV_LANG":       true,
	"MDCONV_STYLE":      true,
	"MDCONV_HIGHLIGHT":  true,
	"MDCONV_ASSET_PATH": true,
	"MDCONV_TIMEOUT":    true,
	"MDCONV_PAGE_SIZE":  true,
	"MDCONV_LOG_LEVEL":  true,
	"MDCONV_WORKERS":    true,
}

// loadEnvConfig reads MDCONV_* variables through getenv. Unparsable
// timeout and worker values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDCONV_CONFIG"),
		Addr:       getenv("MDCONV_ADDR"),
		Lang:       getenv("MDCONV_LANG"),
		Style:      getenv("MDCONV_STYLE"),
		Highlight:  getenv("MDCONV_HIGHLIGHT"),
		AssetPath:  getenv("MDCONV_ASSET_PATH"),
		PageSize:   getenv("MDCONV_PAGE_SIZE"),
		LogLevel:   getenv("MDCONV_LOG_LEVEL"),
	}

	if timeout := getenv("MDCONV_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MDCONV_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for every unrecognized MDCONV_*
// variable, e.g. MDCONV_STYEL.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set variables onto cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (flags are merged afterwards).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Lang != "" {
		cfg.Server.Lang = env.Lang
		cfg.Export.Lang = env.Lang
	}
	if env.Style != "" {
		cfg.Styles.Base = env.Style
	}
	if env.Highlight != "" {
		cfg.Styles.Highlight = env.Highlight
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Timeout > 0 {
		cfg.Print.Timeout = env.Timeout.String()
	}
	if env.PageSize != "" {
		cfg.Print.PageSize = env.PageSize
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
