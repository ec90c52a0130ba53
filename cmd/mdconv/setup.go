package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-kit/log"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
	"github.com/alnah/go-mdconv/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// defaultPrintTimeout applies when neither config nor flags set one.
const defaultPrintTimeout = 30 * time.Second

// runtimeConfig is the merged configuration of one command run.
type runtimeConfig struct {
	cfg     *config.Config
	env     *envConfig
	logger  log.Logger
	quiet   bool
	verbose bool
}

// loadRuntimeConfig loads the config file (flag, then MDCONV_CONFIG),
// overlays env vars, lets merge apply command flags, validates the result,
// and builds the logger.
func loadRuntimeConfig(common commonFlags, env *Environment, merge func(*config.Config)) (*runtimeConfig, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if common.logFormat != "" {
		cfg.Log.Format = common.logFormat
	}
	if merge != nil {
		merge(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(env.Stderr, cfg, common)
	if err != nil {
		return nil, err
	}

	return &runtimeConfig{
		cfg:     cfg,
		env:     envCfg,
		logger:  logger,
		quiet:   common.quiet,
		verbose: common.verbose,
	}, nil
}

// newLogger builds the CLI logger; --verbose forces debug, --quiet errors only.
func newLogger(w io.Writer, cfg *config.Config, common commonFlags) (log.Logger, error) {
	lvl := cfg.Log.Level
	switch {
	case common.verbose:
		lvl = "debug"
	case common.quiet:
		lvl = "error"
	}
	return logging.New(w, cfg.Log.Format, lvl)
}

func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.noRawHTML {
		cfg.Render.AllowRawHTML = false
	}
	if f.hardWraps {
		cfg.Render.HardWraps = true
	}
}

func mergeStyleFlags(f styleFlags, cfg *config.Config) {
	if f.base != "" {
		cfg.Styles.Base = f.base
	}
	if f.highlight != "" {
		cfg.Styles.Highlight = f.highlight
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

func mergePageFlags(f pageFlags, cfg *config.Config) {
	if f.size != "" {
		cfg.Print.PageSize = f.size
	}
	if f.orientation != "" {
		cfg.Print.Orientation = f.orientation
	}
	if f.margin != 0 {
		cfg.Print.Margin = f.margin
	}
}

// converterOptions maps the merged config onto library options.
func (rc *runtimeConfig) converterOptions() []mdconv.Option {
	opts := []mdconv.Option{
		mdconv.WithLogger(rc.logger),
		mdconv.WithRawHTML(rc.cfg.Render.AllowRawHTML),
		mdconv.WithHardWraps(rc.cfg.Render.HardWraps),
		mdconv.WithStyles(rc.cfg.Styles.Base, rc.cfg.Styles.Highlight),
		mdconv.WithExportLang(rc.cfg.Export.Lang),
		mdconv.WithTimeout(rc.cfg.PrintTimeout(defaultPrintTimeout)),
	}
	if rc.cfg.Assets.BasePath != "" {
		opts = append(opts, mdconv.WithAssetPath(rc.cfg.Assets.BasePath))
	}
	return opts
}

// pageSettings builds validated print settings from the config.
func (rc *runtimeConfig) pageSettings() (*mdconv.PageSettings, error) {
	page := mdconv.DefaultPageSettings()
	if rc.cfg.Print.PageSize != "" {
		page.Size = rc.cfg.Print.PageSize
	}
	if rc.cfg.Print.Orientation != "" {
		page.Orientation = rc.cfg.Print.Orientation
	}
	if rc.cfg.Print.Margin != 0 {
		page.Margin = rc.cfg.Print.Margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// resolveWorkers picks flag, then MDCONV_WORKERS, then auto.
func (rc *runtimeConfig) resolveWorkers(flagWorkers int) (int, error) {
	if err := validateWorkers(flagWorkers); err != nil {
		return 0, err
	}
	if flagWorkers == 0 {
		flagWorkers = rc.env.Workers
	}
	return mdconv.ResolvePoolSize(flagWorkers), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdconv.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdconv.MaxPoolSize)
	}
	return nil
}
