package main

// Notes:
// - loadRuntimeConfig: precedence flags > env > file > defaults, and
//   validation of the merged result.
// - pageSettings, resolveWorkers, and hintFor are small mappings tested
//   through tables.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadRuntimeConfig
// ---------------------------------------------------------------------------

func TestLoadRuntimeConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "work.yaml")
	writeTree(t, dir, map[string]string{"work.yaml": "styles:\n  base: from-file\n  highlight: chroma-file\nprint:\n  pageSize: legal\n"})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		rc, err := loadRuntimeConfig(commonFlags{}, env, nil)
		if err != nil {
			t.Fatal(err)
		}
		if *rc.cfg != *config.DefaultConfig() {
			t.Errorf("cfg = %+v", rc.cfg)
		}
	})

	t.Run("precedence", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(map[string]string{"MDCONV_CONFIG": cfgPath, "MDCONV_HIGHLIGHT": "chroma-env", "MDCONV_PAGE_SIZE": "a4"})
		rc, err := loadRuntimeConfig(commonFlags{}, env, func(cfg *config.Config) {
			mergePageFlags(pageFlags{size: "letter"}, cfg)
		})
		if err != nil {
			t.Fatal(err)
		}
		if rc.cfg.Styles.Base != "from-file" {
			t.Errorf("base = %q, want file value", rc.cfg.Styles.Base)
		}
		if rc.cfg.Styles.Highlight != "chroma-env" {
			t.Errorf("highlight = %q, want env value", rc.cfg.Styles.Highlight)
		}
		if rc.cfg.Print.PageSize != "letter" {
			t.Errorf("pageSize = %q, want flag value", rc.cfg.Print.PageSize)
		}
	})

	t.Run("flag config wins over env", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(map[string]string{"MDCONV_CONFIG": filepath.Join(dir, "missing.yaml")})
		rc, err := loadRuntimeConfig(commonFlags{config: cfgPath}, env, nil)
		if err != nil {
			t.Fatal(err)
		}
		if rc.cfg.Print.PageSize != "legal" {
			t.Errorf("pageSize = %q", rc.cfg.Print.PageSize)
		}
	})

	t.Run("invalid merged value", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		_, err := loadRuntimeConfig(commonFlags{}, env, func(cfg *config.Config) {
			mergePageFlags(pageFlags{orientation: "sideways"}, cfg)
		})
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("bad log format flag", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		if _, err := loadRuntimeConfig(commonFlags{logFormat: "xml"}, env, nil); !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("unknown env var warns", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(map[string]string{"MDCONV_STYEL": "x"})
		if _, err := loadRuntimeConfig(commonFlags{}, env, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stderr.String(), "MDCONV_STYEL") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeRenderFlags(renderFlags{}, cfg)
	mergeStyleFlags(styleFlags{}, cfg)
	mergePageFlags(pageFlags{}, cfg)
	if *cfg != *config.DefaultConfig() {
		t.Errorf("zero flags changed config: %+v", cfg)
	}

	mergeRenderFlags(renderFlags{noRawHTML: true, hardWraps: true}, cfg)
	mergeStyleFlags(styleFlags{base: "b", highlight: "chroma-h", assetPath: "/a"}, cfg)
	mergePageFlags(pageFlags{size: "a4", orientation: "landscape", margin: 1}, cfg)
	if cfg.Render.AllowRawHTML || !cfg.Render.HardWraps {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Styles.Base != "b" || cfg.Styles.Highlight != "chroma-h" || cfg.Assets.BasePath != "/a" {
		t.Errorf("styles = %+v, assets = %+v", cfg.Styles, cfg.Assets)
	}
	if cfg.Print.PageSize != "a4" || cfg.Print.Orientation != "landscape" || cfg.Print.Margin != 1 {
		t.Errorf("print = %+v", cfg.Print)
	}
}

// ---------------------------------------------------------------------------
// TestRuntimeConfig_PageSettings
// ---------------------------------------------------------------------------

func TestRuntimeConfig_PageSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		print   config.PrintConfig
		want    mdconv.PageSettings
		wantErr error
	}{
		{"empty uses defaults", config.PrintConfig{}, *mdconv.DefaultPageSettings(), nil},
		{"all set", config.PrintConfig{PageSize: "a4", Orientation: "landscape", Margin: 1.25}, mdconv.PageSettings{Size: "a4", Orientation: "landscape", Margin: 1.25}, nil},
		{"bad size", config.PrintConfig{PageSize: "tabloid"}, mdconv.PageSettings{}, mdconv.ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Print = tt.print
			page, err := (&runtimeConfig{cfg: cfg}).pageSettings()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if *page != tt.want {
				t.Errorf("page = %+v, want %+v", *page, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	auto := mdconv.ResolvePoolSize(0)
	tests := []struct {
		flag, env int
		want      int
		wantErr   bool
	}{
		{0, 0, auto, false},
		{3, 0, 3, false},
		{0, 5, 5, false},
		{2, 5, 2, false},
		{-1, 0, 0, true},
		{mdconv.MaxPoolSize + 1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("flag=%d env=%d", tt.flag, tt.env), func(t *testing.T) {
			t.Parallel()

			rc := &runtimeConfig{env: &envConfig{Workers: tt.env}}
			got, err := rc.resolveWorkers(tt.flag)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkerCount) {
					t.Errorf("error = %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveWorkers(%d) = %d, %v; want %d", tt.flag, got, err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterOptions
// ---------------------------------------------------------------------------

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Styles.Highlight = "chroma-monokai"
	rc := &runtimeConfig{cfg: cfg}

	conv, err := mdconv.NewConverter(rc.converterOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	defer conv.Close()

	if base, hl := conv.Styles(); base != "github-markdown" || hl != "chroma-monokai" {
		t.Errorf("Styles() = %q, %q", base, hl)
	}
	if len(rc.converterOptions()) != 6 {
		t.Errorf("unexpected option count without asset path")
	}
	cfg.Assets.BasePath = t.TempDir()
	if len(rc.converterOptions()) != 7 {
		t.Errorf("asset path option missing")
	}
}

// ---------------------------------------------------------------------------
// TestHintFor
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{mdconv.ErrInvalidExtension, "accepted extensions"},
		{mdconv.ErrSizeExceeded, "10MB"},
		{mdconv.ErrBinaryContent, "null bytes"},
		{mdconv.ErrStyleNotFound, "github-markdown"},
		{config.ErrConfigNotFound, "--config"},
		{ErrWriteOutput, "writable"},
		{fmt.Errorf("listening: %w", &os.SyscallError{Syscall: "bind", Err: syscall.EADDRINUSE}), "--addr"},
		{errors.New("other"), ""},
	}

	for _, tt := range tests {
		got := hintFor(tt.err)
		if tt.want == "" {
			if got != "" {
				t.Errorf("hintFor(%v) = %q, want none", tt.err, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("hintFor(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
