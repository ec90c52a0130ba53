package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdconv"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport holds all diagnostic information.
type doctorReport struct {
	Status   string       `json:"status"`
	Chrome   chromeReport `json:"chrome"`
	Env      envReport    `json:"environment"`
	Assets   assetReport  `json:"assets"`
	TempDir  string       `json:"temp_dir"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type chromeReport struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envReport struct {
	Platform   string `json:"platform"`
	Container  string `json:"container,omitempty"` // detection signal, empty if none
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

type assetReport struct {
	Styles    int  `json:"styles"`
	Defaults  bool `json:"defaults_loaded"`
	Templates bool `json:"templates_loaded"`
}

// doctorChecks are the environment lookups run by doctor; tests replace them.
type doctorChecks struct {
	getenv     func(string) string
	lookPath   func() (string, bool)
	version    func(path string) (string, error)
	fileExists func(path string) bool
	tempDir    func() (string, error)
}

func defaultDoctorChecks(env *Environment) doctorChecks {
	return doctorChecks{
		getenv:   env.Getenv,
		lookPath: launcher.LookPath,
		version: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser binary path
			return strings.TrimSpace(string(out)), err
		},
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		tempDir: func() (string, error) {
			f, err := os.CreateTemp("", "mdconv-doctor-*")
			if err != nil {
				return os.TempDir(), err
			}
			name := f.Name()
			_ = f.Close()
			_ = os.Remove(name)
			return os.TempDir(), nil
		},
	}
}

// runDoctorCmd runs diagnostics and returns ExitGeneral if any check failed.
func runDoctorCmd(args []string, env *Environment) int {
	report := runDoctor(defaultDoctorChecks(env))

	if slices.Contains(args, "--json") {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(c doctorChecks) *doctorReport {
	r := &doctorReport{
		Env: envReport{
			Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			NoSandbox:  c.getenv("ROD_NO_SANDBOX"),
			BrowserBin: c.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(r, c)
	checkEnvironment(r, c)
	checkAssets(r)

	dir, err := c.tempDir()
	r.TempDir = dir
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("temp directory %s not writable: %v", dir, err))
	}

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

func checkChrome(r *doctorReport, c doctorChecks) {
	path := r.Env.BrowserBin
	if path == "" {
		var found bool
		if path, found = c.lookPath(); !found {
			r.Errors = append(r.Errors, "Chrome/Chromium not found; install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !c.fileExists(path) {
		r.Errors = append(r.Errors, "Chrome not found at "+path)
		return
	}

	r.Chrome.Found = true
	r.Chrome.Path = path
	r.Chrome.Sandbox = r.Env.NoSandbox != "1"

	v, err := c.version(path)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("could not get Chrome version: %v", err))
		return
	}
	r.Chrome.Version = v
}

func checkEnvironment(r *doctorReport, c doctorChecks) {
	switch {
	case c.getenv("MDCONV_CONTAINER") == "1":
		r.Env.Container = "MDCONV_CONTAINER=1"
	case c.fileExists("/.dockerenv"):
		r.Env.Container = "/.dockerenv"
	case c.getenv("container") != "":
		r.Env.Container = "container=" + c.getenv("container")
	case c.getenv("KUBERNETES_SERVICE_HOST") != "":
		r.Env.Container = "KUBERNETES_SERVICE_HOST"
	}

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if c.getenv(v) != "" {
			r.Env.CI = true
			break
		}
	}

	if (r.Env.Container != "" || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.Warnings = append(r.Warnings, "container/CI detected but ROD_NO_SANDBOX not set; set ROD_NO_SANDBOX=1")
	}
}

// checkAssets loads the built-in stylesheets and page templates.
func checkAssets(r *doctorReport) {
	r.Assets.Styles = len(mdconv.StyleNames())

	loader, err := mdconv.NewAssetLoader("")
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("embedded assets: %v", err))
		return
	}
	if _, err := loader.LoadStyle(mdconv.DefaultBaseStyle); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("default stylesheet: %v", err))
	} else if _, err := loader.LoadStyle(mdconv.DefaultHighlightStyle); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("highlight stylesheet: %v", err))
	} else {
		r.Assets.Defaults = true
	}

	for _, name := range []string{"upload", "preview"} {
		if _, err := loader.LoadTemplate(name); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("template %s: %v", name, err))
			return
		}
	}
	r.Assets.Templates = true
}

// printDoctorReport writes human-readable diagnostics.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "mdconv doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s\n", r.Env.Platform)
	if r.Env.Container != "" {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.Container)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	fmt.Fprintf(w, "  [OK] Styles available: %d\n", r.Assets.Styles)
	if r.Assets.Defaults && r.Assets.Templates {
		fmt.Fprintln(w, "  [OK] Default styles and templates load")
	} else {
		fmt.Fprintln(w, "  [ERROR] Built-in assets incomplete")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", e)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to print")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
