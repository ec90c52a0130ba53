package main

// Notes:
// - Usage texts are checked for required content, not exact formatting.
// - runHelp routes each topic and reports unknown ones on stderr.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	for _, s := range []string{"Usage: mdconv", "Commands:", "serve", "export", "print", "doctor", "version", "help"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestCommandUsage - Every registered flag is documented
// ---------------------------------------------------------------------------

func TestCommandUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		flags []string
	}{
		{"serve", func(b *bytes.Buffer) { printServeUsage(b) }, []string{"--addr", "--lang", "--watch", "--no-raw-html", "--hard-wraps", "--style", "--highlight", "--asset-path", "--config", "--log-format"}},
		{"export", func(b *bytes.Buffer) { printExportUsage(b) }, []string{"--output", "--workers", "--lang", "--style"}},
		{"print", func(b *bytes.Buffer) { printPrintUsage(b) }, []string{"--output", "--workers", "--timeout", "--page-size", "--orientation", "--margin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.print(&buf)
			if !strings.Contains(buf.String(), "Usage: mdconv "+tt.name) {
				t.Errorf("missing usage line")
			}
			for _, f := range tt.flags {
				if !strings.Contains(buf.String(), f) {
					t.Errorf("usage should document %s", f)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args       []string
		wantStdout string
		wantStderr string
	}{
		{nil, "Commands:", ""},
		{[]string{"serve"}, "Usage: mdconv serve", ""},
		{[]string{"export"}, "Usage: mdconv export", ""},
		{[]string{"print"}, "Usage: mdconv print", ""},
		{[]string{"doctor"}, "Usage: mdconv doctor", ""},
		{[]string{"version"}, "Usage: mdconv version", ""},
		{[]string{"help"}, "Usage: mdconv help", ""},
		{[]string{"bogus"}, "", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			runHelp(tt.args, env)
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
