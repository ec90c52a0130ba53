package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// renderFlags holds markdown rendering flags.
type renderFlags struct {
	noRawHTML bool
	hardWraps bool
}

// styleFlags holds stylesheet and asset flags.
type styleFlags struct {
	base      string
	highlight string
	assetPath string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	render renderFlags
	styles styleFlags
	addr   string
	lang   string
	watch  bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common  commonFlags
	render  renderFlags
	styles  styleFlags
	output  string
	workers int
	lang    string
}

// printFlags holds all flags for the print command.
type printFlags struct {
	common  commonFlags
	render  renderFlags
	styles  styleFlags
	page    pageFlags
	output  string
	workers int
	timeout string
	lang    string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and timings")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: logfmt, json")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.noRawHTML, "no-raw-html", false, "escape HTML embedded in markdown")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render single newlines as line breaks")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.base, "style", "", "document stylesheet name")
	fs.StringVar(&f.highlight, "highlight", "", "syntax highlighting stylesheet (chroma-<theme>)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseErr tags flag errors so they map to ExitUsage. ErrHelp passes
// through untouched.
func parseErr(err error) error {
	if err == nil || err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	fs := newFlagSet("serve", w, printServeUsage)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.StringVar(&f.lang, "lang", "", "fallback UI language: en, zh-CN")
	fs.BoolVar(&f.watch, "watch", false, "reload the opened file when it changes")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.styles)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	fs := newFlagSet("export", w, printExportUsage)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.lang, "lang", "", "lang attribute of exported documents")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.styles)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}

// parsePrintFlags parses print command flags and returns positional args.
func parsePrintFlags(args []string, w io.Writer) (*printFlags, []string, error) {
	fs := newFlagSet("print", w, printPrintUsage)
	f := &printFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document print timeout (e.g. 30s, 2m)")
	fs.StringVar(&f.lang, "lang", "", "lang attribute of printed documents")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.styles)
	addPageFlags(fs, &f.page)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseErr(err)
	}
	return f, fs.Args(), nil
}
