package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// fileJob is a single file to process.
type fileJob struct {
	InputPath  string
	OutputPath string
}

// jobResult holds the outcome of a single file.
type jobResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Warnings   []string
	Duration   time.Duration
}

// batchError reports a batch with failed files. It unwraps to every file
// error so exit codes follow the underlying causes.
type batchError struct {
	failed int
	total  int
	errs   []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d files failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}

// outputNamer maps an input path to its output file name.
type outputNamer func(inputPath string) string

// htmlName names exports the way the browser download does.
func htmlName(inputPath string) string {
	return mdconv.ExportFilename(filepath.Base(inputPath))
}

// pdfName swaps the text extension for .pdf.
func pdfName(inputPath string) string {
	return fileutil.TrimSuffixFold(filepath.Base(inputPath), mdconv.AcceptedExtensions...) + ".pdf"
}

// discoverFiles expands inputs into jobs. Directories are walked for files
// with an accepted extension, skipping hidden entries; explicit files are
// kept as given so the validator can reject them with a reason.
func discoverFiles(inputs []string, outputDir string, name outputNamer) ([]fileJob, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	var jobs []fileJob
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			jobs = append(jobs, fileJob{InputPath: input, OutputPath: resolveOutputPath(input, outputDir, "", name)})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if path != input && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := fileutil.HasSuffixFold(path, mdconv.AcceptedExtensions...); !ok {
				return nil
			}
			jobs = append(jobs, fileJob{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, input, name)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrNoInput,
			strings.Join(mdconv.AcceptedExtensions, ", "), strings.Join(inputs, ", "))
	}
	if len(jobs) > 1 && isOutputFile(outputDir, name) {
		return nil, fmt.Errorf("%w: --output %s names a file but %d inputs were found", ErrUsage, outputDir, len(jobs))
	}
	return jobs, nil
}

// isOutputFile reports whether output names a single file: it carries the
// extension the namer produces.
func isOutputFile(output string, name outputNamer) bool {
	if output == "" {
		return false
	}
	_, ok := fileutil.HasSuffixFold(output, filepath.Ext(name("x.md")))
	return ok
}

// resolveOutputPath places the output next to the input, at outputDir when
// it names a file, or under outputDir keeping the path relative to
// baseInputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, name outputNamer) string {
	base := name(inputPath)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if isOutputFile(outputDir, name) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// runBatch runs fn for every job with at most limit in flight. Results
// keep the job order. Once ctx is done, remaining jobs fail with its error.
func runBatch(ctx context.Context, jobs []fileJob, limit int, fn func(context.Context, fileJob) jobResult) []jobResult {
	results := make([]jobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = jobResult{InputPath: job.InputPath, Err: err}
				return nil
			}
			start := time.Now()
			r := fn(ctx, job)
			r.InputPath = job.InputPath
			r.Duration = time.Since(start)
			results[i] = r
			return nil
		})
	}
	_ = g.Wait() // jobs report through results

	return results
}

// writeOutput creates parent directories and writes data.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	// #nosec G306 -- exported documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// openDocument reads, validates, and renders one file.
func openDocument(ctx context.Context, v *mdconv.Validator, r mdconv.Renderer, path string) (*mdconv.Markup, error) {
	candidate, err := mdconv.OpenCandidate(path)
	if err != nil {
		return nil, err
	}
	out := v.Validate(ctx, candidate)
	if !out.Accepted() {
		return nil, out.Err()
	}
	return r.Render(ctx, out.Text)
}

// reportResults prints per-file outcomes and returns a batchError when any
// file failed.
func reportResults(results []jobResult, rc *runtimeConfig, env *Environment) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "warning: %s: %s\n", r.InputPath, w)
		}
		if rc.quiet {
			continue
		}
		if rc.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !rc.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-len(errs), len(errs))
	}

	if len(errs) > 0 {
		return &batchError{failed: len(errs), total: len(results), errs: errs}
	}
	return nil
}
