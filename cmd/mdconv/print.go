package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-kit/log/level"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
)

// runPrint prints each input to PDF through a pool of browsers.
func runPrint(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parsePrintFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	rc, err := loadRuntimeConfig(flags.common, env, func(cfg *config.Config) {
		mergeRenderFlags(flags.render, cfg)
		mergeStyleFlags(flags.styles, cfg)
		mergePageFlags(flags.page, cfg)
		if flags.timeout != "" {
			cfg.Print.Timeout = flags.timeout
		}
		if flags.lang != "" {
			cfg.Export.Lang = flags.lang
		}
	})
	if err != nil {
		return err
	}

	page, err := rc.pageSettings()
	if err != nil {
		return err
	}

	workers, err := rc.resolveWorkers(flags.workers)
	if err != nil {
		return err
	}

	jobs, err := discoverFiles(inputs, flags.output, pdfName)
	if err != nil {
		return err
	}

	pool := mdconv.NewPrinterPool(min(workers, len(jobs)), rc.converterOptions()...)
	defer func() {
		if err := pool.Close(); err != nil {
			level.Warn(rc.logger).Log("msg", "closing printer pool", "err", err)
		}
	}()

	validator := mdconv.NewValidator(rc.logger)
	level.Debug(rc.logger).Log("msg", "printing", "files", len(jobs), "browsers", pool.Size())

	results := runBatch(ctx, jobs, pool.Size(), func(ctx context.Context, job fileJob) jobResult {
		return printFile(ctx, pool, validator, page, job)
	})
	return reportResults(results, rc, env)
}

// printFile renders one file, resolves its relative resource paths against
// the file's directory, and writes the PDF.
func printFile(ctx context.Context, pool *mdconv.PrinterPool, v *mdconv.Validator, page *mdconv.PageSettings, job fileJob) jobResult {
	result := jobResult{OutputPath: job.OutputPath}

	conv, err := pool.Acquire(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	defer pool.Release(conv)

	markup, err := openDocument(ctx, v, conv, job.InputPath)
	if err != nil {
		result.Err = err
		return result
	}

	sourceDir, err := filepath.Abs(filepath.Dir(job.InputPath))
	if err != nil {
		result.Err = fmt.Errorf("resolving %s: %w", job.InputPath, err)
		return result
	}
	markup, err = markup.WithResolvedPaths(sourceDir)
	if err != nil {
		result.Err = err
		return result
	}

	doc, err := conv.Export(ctx, markup, filepath.Base(job.InputPath))
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = doc.Warnings

	pdf, err := conv.Print(ctx, doc, page)
	if err != nil {
		result.Err = err
		return result
	}

	if err := writeOutput(job.OutputPath, pdf); err != nil {
		result.Err = err
	}
	return result
}
