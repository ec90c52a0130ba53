package main

import (
	"context"
	"path/filepath"

	"github.com/go-kit/log/level"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
)

// runExport writes a standalone HTML file for each input.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	rc, err := loadRuntimeConfig(flags.common, env, func(cfg *config.Config) {
		mergeRenderFlags(flags.render, cfg)
		mergeStyleFlags(flags.styles, cfg)
		if flags.lang != "" {
			cfg.Export.Lang = flags.lang
		}
	})
	if err != nil {
		return err
	}

	workers, err := rc.resolveWorkers(flags.workers)
	if err != nil {
		return err
	}

	jobs, err := discoverFiles(inputs, flags.output, htmlName)
	if err != nil {
		return err
	}

	conv, err := mdconv.NewConverter(rc.converterOptions()...)
	if err != nil {
		return err
	}
	defer conv.Close()

	validator := mdconv.NewValidator(rc.logger)
	level.Debug(rc.logger).Log("msg", "exporting", "files", len(jobs), "workers", workers)

	results := runBatch(ctx, jobs, workers, func(ctx context.Context, job fileJob) jobResult {
		return exportFile(ctx, conv, validator, job)
	})
	return reportResults(results, rc, env)
}

// exportFile renders one file and writes its HTML export.
func exportFile(ctx context.Context, conv *mdconv.Converter, v *mdconv.Validator, job fileJob) jobResult {
	result := jobResult{OutputPath: job.OutputPath}

	markup, err := openDocument(ctx, v, conv, job.InputPath)
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

	if err := writeOutput(job.OutputPath, doc.HTML); err != nil {
		result.Err = err
	}
	return result
}
