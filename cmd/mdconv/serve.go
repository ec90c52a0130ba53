package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
	"github.com/alnah/go-mdconv/internal/server"
	"github.com/alnah/go-mdconv/internal/watch"
)

// runServe starts the local preview server, optionally with a file already
// open and reloaded on change.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: serve takes at most one file, got %d", ErrUsage, len(rest))
	}
	if flags.watch && len(rest) == 0 {
		return fmt.Errorf("%w: --watch needs a file argument", ErrUsage)
	}

	rc, err := loadRuntimeConfig(flags.common, env, func(cfg *config.Config) {
		mergeRenderFlags(flags.render, cfg)
		mergeStyleFlags(flags.styles, cfg)
		if flags.addr != "" {
			cfg.Server.Addr = flags.addr
		}
		if flags.lang != "" {
			cfg.Server.Lang = flags.lang
		}
	})
	if err != nil {
		return err
	}

	conv, err := mdconv.NewConverter(rc.converterOptions()...)
	if err != nil {
		return err
	}
	defer conv.Close()

	session := mdconv.NewSession(conv, conv,
		mdconv.WithSessionLogger(rc.logger),
		mdconv.WithValidator(mdconv.NewValidator(rc.logger)),
	)

	var watcher *watch.Watcher
	if len(rest) == 1 {
		if err := openInitial(ctx, session, rest[0], rc.logger); err != nil {
			return err
		}
		if flags.watch {
			watcher, err = watch.New(rest[0], session, watch.WithLogger(rc.logger))
			if err != nil {
				return err
			}
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(conv, session, server.Config{
		Addr:        rc.cfg.Server.Addr,
		DefaultLang: rc.cfg.Server.Lang,
		Logger:      rc.logger,
	})
	if err != nil {
		return err
	}

	ln, err := srv.Listen(ctx)
	if err != nil {
		return err
	}
	if !rc.quiet {
		fmt.Fprintf(env.Stdout, "Serving on http://%s (Ctrl+C to stop)\n", ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	return g.Wait()
}

// openInitial opens path in the session before the server starts.
func openInitial(ctx context.Context, session *mdconv.Session, path string, logger log.Logger) error {
	candidate, err := mdconv.OpenCandidate(path)
	if err != nil {
		return err
	}
	snap, err := session.Open(ctx, candidate)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "opened", "file", path, "generation", snap.Generation)
	return nil
}
