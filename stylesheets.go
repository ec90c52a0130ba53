package mdconv

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// loadStylesheets fetches the base and highlight sheets concurrently and
// waits for both. A sheet that fails to load is left empty and reported in
// the returned warnings. Only context errors are returned.
func (c *Converter) loadStylesheets(ctx context.Context) (Stylesheets, []string, error) {
	var (
		sheets   Stylesheets
		mu       sync.Mutex
		warnings []string
	)

	load := func(name string, dst *string) func() error {
		return func() error {
			css, err := c.loadStyleContext(ctx, name)
			if err != nil {
				if isContextError(err) {
					return err
				}
				level.Warn(c.logger).Log("msg", "stylesheet unavailable, exporting without it", "style", name, "err", err)
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("stylesheet %q unavailable: %v", name, err))
				mu.Unlock()
				return nil
			}
			*dst = css
			return nil
		}
	}

	var g errgroup.Group
	g.Go(load(c.cfg.baseStyle, &sheets.Base))
	g.Go(load(c.cfg.highlightStyle, &sheets.Highlight))
	if err := g.Wait(); err != nil {
		return Stylesheets{}, nil, err
	}

	sort.Strings(warnings)
	return sheets, warnings, nil
}

// loadStyleContext runs a synchronous LoadStyle but stops waiting when ctx
// is done.
func (c *Converter) loadStyleContext(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		css string
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("loading style %q: panic: %v", name, r)}
			}
		}()
		css, err := c.assetLoader.LoadStyle(name)
		done <- result{css: css, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.css, r.err
	}
}
