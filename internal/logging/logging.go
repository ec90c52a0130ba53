// Package logging builds the go-kit structured logger shared by the
// library, the preview server, and the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrUnknownLevel is returned for level names outside debug/info/warn/error.
var ErrUnknownLevel = errors.New("unknown log level")

// ErrUnknownFormat is returned for formats other than logfmt and json.
var ErrUnknownFormat = errors.New("unknown log format")

// New returns a synchronized logger writing to w in the given format,
// filtered at the given level, with timestamp and caller keys.
func New(w io.Writer, format, lvl string) (log.Logger, error) {
	var logger log.Logger
	switch strings.ToLower(format) {
	case "", "logfmt":
		logger = log.NewLogfmtLogger(w)
	case "json":
		logger = log.NewJSONLogger(w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}

	logger = log.NewSyncLogger(logger)
	logger = level.NewFilter(logger, opt)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() log.Logger {
	return log.NewNopLogger()
}

// Component scopes logger to a named component.
func Component(logger log.Logger, name string) log.Logger {
	if logger == nil {
		return Nop()
	}
	return log.With(logger, "component", name)
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, lvl)
	}
}
