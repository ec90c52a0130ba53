package main

import (
	"context"
	"errors"
	"syscall"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
	"github.com/alnah/go-mdconv/internal/hints"
)

// hintFor returns an actionable hint suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdconv.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdconv.ErrInvalidExtension):
		return hints.ForInvalidExtension(mdconv.AcceptedExtensions)
	case errors.Is(err, mdconv.ErrSizeExceeded):
		return hints.ForSizeExceeded("10MB")
	case errors.Is(err, mdconv.ErrBinaryContent):
		return hints.ForBinaryContent()
	case errors.Is(err, mdconv.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdconv.StyleNames())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputFile()
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddrInUse()
	default:
		return ""
	}
}
