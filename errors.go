package mdconv

import "errors"

// Sentinel errors for library operations.
var (
	// Intake rejections. ValidationOutcome.Err wraps one of these.
	ErrInvalidExtension = errors.New("invalid file type")
	ErrSizeExceeded     = errors.New("file size exceeds limit")
	ErrBinaryContent    = errors.New("file content is not text")
	ErrReadFailure      = errors.New("failed to read file")

	// Session state errors.
	ErrNoSelection = errors.New("no file selected")
	ErrNoDocument  = errors.New("no active document")
	ErrStaleResult = errors.New("result superseded by a newer action")

	ErrExport         = errors.New("HTML export failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
