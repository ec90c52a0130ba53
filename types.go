package mdconv

import (
	"fmt"
	"strings"
)

// HTMLMIMEType is the media type of every exported document.
const HTMLMIMEType = "text/html; charset=utf-8"

// Document is a validated text file accepted into a session.
type Document struct {
	ID       string // random UUID, unique per confirmation
	Filename string
	RawText  string
}

// Stylesheets holds the two sheets embedded in an exported document.
// Either may be empty when loading failed.
type Stylesheets struct {
	Base      string
	Highlight string
}

// ExportedDocument is a self-contained HTML file ready for download.
type ExportedDocument struct {
	HTML     []byte
	Filename string
	MIMEType string

	// Degraded is true when a stylesheet could not be loaded and the
	// document was assembled without it. Warnings says which.
	Degraded bool
	Warnings []string
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// paperDimensions maps page sizes to portrait width and height in inches.
var paperDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Comparison is case-insensitive; p is not mutated.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Dimensions returns the paper width and height in inches, swapped for
// landscape. Unknown sizes fall back to letter.
func (p *PageSettings) Dimensions() (width, height float64) {
	if p == nil {
		p = DefaultPageSettings()
	}
	dims, ok := paperDimensions[strings.ToLower(p.Size)]
	if !ok {
		dims = paperDimensions[PageSizeLetter]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}
