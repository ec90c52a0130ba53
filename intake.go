package mdconv

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/alnah/go-mdconv/internal/fileutil"
)

// MaxFileSize is the inclusive size ceiling for candidate files (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

// binaryScanLimit is how many leading UTF-16 code units are scanned for NUL.
const binaryScanLimit = 1000

// AcceptedExtensions lists the file extensions the validator accepts.
var AcceptedExtensions = []string{".md", ".markdown", ".txt"}

// RejectionKind classifies why a candidate was rejected.
type RejectionKind int

// Rejection kinds, in the order checks run.
const (
	RejectionNone RejectionKind = iota
	RejectionInvalidExtension
	RejectionSizeExceeded
	RejectionBinaryContent
	RejectionReadFailure
)

func (k RejectionKind) String() string {
	switch k {
	case RejectionNone:
		return "none"
	case RejectionInvalidExtension:
		return "invalid_extension"
	case RejectionSizeExceeded:
		return "size_exceeded"
	case RejectionBinaryContent:
		return "binary_content"
	case RejectionReadFailure:
		return "read_failure"
	default:
		return fmt.Sprintf("RejectionKind(%d)", int(k))
	}
}

// sentinel returns the error matching k, or nil for RejectionNone.
func (k RejectionKind) sentinel() error {
	switch k {
	case RejectionNone:
		return nil
	case RejectionInvalidExtension:
		return ErrInvalidExtension
	case RejectionSizeExceeded:
		return ErrSizeExceeded
	case RejectionBinaryContent:
		return ErrBinaryContent
	default:
		return ErrReadFailure
	}
}

// ValidationOutcome is either accepted text or a rejection.
// Text is set only when Reason is RejectionNone.
type ValidationOutcome struct {
	Text     string
	Filename string
	Reason   RejectionKind
	Cause    error // detail for the rejection, may be nil
}

// Accepted reports whether the candidate passed every check.
func (o ValidationOutcome) Accepted() bool {
	return o.Reason == RejectionNone
}

// Err returns nil for an accepted outcome, otherwise the rejection's
// sentinel wrapped with the filename and cause.
func (o ValidationOutcome) Err() error {
	sentinel := o.Reason.sentinel()
	if sentinel == nil {
		return nil
	}
	if o.Cause != nil {
		return fmt.Errorf("%w: %q: %w", sentinel, o.Filename, o.Cause)
	}
	return fmt.Errorf("%w: %q", sentinel, o.Filename)
}

func reject(name string, kind RejectionKind, cause error) ValidationOutcome {
	return ValidationOutcome{Filename: name, Reason: kind, Cause: cause}
}

// Validator decides whether a candidate file is acceptable text.
// It holds no per-file state and is safe for concurrent use.
type Validator struct {
	logger log.Logger
}

// NewValidator returns a Validator logging rejections to logger.
// A nil logger discards output.
func NewValidator(logger log.Logger) *Validator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Validator{logger: logger}
}

// Precheck runs the checks that need no I/O: extension, then reported size.
func (v *Validator) Precheck(c CandidateFile) ValidationOutcome {
	if _, ok := fileutil.HasSuffixFold(c.Name, AcceptedExtensions...); !ok {
		return v.rejected(reject(c.Name, RejectionInvalidExtension,
			fmt.Errorf("accepted extensions: %s", strings.Join(AcceptedExtensions, ", "))))
	}
	if c.Size > MaxFileSize {
		return v.rejected(reject(c.Name, RejectionSizeExceeded,
			fmt.Errorf("%d bytes, limit %d", c.Size, MaxFileSize)))
	}
	return ValidationOutcome{Filename: c.Name}
}

// Validate runs every check in order and stops at the first failure:
// extension, reported size, read, decode, then the NUL scan.
func (v *Validator) Validate(ctx context.Context, c CandidateFile) ValidationOutcome {
	if out := v.Precheck(c); !out.Accepted() {
		return out
	}
	if c.Source == nil {
		return v.rejected(reject(c.Name, RejectionReadFailure, errNoSource))
	}

	data, err := c.Source.ReadContent(ctx)
	if err != nil {
		return v.rejected(reject(c.Name, RejectionReadFailure, err))
	}
	if int64(len(data)) > MaxFileSize {
		return v.rejected(reject(c.Name, RejectionSizeExceeded,
			fmt.Errorf("read more than %d bytes", MaxFileSize)))
	}

	text, err := decodeText(data)
	if err != nil {
		return v.rejected(reject(c.Name, RejectionReadFailure, err))
	}
	if hasLeadingNUL(text, binaryScanLimit) {
		return v.rejected(reject(c.Name, RejectionBinaryContent, nil))
	}

	return ValidationOutcome{Text: text, Filename: c.Name}
}

func (v *Validator) rejected(out ValidationOutcome) ValidationOutcome {
	level.Debug(v.logger).Log("msg", "candidate rejected", "file", out.Filename, "reason", out.Reason, "cause", out.Cause)
	return out
}

// decodeText decodes data the way a browser reads a file as text: a BOM
// selects UTF-8 or UTF-16 and is dropped, otherwise UTF-8 with invalid
// sequences replaced by U+FFFD.
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(out), nil
}

// hasLeadingNUL reports whether U+0000 appears among the first limit UTF-16
// code units. Characters outside the BMP take two units.
func hasLeadingNUL(text string, limit int) bool {
	units := 0
	for _, r := range text {
		if units >= limit {
			return false
		}
		if r == 0 {
			return true
		}
		units += max(utf16.RuneLen(r), 1)
	}
	return false
}
