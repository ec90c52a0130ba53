package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// byteOrderMark is U+FEFF as it appears after UTF-8 decoding.
const byteOrderMark = "\uFEFF"

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// TextPreprocessor prepares decoded text for Goldmark.
// It never changes the meaning of the document, only its encoding artifacts.
type TextPreprocessor struct{}

// PreprocessMarkdown strips a leading BOM and normalizes line endings to \n.
func (p *TextPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	if !strings.ContainsRune(content, '\r') {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}

var _ MarkdownPreprocessor = (*TextPreprocessor)(nil)
