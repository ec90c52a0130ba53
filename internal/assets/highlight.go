package assets

import (
	"bytes"
	"fmt"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// HighlightPrefix marks style names generated from chroma themes.
const HighlightPrefix = "chroma-"

// highlightCache memoizes generated sheets; chroma styles are immutable.
var highlightCache sync.Map // map[string]string

// HighlightCSS returns the class-based CSS for a chroma style, matching the
// markup emitted when rendering with chromahtml.WithClasses(true).
func HighlightCSS(style string) (string, error) {
	if cached, ok := highlightCache.Load(style); ok {
		return cached.(string), nil
	}

	s, ok := chromastyles.Registry[style]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, HighlightPrefix+style)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, s); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, HighlightPrefix+style, err)
	}

	css := buf.String()
	highlightCache.Store(style, css)
	return css, nil
}

// HighlightNames lists the chroma-backed style names.
func HighlightNames() []string {
	names := chromastyles.Names()
	out := make([]string, 0, len(names))
	for _, n := range names {
		if ValidateAssetName(n) != nil {
			continue
		}
		out = append(out, HighlightPrefix+n)
	}
	return out
}
