// Package pipeline implements the text-to-markup and markup-to-document stages.
//
// Stages, in order:
//   - Preprocessing: line ending normalization, BOM removal
//   - Markdown to HTML fragment conversion via Goldmark (GFM, footnotes,
//     class-based chroma highlighting, optional raw HTML passthrough)
//   - Fragment parsing into a golang.org/x/net/html node tree, which is the
//     markup snapshot the export reads from
//   - Standalone document assembly with inlined stylesheets
//
// Printing is handled by the root mdconv package using headless Chrome
// (go-rod). The pipeline only deals with document structure and content.
package pipeline
