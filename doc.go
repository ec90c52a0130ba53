// Package mdconv loads local Markdown or text files, renders them to HTML,
// exports self-contained HTML documents, and prints them to PDF.
//
// # Quick Start
//
// Validate a file, render it, and export it:
//
//	conv, err := mdconv.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	cand, err := mdconv.OpenCandidate("notes.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := mdconv.NewValidator(nil).Validate(ctx, cand)
//	if !out.Accepted() {
//	    log.Fatal(out.Err())
//	}
//	markup, err := conv.Render(ctx, out.Text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := conv.Export(ctx, markup, out.Filename)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(doc.Filename, doc.HTML, 0o644)
//
// # Intake
//
// Validator accepts .md, .markdown and .txt files up to MaxFileSize bytes
// whose first 1000 characters contain no NUL. Rejections are values, not
// errors: ValidationOutcome.Reason says why, Err wraps the matching sentinel
// (ErrInvalidExtension, ErrSizeExceeded, ErrBinaryContent, ErrReadFailure),
// and Message returns localized text for display.
//
// # Rendering and Export
//
// Render uses Goldmark with GitHub Flavored Markdown, footnotes, heading IDs,
// and class-based syntax highlighting. Raw HTML passes through unless
// WithRawHTML(false) is given. A conversion failure shows the text in a
// <pre> block rather than failing.
//
// Export inlines the base stylesheet (default "github-markdown") and the
// highlight stylesheet (default "chroma-github") into one HTML file. When a
// stylesheet cannot be loaded, the document is still produced with
// ExportedDocument.Degraded set.
//
// # Sessions
//
// Session is the state machine behind the interactive UI: Select, Confirm,
// Export, Back. Work that finishes after the user moved on returns
// ErrStaleResult and leaves the session untouched.
//
// # Printing
//
// Print renders an exported document in headless Chrome via go-rod. Rod
// downloads Chromium on first use unless ROD_BROWSER_BIN points to a
// browser. For parallel printing use PrinterPool; each pooled Converter
// owns one browser.
//
// # Custom Assets
//
// WithAssetPath overrides embedded assets from a directory containing
// styles/{name}.css and templates/{name}.html, falling back to the embedded
// versions. WithAssetLoader plugs in any other AssetLoader.
package mdconv
