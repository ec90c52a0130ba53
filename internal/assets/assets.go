package assets

// Built-in asset names.
const (
	// DefaultBaseStyle is the document stylesheet wrapped around .markdown-body.
	DefaultBaseStyle = "github-markdown"

	// DefaultHighlightStyle is the syntax highlighting stylesheet.
	DefaultHighlightStyle = HighlightPrefix + "github"

	// UploadTemplate is the page shown while no document is active.
	UploadTemplate = "upload"

	// PreviewTemplate is the page showing the active document.
	PreviewTemplate = "preview"
)
