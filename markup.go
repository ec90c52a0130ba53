package mdconv

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-mdconv/internal/pipeline"
)

// Markup is rendered document content: a list of top-level HTML nodes.
// A Markup is never modified after creation; accessors return copies.
type Markup struct {
	nodes []*html.Node
}

func newMarkup(nodes []*html.Node) *Markup {
	return &Markup{nodes: nodes}
}

// ParseMarkup parses an HTML fragment into Markup.
func ParseMarkup(fragment string) (*Markup, error) {
	nodes, err := pipeline.ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	return newMarkup(nodes), nil
}

// Serialize returns the markup as an HTML string. A nil Markup is empty.
func (m *Markup) Serialize() string {
	if m == nil {
		return ""
	}
	s, err := pipeline.RenderFragment(m.nodes)
	if err != nil {
		return ""
	}
	return s
}

// Nodes returns a deep copy of the top-level nodes.
func (m *Markup) Nodes() []*html.Node {
	if m == nil {
		return nil
	}
	return pipeline.CloneNodes(m.nodes)
}

// Equal reports whether m and other are structurally identical.
func (m *Markup) Equal(other *Markup) bool {
	if m == nil || other == nil {
		return m == other
	}
	return pipeline.EqualNodes(m.nodes, other.nodes)
}

// WithResolvedPaths returns a copy whose relative image and link targets
// under sourceDir point to absolute file:// URLs, so a document printed from
// a temp file still finds them.
func (m *Markup) WithResolvedPaths(sourceDir string) (*Markup, error) {
	if m == nil {
		return nil, nil
	}
	nodes := pipeline.CloneNodes(m.nodes)
	if err := pipeline.RewriteNodePaths(nodes, sourceDir); err != nil {
		return nil, err
	}
	return newMarkup(nodes), nil
}
