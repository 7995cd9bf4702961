// Package markup models a rendered message as a tree of inline nodes and
// rewrites it so stored highlight ranges become distinct inline regions.
// It is a pure in-memory pass; the rendering layer owns the real DOM.
package markup

// Kind discriminates inline node types.
type Kind int

const (
	TextNode Kind = iota
	ElementNode
)

// Treatment is the visual provenance of a highlight range. It only affects
// presentation, never the splitting algorithm.
type Treatment int

const (
	TreatmentOther Treatment = iota
	TreatmentActive
	TreatmentAssistant
)

// Node is one inline node of a rendered message. Text nodes carry Text;
// element nodes carry Tag and Children. Verbatim elements (code, pre) are
// excluded from offset addressing: their characters consume no offsets and
// their leaves are never split.
type Node struct {
	Kind      Kind
	Text      string
	Tag       string
	Verbatim  bool
	Children  []*Node
	Highlight *HighlightAttr
}

// HighlightAttr marks a wrapper span emitted by the compositor. A segment
// overlapped by several ranges carries every overlapping annotation id.
type HighlightAttr struct {
	AnnotationIDs []string
	Treatment     Treatment
}

// NewText returns a text leaf.
func NewText(s string) *Node { return &Node{Kind: TextNode, Text: s} }

// NewElement returns an element node wrapping the given children.
func NewElement(tag string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Children: children}
}

// NewVerbatim returns a code/pre style element whose text is excluded from
// highlight addressing.
func NewVerbatim(tag string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Verbatim: true, Children: children}
}

// FullText returns the concatenated text content of the tree in document
// order, verbatim regions included.
func (n *Node) FullText() string {
	if n == nil {
		return ""
	}
	if n.Kind == TextNode {
		return n.Text
	}
	var out string
	for _, c := range n.Children {
		out += c.FullText()
	}
	return out
}

// AddressableText returns the text that highlight offsets address: every
// text leaf in document order, skipping verbatim regions.
func (n *Node) AddressableText() string {
	var out []rune
	walkLeaves(n, false, func(leaf *Node, _ *Node, _ int, _ int) {
		out = append(out, []rune(leaf.Text)...)
	})
	return string(out)
}

// walkLeaves visits every addressable text leaf in document order. The
// callback receives the leaf, its parent, its index among the parent's
// children, and the leaf's starting offset in the addressable text.
func walkLeaves(root *Node, inVerbatim bool, fn func(leaf, parent *Node, index, start int)) {
	total := 0
	var walk func(n *Node, verbatim bool)
	walk = func(n *Node, verbatim bool) {
		for i, c := range n.Children {
			switch {
			case c.Kind == TextNode && !verbatim:
				fn(c, n, i, total)
				total += len([]rune(c.Text))
			case c.Kind == ElementNode:
				walk(c, verbatim || c.Verbatim)
			}
		}
	}
	if root.Kind == ElementNode {
		walk(root, inVerbatim || root.Verbatim)
	}
}
