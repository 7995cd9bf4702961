package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func highlightSpans(root *Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Highlight != nil {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

func TestApplyHighlightsWrapsMiddle(t *testing.T) {
	root := NewElement("p", NewText("abcdefghij"))
	ApplyHighlights(root, []Range{{Start: 2, End: 5, AnnotationID: "a1"}})

	assert.Equal(t, "abcdefghij", root.FullText())
	require.Len(t, root.Children, 3)
	assert.Equal(t, "ab", root.Children[0].Text)

	span := root.Children[1]
	require.NotNil(t, span.Highlight)
	assert.Equal(t, HighlightTag, span.Tag)
	assert.Equal(t, []string{"a1"}, span.Highlight.AnnotationIDs)
	assert.Equal(t, "cde", span.FullText())

	assert.Equal(t, "fghij", root.Children[2].Text)
}

func TestApplyHighlightsAcrossLeaves(t *testing.T) {
	root := NewElement("p",
		NewText("Hello "),
		NewElement("em", NewText("brave")),
		NewText(" world"),
	)
	// covers "brave wor"
	ApplyHighlights(root, []Range{{Start: 6, End: 15, AnnotationID: "a1"}})

	assert.Equal(t, "Hello brave world", root.FullText())
	spans := highlightSpans(root)
	require.Len(t, spans, 2)
	assert.Equal(t, "brave", spans[0].FullText())
	assert.Equal(t, " wor", spans[1].FullText())
}

func TestApplyHighlightsOverlapLayersIDs(t *testing.T) {
	root := NewElement("p", NewText("abcdefghij"))
	ApplyHighlights(root, []Range{
		{Start: 0, End: 5, AnnotationID: "a1"},
		{Start: 3, End: 8, AnnotationID: "a2", Treatment: TreatmentActive},
	})

	assert.Equal(t, "abcdefghij", root.FullText())
	spans := highlightSpans(root)
	require.Len(t, spans, 3)

	assert.Equal(t, "abc", spans[0].FullText())
	assert.Equal(t, []string{"a1"}, spans[0].Highlight.AnnotationIDs)

	// the overlapped segment carries both ids; the later range's
	// treatment wins
	assert.Equal(t, "de", spans[1].FullText())
	assert.Equal(t, []string{"a1", "a2"}, spans[1].Highlight.AnnotationIDs)
	assert.Equal(t, TreatmentActive, spans[1].Highlight.Treatment)

	assert.Equal(t, "fgh", spans[2].FullText())
	assert.Equal(t, []string{"a2"}, spans[2].Highlight.AnnotationIDs)
}

func TestApplyHighlightsSkipsVerbatim(t *testing.T) {
	code := NewText("func main()")
	root := NewElement("p",
		NewText("ab"),
		NewVerbatim("code", code),
		NewText("cd"),
	)
	// addressable text is "abcd"; range (2,4) is the trailing leaf
	ApplyHighlights(root, []Range{{Start: 2, End: 4, AnnotationID: "a1"}})

	assert.Equal(t, "abfunc main()cd", root.FullText())
	spans := highlightSpans(root)
	require.Len(t, spans, 1)
	assert.Equal(t, "cd", spans[0].FullText())
	assert.Equal(t, "func main()", code.Text) // never split
}

func TestApplyHighlightsOutOfBoundsLeavesTreeAlone(t *testing.T) {
	root := NewElement("p", NewText("abc"))
	ApplyHighlights(root, []Range{
		{Start: 10, End: 20, AnnotationID: "a1"},
		{Start: 2, End: 2, AnnotationID: "a2"},
	})
	require.Len(t, root.Children, 1)
	assert.Equal(t, "abc", root.Children[0].Text)
	assert.Empty(t, highlightSpans(root))
}

func TestApplyHighlightsClampsToText(t *testing.T) {
	root := NewElement("p", NewText("abc"))
	ApplyHighlights(root, []Range{{Start: 1, End: 99, AnnotationID: "a1"}})

	assert.Equal(t, "abc", root.FullText())
	spans := highlightSpans(root)
	require.Len(t, spans, 1)
	assert.Equal(t, "bc", spans[0].FullText())
}

func TestApplyHighlightsIdempotentText(t *testing.T) {
	root := NewElement("p", NewText("The quick brown fox"))
	ranges := []Range{
		{Start: 4, End: 9, AnnotationID: "a1"},
		{Start: 10, End: 15, AnnotationID: "a2"},
	}
	ApplyHighlights(root, ranges)
	assert.Equal(t, "The quick brown fox", root.FullText())
	assert.Equal(t, "The quick brown fox", root.AddressableText())
}
