package selection

import "github.com/cindypham04/engrave/markup"

// Boundary is one end of a selection inside a rendered message. For a
// text leaf, Offset is a rune offset into the leaf's text. For an element
// node, Offset is a child index and the boundary sits just before that
// child (or after the last child when Offset equals the child count).
type Boundary struct {
	Node   *markup.Node
	Offset int
}

// Offsets is a resolved (start, end) pair of rune offsets into the
// container's addressable text. It is captured once at
// selection-confirmation time and never recomputed against a re-render.
type Offsets struct {
	Start int
	End   int
}

// ResolveOffsets maps a selection's boundary points to character offsets
// within the container's addressable text (document order, verbatim
// regions excluded). It rejects selections whose boundaries are not inside
// the container or that resolve to an empty or inverted range.
func ResolveOffsets(container *markup.Node, start, end Boundary) (Offsets, bool) {
	if container == nil || container.Kind != markup.ElementNode {
		return Offsets{}, false
	}
	s, ok := resolveBoundary(container, start)
	if !ok {
		return Offsets{}, false
	}
	e, ok := resolveBoundary(container, end)
	if !ok {
		return Offsets{}, false
	}
	if e <= s {
		return Offsets{}, false
	}
	return Offsets{Start: s, End: e}, true
}

// resolveBoundary walks the container's leaves accumulating addressable
// text length. A text-leaf boundary resolves to the running length before
// the leaf plus its local offset; a structural boundary is snapped to the
// start of the first text leaf it precedes. Boundaries inside verbatim
// regions snap the same way, since verbatim text consumes no offsets.
func resolveBoundary(container *markup.Node, b Boundary) (int, bool) {
	if b.Node == nil || b.Offset < 0 {
		return 0, false
	}

	total := 0
	result := -1

	var walk func(n *markup.Node, verbatim bool) bool
	walk = func(n *markup.Node, verbatim bool) bool {
		for i, c := range n.Children {
			if n == b.Node && i == b.Offset {
				result = total
				return true
			}
			if c.Kind == markup.TextNode {
				if c == b.Node {
					if verbatim {
						result = total
						return true
					}
					length := len([]rune(c.Text))
					off := b.Offset
					if off > length {
						off = length
					}
					result = total + off
					return true
				}
				if !verbatim {
					total += len([]rune(c.Text))
				}
				continue
			}
			if walk(c, verbatim || c.Verbatim) {
				return true
			}
		}
		if n == b.Node && b.Offset >= len(n.Children) {
			result = total
			return true
		}
		return false
	}

	if !walk(container, container.Verbatim) {
		return 0, false
	}
	return result, true
}
