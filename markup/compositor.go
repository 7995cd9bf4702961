package markup

import "sort"

// Range addresses a highlight over the addressable text of one message.
// Offsets are rune offsets; End is exclusive.
type Range struct {
	Start        int
	End          int
	AnnotationID string
	Treatment    Treatment
}

// HighlightTag is the tag the compositor emits for wrapped segments.
const HighlightTag = "highlight"

type leafRef struct {
	leaf   *Node
	parent *Node
	index  int
	start  int
	end    int
}

// ApplyHighlights rewrites the tree in place so every range becomes a
// wrapped inline region. Invariant: the concatenated text content of the
// output equals the input exactly; overlapping ranges are layered, never
// dropped. Ranges that address nothing (empty or fully out of bounds)
// leave the tree untouched.
func ApplyHighlights(root *Node, ranges []Range) {
	if root == nil || len(ranges) == 0 {
		return
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var leaves []leafRef
	walkLeaves(root, false, func(leaf, parent *Node, index, start int) {
		leaves = append(leaves, leafRef{
			leaf:   leaf,
			parent: parent,
			index:  index,
			start:  start,
			end:    start + len([]rune(leaf.Text)),
		})
	})

	// Rewrite in reverse document order so in-place replacements never
	// invalidate the sibling indexes recorded for earlier leaves.
	for i := len(leaves) - 1; i >= 0; i-- {
		ref := leaves[i]
		var overlapping []Range
		for _, r := range sorted {
			if r.Start < ref.end && r.End > ref.start && r.Start < r.End {
				overlapping = append(overlapping, r)
			}
		}
		if len(overlapping) == 0 {
			continue
		}
		segments := splitLeaf(ref, overlapping)
		children := ref.parent.Children
		rebuilt := make([]*Node, 0, len(children)+len(segments)-1)
		rebuilt = append(rebuilt, children[:ref.index]...)
		rebuilt = append(rebuilt, segments...)
		rebuilt = append(rebuilt, children[ref.index+1:]...)
		ref.parent.Children = rebuilt
	}
}

// splitLeaf cuts one text leaf at every range boundary falling inside it
// and wraps each covered piece. A piece covered by several ranges carries
// all of their annotation ids; the last range's treatment wins.
func splitLeaf(ref leafRef, overlapping []Range) []*Node {
	runes := []rune(ref.leaf.Text)

	cuts := map[int]bool{0: true, len(runes): true}
	for _, r := range overlapping {
		cuts[clamp(r.Start-ref.start, 0, len(runes))] = true
		cuts[clamp(r.End-ref.start, 0, len(runes))] = true
	}
	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	var segments []*Node
	for i := 0; i+1 < len(points); i++ {
		lo, hi := points[i], points[i+1]
		if lo == hi {
			continue
		}
		piece := string(runes[lo:hi])
		var ids []string
		treatment := TreatmentOther
		for _, r := range overlapping {
			if r.Start-ref.start <= lo && r.End-ref.start >= hi {
				ids = append(ids, r.AnnotationID)
				treatment = r.Treatment
			}
		}
		if len(ids) == 0 {
			segments = append(segments, NewText(piece))
			continue
		}
		wrapped := NewElement(HighlightTag, NewText(piece))
		wrapped.Highlight = &HighlightAttr{AnnotationIDs: ids, Treatment: treatment}
		segments = append(segments, wrapped)
	}
	return segments
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
