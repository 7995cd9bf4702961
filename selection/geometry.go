// Package selection turns raw user selections into stable anchors:
// fractional page geometry for PDF selections and character offsets for
// chat-text selections.
package selection

import (
	"sort"

	"github.com/cindypham04/engrave/models"
)

// LineTolerance is the vertical midpoint distance (viewport units) within
// which two selection boxes are considered to sit on the same visual line.
const LineTolerance = 4.0

// ViewportRect is an absolute box in viewport coordinates, as reported by
// the rendering layer.
type ViewportRect struct {
	Top    float64
	Left   float64
	Right  float64
	Bottom float64
}

func (r ViewportRect) Width() float64 { return r.Right - r.Left }
func (r ViewportRect) Height() float64 { return r.Bottom - r.Top }

func (r ViewportRect) midY() float64 { return (r.Top + r.Bottom) / 2 }

// MergeRectsByLine collapses the boxes of one selection into one box per
// visual line. Clustering is greedy and order-preserving: a box joins the
// first existing line whose leading member's vertical midpoint is within
// tolerance, which is enough for sub-pixel baseline jitter but assumes the
// input is roughly top-to-bottom already.
func MergeRectsByLine(raw []ViewportRect, tolerance float64) []ViewportRect {
	rects := make([]ViewportRect, 0, len(raw))
	for _, r := range raw {
		if r.Width() > 0 && r.Height() > 0 {
			rects = append(rects, r)
		}
	}
	sort.SliceStable(rects, func(i, j int) bool {
		if rects[i].Top == rects[j].Top {
			return rects[i].Left < rects[j].Left
		}
		return rects[i].Top < rects[j].Top
	})

	var lines [][]ViewportRect
	for _, rect := range rects {
		joined := false
		for i := range lines {
			sample := lines[i][0]
			d := sample.midY() - rect.midY()
			if d < 0 {
				d = -d
			}
			if d <= tolerance {
				lines[i] = append(lines[i], rect)
				joined = true
				break
			}
		}
		if !joined {
			lines = append(lines, []ViewportRect{rect})
		}
	}

	merged := make([]ViewportRect, 0, len(lines))
	for _, group := range lines {
		box := group[0]
		for _, r := range group[1:] {
			if r.Left < box.Left {
				box.Left = r.Left
			}
			if r.Right > box.Right {
				box.Right = r.Right
			}
			if r.Top < box.Top {
				box.Top = r.Top
			}
			if r.Bottom > box.Bottom {
				box.Bottom = r.Bottom
			}
		}
		merged = append(merged, box)
	}
	return merged
}

// NormalizeToPage converts viewport boxes into fractional page rectangles.
// Rectangles fully outside the page are dropped.
func NormalizeToPage(rects []ViewportRect, page ViewportRect) []models.Rect {
	if page.Width() <= 0 || page.Height() <= 0 {
		return nil
	}
	out := make([]models.Rect, 0, len(rects))
	for _, r := range rects {
		frac := models.Rect{
			X:      (r.Left - page.Left) / page.Width(),
			Y:      (r.Top - page.Top) / page.Height(),
			Width:  r.Width() / page.Width(),
			Height: r.Height() / page.Height(),
		}
		if frac.Width <= 0 || frac.Height <= 0 {
			continue
		}
		if frac.X >= 1 || frac.Y >= 1 || frac.X+frac.Width <= 0 || frac.Y+frac.Height <= 0 {
			continue
		}
		out = append(out, frac)
	}
	return out
}

// CaptureGeometry runs the full pipeline for one PDF selection. A nil page
// surface means the capture is aborted; that is a recoverable no-op, not an
// error to surface.
func CaptureGeometry(raw []ViewportRect, page *ViewportRect) ([]models.Rect, bool) {
	if page == nil {
		return nil, false
	}
	merged := MergeRectsByLine(raw, LineTolerance)
	rects := NormalizeToPage(merged, *page)
	if len(rects) == 0 {
		return nil, false
	}
	return rects, true
}
