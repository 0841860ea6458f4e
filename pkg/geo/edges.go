package geo

import "errors"

// ErrOutsideGeometry is returned by [ResizeEdges] when the pointer does not
// lie inside the target geometry. Edge classification on an outside point is
// a precondition violation by the caller, not a recoverable condition.
var ErrOutsideGeometry = errors.New("point outside geometry")

// Edges is a bitmask of rectangle edges. During an interactive resize it
// identifies the moving edges; the opposite edges stay anchored.
type Edges uint8

const (
	EdgeNone   Edges = 0
	EdgeLeft   Edges = 1 << 0
	EdgeRight  Edges = 1 << 1
	EdgeTop    Edges = 1 << 2
	EdgeBottom Edges = 1 << 3

	// EdgeAll selects all four edges.
	EdgeAll = EdgeLeft | EdgeRight | EdgeTop | EdgeBottom
)

// Has reports whether all edges in e2 are set in e.
func (e Edges) Has(e2 Edges) bool { return e&e2 == e2 }

// String returns a compact representation such as "left|top", or "none".
func (e Edges) String() string {
	if e == EdgeNone {
		return "none"
	}
	s := ""
	appendEdge := func(mask Edges, name string) {
		if e&mask != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	appendEdge(EdgeLeft, "left")
	appendEdge(EdgeRight, "right")
	appendEdge(EdgeTop, "top")
	appendEdge(EdgeBottom, "bottom")
	return s
}

// ResizeMargin is the fraction of a node's width/height that counts as the
// edge region when classifying which edges an interactive resize should move.
const ResizeMargin = 0.35

// ResizeEdges classifies which edges of g a resize starting at p should move.
//
// A pointer within ResizeMargin of an edge selects that edge, left/right
// independently from top/bottom. If the pointer falls in neither margin on an
// axis, the edge of the containing half is selected, so the result always
// names exactly one horizontal and one vertical edge. Halves are decided with
// a strict < comparison: the exact midpoint belongs to the right/bottom half.
//
// Returns ErrOutsideGeometry if p is not inside g.
func ResizeEdges(g Rect, p Point) (Edges, error) {
	if !g.Contains(p) {
		return EdgeNone, ErrOutsideGeometry
	}

	horiMargin := int(float64(g.W) * ResizeMargin)
	vertMargin := int(float64(g.H) * ResizeMargin)

	edges := EdgeNone
	if p.X-g.X < horiMargin {
		edges |= EdgeLeft
	} else if g.X+g.W-p.X < horiMargin {
		edges |= EdgeRight
	}
	if p.Y-g.Y < vertMargin {
		edges |= EdgeTop
	} else if g.Y+g.H-p.Y < vertMargin {
		edges |= EdgeBottom
	}

	if edges&(EdgeLeft|EdgeRight) == 0 {
		if p.X-g.X < g.W/2 {
			edges |= EdgeLeft
		} else {
			edges |= EdgeRight
		}
	}
	if edges&(EdgeTop|EdgeBottom) == 0 {
		if p.Y-g.Y < g.H/2 {
			edges |= EdgeTop
		} else {
			edges |= EdgeBottom
		}
	}

	return edges, nil
}
