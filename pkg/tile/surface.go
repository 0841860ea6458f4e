package tile

import (
	"fmt"

	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/observability"
)

// SurfaceNode is a leaf wrapping one displayed host surface. Geometry
// changes are pushed to the host immediately; while floating, the last
// geometry is remembered so toggling back to floating restores it.
type SurfaceNode struct {
	nodeBase

	handle SurfaceHandle
	host   Host
	shown  bool

	// floatingGeometry is the geometry to restore when the node next
	// becomes floating.
	floatingGeometry geo.Rect

	// resizingEdges is non-zero only while an interactive resize grab
	// targets this node.
	resizingEdges geo.Edges

	splitPreference    Orientation
	hasSplitPreference bool
}

// NewSurfaceNode creates a leaf for the given host surface.
func NewSurfaceNode(ids *IDSource, handle SurfaceHandle, host Host) *SurfaceNode {
	s := &SurfaceNode{handle: handle, host: host, shown: true}
	s.id = ids.Next()
	return s
}

// Handle returns the wrapped host surface reference.
func (s *SurfaceNode) Handle() SurfaceHandle { return s.handle }

func (s *SurfaceNode) String() string { return fmt.Sprintf("surface-node-%d", s.id) }

// FloatingGeometry returns the geometry restored when the node next floats.
func (s *SurfaceNode) FloatingGeometry() geo.Rect { return s.floatingGeometry }

// SetFloatingGeometry records the geometry to restore on the next
// tiled-to-floating transition.
func (s *SurfaceNode) SetFloatingGeometry(g geo.Rect) { s.floatingGeometry = g }

// SplitPreference returns the orientation requested for this leaf's next
// upgrade, and whether one is set.
func (s *SurfaceNode) SplitPreference() (Orientation, bool) {
	return s.splitPreference, s.hasSplitPreference
}

// SetSplitPreference requests an orientation for this leaf's next upgrade.
func (s *SurfaceNode) SetSplitPreference(o Orientation) {
	s.splitPreference = o
	s.hasSplitPreference = true
}

// ClearSplitPreference drops any pending upgrade preference.
func (s *SurfaceNode) ClearSplitPreference() { s.hasSplitPreference = false }

// ResizingEdges returns the edges of the interactive resize currently
// targeting this node, or EdgeNone.
func (s *SurfaceNode) ResizingEdges() geo.Edges { return s.resizingEdges }

// BeginResize marks the start of a continuous resize moving the given
// edges. The node's current extent along its parent split's axis is pinned
// so sibling insertions during the drag keep the dragged size.
func (s *SurfaceNode) BeginResize(edges geo.Edges) {
	s.resizingEdges = edges
	if ps, ok := s.parent.(*SplitNode); ok {
		ps.setPreferredSize(s, axisExtent(s.geometry, ps.axis()))
	}
}

// EndResize clears the resize marks set by BeginResize.
func (s *SurfaceNode) EndResize() {
	s.resizingEdges = 0
	if ps, ok := s.parent.(*SplitNode); ok {
		ps.setPreferredSize(s, 0)
	}
}

// TryUpgrade promotes this leaf into a split container at its current slot
// and geometry, inserting the leaf as the container's only child and
// clearing the split preference. Returns nil when no preference is set or
// the leaf has no parent to swap itself in.
func (s *SurfaceNode) TryUpgrade() *SplitNode {
	if !s.hasSplitPreference || s.parent == nil || s.ws == nil {
		return nil
	}

	split := NewSplitNode(s.ws.ids, s.splitPreference, s.geometry)
	s.hasSplitPreference = false
	s.parent.SwapChild(s, split)
	split.InsertChild(s)
	return split
}

// == Node impl ==

// SetGeometry applies the outer bounds, clamped to the minimum node size,
// and pushes them to the host surface. While floating, the floating
// geometry follows along.
func (s *SurfaceNode) SetGeometry(g geo.Rect) {
	d := clampDims(g.Dimensions())
	g.W, g.H = d.W, d.H
	s.geometry = g
	if s.floating {
		s.floatingGeometry = g
	}
	s.host.SetSurfaceGeometry(s.handle, g)
	observability.Layout().OnGeometryApplied(s.id, g)
}

// RefreshGeometry re-pushes the current geometry to the host.
func (s *SurfaceNode) RefreshGeometry() { s.SetGeometry(s.geometry) }

// TryResize resizes the leaf by moving the given edges.
func (s *SurfaceNode) TryResize(d geo.Dimensions, edges geo.Edges) { resizeNode(s, d, edges) }

// SetFloating tiles or floats the leaf within its workspace.
func (s *SurfaceNode) SetFloating(fl bool) {
	if s.ws != nil {
		s.ws.setNodeFloating(s, fl)
		return
	}
	s.floating = fl
}

// SetActive marks the leaf active, propagates the last-focused path to the
// root and asks the host to focus the wrapped surface.
func (s *SurfaceNode) SetActive() {
	activate(s)
	s.host.RequestFocus(s.handle)
}

// FindFloatingRoot returns the nearest floating ancestor, or nil.
func (s *SurfaceNode) FindFloatingRoot() Node { return findFloatingRoot(s) }

func (s *SurfaceNode) setShown(v bool) {
	s.shown = v
	s.host.SetSurfaceVisible(s.handle, v)
}

func (s *SurfaceNode) parentForNewChild() Parent {
	if split := s.TryUpgrade(); split != nil {
		return split
	}
	return s.parent
}
