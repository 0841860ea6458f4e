package tile

import (
	"github.com/kweisel/tessera/pkg/geo"
)

const (
	// MinNodeSize is the pixel floor for any node dimension. Resize requests
	// and degenerate layouts are clamped here rather than propagated as
	// errors.
	MinNodeSize = 20

	// FloatingMoveStep is the number of pixels a floating node moves per
	// directional move request.
	FloatingMoveStep = 5
)

// SurfaceHandle is an opaque reference to a surface owned by the host
// compositor. The core never inspects it; it is passed back verbatim on
// every outbound host call. Handles must be comparable so they can key the
// surface registry.
type SurfaceHandle any

// Host is the outbound boundary to the compositor that owns the actual
// surfaces. All calls must be idempotent and take effect immediately from
// the core's perspective.
type Host interface {
	// SetSurfaceGeometry applies a computed geometry to a host surface.
	SetSurfaceGeometry(h SurfaceHandle, g geo.Rect)

	// SetSurfaceVisible shows or hides a surface. Hidden surfaces stay in
	// the tree (tabbed/stacked containers hide all but the active child).
	SetSurfaceVisible(h SurfaceHandle, visible bool)

	// RequestFocus asks the host to transfer input focus to a surface.
	RequestFocus(h SurfaceHandle)
}

// Node is the common capability of every tree node, leaf or container.
type Node interface {
	// ID returns the process-unique id assigned at construction.
	ID() uint64

	// Geometry returns the node's total outer bounds in workspace-local
	// coordinates.
	Geometry() geo.Rect

	// SetGeometry stores a new outer geometry and lays out any children.
	// The call recurses downward but never bubbles up.
	SetGeometry(g geo.Rect)

	// RefreshGeometry re-applies the current geometry, forcing a
	// recalculation of children geometries.
	RefreshGeometry()

	// TryResize moves the given edges to approach the requested dimensions
	// while the opposite edges stay anchored. Axes with no moving edge are
	// left untouched. Tiled nodes resize by adjusting container ratios;
	// floating nodes resize their own geometry directly.
	TryResize(d geo.Dimensions, edges geo.Edges)

	// Floating reports whether this node is a freely positioned root,
	// independent of the tiled tree. A floating container's children are
	// still tiled relative to it.
	Floating() bool

	// SetFloating tiles or floats the node within its workspace,
	// reparenting it between the tiled tree and the floating set.
	SetFloating(fl bool)

	// Workspace returns the workspace managing this node, or nil.
	Workspace() *Workspace

	// Parent returns the parent owning this node. Every node except a
	// workspace's tiled root and floating roots has a container parent;
	// those roots have the workspace itself.
	Parent() Parent

	// SetActive makes this node the active node of its workspace,
	// propagating the last-focused path up to the root.
	SetActive()

	// FindFloatingRoot returns this node if it is floating, or the nearest
	// floating ancestor, or nil for tiled nodes.
	FindFloatingRoot() Node

	setParent(p Parent)
	setWorkspace(ws *Workspace)
	setFloatingFlag(fl bool)
	setShown(v bool)

	// parentForNewChild returns the parent a sibling surface should be
	// inserted into: a container returns itself, a leaf upgrades itself if
	// a split preference is set and otherwise returns its parent.
	parentForNewChild() Parent
}

// Parent is the capability shared by containers and workspaces: owning and
// arranging an ordered set of child nodes. A workspace is a parent but not a
// node.
type Parent interface {
	// Adjacent finds the node directly adjacent to child in the given
	// direction. The search escalates to this parent's own parent when no
	// sibling exists in that direction, and never descends, so the result
	// is the nearest ancestor-level neighbor rather than necessarily a
	// leaf. Returns nil at the tree root with no further adjacency, or if
	// child is not a direct child.
	Adjacent(child Node, dir geo.Direction) Node

	// MoveChild relocates a direct child to sit adjacent to, or inside, the
	// neighbor in the given direction. Reports whether a move happened.
	MoveChild(child Node, dir geo.Direction) bool

	// LastActiveNode returns the deepest node reachable by following
	// active-child references downward, or nil if there are no children.
	LastActiveNode() Node

	// InsertChild adds node as a new direct child, taking ownership and
	// setting its back-references.
	InsertChild(n Node)

	// RemoveChild detaches a direct child and returns it, or nil if n is
	// not a direct child. Containers renormalize remaining ratios and
	// auto-downgrade when one child remains.
	RemoveChild(n Node) Node

	// SwapChild replaces a direct child in place, preserving its slot,
	// ratio and geometry, and returns the detached node, or nil if n is
	// not a direct child.
	SwapChild(n Node, other Node) Node

	// SetActiveChild records n as the last active direct child and informs
	// this parent's own parent in turn, propagating to the root.
	SetActiveChild(n Node)
}

// IDSource hands out process-unique, monotonically increasing node ids. It
// is owned by the top-level system object and injected into constructors so
// id assignment stays deterministic in tests. Ids are never reused.
type IDSource struct {
	next uint64
}

// NewIDSource returns a counter whose first id is 1.
func NewIDSource() *IDSource { return &IDSource{} }

// Next returns the next unused id.
func (s *IDSource) Next() uint64 {
	s.next++
	return s.next
}

// nodeBase carries the state shared by containers and leaves.
type nodeBase struct {
	id       uint64
	geometry geo.Rect
	floating bool
	ws       *Workspace
	parent   Parent
}

func (b *nodeBase) ID() uint64            { return b.id }
func (b *nodeBase) Geometry() geo.Rect    { return b.geometry }
func (b *nodeBase) Floating() bool        { return b.floating }
func (b *nodeBase) Workspace() *Workspace { return b.ws }
func (b *nodeBase) Parent() Parent        { return b.parent }

func (b *nodeBase) setParent(p Parent)       { b.parent = p }
func (b *nodeBase) setFloatingFlag(fl bool)  { b.floating = fl }
func (b *nodeBase) setWorkspace(w *Workspace) { b.ws = w }

// activate records n as the active node of its workspace and bubbles the
// last-focused path to the root.
func activate(n Node) {
	if ws := n.Workspace(); ws != nil {
		ws.noteActive(n)
	}
	if p := n.Parent(); p != nil {
		p.SetActiveChild(n)
	}
}

func findFloatingRoot(n Node) Node {
	for n != nil {
		if n.Floating() {
			return n
		}
		p, ok := n.Parent().(Node)
		if !ok {
			return nil
		}
		n = p
	}
	return nil
}

func clampDims(d geo.Dimensions) geo.Dimensions {
	if d.W < MinNodeSize {
		d.W = MinNodeSize
	}
	if d.H < MinNodeSize {
		d.H = MinNodeSize
	}
	return d
}

// axisExtent returns the extent of r along a.
func axisExtent(r geo.Rect, a geo.Axis) int {
	if a == geo.Horizontal {
		return r.W
	}
	return r.H
}

// resizeNode implements TryResize for both node kinds. Floating nodes move
// the requested edges of their own geometry; tiled nodes delegate each
// touched axis to the nearest ancestor split on that axis.
func resizeNode(n Node, d geo.Dimensions, edges geo.Edges) {
	d = clampDims(d)

	if n.Floating() {
		g := n.Geometry()
		if edges&(geo.EdgeLeft|geo.EdgeRight) != 0 {
			if edges.Has(geo.EdgeLeft) {
				g.X += g.W - d.W
			}
			g.W = d.W
		}
		if edges&(geo.EdgeTop|geo.EdgeBottom) != 0 {
			if edges.Has(geo.EdgeTop) {
				g.Y += g.H - d.H
			}
			g.H = d.H
		}
		n.SetGeometry(g)
		return
	}

	if edges&(geo.EdgeLeft|geo.EdgeRight) != 0 && d.W != n.Geometry().W {
		resizeTiled(n, geo.Horizontal, d.W, edges.Has(geo.EdgeLeft))
	}
	if edges&(geo.EdgeTop|geo.EdgeBottom) != 0 && d.H != n.Geometry().H {
		resizeTiled(n, geo.Vertical, d.H, edges.Has(geo.EdgeTop))
	}
}

// resizeTiled grows or shrinks a tiled node along one axis by shifting ratio
// between it and the neighbor on the moving-edge side. When the moving edge
// is an outer edge of the containing split, the request escalates to the
// nearest ancestor split on the same axis; at the root's outer edge it is a
// no-op.
func resizeTiled(n Node, axis geo.Axis, target int, before bool) {
	delta := target - axisExtent(n.Geometry(), axis)
	if delta == 0 {
		return
	}

	cur := n
	for {
		ps, ok := cur.Parent().(*SplitNode)
		if !ok {
			return
		}
		if ps.axis() == axis {
			if i, found := ps.indexOf(cur); found {
				j := i + 1
				if before {
					j = i - 1
				}
				if j >= 0 && j < len(ps.children) {
					ps.resizePair(i, j, delta)
					return
				}
			}
		}
		cur = ps
	}
}
