package tile

import (
	"fmt"
	"math"

	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/observability"
)

// Orientation selects how a split container arranges its children.
type Orientation uint8

const (
	// SplitHorizontal partitions the width: children sit left to right.
	SplitHorizontal Orientation = iota
	// SplitVertical partitions the height: children stack top to bottom.
	SplitVertical
	// SplitTabbed gives every child the full bounds and shows only the
	// active one; navigation treats the tabs as a horizontal row.
	SplitTabbed
	// SplitStacked is like SplitTabbed but navigates as a vertical stack.
	SplitStacked
)

// String returns the lowercase orientation name.
func (o Orientation) String() string {
	switch o {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	case SplitTabbed:
		return "tabbed"
	default:
		return "stacked"
	}
}

// ParseOrientation converts an orientation name into an Orientation. The
// second return value reports whether the name was recognized.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal":
		return SplitHorizontal, true
	case "vertical":
		return SplitVertical, true
	case "tabbed":
		return SplitTabbed, true
	case "stacked":
		return SplitStacked, true
	}
	return SplitHorizontal, false
}

// axis returns the navigation axis of o: tabbed rows run horizontally,
// stacks run vertically.
func (o Orientation) axis() geo.Axis {
	if o == SplitHorizontal || o == SplitTabbed {
		return geo.Horizontal
	}
	return geo.Vertical
}

// splitChild is one owned slot of a split container.
type splitChild struct {
	// ratio is this child's fractional share of the split axis. Ratios of
	// all children sum to 1.0 whenever the orientation partitions space.
	ratio float64

	// preferred is an absolute pixel size along the split axis, set for the
	// dragged child at the start of a continuous resize so insertions during
	// the drag preserve its size. Zero means unset.
	preferred int

	node Node
}

// SplitNode is a container arranging an ordered sequence of children
// according to its orientation. It is both a Node and a Parent.
type SplitNode struct {
	nodeBase

	orientation Orientation
	children    []splitChild
	activeChild int

	// visible is false while this container sits behind an inactive tab of
	// an ancestor; layout then keeps every descendant hidden.
	visible bool
}

// NewSplitNode creates an empty split container with the given orientation
// and outer geometry.
func NewSplitNode(ids *IDSource, o Orientation, g geo.Rect) *SplitNode {
	s := &SplitNode{orientation: o, visible: true}
	s.id = ids.Next()
	s.geometry = g
	return s
}

// Orientation returns the current split orientation.
func (s *SplitNode) Orientation() Orientation { return s.orientation }

// Children returns the current child nodes in order. The returned slice is
// a copy; mutating it does not affect the container.
func (s *SplitNode) Children() []Node {
	out := make([]Node, len(s.children))
	for i, c := range s.children {
		out[i] = c.node
	}
	return out
}

// ChildRatios returns the ratio of each child in order.
func (s *SplitNode) ChildRatios() []float64 {
	out := make([]float64, len(s.children))
	for i, c := range s.children {
		out[i] = c.ratio
	}
	return out
}

// ActiveChild returns the last active direct child, or nil if empty.
func (s *SplitNode) ActiveChild() Node {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[s.activeChild].node
}

func (s *SplitNode) String() string { return fmt.Sprintf("split-node-%d", s.id) }

func (s *SplitNode) axis() geo.Axis { return s.orientation.axis() }

func (s *SplitNode) indexOf(n Node) (int, bool) {
	for i, c := range s.children {
		if c.node == n {
			return i, true
		}
	}
	return 0, false
}

// == Node impl ==

// SetGeometry stores the new outer bounds, clamped to the minimum node
// size, and lays out all children.
func (s *SplitNode) SetGeometry(g geo.Rect) {
	d := clampDims(g.Dimensions())
	g.W, g.H = d.W, d.H
	s.geometry = g
	s.applyLayout()
}

// RefreshGeometry re-runs child layout at the current bounds.
func (s *SplitNode) RefreshGeometry() { s.SetGeometry(s.geometry) }

// TryResize resizes the container by moving the given edges, adjusting
// ancestor ratios when tiled or its own geometry when floating.
func (s *SplitNode) TryResize(d geo.Dimensions, edges geo.Edges) { resizeNode(s, d, edges) }

// SetFloating tiles or floats this container within its workspace.
func (s *SplitNode) SetFloating(fl bool) {
	if s.ws != nil {
		s.ws.setNodeFloating(s, fl)
		return
	}
	s.floating = fl
}

// SetActive marks the container's deepest active child path up to the root.
func (s *SplitNode) SetActive() { activate(s) }

// FindFloatingRoot returns the nearest floating ancestor, or nil.
func (s *SplitNode) FindFloatingRoot() Node { return findFloatingRoot(s) }

func (s *SplitNode) setWorkspace(ws *Workspace) {
	s.ws = ws
	for _, c := range s.children {
		c.node.setWorkspace(ws)
	}
}

func (s *SplitNode) setShown(v bool) {
	s.visible = v
	for i, c := range s.children {
		switch s.orientation {
		case SplitTabbed, SplitStacked:
			c.node.setShown(v && i == s.activeChild)
		default:
			c.node.setShown(v)
		}
	}
}

func (s *SplitNode) parentForNewChild() Parent { return s }

// applyLayout partitions the container's bounds among its children. For
// horizontal/vertical orientations each child takes its ratio share of the
// split axis, with rounding error accumulated into the last child so the
// extents always tile the container exactly. Tabbed/stacked give every
// child the full bounds and show only the active one.
func (s *SplitNode) applyLayout() {
	if len(s.children) == 0 {
		return
	}

	switch s.orientation {
	case SplitTabbed, SplitStacked:
		for i, c := range s.children {
			c.node.SetGeometry(s.geometry)
			c.node.setShown(s.visible && i == s.activeChild)
		}
		return
	}

	horiz := s.axis() == geo.Horizontal
	total := axisExtent(s.geometry, s.axis())
	pos := s.geometry.X
	if !horiz {
		pos = s.geometry.Y
	}
	end := pos + total

	for i, c := range s.children {
		var ext int
		if i == len(s.children)-1 {
			ext = end - pos
		} else {
			ext = int(math.Round(c.ratio * float64(total)))
		}
		if ext < MinNodeSize {
			ext = MinNodeSize
		}

		var g geo.Rect
		if horiz {
			g = geo.Rect{X: pos, Y: s.geometry.Y, W: ext, H: s.geometry.H}
		} else {
			g = geo.Rect{X: s.geometry.X, Y: pos, W: s.geometry.W, H: ext}
		}
		c.node.SetGeometry(g)
		c.node.setShown(s.visible)
		pos += ext
	}
}

// == insertion ==

// InsertChild appends a node as the last child.
func (s *SplitNode) InsertChild(n Node) { s.insertChildAt(len(s.children), n) }

// InsertChildFront inserts a node as the first child.
func (s *SplitNode) InsertChildFront(n Node) { s.insertChildAt(0, n) }

// InsertChildBefore inserts n just before the direct child of. If of is not
// a direct child, n is appended.
func (s *SplitNode) InsertChildBefore(of, n Node) {
	if i, ok := s.indexOf(of); ok {
		s.insertChildAt(i, n)
		return
	}
	s.InsertChild(n)
}

// InsertChildAfter inserts n just after the direct child of. If of is not a
// direct child, n is appended.
func (s *SplitNode) InsertChildAfter(of, n Node) {
	if i, ok := s.indexOf(of); ok {
		s.insertChildAt(i+1, n)
		return
	}
	s.InsertChild(n)
}

func (s *SplitNode) insertChildAt(i int, n Node) {
	if i < 0 {
		i = 0
	}
	if i > len(s.children) {
		i = len(s.children)
	}

	n.setParent(s)
	n.setWorkspace(s.ws)
	n.setFloatingFlag(false)

	s.children = append(s.children, splitChild{})
	copy(s.children[i+1:], s.children[i:])
	s.children[i] = splitChild{node: n}

	if len(s.children) > 1 && i <= s.activeChild {
		s.activeChild++
	}

	s.distributeRatios()
	s.applyLayout()
	observability.Layout().OnNodeInserted(n.ID(), s.id)
}

// distributeRatios assigns ratios after an insertion: equal shares by
// default, or, while a continuous resize holds preferred sizes, those
// children keep their absolute size and the rest share the remainder in
// proportion to their prior ratios.
func (s *SplitNode) distributeRatios() {
	n := len(s.children)
	if n == 0 {
		return
	}

	total := float64(axisExtent(s.geometry, s.axis()))
	hasPreferred := false
	for _, c := range s.children {
		if c.preferred > 0 {
			hasPreferred = true
			break
		}
	}

	if !hasPreferred || total <= 0 {
		for i := range s.children {
			s.children[i].ratio = 1.0 / float64(n)
		}
		return
	}

	remainder := 1.0
	weightSum := 0.0
	weights := make([]float64, n)
	for i, c := range s.children {
		if c.preferred > 0 {
			r := float64(c.preferred) / total
			if r > 1 {
				r = 1
			}
			s.children[i].ratio = r
			remainder -= r
			continue
		}
		w := c.ratio
		if w <= 0 {
			w = 1.0 / float64(n)
		}
		weights[i] = w
		weightSum += w
	}
	if remainder < 0 {
		remainder = 0
	}
	for i, c := range s.children {
		if c.preferred > 0 {
			continue
		}
		s.children[i].ratio = remainder * weights[i] / weightSum
	}
}

// == removal ==

// RemoveChild detaches a direct child, renormalizes the remaining ratios to
// sum to 1.0 and auto-downgrades if a single child remains. Returns the
// detached node, or nil if n is not a direct child.
func (s *SplitNode) RemoveChild(n Node) Node {
	i, ok := s.indexOf(n)
	if !ok {
		return nil
	}
	removed := s.removeChildAt(i)

	if len(s.children) == 1 {
		if s.TryDowngrade() != nil {
			return removed
		}
	}
	s.applyLayout()
	return removed
}

func (s *SplitNode) removeChildAt(i int) Node {
	c := s.children[i]
	s.children = append(s.children[:i], s.children[i+1:]...)
	c.node.setParent(nil)

	if s.activeChild > i {
		s.activeChild--
	}
	if s.activeChild >= len(s.children) && len(s.children) > 0 {
		s.activeChild = len(s.children) - 1
	}

	sum := 0.0
	for _, rc := range s.children {
		sum += rc.ratio
	}
	if sum > 0 {
		for j := range s.children {
			s.children[j].ratio /= sum
		}
	} else {
		for j := range s.children {
			s.children[j].ratio = 1.0 / float64(len(s.children))
		}
	}
	observability.Layout().OnNodeRemoved(c.node.ID())
	return c.node
}

// SwapChild replaces a direct child in place: other takes the same slot,
// ratio and geometry. Returns the detached node, or nil if n is not a
// direct child.
func (s *SplitNode) SwapChild(n, other Node) Node {
	i, ok := s.indexOf(n)
	if !ok {
		return nil
	}
	other.setParent(s)
	other.setWorkspace(s.ws)
	other.setFloatingFlag(false)
	s.children[i].node = other
	n.setParent(nil)
	other.SetGeometry(n.Geometry())
	return n
}

// == active child ==

// SetActiveChild records n as the active child and propagates the
// last-focused path to the root. For tabbed/stacked containers the newly
// active child becomes the visible one.
func (s *SplitNode) SetActiveChild(n Node) {
	i, ok := s.indexOf(n)
	if !ok {
		return
	}
	prev := s.activeChild
	s.activeChild = i

	if prev != i && (s.orientation == SplitTabbed || s.orientation == SplitStacked) {
		if prev < len(s.children) {
			s.children[prev].node.setShown(false)
		}
		s.children[i].node.setShown(s.visible)
	}

	if s.parent != nil {
		s.parent.SetActiveChild(s)
	}
}

// LastActiveNode returns the deepest node on the active-child path.
func (s *SplitNode) LastActiveNode() Node {
	c := s.ActiveChild()
	if c == nil {
		return nil
	}
	if p, ok := c.(Parent); ok {
		if deep := p.LastActiveNode(); deep != nil {
			return deep
		}
	}
	return c
}

// == adjacency and movement ==

// Adjacent finds the sibling next to child along dir, escalating to this
// container's parent when child sits at the edge or dir runs across the
// split axis. The search never descends.
func (s *SplitNode) Adjacent(child Node, dir geo.Direction) Node {
	i, ok := s.indexOf(child)
	if !ok {
		return nil
	}
	if s.axis() == dir.Axis() {
		j := i - 1
		if dir.Forward() {
			j = i + 1
		}
		if j >= 0 && j < len(s.children) {
			return s.children[j].node
		}
	}
	if s.parent == nil {
		return nil
	}
	return s.parent.Adjacent(s, dir)
}

// MoveChild moves a direct child toward dir: into an adjacent split on the
// same axis, past its neighbor at this level, or out of this container into
// the nearest ancestor split on dir's axis. Reports whether a move
// happened.
func (s *SplitNode) MoveChild(child Node, dir geo.Direction) bool {
	i, ok := s.indexOf(child)
	if !ok {
		return false
	}

	if s.axis() == dir.Axis() {
		j := i - 1
		if dir.Forward() {
			j = i + 1
		}
		if j >= 0 && j < len(s.children) {
			if target, ok := s.children[j].node.(*SplitNode); ok && target.axis() == dir.Axis() {
				// Descend: the child enters the neighboring split from the
				// side it came from.
				moved := s.RemoveChild(child)
				if dir.Forward() {
					target.InsertChildFront(moved)
				} else {
					target.InsertChild(moved)
				}
				return true
			}
			s.children[i], s.children[j] = s.children[j], s.children[i]
			if s.activeChild == i {
				s.activeChild = j
			} else if s.activeChild == j {
				s.activeChild = i
			}
			s.applyLayout()
			return true
		}
	}
	return s.moveChildOutside(child, dir)
}

// moveChildOutside escalates a move past this container's edge: the child is
// reinserted next to the ancestor-chain slot inside the nearest ancestor
// split running along dir's axis. Returns false when no such ancestor
// exists.
func (s *SplitNode) moveChildOutside(child Node, dir geo.Direction) bool {
	cur := Node(s)
	for {
		ps, ok := cur.Parent().(*SplitNode)
		if !ok {
			return false
		}
		if ps.axis() == dir.Axis() {
			anchor, found := ps.indexOf(cur)
			if !found {
				return false
			}
			// Detach first; a downgrade of this container swaps its slot in
			// place, so the anchor index stays valid.
			moved := s.RemoveChild(child)
			if moved == nil {
				return false
			}
			if dir.Forward() {
				ps.insertChildAt(anchor+1, moved)
			} else {
				ps.insertChildAt(anchor, moved)
			}
			return true
		}
		cur = ps
	}
}

// == split/unsplit ==

// ToggleSplitDirection flips a horizontal split to vertical or vice versa
// and re-runs layout on the new axis. Tabbed and stacked containers are
// unaffected.
func (s *SplitNode) ToggleSplitDirection() {
	switch s.orientation {
	case SplitHorizontal:
		s.orientation = SplitVertical
	case SplitVertical:
		s.orientation = SplitHorizontal
	default:
		return
	}
	s.applyLayout()
}

// SetOrientation changes the split orientation and re-runs layout.
func (s *SplitNode) SetOrientation(o Orientation) {
	if s.orientation == o {
		return
	}
	s.orientation = o
	s.applyLayout()
}

// TryDowngrade collapses a single-child container: the surviving child
// replaces it in its parent, taking the container's exact slot and
// geometry. A surviving leaf remembers this container's orientation as its
// split preference so a later re-split restores it. Returns the surviving
// node, or nil when not eligible (child count != 1, no parent, or this is a
// workspace's tiled root, which never downgrades).
func (s *SplitNode) TryDowngrade() Node {
	if len(s.children) != 1 || s.parent == nil {
		return nil
	}
	if s.ws != nil && s.ws.tiledRoot == s {
		return nil
	}

	only := s.children[0].node
	if leaf, ok := only.(*SurfaceNode); ok {
		leaf.SetSplitPreference(s.orientation)
	}
	s.children = nil
	s.parent.SwapChild(s, only)
	return only
}

// resizePair shifts delta pixels of ratio from child j to child i, clamped
// so neither drops below the minimum node size. Non-adjacent children are
// untouched.
func (s *SplitNode) resizePair(i, j, delta int) {
	total := axisExtent(s.geometry, s.axis())
	if total <= 0 {
		return
	}

	iExt := axisExtent(s.children[i].node.Geometry(), s.axis())
	jExt := axisExtent(s.children[j].node.Geometry(), s.axis())

	if max := jExt - MinNodeSize; delta > max {
		delta = max
	}
	if min := -(iExt - MinNodeSize); delta < min {
		delta = min
	}
	if delta == 0 {
		return
	}

	shift := float64(delta) / float64(total)
	s.children[i].ratio += shift
	s.children[j].ratio -= shift
	s.applyLayout()
}

// setPreferredSize pins a child's absolute size along the split axis for
// the duration of a continuous resize. Zero clears the pin.
func (s *SplitNode) setPreferredSize(n Node, px int) {
	if i, ok := s.indexOf(n); ok {
		s.children[i].preferred = px
	}
}
