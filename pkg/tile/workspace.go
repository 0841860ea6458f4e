package tile

import (
	"fmt"

	"github.com/kweisel/tessera/pkg/geo"
)

// Workspace is one cell of the output's workspace grid. It owns a single
// tiled tree rooted at an always-present split container, plus an ordered
// set of floating roots, and tracks the most recently active node overall
// and within the tiled subtree.
type Workspace struct {
	pos      geo.Point
	workarea geo.Rect
	ids      *IDSource

	tiledRoot *SplitNode
	floating  []Node

	activeNode         Node
	activeTiledNode    Node
	lastActiveFloating Node
}

// NewWorkspace creates a workspace at the given grid position whose tiled
// root fills the workarea.
func NewWorkspace(ids *IDSource, pos geo.Point, workarea geo.Rect) *Workspace {
	ws := &Workspace{pos: pos, workarea: workarea, ids: ids}
	root := NewSplitNode(ids, SplitHorizontal, workarea)
	root.parent = ws
	root.ws = ws
	ws.tiledRoot = root
	return ws
}

// Position returns the workspace's coordinate in the output's grid.
func (ws *Workspace) Position() geo.Point { return ws.pos }

// Workarea returns the rectangle available for tiling.
func (ws *Workspace) Workarea() geo.Rect { return ws.workarea }

// SetWorkarea updates the tiling area and re-lays-out the tiled tree.
// Floating nodes keep their geometry.
func (ws *Workspace) SetWorkarea(r geo.Rect) {
	ws.workarea = r
	ws.tiledRoot.SetGeometry(r)
}

// TiledRoot returns the root container of the tiled tree.
func (ws *Workspace) TiledRoot() *SplitNode { return ws.tiledRoot }

// FloatingNodes returns the floating roots in order. The returned slice is
// a copy.
func (ws *Workspace) FloatingNodes() []Node {
	out := make([]Node, len(ws.floating))
	copy(out, ws.floating)
	return out
}

// ActiveNode returns the most recently active node in this workspace, tiled
// or floating, or nil.
func (ws *Workspace) ActiveNode() Node { return ws.activeNode }

// ActiveTiledNode returns the most recently active node of the tiled
// subtree, or nil.
func (ws *Workspace) ActiveTiledNode() Node { return ws.activeTiledNode }

// LastFloatingNode returns the most recently active floating root, falling
// back to the newest floating node, or nil when nothing floats.
func (ws *Workspace) LastFloatingNode() Node {
	if ws.lastActiveFloating != nil {
		return ws.lastActiveFloating
	}
	if len(ws.floating) > 0 {
		return ws.floating[len(ws.floating)-1]
	}
	return nil
}

// Empty reports whether the workspace manages no nodes at all.
func (ws *Workspace) Empty() bool {
	return len(ws.tiledRoot.children) == 0 && len(ws.floating) == 0
}

func (ws *Workspace) String() string { return fmt.Sprintf("workspace-%d-%d", ws.pos.X, ws.pos.Y) }

// noteActive records n as the workspace's active node. Callers should
// prefer n.SetActive, which also bubbles the focus path and transfers host
// focus. A node counts as floating when any ancestor floats, not only
// when it carries the flag itself: leaves inside a floating container
// must not be recorded as the active tiled node.
func (ws *Workspace) noteActive(n Node) {
	ws.activeNode = n
	if root := n.FindFloatingRoot(); root != nil {
		ws.lastActiveFloating = root
	} else {
		ws.activeTiledNode = n
	}
}

func (ws *Workspace) findFloating(n Node) (int, bool) {
	for i, f := range ws.floating {
		if f == n {
			return i, true
		}
	}
	return 0, false
}

// == tiled / floating insertion ==

// InsertTiled inserts a node into the tiled tree at the currently active
// position: the active leaf upgrades itself first when it carries a split
// preference. With no active tiled node the node lands at the back of the
// root container.
func (ws *Workspace) InsertTiled(n Node) {
	n.setFloatingFlag(false)
	target := ws.activeTiledNode
	if target == nil || target.Workspace() != ws {
		ws.tiledRoot.InsertChild(n)
		return
	}
	p := target.parentForNewChild()
	if p == nil {
		p = ws.tiledRoot
	}
	p.InsertChild(n)
}

// InsertFloating adds a node as a new floating root at its current
// geometry.
func (ws *Workspace) InsertFloating(n Node) {
	n.setParent(ws)
	n.setWorkspace(ws)
	n.setFloatingFlag(true)
	ws.floating = append(ws.floating, n)
	n.RefreshGeometry()
	n.setShown(true)
}

// RemoveNode detaches a node from wherever it sits under this workspace:
// floating roots leave the floating set, tiled nodes leave their container.
// The tiled root itself cannot be removed. Returns the detached node, or
// nil.
func (ws *Workspace) RemoveNode(n Node) Node {
	if n.Floating() {
		i, ok := ws.findFloating(n)
		if !ok {
			return nil
		}
		ws.floating = append(ws.floating[:i], ws.floating[i+1:]...)
		n.setParent(nil)
		return n
	}
	if n == Node(ws.tiledRoot) {
		return nil
	}
	p := n.Parent()
	if p == nil {
		return nil
	}
	return p.RemoveChild(n)
}

// NodeRemoved repairs the workspace's active references after a node has
// been detached and destroyed. It must only be called once the node has no
// parent; nodes that were merely reparented stay active.
func (ws *Workspace) NodeRemoved(n Node) {
	if ws.lastActiveFloating == n {
		ws.lastActiveFloating = nil
		if len(ws.floating) > 0 {
			ws.lastActiveFloating = ws.floating[len(ws.floating)-1]
		}
	}
	if ws.activeTiledNode == n {
		ws.activeTiledNode = ws.tiledRoot.LastActiveNode()
	}
	if ws.activeNode == n {
		ws.activeNode = nil
		if next := ws.LastActiveNode(); next != nil {
			next.SetActive()
		}
	}
}

// setNodeFloating moves a node between the tiled tree and the floating set.
// Tiled-to-floating restores the node's remembered floating geometry;
// floating-to-tiled saves it and inserts the node at the currently active
// tiled position.
func (ws *Workspace) setNodeFloating(n Node, fl bool) {
	if n.Floating() == fl {
		return
	}
	if n == Node(ws.tiledRoot) {
		return
	}

	if fl {
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
		if ws.activeTiledNode == n {
			ws.activeTiledNode = ws.tiledRoot.LastActiveNode()
		}
		restore := n.Geometry()
		if leaf, ok := n.(*SurfaceNode); ok {
			if fg := leaf.FloatingGeometry(); fg.W > 0 && fg.H > 0 {
				restore = fg
			}
		}
		n.setFloatingFlag(true)
		ws.InsertFloating(n)
		n.SetGeometry(restore)
		return
	}

	if leaf, ok := n.(*SurfaceNode); ok {
		leaf.SetFloatingGeometry(n.Geometry())
	}
	if i, ok := ws.findFloating(n); ok {
		ws.floating = append(ws.floating[:i], ws.floating[i+1:]...)
		n.setParent(nil)
	}
	n.setFloatingFlag(false)
	ws.InsertTiled(n)
}

// ToggleTileNode flips a node between tiled and floating and focuses it.
func (ws *Workspace) ToggleTileNode(n Node) {
	ws.setNodeFloating(n, !n.Floating())
	n.SetActive()
}

// == Parent impl ==

// Adjacent returns nil: the workspace is the tree root, there is no further
// adjacency to escalate to, and floating roots have no directional
// neighbors.
func (ws *Workspace) Adjacent(child Node, dir geo.Direction) Node { return nil }

// MoveChild reports false: direct children of the workspace (the tiled root
// and floating roots) have nowhere to move at this level.
func (ws *Workspace) MoveChild(child Node, dir geo.Direction) bool { return false }

// LastActiveNode returns the deepest active node, preferring the floating
// subtree when the overall active node floats.
func (ws *Workspace) LastActiveNode() Node {
	if ws.activeNode != nil && ws.activeNode.FindFloatingRoot() != nil {
		if p, ok := ws.activeNode.(Parent); ok {
			if deep := p.LastActiveNode(); deep != nil {
				return deep
			}
		}
		return ws.activeNode
	}
	return ws.tiledRoot.LastActiveNode()
}

// InsertChild adds a node to the tiled root or the floating set according
// to its floating flag.
func (ws *Workspace) InsertChild(n Node) {
	if n.Floating() {
		ws.InsertFloating(n)
		return
	}
	ws.tiledRoot.InsertChild(n)
}

// RemoveChild detaches a node from this workspace, dispatching on its
// floating flag.
func (ws *Workspace) RemoveChild(n Node) Node { return ws.RemoveNode(n) }

// SwapChild replaces a floating root in place: other takes the same slot
// and geometry and becomes floating itself. Used by floating containers
// downgrading to their only child. Returns the detached node, or nil.
func (ws *Workspace) SwapChild(n, other Node) Node {
	i, ok := ws.findFloating(n)
	if !ok {
		return nil
	}
	other.setParent(ws)
	other.setWorkspace(ws)
	other.setFloatingFlag(true)
	ws.floating[i] = other
	n.setParent(nil)
	other.SetGeometry(n.Geometry())
	other.setShown(true)
	return n
}

// SetActiveChild terminates the focus-path bubble at the root, recording
// which floating root was focused last.
func (ws *Workspace) SetActiveChild(n Node) {
	if n.Floating() {
		ws.lastActiveFloating = n
	}
}
