package arranger

import (
	"github.com/kweisel/tessera/pkg/errors"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/tile"
)

// Operations bound to user commands. They all act on the current
// workspace's active node and report false (or a coded error) when the
// precondition for the operation does not hold, leaving the tree untouched.

// FocusDirection moves focus to the node adjacent to the active one in the
// given direction. When the neighbor is a container, its most recently
// active descendant takes focus.
func (a *Arranger) FocusDirection(dir geo.Direction) bool {
	n := a.CurrentWorkspace().ActiveNode()
	if n == nil || n.Floating() {
		return false
	}
	p := n.Parent()
	if p == nil {
		return false
	}
	adj := p.Adjacent(n, dir)
	if adj == nil {
		return false
	}
	if pa, ok := adj.(tile.Parent); ok {
		if deep := pa.LastActiveNode(); deep != nil {
			adj = deep
		}
	}
	adj.SetActive()
	return true
}

// MoveDirection moves the active node in the given direction: tiled nodes
// move through the tree, floating nodes translate by a fixed step.
func (a *Arranger) MoveDirection(dir geo.Direction) bool {
	n := a.CurrentWorkspace().ActiveNode()
	if n == nil {
		return false
	}

	if n.Floating() {
		root := n.FindFloatingRoot()
		if root == nil {
			return false
		}
		dx, dy := 0, 0
		switch dir {
		case geo.Left:
			dx = -tile.FloatingMoveStep
		case geo.Right:
			dx = tile.FloatingMoveStep
		case geo.Up:
			dy = -tile.FloatingMoveStep
		case geo.Down:
			dy = tile.FloatingMoveStep
		}
		root.SetGeometry(root.Geometry().Translate(dx, dy))
		return true
	}

	p := n.Parent()
	if p == nil {
		return false
	}
	if !p.MoveChild(n, dir) {
		return false
	}
	n.SetActive()
	return true
}

// ToggleSplitDirection flips the active tiled node's parent container
// between horizontal and vertical.
func (a *Arranger) ToggleSplitDirection() bool {
	n := a.CurrentWorkspace().ActiveTiledNode()
	if n == nil {
		return false
	}
	split, ok := n.Parent().(*tile.SplitNode)
	if !ok {
		return false
	}
	split.ToggleSplitDirection()
	return true
}

// SetWantSplit records a split preference on the active leaf: the next
// surface inserted at this position upgrades the leaf into a container
// with the given orientation.
func (a *Arranger) SetWantSplit(o tile.Orientation) error {
	n := a.CurrentWorkspace().ActiveNode()
	leaf, ok := n.(*tile.SurfaceNode)
	if !ok {
		return errors.New(errors.ErrCodeInvalidSplit, "no active leaf to mark for splitting")
	}
	leaf.SetSplitPreference(o)
	return nil
}

// ToggleTile flips the active node between tiled and floating.
func (a *Arranger) ToggleTile() bool {
	ws := a.CurrentWorkspace()
	n := ws.ActiveNode()
	if n == nil {
		return false
	}
	if n.Floating() {
		if root := n.FindFloatingRoot(); root != nil {
			n = root
		}
	}
	ws.ToggleTileNode(n)
	return true
}

// ToggleFocusTile swaps focus between the floating and tiled subtrees.
func (a *Arranger) ToggleFocusTile() bool {
	ws := a.CurrentWorkspace()
	n := ws.ActiveNode()
	if n == nil {
		return false
	}

	var next tile.Node
	if n.FindFloatingRoot() != nil {
		next = ws.ActiveTiledNode()
	} else {
		next = ws.LastFloatingNode()
		if p, ok := next.(tile.Parent); ok && p != nil {
			if deep := p.LastActiveNode(); deep != nil {
				next = deep
			}
		}
	}
	if next == nil {
		return false
	}
	next.SetActive()
	return true
}

// BeginMove starts an interactive move grab on the active node's floating
// root at the last seen pointer position. Tiled nodes have no free
// position to drag; a grab on them is refused so the tiled tree keeps
// covering the workarea.
func (a *Arranger) BeginMove() error {
	ws := a.CurrentWorkspace()
	active := ws.ActiveNode()
	if active == nil {
		return errors.New(errors.ErrCodeGrabDenied, "no node to grab")
	}
	n := active.FindFloatingRoot()
	if n == nil {
		return errors.New(errors.ErrCodeGrabDenied, "node %d is tiled, only floating nodes move freely", active.ID())
	}
	if err := a.grabs.BeginMove(n, a.pointer, a.grabButton); err != nil {
		a.logger.Debug("move grab refused", "node", n.ID(), "err", err)
		return err
	}
	a.logger.Debug("move grab started", "node", n.ID(), "pointer", a.pointer)
	return nil
}

// BeginResize starts an interactive resize grab on the active node at the
// last seen pointer position. Tiled nodes resize by adjusting their parent
// split's ratios, floating nodes by dragging their own geometry.
func (a *Arranger) BeginResize() error {
	n := a.resizeTarget()
	if n == nil {
		return errors.New(errors.ErrCodeGrabDenied, "no node to grab")
	}
	if err := a.grabs.BeginResize(n, a.pointer, a.grabButton); err != nil {
		a.logger.Debug("resize grab refused", "node", n.ID(), "err", err)
		return err
	}
	a.logger.Debug("resize grab started", "node", n.ID(), "pointer", a.pointer)
	return nil
}

// CancelGrab force-ends any active grab, releasing the capture token.
func (a *Arranger) CancelGrab() { a.grabs.Cancel() }

// resizeTarget picks the node a resize grab acts on: the active node's
// floating root, or the active tiled node.
func (a *Arranger) resizeTarget() tile.Node {
	ws := a.CurrentWorkspace()
	n := ws.ActiveNode()
	if n == nil {
		return nil
	}
	if root := n.FindFloatingRoot(); root != nil {
		return root
	}
	return ws.ActiveTiledNode()
}
