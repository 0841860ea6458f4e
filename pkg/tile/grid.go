package tile

import (
	"errors"
	"fmt"

	"github.com/kweisel/tessera/pkg/geo"
)

// ErrWorkspaceNotEmpty is returned by [Grid.Resize] when shrinking would
// discard a workspace that still manages nodes. Callers must reassign or
// destroy those nodes first; the grid never drops them silently.
var ErrWorkspaceNotEmpty = errors.New("workspace not empty")

// Grid is the 2-D array of workspaces on an output, indexed by grid
// coordinate.
//
// Workareas are per workspace. The grid keeps one default rectangle that
// seeds workspaces it creates; [Workspace.SetWorkarea] overrides a single
// workspace without touching that default, and only [Grid.SetWorkarea]
// replaces it.
type Grid struct {
	ids      *IDSource
	workarea geo.Rect // default for new workspaces
	cells    [][]*Workspace // cells[x][y]
	dims     geo.Dimensions
}

// NewGrid creates a dims.W by dims.H grid of empty workspaces sharing the
// given workarea.
func NewGrid(ids *IDSource, dims geo.Dimensions, workarea geo.Rect) *Grid {
	g := &Grid{ids: ids, workarea: workarea}
	if err := g.Resize(dims); err != nil {
		// A fresh grid has nothing to discard.
		panic(fmt.Sprintf("tile: new grid resize: %v", err))
	}
	return g
}

// Dims returns the current grid dimensions (columns, rows).
func (g *Grid) Dims() geo.Dimensions { return g.dims }

// At returns the workspace at grid coordinate p, or nil when out of
// bounds.
func (g *Grid) At(p geo.Point) *Workspace {
	if p.X < 0 || p.X >= g.dims.W || p.Y < 0 || p.Y >= g.dims.H {
		return nil
	}
	return g.cells[p.X][p.Y]
}

// ForEach visits every workspace in column-major order.
func (g *Grid) ForEach(fn func(*Workspace)) {
	for _, col := range g.cells {
		for _, ws := range col {
			fn(ws)
		}
	}
}

// Resize updates the grid dimensions, preserving workspaces that remain in
// bounds and creating fresh ones, seeded with the grid's default workarea,
// for new cells. Shrinking over a workspace that still manages nodes fails
// with ErrWorkspaceNotEmpty before any change is made.
func (g *Grid) Resize(dims geo.Dimensions) error {
	if dims.W < 1 || dims.H < 1 {
		dims = geo.Dimensions{W: max(dims.W, 1), H: max(dims.H, 1)}
	}

	for x, col := range g.cells {
		for y, ws := range col {
			if (x >= dims.W || y >= dims.H) && !ws.Empty() {
				return fmt.Errorf("discard workspace (%d,%d): %w", x, y, ErrWorkspaceNotEmpty)
			}
		}
	}

	cells := make([][]*Workspace, dims.W)
	for x := range cells {
		cells[x] = make([]*Workspace, dims.H)
		for y := range cells[x] {
			if x < g.dims.W && y < g.dims.H {
				cells[x][y] = g.cells[x][y]
				continue
			}
			cells[x][y] = NewWorkspace(g.ids, geo.Point{X: x, Y: y}, g.workarea)
		}
	}
	g.cells = cells
	g.dims = dims
	return nil
}

// SetWorkarea applies a new workarea to every workspace, re-laying-out each
// tiled tree.
func (g *Grid) SetWorkarea(r geo.Rect) {
	g.workarea = r
	g.ForEach(func(ws *Workspace) { ws.SetWorkarea(r) })
}

// Workarea returns the workarea shared by the grid's workspaces.
func (g *Grid) Workarea() geo.Rect { return g.workarea }
