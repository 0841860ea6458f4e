// Package arranger is the event-facing facade of the layout core. It owns
// the workspace grid, the surface registry and the grab state machine, and
// maps host events (surface lifecycle, pointer and touch input, workarea
// changes) onto tree mutations.
//
// All methods are meant to be called from the host's single event loop.
// Every mutation recomputes and applies geometry before returning, so the
// host never observes stale state between events.
package arranger

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/kweisel/tessera/pkg/errors"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/grab"
	"github.com/kweisel/tessera/pkg/tile"
)

// DefaultGrabButton is the pointer button ending interactive grabs when no
// other button is configured. The value is the evdev BTN_LEFT code.
const DefaultGrabButton uint32 = 272

// Options configures a new Arranger.
type Options struct {
	// GridDims is the workspace grid size. Zero values default to 1x1.
	GridDims geo.Dimensions

	// Workarea is the rectangle available for tiling on every workspace.
	Workarea geo.Rect

	// Arbiter gates interactive grabs. Nil falls back to an in-process
	// single-flag arbiter.
	Arbiter grab.Arbiter

	// GrabButton is the pointer button that terminates grabs on release.
	// Zero falls back to DefaultGrabButton.
	GrabButton uint32

	// Logger receives structured event logs. Nil discards them.
	Logger *log.Logger
}

// Arranger glues host events to the layout tree.
type Arranger struct {
	ids    *tile.IDSource
	grid   *tile.Grid
	grabs  *grab.Manager
	host   tile.Host
	logger *log.Logger

	surfaces map[tile.SurfaceHandle]*tile.SurfaceNode

	current    geo.Point
	pointer    geo.Point
	grabButton uint32
}

// New creates an arranger pushing geometry to the given host.
func New(host tile.Host, opts Options) *Arranger {
	if opts.GridDims.W < 1 {
		opts.GridDims.W = 1
	}
	if opts.GridDims.H < 1 {
		opts.GridDims.H = 1
	}
	if opts.GrabButton == 0 {
		opts.GrabButton = DefaultGrabButton
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	ids := tile.NewIDSource()
	return &Arranger{
		ids:        ids,
		grid:       tile.NewGrid(ids, opts.GridDims, opts.Workarea),
		grabs:      grab.NewManager(opts.Arbiter),
		host:       host,
		logger:     opts.Logger,
		surfaces:   make(map[tile.SurfaceHandle]*tile.SurfaceNode),
		grabButton: opts.GrabButton,
	}
}

// Grid exposes the workspace grid for introspection.
func (a *Arranger) Grid() *tile.Grid { return a.grid }

// CurrentWorkspace returns the workspace targeted by new surfaces and
// operations.
func (a *Arranger) CurrentWorkspace() *tile.Workspace { return a.grid.At(a.current) }

// Node returns the layout node backing a mapped surface, or nil.
func (a *Arranger) Node(handle tile.SurfaceHandle) *tile.SurfaceNode { return a.surfaces[handle] }

// GrabState returns the state of the interactive grab machine.
func (a *Arranger) GrabState() grab.State { return a.grabs.State() }

// == surface lifecycle ==

// SurfaceMapped inserts a newly mapped surface into the current workspace
// at the active position and focuses it. The initial geometry is remembered
// as the surface's floating geometry.
func (a *Arranger) SurfaceMapped(handle tile.SurfaceHandle, initial geo.Rect) error {
	if _, ok := a.surfaces[handle]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "surface %v already mapped", handle)
	}

	n := tile.NewSurfaceNode(a.ids, handle, a.host)
	if initial.W > 0 && initial.H > 0 {
		n.SetFloatingGeometry(initial)
	}
	ws := a.CurrentWorkspace()
	ws.InsertTiled(n)
	n.SetActive()
	a.surfaces[handle] = n

	a.logger.Debug("surface mapped", "handle", handle, "node", n.ID(), "workspace", ws)
	return nil
}

// SurfaceUnmapped removes a surface's node from its workspace, cancelling
// any grab that targets it, and repairs the workspace's active references.
func (a *Arranger) SurfaceUnmapped(handle tile.SurfaceHandle) error {
	n, ok := a.surfaces[handle]
	if !ok {
		return errors.New(errors.ErrCodeUnknownSurface, "surface %v not mapped", handle)
	}

	if t := a.grabs.Target(); t != nil && (t == tile.Node(n) || t == n.FindFloatingRoot()) {
		a.grabs.Cancel()
	}

	ws := n.Workspace()
	ws.RemoveNode(n)
	ws.NodeRemoved(n)
	delete(a.surfaces, handle)

	a.logger.Debug("surface unmapped", "handle", handle, "node", n.ID())
	return nil
}

// SurfaceFocused mirrors a host-side focus change into the tree.
func (a *Arranger) SurfaceFocused(handle tile.SurfaceHandle) error {
	n, ok := a.surfaces[handle]
	if !ok {
		return errors.New(errors.ErrCodeUnknownSurface, "surface %v not mapped", handle)
	}
	n.SetActive()
	return nil
}

// == input events ==

// PointerMotion feeds an absolute pointer position into the active grab,
// if any, and remembers it as the entry point for future grabs.
func (a *Arranger) PointerMotion(p geo.Point) {
	a.pointer = p
	a.grabs.PointerMotion(p)
}

// PointerButton feeds a button event into the active grab.
func (a *Arranger) PointerButton(button uint32, pressed bool) {
	a.grabs.PointerButton(button, pressed)
}

// TouchMotion feeds a touch point position into the active grab. The first
// point seen during a session is the tracked one.
func (a *Arranger) TouchMotion(id int32, p geo.Point) {
	a.pointer = p
	a.grabs.TouchMotion(id, p)
}

// TouchUp ends the active grab when the tracked touch point lifts.
func (a *Arranger) TouchUp(id int32) {
	a.grabs.TouchUp(id)
}

// == output and workspace management ==

// WorkareaChanged applies a new tiling area to one workspace. The change
// is local: the grid's default workarea stays as configured, so workspaces
// created by a later SetWorkspaceGrid start from the default, not from r.
func (a *Arranger) WorkareaChanged(pos geo.Point, r geo.Rect) error {
	ws := a.grid.At(pos)
	if ws == nil {
		return errors.New(errors.ErrCodeGridBounds, "no workspace at %v", pos)
	}
	ws.SetWorkarea(r)
	a.logger.Debug("workarea changed", "workspace", ws, "workarea", r)
	return nil
}

// SetWorkspaceGrid resizes the workspace grid, preserving workspaces that
// stay in bounds. Shrinking over an occupied workspace fails.
func (a *Arranger) SetWorkspaceGrid(dims geo.Dimensions) error {
	if err := errors.ValidateGridDims(dims.W, dims.H); err != nil {
		return err
	}
	if err := a.grid.Resize(dims); err != nil {
		return errors.Wrap(errors.ErrCodeWorkspaceInUse, err, "resize grid to %v", dims)
	}
	if a.current.X >= dims.W {
		a.current.X = dims.W - 1
	}
	if a.current.Y >= dims.H {
		a.current.Y = dims.H - 1
	}
	a.logger.Info("workspace grid resized", "dims", dims)
	return nil
}

// SetCurrentWorkspace switches the workspace that receives new surfaces
// and operations.
func (a *Arranger) SetCurrentWorkspace(pos geo.Point) error {
	if a.grid.At(pos) == nil {
		return errors.New(errors.ErrCodeGridBounds, "no workspace at %v", pos)
	}
	a.current = pos
	return nil
}
