package arranger

import (
	"testing"

	"github.com/kweisel/tessera/pkg/errors"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/grab"
	"github.com/kweisel/tessera/pkg/tile"
)

type fakeHost struct {
	geometries map[tile.SurfaceHandle]geo.Rect
	focused    []tile.SurfaceHandle
}

func newFakeHost() *fakeHost {
	return &fakeHost{geometries: make(map[tile.SurfaceHandle]geo.Rect)}
}

func (h *fakeHost) SetSurfaceGeometry(s tile.SurfaceHandle, g geo.Rect) { h.geometries[s] = g }
func (h *fakeHost) SetSurfaceVisible(tile.SurfaceHandle, bool)          {}
func (h *fakeHost) RequestFocus(s tile.SurfaceHandle)                   { h.focused = append(h.focused, s) }

func (h *fakeHost) lastFocused() tile.SurfaceHandle {
	if len(h.focused) == 0 {
		return nil
	}
	return h.focused[len(h.focused)-1]
}

func newArranger(t *testing.T) (*Arranger, *fakeHost) {
	t.Helper()
	host := newFakeHost()
	a := New(host, Options{Workarea: geo.Rect{W: 800, H: 600}})
	return a, host
}

func mustMap(t *testing.T, a *Arranger, name string) *tile.SurfaceNode {
	t.Helper()
	if err := a.SurfaceMapped(name, geo.Rect{}); err != nil {
		t.Fatalf("SurfaceMapped(%s): %v", name, err)
	}
	return a.Node(name)
}

func TestSurfaceLifecycle(t *testing.T) {
	a, host := newArranger(t)

	mustMap(t, a, "a")
	if got := host.geometries["a"]; got != (geo.Rect{W: 800, H: 600}) {
		t.Errorf("a = %v, want full workarea", got)
	}

	mustMap(t, a, "b")
	if got := host.geometries["a"]; got != (geo.Rect{W: 400, H: 600}) {
		t.Errorf("a = %v, want left half", got)
	}
	if got := host.geometries["b"]; got != (geo.Rect{X: 400, W: 400, H: 600}) {
		t.Errorf("b = %v, want right half", got)
	}

	if err := a.SurfaceMapped("a", geo.Rect{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate map error = %v, want INVALID_INPUT", err)
	}

	if err := a.SurfaceUnmapped("b"); err != nil {
		t.Fatalf("SurfaceUnmapped: %v", err)
	}
	if got := host.geometries["a"]; got != (geo.Rect{W: 800, H: 600}) {
		t.Errorf("a = %v, want full workarea after b unmapped", got)
	}
	if a.Node("b") != nil {
		t.Error("unmapped surface still registered")
	}

	if err := a.SurfaceUnmapped("b"); !errors.Is(err, errors.ErrCodeUnknownSurface) {
		t.Errorf("double unmap error = %v, want UNKNOWN_SURFACE", err)
	}
}

func TestSurfaceFocused(t *testing.T) {
	a, host := newArranger(t)
	aNode := mustMap(t, a, "a")
	mustMap(t, a, "b")

	if err := a.SurfaceFocused("a"); err != nil {
		t.Fatalf("SurfaceFocused: %v", err)
	}
	if a.CurrentWorkspace().ActiveNode() != tile.Node(aNode) {
		t.Error("focus event did not update the active node")
	}
	if host.lastFocused() != tile.SurfaceHandle("a") {
		t.Errorf("host focus = %v, want a", host.lastFocused())
	}

	if err := a.SurfaceFocused("ghost"); !errors.Is(err, errors.ErrCodeUnknownSurface) {
		t.Errorf("error = %v, want UNKNOWN_SURFACE", err)
	}
}

func TestFocusDirection(t *testing.T) {
	a, host := newArranger(t)
	mustMap(t, a, "a")
	mustMap(t, a, "b")

	if !a.FocusDirection(geo.Left) {
		t.Fatal("FocusDirection(left) = false, want true")
	}
	if host.lastFocused() != tile.SurfaceHandle("a") {
		t.Errorf("focused = %v, want a", host.lastFocused())
	}

	if a.FocusDirection(geo.Left) {
		t.Error("FocusDirection(left) at the edge = true, want false")
	}
	if a.FocusDirection(geo.Up) {
		t.Error("FocusDirection(up) with no vertical neighbor = true, want false")
	}

	if !a.FocusDirection(geo.Right) {
		t.Error("FocusDirection(right) = false, want true")
	}
	if host.lastFocused() != tile.SurfaceHandle("b") {
		t.Errorf("focused = %v, want b", host.lastFocused())
	}
}

func TestMoveDirectionTiled(t *testing.T) {
	a, _ := newArranger(t)
	aNode := mustMap(t, a, "a")
	b := mustMap(t, a, "b")

	if !a.MoveDirection(geo.Left) {
		t.Fatal("MoveDirection(left) = false, want true")
	}
	kids := a.CurrentWorkspace().TiledRoot().Children()
	if kids[0] != tile.Node(b) || kids[1] != tile.Node(aNode) {
		t.Errorf("children = %v, want [b a]", kids)
	}

	if a.MoveDirection(geo.Left) {
		t.Error("MoveDirection(left) at the edge = true, want false")
	}
}

func TestMoveDirectionFloating(t *testing.T) {
	a, _ := newArranger(t)
	n := mustMap(t, a, "a")
	if !a.ToggleTile() {
		t.Fatal("ToggleTile = false, want true")
	}
	start := n.Geometry()

	if !a.MoveDirection(geo.Right) {
		t.Fatal("MoveDirection(right) = false, want true")
	}
	want := start.Translate(tile.FloatingMoveStep, 0)
	if n.Geometry() != want {
		t.Errorf("geometry = %v, want %v", n.Geometry(), want)
	}

	a.MoveDirection(geo.Down)
	want = want.Translate(0, tile.FloatingMoveStep)
	if n.Geometry() != want {
		t.Errorf("geometry = %v, want %v", n.Geometry(), want)
	}
}

func TestToggleSplitDirection(t *testing.T) {
	a, host := newArranger(t)
	mustMap(t, a, "a")
	mustMap(t, a, "b")

	if !a.ToggleSplitDirection() {
		t.Fatal("ToggleSplitDirection = false, want true")
	}
	if got := host.geometries["a"]; got != (geo.Rect{W: 800, H: 300}) {
		t.Errorf("a = %v, want top half after toggle", got)
	}
	if got := host.geometries["b"]; got != (geo.Rect{Y: 300, W: 800, H: 300}) {
		t.Errorf("b = %v, want bottom half after toggle", got)
	}
}

func TestSetWantSplit(t *testing.T) {
	a, _ := newArranger(t)
	aNode := mustMap(t, a, "a")
	mustMap(t, a, "b")

	if err := a.SurfaceFocused("a"); err != nil {
		t.Fatal(err)
	}
	if err := a.SetWantSplit(tile.SplitVertical); err != nil {
		t.Fatalf("SetWantSplit: %v", err)
	}
	mustMap(t, a, "c")

	inner, ok := aNode.Parent().(*tile.SplitNode)
	if !ok || inner == a.CurrentWorkspace().TiledRoot() {
		t.Fatal("expected a to have upgraded into a nested split")
	}
	if inner.Orientation() != tile.SplitVertical {
		t.Errorf("nested orientation = %v, want vertical", inner.Orientation())
	}
}

func TestToggleFocusTile(t *testing.T) {
	a, host := newArranger(t)
	mustMap(t, a, "tiled")
	mustMap(t, a, "float")
	if !a.ToggleTile() {
		t.Fatal("ToggleTile = false, want true")
	}

	// Active node floats now; swap focus to the tiled subtree and back.
	if !a.ToggleFocusTile() {
		t.Fatal("ToggleFocusTile = false, want true")
	}
	if host.lastFocused() != tile.SurfaceHandle("tiled") {
		t.Errorf("focused = %v, want tiled", host.lastFocused())
	}

	if !a.ToggleFocusTile() {
		t.Fatal("ToggleFocusTile back = false, want true")
	}
	if host.lastFocused() != tile.SurfaceHandle("float") {
		t.Errorf("focused = %v, want float", host.lastFocused())
	}
}

func TestInteractiveResizeFlow(t *testing.T) {
	a, host := newArranger(t)
	mustMap(t, a, "a")
	mustMap(t, a, "b")

	// Pointer near b's left edge, vertically centered.
	a.PointerMotion(geo.Point{X: 450, Y: 300})
	if err := a.BeginResize(); err != nil {
		t.Fatalf("BeginResize: %v", err)
	}
	if a.GrabState() != grab.Resizing {
		t.Fatalf("state = %v, want resizing", a.GrabState())
	}

	a.PointerMotion(geo.Point{X: 400, Y: 300})
	a.PointerButton(DefaultGrabButton, false)

	if a.GrabState() != grab.Idle {
		t.Errorf("state = %v, want idle after release", a.GrabState())
	}
	if got := host.geometries["b"].W; got != 450 {
		t.Errorf("b width = %d, want 450", got)
	}
	if got := host.geometries["a"].W; got != 350 {
		t.Errorf("a width = %d, want 350", got)
	}
}

func TestInteractiveMoveRefusesTiled(t *testing.T) {
	a, host := newArranger(t)
	mustMap(t, a, "a")
	mustMap(t, a, "b")

	a.PointerMotion(geo.Point{X: 600, Y: 300})
	if err := a.BeginMove(); !errors.Is(err, errors.ErrCodeGrabDenied) {
		t.Fatalf("BeginMove on tiled node = %v, want GRAB_DENIED", err)
	}
	if a.GrabState() != grab.Idle {
		t.Fatalf("state = %v, want idle", a.GrabState())
	}

	// Motion after the refusal must not drag anything out of the split.
	a.PointerMotion(geo.Point{X: 400, Y: 100})
	a.PointerButton(DefaultGrabButton, false)

	if got := host.geometries["a"]; got != (geo.Rect{W: 400, H: 600}) {
		t.Errorf("a = %v, want left half", got)
	}
	if got := host.geometries["b"]; got != (geo.Rect{X: 400, W: 400, H: 600}) {
		t.Errorf("b = %v, want right half", got)
	}
}

func TestInteractiveMoveFloating(t *testing.T) {
	a, _ := newArranger(t)
	n := mustMap(t, a, "a")
	a.ToggleTile()
	n.SetGeometry(geo.Rect{X: 100, Y: 100, W: 300, H: 200})

	a.PointerMotion(geo.Point{X: 200, Y: 150})
	if err := a.BeginMove(); err != nil {
		t.Fatalf("BeginMove: %v", err)
	}
	a.PointerMotion(geo.Point{X: 260, Y: 170})
	a.PointerButton(DefaultGrabButton, false)

	want := geo.Rect{X: 160, Y: 120, W: 300, H: 200}
	if n.Geometry() != want {
		t.Errorf("geometry = %v, want %v", n.Geometry(), want)
	}
}

func TestUnmapCancelsGrab(t *testing.T) {
	a, _ := newArranger(t)
	mustMap(t, a, "a")
	a.ToggleTile()

	a.PointerMotion(geo.Point{X: 100, Y: 100})
	if err := a.BeginMove(); err != nil {
		t.Fatalf("BeginMove: %v", err)
	}
	if err := a.SurfaceUnmapped("a"); err != nil {
		t.Fatalf("SurfaceUnmapped: %v", err)
	}
	if a.GrabState() != grab.Idle {
		t.Errorf("state = %v, want idle after target unmapped", a.GrabState())
	}
}

func TestWorkspaceGrid(t *testing.T) {
	a, host := newArranger(t)

	if err := a.SetWorkspaceGrid(geo.Dimensions{W: 2, H: 1}); err != nil {
		t.Fatalf("SetWorkspaceGrid: %v", err)
	}
	if err := a.SetCurrentWorkspace(geo.Point{X: 1}); err != nil {
		t.Fatalf("SetCurrentWorkspace: %v", err)
	}
	mustMap(t, a, "c")
	if got := a.Node("c").Workspace().Position(); got != (geo.Point{X: 1}) {
		t.Errorf("c's workspace = %v, want (1,0)", got)
	}

	err := a.SetWorkspaceGrid(geo.Dimensions{W: 1, H: 1})
	if !errors.Is(err, errors.ErrCodeWorkspaceInUse) {
		t.Errorf("shrink error = %v, want WORKSPACE_NOT_EMPTY", err)
	}

	if err := a.SetCurrentWorkspace(geo.Point{X: 5}); !errors.Is(err, errors.ErrCodeGridBounds) {
		t.Errorf("switch error = %v, want GRID_BOUNDS", err)
	}
	if err := a.SetWorkspaceGrid(geo.Dimensions{W: 0, H: 1}); !errors.Is(err, errors.ErrCodeGridBounds) {
		t.Errorf("invalid dims error = %v, want GRID_BOUNDS", err)
	}

	if err := a.WorkareaChanged(geo.Point{X: 1}, geo.Rect{W: 1024, H: 768}); err != nil {
		t.Fatalf("WorkareaChanged: %v", err)
	}
	if got := host.geometries["c"]; got != (geo.Rect{W: 1024, H: 768}) {
		t.Errorf("c = %v, want the new workarea", got)
	}
	if err := a.WorkareaChanged(geo.Point{X: 9}, geo.Rect{}); !errors.Is(err, errors.ErrCodeGridBounds) {
		t.Errorf("error = %v, want GRID_BOUNDS", err)
	}
}
