package observability

import (
	"testing"

	"github.com/kweisel/tessera/pkg/geo"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnNodeInserted(2, 1)
	l.OnNodeRemoved(2)
	l.OnGeometryApplied(2, geo.Rect{W: 800, H: 600})

	// Grab hooks
	g := NoopGrabHooks{}
	g.OnGrabStart("move", 2, geo.Point{X: 10, Y: 10})
	g.OnGrabMotion("move", 2, geo.Point{X: 15, Y: 10})
	g.OnGrabEnd("move", 2)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Grab().(NoopGrabHooks); !ok {
		t.Error("Grab() should return NoopGrabHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customGrab := &testGrabHooks{}
	SetGrabHooks(customGrab)
	if Grab() != customGrab {
		t.Error("SetGrabHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetHooksRestore(t *testing.T) {
	Reset()

	first := &testLayoutHooks{}
	SetLayoutHooks(first)

	second := &testLayoutHooks{}
	restore := SetLayoutHooks(second)
	if Layout() != second {
		t.Fatal("SetLayoutHooks should set the new hooks")
	}

	restore()
	if Layout() != first {
		t.Error("restore() should bring back the previously registered hooks")
	}

	Reset()
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGrabHooks{}
	SetGrabHooks(custom)

	// Setting nil should be ignored
	SetGrabHooks(nil)

	if Grab() != custom {
		t.Error("SetGrabHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testGrabHooks struct{ NoopGrabHooks }
