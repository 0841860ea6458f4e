package grab

import (
	"github.com/kweisel/tessera/pkg/errors"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/observability"
	"github.com/kweisel/tessera/pkg/tile"
)

// State identifies the phase of the grab state machine.
type State uint8

const (
	// Idle means no grab session is active.
	Idle State = iota
	// Moving translates the target's geometry with the pointer.
	Moving
	// Resizing drags the target's anchor edges with the pointer.
	Resizing
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Manager runs at most one grab session at a time. All methods are meant to
// be called from the single event-handling goroutine; the manager holds no
// locks of its own.
type Manager struct {
	arbiter Arbiter

	state  State
	target tile.Node
	button uint32

	startGeometry geo.Rect
	startPointer  geo.Point
	edges         geo.Edges

	touchID     int32
	touchActive bool
}

// NewManager creates a manager gated by the given arbiter. A nil arbiter
// falls back to an in-process SingleArbiter.
func NewManager(arb Arbiter) *Manager {
	if arb == nil {
		arb = &SingleArbiter{}
	}
	return &Manager{arbiter: arb}
}

// State returns the current machine state.
func (m *Manager) State() State { return m.state }

// Target returns the node the active session drags, or nil while idle.
func (m *Manager) Target() tile.Node {
	if m.state == Idle {
		return nil
	}
	return m.target
}

// BeginMove starts a move session on n, which must sit under a floating
// root: moving a tiled node would pull it out of its split's coverage. The
// session ends when button is released. Fails without mutating anything
// when the target is tiled, a session is already active, or the arbiter
// refuses capture.
func (m *Manager) BeginMove(n tile.Node, pointer geo.Point, button uint32) error {
	if m.state != Idle {
		return errors.New(errors.ErrCodeGrabActive, "grab already in state %s", m.state)
	}
	if n == nil {
		return errors.New(errors.ErrCodeInternal, "nil grab target")
	}
	if n.FindFloatingRoot() == nil {
		return errors.New(errors.ErrCodeGrabDenied, "node %d is tiled, move grabs act on floating nodes", n.ID())
	}
	if !m.arbiter.TryActivate() {
		return errors.New(errors.ErrCodeGrabDenied, "input capture denied")
	}

	m.state = Moving
	m.target = n
	m.button = button
	m.startGeometry = n.Geometry()
	m.startPointer = pointer
	m.touchActive = false

	observability.Grab().OnGrabStart("move", n.ID(), pointer)
	return nil
}

// BeginResize starts a resize session on n. The anchor edges are classified
// once, from the pointer's entry position relative to n's geometry; a
// pointer outside the geometry is a precondition violation and fails with
// ErrCodeOutsideGeometry before any capture is taken.
func (m *Manager) BeginResize(n tile.Node, pointer geo.Point, button uint32) error {
	if m.state != Idle {
		return errors.New(errors.ErrCodeGrabActive, "grab already in state %s", m.state)
	}
	if n == nil {
		return errors.New(errors.ErrCodeInternal, "nil grab target")
	}

	edges, err := geo.ResizeEdges(n.Geometry(), pointer)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutsideGeometry, err, "classify resize edges at %v", pointer)
	}

	if !m.arbiter.TryActivate() {
		return errors.New(errors.ErrCodeGrabDenied, "input capture denied")
	}

	m.state = Resizing
	m.target = n
	m.button = button
	m.startGeometry = n.Geometry()
	m.startPointer = pointer
	m.edges = edges
	m.touchActive = false

	if leaf, ok := n.(*tile.SurfaceNode); ok {
		leaf.BeginResize(edges)
	}

	observability.Grab().OnGrabStart("resize", n.ID(), pointer)
	return nil
}

// PointerMotion feeds an absolute pointer position into the active session.
// Idle managers ignore motion.
func (m *Manager) PointerMotion(p geo.Point) {
	switch m.state {
	case Moving:
		delta := p.Sub(m.startPointer)
		m.target.SetGeometry(m.startGeometry.Translate(delta.X, delta.Y))
		observability.Grab().OnGrabMotion("move", m.target.ID(), p)

	case Resizing:
		delta := p.Sub(m.startPointer)
		d := m.startGeometry.Dimensions()
		if m.edges.Has(geo.EdgeLeft) {
			d.W -= delta.X
		} else {
			d.W += delta.X
		}
		if m.edges.Has(geo.EdgeTop) {
			d.H -= delta.Y
		} else {
			d.H += delta.Y
		}
		m.target.TryResize(d, m.edges)
		observability.Grab().OnGrabMotion("resize", m.target.ID(), p)
	}
}

// PointerButton ends the active session when its activation button is
// released. Presses and unrelated buttons are ignored.
func (m *Manager) PointerButton(button uint32, pressed bool) {
	if m.state == Idle || pressed || button != m.button {
		return
	}
	m.end()
}

// TouchMotion maps a touch point onto pointer motion. The first touch id
// seen during a session is adopted as the tracked point; others are
// ignored.
func (m *Manager) TouchMotion(id int32, p geo.Point) {
	if m.state == Idle {
		return
	}
	if !m.touchActive {
		m.touchActive = true
		m.touchID = id
	}
	if id != m.touchID {
		return
	}
	m.PointerMotion(p)
}

// TouchUp ends the active session when the tracked touch point lifts.
func (m *Manager) TouchUp(id int32) {
	if m.state == Idle || !m.touchActive || id != m.touchID {
		return
	}
	m.end()
}

// Cancel force-ends the active session regardless of state, e.g. on host
// shutdown. The capture token is always released.
func (m *Manager) Cancel() {
	if m.state == Idle {
		return
	}
	m.end()
}

func (m *Manager) end() {
	kind := "move"
	if m.state == Resizing {
		kind = "resize"
		if leaf, ok := m.target.(*tile.SurfaceNode); ok {
			leaf.EndResize()
		}
	}
	observability.Grab().OnGrabEnd(kind, m.target.ID())

	m.arbiter.Deactivate()
	m.state = Idle
	m.target = nil
	m.touchActive = false
	m.edges = 0
}
