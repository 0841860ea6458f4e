// Package grab implements the interactive drag state machine: it turns a
// stream of pointer and touch events into move and resize mutations on
// layout nodes.
//
// A grab session is exclusive. Activation is gated by an [Arbiter] that
// models the host's input-capture token: a session starts only if the
// arbiter grants capture, and every termination path releases it, including
// externally forced cancellation.
package grab

// Arbiter grants and revokes the exclusive input-capture token backing a
// grab session. Implementations are provided by the host integration; the
// in-process default is [SingleArbiter].
type Arbiter interface {
	// TryActivate requests exclusive capture. It reports false when
	// capture is already held.
	TryActivate() bool

	// Deactivate releases the capture token. Releasing an inactive
	// arbiter is a no-op.
	Deactivate()
}

// SingleArbiter is the default arbiter: a single in-process flag. There is
// no concurrency to guard against in the event-driven model, the flag only
// enforces that one grab runs at a time.
type SingleArbiter struct {
	active bool
}

// TryActivate claims the flag, reporting false if it is already claimed.
func (a *SingleArbiter) TryActivate() bool {
	if a.active {
		return false
	}
	a.active = true
	return true
}

// Deactivate clears the flag.
func (a *SingleArbiter) Deactivate() { a.active = false }

// Active reports whether the flag is currently claimed.
func (a *SingleArbiter) Active() bool { return a.active }
