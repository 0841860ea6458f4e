package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kweisel/tessera/pkg/arranger"
	"github.com/kweisel/tessera/pkg/errors"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/tile"
)

// =============================================================================
// Scenario Format
// =============================================================================

// Scenario is a replayable sequence of host events and layout commands,
// loaded from a TOML file.
type Scenario struct {
	Grid     GridSection `toml:"grid"`
	Workarea RectSection `toml:"workarea"`
	Steps    []Step      `toml:"steps"`
}

// GridSection configures the workspace grid dimensions.
type GridSection struct {
	W int `toml:"w"`
	H int `toml:"h"`
}

// RectSection is a rectangle in TOML form.
type RectSection struct {
	X int `toml:"x"`
	Y int `toml:"y"`
	W int `toml:"w"`
	H int `toml:"h"`
}

func (r RectSection) rect() geo.Rect { return geo.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H} }

// Step is a single scenario entry. Op selects the action; the remaining
// fields are read depending on the op.
type Step struct {
	Op      string `toml:"op" json:"op"`
	Surface string `toml:"surface" json:"surface,omitempty"`
	Dir     string `toml:"dir" json:"dir,omitempty"`
	Split   string `toml:"split" json:"split,omitempty"`
	X       int    `toml:"x" json:"x,omitempty"`
	Y       int    `toml:"y" json:"y,omitempty"`
	W       int    `toml:"w" json:"w,omitempty"`
	H       int    `toml:"h" json:"h,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "failed to read scenario file")
	}
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "failed to parse scenario file")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Grid.W != 0 || s.Grid.H != 0 {
		if err := errors.ValidateGridDims(s.Grid.W, s.Grid.H); err != nil {
			return err
		}
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err,
				"step %d (%s) is invalid", i+1, step.Op)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Op {
	case "map", "unmap", "focus-surface":
		return errors.ValidateSurfaceName(st.Surface)
	case "focus", "move":
		return errors.ValidateDirection(st.Dir)
	case "want-split":
		return errors.ValidateOrientation(st.Split)
	case "toggle-split", "toggle-tile", "toggle-focus-tile":
		return nil
	case "workspace":
		if st.X < 0 || st.Y < 0 {
			return errors.New(errors.ErrCodeGridBounds, "workspace position must be non-negative")
		}
		return nil
	case "workarea":
		if st.W < 1 || st.H < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "workarea must have positive dimensions")
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", st.Op)
	}
}

// =============================================================================
// Replay
// =============================================================================

// Apply replays every step against the arranger, stopping at the first
// failure. It returns the number of steps applied.
func (s *Scenario) Apply(a *arranger.Arranger) (int, error) {
	for i, step := range s.Steps {
		if err := step.apply(a); err != nil {
			return i, errors.Wrap(errors.ErrCodeInvalidScenario, err,
				"step %d (%s) failed", i+1, step.Op)
		}
	}
	return len(s.Steps), nil
}

func (st Step) apply(a *arranger.Arranger) error {
	switch st.Op {
	case "map":
		return a.SurfaceMapped(st.Surface, geo.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H})
	case "unmap":
		return a.SurfaceUnmapped(st.Surface)
	case "focus-surface":
		return a.SurfaceFocused(st.Surface)
	case "focus":
		dir, _ := geo.ParseDirection(st.Dir)
		a.FocusDirection(dir)
		return nil
	case "move":
		dir, _ := geo.ParseDirection(st.Dir)
		a.MoveDirection(dir)
		return nil
	case "want-split":
		o, _ := tile.ParseOrientation(st.Split)
		return a.SetWantSplit(o)
	case "toggle-split":
		a.ToggleSplitDirection()
		return nil
	case "toggle-tile":
		a.ToggleTile()
		return nil
	case "toggle-focus-tile":
		a.ToggleFocusTile()
		return nil
	case "workspace":
		return a.SetCurrentWorkspace(geo.Point{X: st.X, Y: st.Y})
	case "workarea":
		pos := a.CurrentWorkspace().Position()
		return a.WorkareaChanged(pos, geo.Rect{X: st.X, Y: st.Y, W: st.W, H: st.H})
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", st.Op)
	}
}

// NewArranger builds an arranger configured from the scenario header,
// applying CLI defaults when the file omits them.
func (s *Scenario) NewArranger(host tile.Host) *arranger.Arranger {
	opts := arranger.Options{
		GridDims: geo.Dimensions{W: s.Grid.W, H: s.Grid.H},
		Workarea: s.Workarea.rect(),
	}
	if opts.Workarea.W < 1 || opts.Workarea.H < 1 {
		opts.Workarea = geo.Rect{W: defaultWorkareaW, H: defaultWorkareaH}
	}
	return arranger.New(host, opts)
}
