package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kweisel/tessera/pkg/arranger"
	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/tile"
)

// Canvas styles
var (
	canvasSurfaceStyle  = lipgloss.NewStyle().Foreground(colorGray)
	canvasActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasFloatingStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// demoCommand creates the demo command for interactive layout exploration.
func (c *CLI) demoCommand() *cobra.Command {
	var gridW, gridH int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Explore the layout engine interactively",
		Long: `Explore the layout engine interactively.

Opens a terminal canvas that mirrors a workspace. Surfaces are drawn as
boxes; focus, move, split and tiling commands are bound to keys so the
layout rules can be tried out without a compositor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(gridW, gridH)
		},
	}

	cmd.Flags().IntVar(&gridW, "grid-width", 1, "workspace grid width")
	cmd.Flags().IntVar(&gridH, "grid-height", 1, "workspace grid height")

	return cmd
}

func (c *CLI) runDemo(gridW, gridH int) error {
	host := newMemHost()
	a := arranger.New(host, arranger.Options{
		GridDims: geo.Dimensions{W: gridW, H: gridH},
		Workarea: geo.Rect{W: defaultWorkareaW, H: defaultWorkareaH},
	})

	model := newDemoModel(a, host)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}

// =============================================================================
// DemoModel - Interactive layout playground
// =============================================================================

// DemoModel is the bubbletea model driving the interactive demo.
type DemoModel struct {
	arranger  *arranger.Arranger
	host      *memHost
	next      int
	width     int
	height    int
	status    string
	statusErr bool
}

// newDemoModel creates a demo model with two surfaces already mapped.
func newDemoModel(a *arranger.Arranger, host *memHost) DemoModel {
	m := DemoModel{arranger: a, host: host, width: 80, height: 24}
	m.mapSurface()
	m.mapSurface()
	return m
}

func (m *DemoModel) mapSurface() {
	m.next++
	name := fmt.Sprintf("win-%d-%s", m.next, uuid.NewString()[:8])
	if err := m.arranger.SurfaceMapped(name, geo.Rect{}); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("mapped " + name)
}

func (m *DemoModel) closeActive() {
	handle, ok := m.activeHandle()
	if !ok {
		m.setStatus("nothing to close")
		return
	}
	if err := m.arranger.SurfaceUnmapped(handle); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("closed %v", handle))
}

func (m *DemoModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *DemoModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *DemoModel) activeHandle() (tile.SurfaceHandle, bool) {
	n := m.arranger.CurrentWorkspace().ActiveNode()
	if s, ok := n.(*tile.SurfaceNode); ok {
		return s.Handle(), true
	}
	return nil, false
}

func (m DemoModel) Init() tea.Cmd {
	return nil
}

func (m DemoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n":
			m.mapSurface()
		case "x":
			m.closeActive()
		case "left", "h":
			m.focus(geo.Left)
		case "right", "l":
			m.focus(geo.Right)
		case "up", "k":
			m.focus(geo.Up)
		case "down", "j":
			m.focus(geo.Down)
		case "shift+left", "H":
			m.move(geo.Left)
		case "shift+right", "L":
			m.move(geo.Right)
		case "shift+up", "K":
			m.move(geo.Up)
		case "shift+down", "J":
			m.move(geo.Down)
		case "s":
			if m.arranger.ToggleSplitDirection() {
				m.setStatus("toggled split direction")
			}
		case "v":
			m.wantSplit(tile.SplitVertical)
		case "b":
			m.wantSplit(tile.SplitHorizontal)
		case "t":
			if m.arranger.ToggleTile() {
				m.setStatus("toggled tiling")
			}
		case "f":
			if m.arranger.ToggleFocusTile() {
				m.setStatus("switched focus layer")
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *DemoModel) focus(dir geo.Direction) {
	if m.arranger.FocusDirection(dir) {
		m.setStatus("focus " + dir.String())
	}
}

func (m *DemoModel) move(dir geo.Direction) {
	if m.arranger.MoveDirection(dir) {
		m.setStatus("move " + dir.String())
	}
}

func (m *DemoModel) wantSplit(o tile.Orientation) {
	if err := m.arranger.SetWantSplit(o); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("next split: " + o.String())
}

func (m DemoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tessera demo"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↓↑→ focus  shift+←↓↑→ move  n new  x close  s split dir  v/b want split  t tile  f layer  q quit"))
	b.WriteString("\n\n")

	canvasW := m.width - 2
	canvasH := m.height - 6
	if canvasW < 20 {
		canvasW = 20
	}
	if canvasH < 8 {
		canvasH = 8
	}
	b.WriteString(m.renderCanvas(canvasW, canvasH))
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(StyleError.Render(m.status))
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderCanvas projects the workspace onto a rune grid and draws each
// visible surface as a bordered box. Floating surfaces are drawn last so
// they overlap the tiled layer, matching stacking order.
func (m DemoModel) renderCanvas(w, h int) string {
	ws := m.arranger.CurrentWorkspace()
	area := ws.Workarea()
	if area.W < 1 || area.H < 1 {
		return ""
	}

	grid := make([][]rune, h)
	colors := make([][]*lipgloss.Style, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		colors[y] = make([]*lipgloss.Style, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	draw := func(n tile.Node, style *lipgloss.Style) {
		g := n.Geometry()
		x0 := (g.X - area.X) * w / area.W
		y0 := (g.Y - area.Y) * h / area.H
		x1 := (g.X - area.X + g.W) * w / area.W
		y1 := (g.Y - area.Y + g.H) * h / area.H
		drawBox(grid, colors, x0, y0, x1, y1, labelFor(n), style)
	}

	walkLeaves(ws.TiledRoot(), func(s *tile.SurfaceNode) {
		style := &canvasSurfaceStyle
		if tile.Node(s) == ws.ActiveNode() {
			style = &canvasActiveStyle
		}
		draw(s, style)
	})
	for _, fl := range ws.FloatingNodes() {
		walkLeaves(fl, func(s *tile.SurfaceNode) {
			style := &canvasFloatingStyle
			if tile.Node(s) == ws.ActiveNode() {
				style = &canvasActiveStyle
			}
			draw(s, style)
		})
	}

	var b strings.Builder
	for y := range grid {
		for x := range grid[y] {
			ch := string(grid[y][x])
			if st := colors[y][x]; st != nil {
				b.WriteString(st.Render(ch))
			} else {
				b.WriteString(ch)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func labelFor(n tile.Node) string {
	s, ok := n.(*tile.SurfaceNode)
	if !ok {
		return fmt.Sprintf("%v", n)
	}
	name := fmt.Sprintf("%v", s.Handle())
	if i := strings.LastIndex(name, "-"); i > 4 {
		name = name[:i]
	}
	return name
}

func walkLeaves(n tile.Node, fn func(*tile.SurfaceNode)) {
	switch t := n.(type) {
	case *tile.SurfaceNode:
		fn(t)
	case *tile.SplitNode:
		for _, c := range t.Children() {
			walkLeaves(c, fn)
		}
	}
}

func drawBox(grid [][]rune, colors [][]*lipgloss.Style, x0, y0, x1, y1 int, label string, style *lipgloss.Style) {
	h := len(grid)
	if h == 0 {
		return
	}
	w := len(grid[0])
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	x0 = clamp(x0, 0, w-1)
	x1 = clamp(x1-1, 0, w-1)
	y0 = clamp(y0, 0, h-1)
	y1 = clamp(y1-1, 0, h-1)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	set := func(x, y int, ch rune) {
		grid[y][x] = ch
		colors[y][x] = style
	}

	for x := x0; x <= x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0; y <= y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')

	// Clear the interior so overlapping floating boxes occlude.
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			grid[y][x] = ' '
			colors[y][x] = nil
		}
	}

	if len(label) > x1-x0-1 {
		if x1-x0-1 > 0 {
			label = label[:x1-x0-1]
		} else {
			label = ""
		}
	}
	for i, ch := range label {
		set(x0+1+i, y0, ch)
	}
}
