package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kweisel/tessera/pkg/geo"
	"github.com/kweisel/tessera/pkg/render/treeviz"
	"github.com/kweisel/tessera/pkg/tile"
)

// runCommand creates the run command for replaying scenario files.
func (c *CLI) runCommand() *cobra.Command {
	var (
		dotOutput string
		svgOutput string
		detailed  bool
	)

	cmd := &cobra.Command{
		Use:   "run [scenario.toml]",
		Short: "Replay a layout scenario and print the resulting tree",
		Long: `Replay a layout scenario and print the resulting tree.

A scenario file describes a workspace grid, a workarea, and a sequence of
steps: surfaces mapping and unmapping, focus and move commands, split
preference changes, tiling toggles, and workspace switches. The run command
replays every step against a fresh layout and prints the final tree of the
current workspace.

Use --dot or --svg to additionally export the tree as a Graphviz diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScenario(args[0], dotOutput, svgOutput, detailed)
		},
	}

	cmd.Flags().StringVar(&dotOutput, "dot", "", "write the layout tree as Graphviz DOT to this file")
	cmd.Flags().StringVar(&svgOutput, "svg", "", "render the layout tree as SVG to this file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include geometry and ratios in tree output")

	return cmd
}

// runScenario loads the scenario, replays it, and prints the outcome.
func (c *CLI) runScenario(path, dotOutput, svgOutput string, detailed bool) error {
	scenario, err := LoadScenario(path)
	if err != nil {
		return err
	}

	host := newMemHost()
	a := scenario.NewArranger(host)

	c.Logger.Debugf("Replaying %s", path)
	tracker := newProgress(c.Logger)
	applied, err := scenario.Apply(a)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	tracker.done(fmt.Sprintf("Replayed %d steps", applied))

	ws := a.CurrentWorkspace()
	printSuccess("Scenario complete")
	if ws.Empty() {
		printWarning("current workspace is empty")
	}
	printNewline()
	printWorkspaceTree(ws, detailed)
	printNewline()

	surfaces, containers := countNodes(ws.TiledRoot())
	for _, n := range ws.FloatingNodes() {
		s, con := countSubtree(n)
		surfaces += s
		containers += con
	}
	printStats(surfaces, containers, len(ws.FloatingNodes()))

	if name, ok := focusedName(host); ok {
		printDetail("focused: %s", name)
	}

	if dotOutput != "" {
		dot := treeviz.ToDOT(ws, treeviz.Options{Detailed: detailed})
		if err := os.WriteFile(dotOutput, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", dotOutput, err)
		}
		printFile(dotOutput)
	}
	if svgOutput != "" {
		dot := treeviz.ToDOT(ws, treeviz.Options{Detailed: detailed})
		svg, err := treeviz.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render SVG: %w", err)
		}
		if err := os.WriteFile(svgOutput, svg, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", svgOutput, err)
		}
		printFile(svgOutput)
	}

	printNewline()
	printNextStep("Inspect over HTTP", "tessera serve --scenario "+path)

	return nil
}

func focusedName(h *memHost) (string, bool) {
	if h.focused == nil {
		return "", false
	}
	s, ok := h.focused.(string)
	return s, ok
}

// =============================================================================
// Tree Printing
// =============================================================================

// printWorkspaceTree prints the workspace layout as an indented tree.
func printWorkspaceTree(ws *tile.Workspace, detailed bool) {
	fmt.Println(StyleTitle.Render(ws.String()) + " " + StyleDim.Render(describeRect(ws.Workarea())))
	printTreeNode(ws.TiledRoot(), "", true, ws, detailed)
	for i, n := range ws.FloatingNodes() {
		last := i == len(ws.FloatingNodes())-1
		fmt.Println(branchPrefix("", last) + StyleDim.Render("floating"))
		printTreeNode(n, childPrefix("", last), true, ws, detailed)
	}
}

func printTreeNode(n tile.Node, prefix string, last bool, ws *tile.Workspace, detailed bool) {
	label := nodeLabel(n)
	if detailed {
		label += " " + StyleDim.Render(describeRect(n.Geometry()))
	}
	if n == ws.ActiveNode() {
		label += " " + StyleHighlight.Render("*")
	}
	fmt.Println(branchPrefix(prefix, last) + label)

	split, ok := n.(*tile.SplitNode)
	if !ok {
		return
	}
	children := split.Children()
	for i, c := range children {
		printTreeNode(c, childPrefix(prefix, last), i == len(children)-1, ws, detailed)
	}
}

func nodeLabel(n tile.Node) string {
	switch t := n.(type) {
	case *tile.SurfaceNode:
		return StyleValue.Render(fmt.Sprintf("%v", t.Handle()))
	case *tile.SplitNode:
		return lipgloss.NewStyle().Bold(true).Render(t.Orientation().String())
	default:
		return fmt.Sprintf("%v", n)
	}
}

func branchPrefix(prefix string, last bool) string {
	if last {
		return prefix + StyleDim.Render("└─ ")
	}
	return prefix + StyleDim.Render("├─ ")
}

func childPrefix(prefix string, last bool) string {
	if last {
		return prefix + "   "
	}
	return prefix + StyleDim.Render("│  ")
}

func describeRect(r geo.Rect) string {
	return fmt.Sprintf("%dx%d at (%d,%d)", r.W, r.H, r.X, r.Y)
}

func countNodes(root *tile.SplitNode) (surfaces, containers int) {
	return countSubtree(root)
}

func countSubtree(n tile.Node) (surfaces, containers int) {
	split, ok := n.(*tile.SplitNode)
	if !ok {
		return 1, 0
	}
	containers = 1
	for _, c := range split.Children() {
		s, con := countSubtree(c)
		surfaces += s
		containers += con
	}
	return surfaces, containers
}
