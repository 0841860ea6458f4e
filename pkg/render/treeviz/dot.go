// Package treeviz renders layout trees as Graphviz diagrams. Containers
// become boxes colored by orientation, surfaces become leaves labeled with
// their handle and geometry.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kweisel/tessera/pkg/tile"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes geometry and split ratios in node labels.
	// When false, only the node kind and handle are shown.
	Detailed bool
}

// ToDOT converts a workspace layout tree to Graphviz DOT format. The
// resulting DOT string can be rendered with [RenderSVG]. Floating subtrees
// are attached to a synthetic "floating" cluster node with dashed edges.
func ToDOT(ws *tile.Workspace, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	writeNode(&buf, ws.TiledRoot(), opts)

	if floating := ws.FloatingNodes(); len(floating) > 0 {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  %q [label=\"floating\", style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", "floating")
		for _, n := range floating {
			writeNode(&buf, n, opts)
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", "floating", nodeID(n))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n tile.Node, opts Options) {
	attrs := fmtAttrs(n, opts)
	fmt.Fprintf(buf, "  %q [%s];\n", nodeID(n), strings.Join(attrs, ", "))

	split, ok := n.(*tile.SplitNode)
	if !ok {
		return
	}
	for _, c := range split.Children() {
		writeNode(buf, c, opts)
		fmt.Fprintf(buf, "  %q -> %q;\n", nodeID(n), nodeID(c))
	}
}

func nodeID(n tile.Node) string { return fmt.Sprintf("n%d", n.ID()) }

func fmtAttrs(n tile.Node, opts Options) []string {
	label := fmtLabel(n, opts.Detailed)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if split, ok := n.(*tile.SplitNode); ok {
		if split.Orientation() == tile.SplitHorizontal {
			attrs = append(attrs, "fillcolor=lightblue")
		} else {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
	}
	return attrs
}

func fmtLabel(n tile.Node, detailed bool) string {
	var head string
	switch t := n.(type) {
	case *tile.SurfaceNode:
		head = fmt.Sprintf("%v", t.Handle())
	case *tile.SplitNode:
		head = t.Orientation().String()
	default:
		head = fmt.Sprintf("%v", n)
	}
	if !detailed {
		return head
	}

	g := n.Geometry()
	parts := []string{fmt.Sprintf("%dx%d at (%d,%d)", g.W, g.H, g.X, g.Y)}
	if split, ok := n.(*tile.SplitNode); ok {
		ratios := split.ChildRatios()
		strs := make([]string, len(ratios))
		for i, r := range ratios {
			strs[i] = fmt.Sprintf("%.2f", r)
		}
		parts = append(parts, "ratios: "+strings.Join(strs, " "))
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
