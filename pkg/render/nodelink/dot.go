package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sketchgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the element type under each node label.
	Detailed bool
}

var shapes = map[string]string{
	"rectangle": "box",
	"ellipse":   "ellipse",
	"diamond":   "diamond",
	"text":      "plaintext",
	"image":     "box3d",
	"frame":     "tab",
}

// ToDOT converts a graph to Graphviz DOT source.
//
// Nodes are pinned at the centre of their element's bounding box, so the
// diagram keeps the scene's layout when rendered with neato. Nodes whose
// attributes carry no position are placed at the origin.
func ToDOT(g *graph.Graph, opts Options) string {
	kind, arrow := "graph", "--"
	if g.Directed() {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q %s %q;\n", e.Source, arrow, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.Source, arrow, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.Label()
	if !detailed {
		return label
	}
	if typ, ok := n.Attrs.String("type"); ok {
		return label + "\n" + typ
	}
	return label
}

func fmtAttrs(n graph.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=%q", position(n.Attrs)),
	}
	if typ, ok := n.Attrs.String("type"); ok {
		if shape, ok := shapes[typ]; ok {
			attrs = append(attrs, "shape="+shape)
		}
	}
	if c, ok := color(n.Attrs, "strokeColor"); ok {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	if c, ok := color(n.Attrs, "backgroundColor"); ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	return attrs
}

func fmtEdgeAttrs(e graph.Edge) []string {
	var attrs []string
	if e.Key != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Key))
	}
	if e.Weight > 1 {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(e.Weight)))
	}
	if c, ok := color(e.Attrs, "strokeColor"); ok {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	return attrs
}

// position returns a neato pin in points. The y axis is flipped because
// scenes grow downwards and Graphviz grows upwards.
func position(a graph.Attrs) string {
	x, _ := a.Float("x")
	y, _ := a.Float("y")
	w, _ := a.Float("width")
	h, _ := a.Float("height")
	return fmtFloat(x+w/2) + "," + fmtFloat(-(y+h/2)) + "!"
}

func fmtFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// color returns a usable Graphviz colour. Transparent fills are skipped so the
// node default applies.
func color(a graph.Attrs, key string) (string, bool) {
	c, ok := a.String(key)
	if !ok || c == "" || c == "transparent" {
		return "", false
	}
	return c, true
}

// RenderSVG lays out DOT source with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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

// normalizeViewBox rewrites the root tag so the SVG scales from a zero origin.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
