package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/sketchgraph/pkg/graph"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

const testScene = `[
	{"id": "a", "type": "rectangle", "x": 0, "y": 0, "width": 100, "height": 40,
	 "text": "Start", "strokeColor": "#1e1e1e", "backgroundColor": "transparent"},
	{"id": "b", "type": "diamond", "x": 200, "y": 100, "width": 60, "height": 60,
	 "backgroundColor": "#ffec99"},
	{"id": "e1", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1,
	 "startBinding": {"elementId": "a"}, "endBinding": {"elementId": "b"}},
	{"id": "e2", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1,
	 "startBinding": {"elementId": "a"}, "endBinding": {"elementId": "b"}}
]`

func buildGraph(t *testing.T, opts graph.Options) *graph.Graph {
	t.Helper()
	doc, err := scene.Parse([]byte(testScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return graph.Build(doc, opts)
}

func TestToDOT_Multigraph(t *testing.T) {
	dot := ToDOT(buildGraph(t, graph.DefaultOptions()), Options{})

	for _, want := range []string{
		"digraph G {",
		`"a" [label="Start", pos="50,-20!", shape=box, color="#1e1e1e"];`,
		`"b" [label="b", pos="230,-130!", shape=diamond, fillcolor="#ffec99"];`,
		`"a" -> "b" [tooltip="e1"];`,
		`"a" -> "b" [tooltip="e2"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}

func TestToDOT_SimpleUndirected(t *testing.T) {
	dot := ToDOT(buildGraph(t, graph.Options{Undirected: true, CoalesceParallelEdges: true}), Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("ToDOT() should declare an undirected graph:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -- "b" [label="2"];`) {
		t.Errorf("ToDOT() missing weighted edge:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("undirected DOT contains a directed edge")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(buildGraph(t, graph.DefaultOptions()), Options{Detailed: true})
	if !strings.Contains(dot, `label="Start\nrectangle"`) {
		t.Errorf("ToDOT() detailed label missing type:\n%s", dot)
	}
}

func TestToDOT_NoPosition(t *testing.T) {
	opts := graph.DefaultOptions()
	opts.NodeAttributeFields = []string{"id"}
	dot := ToDOT(buildGraph(t, opts), Options{})
	if !strings.Contains(dot, `"a" [label="a", pos="0,0!"];`) {
		t.Errorf("ToDOT() should pin unpositioned nodes at the origin:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     graph.Node
		detailed bool
		want     string
	}{
		{"id fallback", graph.Node{ID: "n1", Attrs: graph.Attrs{}}, false, "n1"},
		{"text", graph.Node{ID: "n1", Attrs: graph.Attrs{"text": "Hello"}}, false, "Hello"},
		{"empty text", graph.Node{ID: "n1", Attrs: graph.Attrs{"text": ""}}, false, "n1"},
		{"detailed", graph.Node{ID: "n1", Attrs: graph.Attrs{"type": "ellipse"}}, true, "n1\nellipse"},
		{"detailed no type", graph.Node{ID: "n1", Attrs: graph.Attrs{}}, true, "n1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name  string
		attrs graph.Attrs
		want  string
	}{
		{"empty", graph.Attrs{}, "0,0!"},
		{"centre", graph.Attrs{"x": 10.0, "y": 20.0, "width": 100.0, "height": 50.0}, "60,-45!"},
		{"fractional", graph.Attrs{"x": 0.5, "y": 0.0, "width": 0.0, "height": 3.0}, "0.5,-1.5!"},
		{"negative", graph.Attrs{"x": -40.0, "y": -10.0, "width": 20.0, "height": 0.0}, "-30,10!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := position(tt.attrs); got != tt.want {
				t.Errorf("position() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeViewBox([]byte(tt.svg)); string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(buildGraph(t, graph.DefaultOptions()), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
