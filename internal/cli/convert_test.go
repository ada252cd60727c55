package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sketchgraph/pkg/errors"
)

const flowScene = `{
	"type": "excalidraw",
	"version": 2,
	"elements": [
		{"id": "api", "type": "rectangle", "x": 0, "y": 0, "width": 120, "height": 60, "text": "API"},
		{"id": "db", "type": "ellipse", "x": 300, "y": 0, "width": 80, "height": 80},
		{"id": "read", "type": "arrow", "x": 120, "y": 30, "width": 180, "height": 0,
		 "startBinding": {"elementId": "api"}, "endBinding": {"elementId": "db"}},
		{"id": "write", "type": "arrow", "x": 120, "y": 40, "width": 180, "height": 0,
		 "startBinding": {"elementId": "api"}, "endBinding": {"elementId": "db"}}
	],
	"appState": {"viewBackgroundColor": "#ffffff"}
}`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.excalidraw")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

type nodeLinkDoc struct {
	Directed   bool             `json:"directed"`
	Multigraph bool             `json:"multigraph"`
	Nodes      []map[string]any `json:"nodes"`
	Edges      []map[string]any `json:"edges"`
}

func TestConvertToStdout(t *testing.T) {
	input := writeScene(t, flowScene)
	cfg := writeConfig(t, "[graph]\nallow_parallel_edges = false\n")

	tests := []struct {
		name           string
		args           []string
		wantDirected   bool
		wantMultigraph bool
		wantEdges      int
	}{
		{"defaults", nil, true, true, 2},
		{"undirected", []string{"--undirected"}, false, true, 2},
		{"no parallel", []string{"--no-parallel"}, true, false, 1},
		{"config", []string{"--config", cfg}, true, false, 1},
		{"flag beats config", []string{"--config", cfg, "--no-parallel=false"}, true, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"convert", input, "-f", "json", "-o", "-", "--no-cache"}, tt.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			var nl nodeLinkDoc
			if err := json.Unmarshal([]byte(out), &nl); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out)
			}
			if nl.Directed != tt.wantDirected {
				t.Errorf("directed = %v, want %v", nl.Directed, tt.wantDirected)
			}
			if nl.Multigraph != tt.wantMultigraph {
				t.Errorf("multigraph = %v, want %v", nl.Multigraph, tt.wantMultigraph)
			}
			if len(nl.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(nl.Edges), tt.wantEdges)
			}
			if len(nl.Nodes) != 2 {
				t.Errorf("nodes = %d, want 2", len(nl.Nodes))
			}
		})
	}
}

func TestConvertNodeFields(t *testing.T) {
	input := writeScene(t, flowScene)

	out, err := runCLI(t, "convert", input, "-f", "json", "-o", "-", "--no-cache", "--node-fields", "text")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var nl nodeLinkDoc
	if err := json.Unmarshal([]byte(out), &nl); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if nl.Nodes[0]["text"] != "API" {
		t.Errorf("node text = %v, want API", nl.Nodes[0]["text"])
	}
	if _, ok := nl.Nodes[0]["x"]; ok {
		t.Error("node has x although only text was requested")
	}
}

func TestConvertWritesFiles(t *testing.T) {
	input := writeScene(t, flowScene)
	dir := filepath.Dir(input)

	if _, err := runCLI(t, "convert", input, "-f", "json,dot,scene"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	for _, name := range []string{"flow.graph.json", "flow.dot", "flow.roundtrip.excalidraw"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	dot, _ := os.ReadFile(filepath.Join(dir, "flow.dot"))
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("flow.dot = %q", dot)
	}

	// Rendering is deterministic across runs.
	if _, err := runCLI(t, "convert", input, "-f", "dot"); err != nil {
		t.Fatalf("second convert: %v", err)
	}
	again, _ := os.ReadFile(filepath.Join(dir, "flow.dot"))
	if string(again) != string(dot) {
		t.Error("second run produced different DOT")
	}
}

func TestConvertDanglingArrowsAreQuiet(t *testing.T) {
	input := writeScene(t, `[
		{"id": "a", "type": "rectangle", "x": 0, "y": 0, "width": 10, "height": 10},
		{"id": "a", "type": "rectangle", "x": 5, "y": 5, "width": 10, "height": 10},
		{"id": "loose", "type": "arrow", "x": 0, "y": 0, "width": 1, "height": 1,
		 "startBinding": {"elementId": "a"}, "endBinding": {"elementId": "ghost"}}
	]`)

	_, status, err := runCLIWithStatus(t, "convert", input, "-f", "json")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, unwanted := range []string{"dropped", "duplicate", "loose"} {
		if strings.Contains(status, unwanted) {
			t.Errorf("status output mentions %q at info level:\n%s", unwanted, status)
		}
	}
	if !strings.Contains(status, "Converted") {
		t.Errorf("status output missing success line:\n%s", status)
	}
}

func TestConvertErrors(t *testing.T) {
	input := writeScene(t, flowScene)

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"missing file", []string{"convert", filepath.Join(t.TempDir(), "nope.excalidraw")}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"convert", input, "-f", "png"}, errors.ErrCodeInvalidFormat},
		{"bad field", []string{"convert", input, "--node-fields", " x"}, errors.ErrCodeInvalidOption},
		{"malformed", []string{"convert", writeScene(t, `{"elements": [{"id": "a"}]}`)}, errors.ErrCodeMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append(tt.args, "--no-cache")...)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestConvertWatchRejectsStdout(t *testing.T) {
	input := writeScene(t, flowScene)
	_, err := runCLI(t, "convert", input, "-f", "json", "-o", "-", "--watch")
	if err == nil || !strings.Contains(err.Error(), "stdout") {
		t.Errorf("error = %v, want stdout rejection", err)
	}
}
