package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/graph"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
		check    func(t *testing.T, c *Config)
	}{
		{
			name:  "empty",
			input: "",
			check: func(t *testing.T, c *Config) {
				if !reflect.DeepEqual(c.GraphOptions(), graph.DefaultOptions()) {
					t.Errorf("GraphOptions() = %+v, want defaults", c.GraphOptions())
				}
			},
		},
		{
			name: "full",
			input: `
[graph]
directed = false
allow_parallel_edges = false
include_deleted = true
node_fields = ["id", "text"]
edge_fields = []

[output]
formats = ["json", "svg"]
detailed = true

[cache]
redis_url = "redis://localhost:6379/1"
namespace = "docs"
ttl = "90m"
`,
			check: func(t *testing.T, c *Config) {
				opts := c.GraphOptions()
				if !opts.Undirected || !opts.CoalesceParallelEdges || !opts.IncludeDeleted {
					t.Errorf("flags = %+v", opts)
				}
				if !reflect.DeepEqual(opts.NodeAttributeFields, []string{"id", "text"}) {
					t.Errorf("NodeAttributeFields = %v", opts.NodeAttributeFields)
				}
				if opts.EdgeAttributeFields == nil || len(opts.EdgeAttributeFields) != 0 {
					t.Errorf("EdgeAttributeFields = %#v, want empty non-nil", opts.EdgeAttributeFields)
				}
				if ttl, _ := c.CacheTTL(); ttl != 90*time.Minute {
					t.Errorf("CacheTTL() = %v, want 90m", ttl)
				}
				if !c.Output.Detailed || len(c.Output.Formats) != 2 {
					t.Errorf("Output = %+v", c.Output)
				}
			},
		},
		{
			name:  "unset flags keep defaults",
			input: "[graph]\ninclude_deleted = true\n",
			check: func(t *testing.T, c *Config) {
				opts := c.GraphOptions()
				if opts.Undirected || opts.CoalesceParallelEdges {
					t.Errorf("unset flags changed defaults: %+v", opts)
				}
			},
		},
		{name: "unknown key", input: "[graph]\ndirectd = true\n", wantCode: errors.ErrCodeInvalidOption},
		{name: "bad field name", input: "[graph]\nnode_fields = [\"\"]\n", wantCode: errors.ErrCodeInvalidOption},
		{name: "bad ttl", input: "[cache]\nttl = \"soon\"\n", wantCode: errors.ErrCodeInvalidOption},
		{name: "negative ttl", input: "[cache]\nttl = \"-1h\"\n", wantCode: errors.ErrCodeInvalidOption},
		{name: "two backends", input: "[cache]\ndir = \"/tmp/x\"\nredis_url = \"redis://x\"\n", wantCode: errors.ErrCodeInvalidOption},
		{name: "not toml", input: "[graph\n", wantCode: errors.ErrCodeMalformedInput},
		{name: "wrong type", input: "[graph]\ndirected = \"yes\"\n", wantCode: errors.ErrCodeMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Parse() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestCacheTTLDefault(t *testing.T) {
	ttl, err := Default().CacheTTL()
	if err != nil || ttl != cache.DefaultTTL {
		t.Errorf("CacheTTL() = %v, %v; want %v", ttl, err, cache.DefaultTTL)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	t.Run("missing default is fine", func(t *testing.T) {
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(c, Default()) {
			t.Errorf("Load() = %+v, want defaults", c)
		}
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("default location", func(t *testing.T) {
		path := filepath.Join(dir, cache.AppName, FileName)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("[cache]\ndisabled = true\n"), 0644); err != nil {
			t.Fatal(err)
		}
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !c.Cache.Disabled {
			t.Error("Cache.Disabled not loaded from default path")
		}
	})
}
