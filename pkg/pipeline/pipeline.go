// Package pipeline runs the scene conversion pipeline shared by every
// sketchgraph command.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Parse: decode scene bytes into a [scene.Document]
//  2. Build: project the document into a [graph.Graph]
//  3. Render: produce artifacts (node-link JSON, DOT, SVG, reconstructed scene)
//
// Each stage can be run on its own or through [Runner.Execute]. Graph-derived
// artifacts are cached by the content hash of the graph, so edits to a scene
// that do not change its projection (moving a label the whitelist ignores,
// for example) reuse earlier renders.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Graph:   graph.DefaultOptions(),
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, "flow.excalidraw", data, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/graph"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatScene = "scene"
)

// FormatOrder lists the formats in the order they are rendered and reported.
var FormatOrder = []string{FormatJSON, FormatDOT, FormatSVG, FormatScene}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatScene: true,
}

// Extensions maps each format to the file extension used when writing it.
var Extensions = map[string]string{
	FormatJSON:  ".graph.json",
	FormatDOT:   ".dot",
	FormatSVG:   ".svg",
	FormatScene: ".roundtrip.excalidraw",
}

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatJSON}

// Options configures a pipeline run.
type Options struct {
	// Graph controls how the document is projected.
	Graph graph.Options

	// Formats lists the artifacts to render.
	Formats []string

	// Detailed adds element types to DOT and SVG labels.
	Detailed bool

	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool

	// TTL is the cache lifetime of rendered artifacts. Zero means
	// cache.DefaultTTL.
	TTL time.Duration

	Logger *log.Logger

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document *scene.Document
	Graph    *graph.Graph
	Report   graph.Report

	// GraphHash is the SHA-256 of the graph's node-link JSON.
	GraphHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	NodeCount    int
	EdgeCount    int
	ParseTime    time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which artifacts came from the cache.
type CacheInfo struct {
	// RenderHit is true when every cacheable artifact was a hit.
	RenderHit bool
	// Hits lists the formats served from the cache.
	Hits []string
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatOrder, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks and dropping
// duplicates. An empty string yields [DefaultFormats].
func ParseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultFormats...)
	}
	return out
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Graph.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "ttl must not be negative")
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options for one format. Only the
// diagram formats depend on Detailed.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatDOT || format == FormatSVG {
		opts.Detailed = o.Detailed
	}
	return opts
}

// Cacheable reports whether a format is derived from the graph alone. The
// reconstructed scene depends on the whole document and is never cached.
func Cacheable(format string) bool {
	return format != FormatScene
}

func (r *Result) String() string {
	return fmt.Sprintf("%d elements, %d nodes, %d edges", r.Stats.ElementCount, r.Stats.NodeCount, r.Stats.EdgeCount)
}
