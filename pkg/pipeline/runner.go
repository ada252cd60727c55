package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/graph"
	"github.com/matzehuels/sketchgraph/pkg/observability"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// Runner executes the pipeline with caching and instrumentation.
//
// A Runner holds no per-run state, so one Runner may serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse, build and render.
func (r *Runner) Execute(ctx context.Context, source string, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	parseStart := time.Now()
	doc, err := r.Parse(ctx, source, data)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.ElementCount = len(doc.Elements)
	result.Stats.ParseTime = time.Since(parseStart)

	r.Logger.Debug("parsed scene",
		"source", source,
		"elements", len(doc.Elements),
		"duration", result.Stats.ParseTime)

	buildStart := time.Now()
	g, report := r.Build(ctx, doc, opts.Graph)
	result.Graph = g
	result.Report = report
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)
	r.logReport(report)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	renderStart := time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, g, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)
	result.GraphHash, _ = graphHash(g)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes a scene. source only labels logs and hooks.
func (r *Runner) Parse(ctx context.Context, source string, data []byte) (*scene.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	doc, err := scene.Parse(data)
	count := 0
	if doc != nil {
		count = len(doc.Elements)
	}
	hooks.OnParseComplete(ctx, source, count, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return doc, nil
}

// Build projects a document into a graph.
func (r *Runner) Build(ctx context.Context, doc *scene.Document, opts graph.Options) (*graph.Graph, graph.Report) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(doc.Elements))
	start := time.Now()

	g, report := graph.BuildWithReport(doc, opts)

	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start))
	return g, report
}

// RenderWithCacheInfo renders the requested formats, serving graph-derived
// artifacts from the cache when possible.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, doc *scene.Document, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, info, err := r.render(ctx, g, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, info, err
}

// Render is RenderWithCacheInfo without the cache report.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, doc *scene.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, doc, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, g *graph.Graph, doc *scene.Document, opts Options) (map[string][]byte, CacheInfo, error) {
	hash, err := graphHash(g)
	if err != nil {
		return nil, CacheInfo{}, fmt.Errorf("hash graph: %w", err)
	}
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var info CacheInfo
	var missing []string
	cacheable := 0

	for _, format := range opts.Formats {
		if !Cacheable(format) {
			missing = append(missing, format)
			continue
		}
		cacheable++
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err == nil && hit {
			cacheHooks.OnCacheHit(ctx, format)
			artifacts[format] = data
			info.Hits = append(info.Hits, format)
			continue
		}
		cacheHooks.OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}
	info.RenderHit = cacheable > 0 && len(info.Hits) == cacheable

	if len(missing) == 0 {
		return artifacts, info, nil
	}

	rendered, err := Render(ctx, g, doc, missing, opts.Detailed)
	if err != nil {
		return nil, info, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if !Cacheable(format) {
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}
	return artifacts, info, nil
}

func (r *Runner) logReport(report graph.Report) {
	for _, d := range report.Dropped {
		r.Logger.Debug("dropped arrow", "id", d.ArrowID, "reason", d.Reason, "endpoint", d.Endpoint)
	}
	for _, id := range report.DuplicateNodes {
		r.Logger.Debug("duplicate element id", "id", id)
	}
	if report.SkippedDeleted > 0 {
		r.Logger.Debug("skipped deleted elements", "count", report.SkippedDeleted)
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func graphHash(g *graph.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
