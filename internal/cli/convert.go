package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/sketchgraph/pkg/io"
	"github.com/matzehuels/sketchgraph/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output         string   // output file (single format) or base path; "-" for stdout
	formats        string   // comma-separated formats
	undirected     bool     // build an undirected graph
	noParallel     bool     // coalesce parallel arrows into weighted edges
	includeDeleted bool     // keep soft-deleted elements
	nodeFields     []string // node attribute whitelist
	edgeFields     []string // edge attribute whitelist
	detailed       bool     // add element types to DOT/SVG labels
	noCache        bool     // bypass the artifact cache
	refresh        bool     // re-render and overwrite cached artifacts
	watch          bool     // rebuild when the scene file changes
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [scene]",
		Short: "Build a graph from a scene and write it as JSON, DOT, SVG, or a scene",
		Long: `Build a graph from a scene file.

Every shape becomes a node and every arrow bound to two shapes becomes an
edge. Arrows with a missing or dangling binding are dropped and reported.

Output files are named after the input unless -o is given:
  flow.excalidraw -> flow.graph.json, flow.dot, flow.svg, flow.roundtrip.excalidraw`,
		Example: `  sketchgraph convert flow.excalidraw
  sketchgraph convert flow.excalidraw -f json,svg --detailed
  sketchgraph convert flow.excalidraw -f dot -o - | dot -Tpng > flow.png
  sketchgraph convert flow.excalidraw --no-parallel --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], popts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg, scene (comma-separated)")
	cmd.Flags().BoolVar(&opts.undirected, "undirected", false, "build an undirected graph")
	cmd.Flags().BoolVar(&opts.noParallel, "no-parallel", false, "merge parallel arrows into one weighted edge")
	cmd.Flags().BoolVar(&opts.includeDeleted, "include-deleted", false, "keep elements marked as deleted")
	cmd.Flags().StringSliceVar(&opts.nodeFields, "node-fields", nil, "element fields copied onto nodes")
	cmd.Flags().StringSliceVar(&opts.edgeFields, "edge-fields", nil, "arrow fields copied onto edges")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show element types in DOT and SVG labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild whenever the scene file changes")

	return cmd
}

// pipelineOptions merges the config file with explicitly set flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts *convertOpts) (pipeline.Options, error) {
	cfg := c.config
	gopts := cfg.GraphOptions()
	flags := cmd.Flags()

	if flags.Changed("undirected") {
		gopts.Undirected = opts.undirected
	}
	if flags.Changed("no-parallel") {
		gopts.CoalesceParallelEdges = opts.noParallel
	}
	if flags.Changed("include-deleted") {
		gopts.IncludeDeleted = opts.includeDeleted
	}
	if flags.Changed("node-fields") {
		gopts.NodeAttributeFields = slices.Clone(opts.nodeFields)
	}
	if flags.Changed("edge-fields") {
		gopts.EdgeAttributeFields = slices.Clone(opts.edgeFields)
	}

	formats := slices.Clone(cfg.Output.Formats)
	if flags.Changed("format") || len(formats) == 0 {
		formats = pipeline.ParseFormats(opts.formats)
	}
	detailed := cfg.Output.Detailed
	if flags.Changed("detailed") {
		detailed = opts.detailed
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return pipeline.Options{}, err
	}

	popts := pipeline.Options{
		Graph:    gopts,
		Formats:  formats,
		Detailed: detailed,
		Refresh:  opts.refresh,
		TTL:      ttl,
		Logger:   c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return popts, nil
}

// runConvert converts once, or keeps converting on every change with --watch.
func (c *CLI) runConvert(ctx context.Context, stdout io.Writer, input string, popts pipeline.Options, opts *convertOpts) error {
	if opts.watch && opts.output == stdoutPath {
		return fmt.Errorf("--watch cannot write to stdout")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	convert := func(ctx context.Context) error {
		return c.convertOnce(ctx, runner, stdout, input, popts, opts.output)
	}
	if err := convert(ctx); err != nil {
		if !opts.watch {
			return err
		}
		printError("%v", err)
	}
	if !opts.watch {
		return nil
	}
	return watchFile(ctx, input, watchDebounce, convert)
}

// convertOnce runs the pipeline over the scene file and writes the artifacts.
func (c *CLI) convertOnce(ctx context.Context, runner *pipeline.Runner, stdout io.Writer, input string, popts pipeline.Options, output string) error {
	prog := newProgress(c.Logger)

	data, err := sceneio.ReadFile(input)
	if err != nil {
		return err
	}

	var spinner *Spinner
	if slices.Contains(popts.Formats, pipeline.FormatSVG) {
		spinner = newSpinner(ctx, "Rendering SVG...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, input, data, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(stdout, result.Artifacts, popts.Formats, input, output)
	if err != nil {
		return err
	}

	if output == stdoutPath {
		prog.done(fmt.Sprintf("Converted %s", input))
		return nil
	}
	printSuccess("Converted %s", input)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	c.Logger.Debug("convert finished", "result", result.String(), "hash", result.GraphHash)
	return nil
}
