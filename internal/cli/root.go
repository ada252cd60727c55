package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/buildinfo"
	"github.com/matzehuels/sketchgraph/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run loads the config file and routes pipeline and cache
// events to the CLI logger at debug level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "sketchgraph turns whiteboard scenes into graphs",
		Long: `sketchgraph reads Excalidraw-style scene files and derives a graph from them:
shapes become nodes, and arrows bound to two shapes become edges.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := &logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sketchgraph/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.roundtripCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
