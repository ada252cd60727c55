package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/graph"
	sceneio "github.com/matzehuels/sketchgraph/pkg/io"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// sceneSummary is what inspect reports about a scene.
type sceneSummary struct {
	Elements int
	Shapes   int
	Arrows   int
	Deleted  int

	Nodes int
	Edges int

	Dropped      []graph.DroppedEdge
	DuplicateIDs []string // ids carried by more than one element, in first-seen order
	Isolated     []string // nodes with no incident edge
}

// summarize counts the scene's elements and builds the graph to find
// dangling arrows and isolated nodes.
func summarize(doc *scene.Document, opts graph.Options) (sceneSummary, *graph.Graph) {
	var s sceneSummary
	seen := make(map[string]int, len(doc.Elements))
	for _, e := range doc.Elements {
		s.Elements++
		if e.IsArrow() {
			s.Arrows++
		} else {
			s.Shapes++
		}
		if e.Deleted() {
			s.Deleted++
		}
		seen[e.ID]++
		if seen[e.ID] == 2 {
			s.DuplicateIDs = append(s.DuplicateIDs, e.ID)
		}
	}

	g, report := graph.BuildWithReport(doc, opts)
	s.Nodes = g.NodeCount()
	s.Edges = g.EdgeCount()
	s.Dropped = report.Dropped
	s.Isolated = g.Isolated()
	sort.Strings(s.Isolated)
	return s, g
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Summarize a scene and the graph derived from it",
		Long: `Summarize a scene: element counts, the graph it yields, arrows that were
dropped because a binding is missing or points at an unknown element, and
element ids that appear more than once.

With -i the graph's edges open in an interactive table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := sceneio.ImportScene(args[0])
			if err != nil {
				return err
			}
			summary, g := summarize(doc, c.config.GraphOptions())
			printSummary(args[0], summary)

			if !interactive {
				return nil
			}
			if g.EdgeCount() == 0 {
				printInfo("No edges to browse")
				return nil
			}
			_, err = tea.NewProgram(NewEdgeTableModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse edges in an interactive table")

	return cmd
}

func printSummary(source string, s sceneSummary) {
	fmt.Fprintln(uiOut, StyleTitle.Render(source))
	printKeyValue("Elements", fmt.Sprintf("%d (%d shapes, %d arrows)", s.Elements, s.Shapes, s.Arrows))
	printKeyValue("Deleted", fmt.Sprint(s.Deleted))
	printKeyValue("Graph", fmt.Sprintf("%d nodes, %d edges", s.Nodes, s.Edges))

	if len(s.Dropped) > 0 {
		printWarning("%d dangling arrow(s)", len(s.Dropped))
		for _, d := range s.Dropped {
			if d.Endpoint != "" {
				printDetail("%s: %s (%s)", d.ArrowID, d.Reason, d.Endpoint)
			} else {
				printDetail("%s: %s", d.ArrowID, d.Reason)
			}
		}
	}
	if len(s.DuplicateIDs) > 0 {
		printWarning("%d duplicate id(s)", len(s.DuplicateIDs))
		printDetail("%s", strings.Join(s.DuplicateIDs, ", "))
	}
	if len(s.Isolated) > 0 {
		printInfo("%d isolated node(s)", len(s.Isolated))
		printDetail("%s", strings.Join(s.Isolated, ", "))
	}
}
