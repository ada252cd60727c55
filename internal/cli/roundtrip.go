package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/sketchgraph/pkg/io"
)

// roundtripCommand creates the roundtrip command.
func (c *CLI) roundtripCommand() *cobra.Command {
	var (
		output string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "roundtrip [scene]",
		Short: "Reconstruct a scene from its parsed form",
		Long: `Parse a scene and write it back out.

Without flags the reconstructed scene is printed to stdout. With --check the
reconstruction is compared against the input after dropping null element
fields, and the first difference is reported; nothing is printed unless -o
is also given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoundtrip(cmd.OutOrStdout(), args[0], output, check)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "verify the reconstruction matches the input")

	return cmd
}

func (c *CLI) runRoundtrip(stdout io.Writer, input, output string, check bool) error {
	raw, err := sceneio.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := sceneio.ReadScene(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	if check {
		if _, err := sceneio.VerifyRoundTrip(raw); err != nil {
			printError("%s does not round-trip", input)
			return err
		}
		printSuccess("%s round-trips (%d elements)", input, len(doc.Elements))
		if output == "" {
			return nil
		}
	}

	if output == "" || output == stdoutPath {
		return sceneio.WriteScene(doc, stdout)
	}
	if err := sceneio.ExportScene(doc, output); err != nil {
		return err
	}
	c.Logger.Debug("wrote scene", "path", output)
	printFile(output)
	return nil
}
