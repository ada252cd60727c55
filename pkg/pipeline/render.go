package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/sketchgraph/pkg/graph"
	sceneio "github.com/matzehuels/sketchgraph/pkg/io"
	"github.com/matzehuels/sketchgraph/pkg/render/nodelink"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// Render produces the requested artifacts without consulting a cache. doc
// is only read for the scene format and may be nil otherwise.
func Render(ctx context.Context, g *graph.Graph, doc *scene.Document, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		case FormatScene:
			if doc == nil {
				return nil, fmt.Errorf("render %s: no document", format)
			}
			data, err = sceneio.MarshalScene(doc)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
