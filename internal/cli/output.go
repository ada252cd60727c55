package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/pipeline"
)

// stdoutPath is the -o value that selects standard output.
const stdoutPath = "-"

// basePath derives the stem that format extensions are appended to: the -o
// value when given, otherwise the input path without its extension.
func basePath(input, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// artifactPaths maps each format to its destination. A single format with
// an explicit -o writes exactly there; otherwise -o is a base path.
func artifactPaths(input, output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		if err := errors.ValidateOutputPath(output); err != nil {
			return nil, err
		}
		paths[formats[0]] = output
		return paths, nil
	}
	base := basePath(input, output)
	for _, f := range formats {
		p := base + pipeline.Extensions[f]
		if err := errors.ValidateOutputPath(p); err != nil {
			return nil, err
		}
		paths[f] = p
	}
	return paths, nil
}

// writeArtifacts writes each requested artifact and returns the paths
// written, in format order. With -o - the single artifact goes to stdout.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == stdoutPath {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidOption, "-o - needs exactly one format, got %d", len(formats))
		}
		if _, err := stdout.Write(artifacts[formats[0]]); err != nil {
			return nil, fmt.Errorf("write stdout: %w", err)
		}
		return nil, nil
	}

	paths, err := artifactPaths(input, output, formats)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, f := range formats {
		p := paths[f]
		if err := writeFile(p, artifacts[f]); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
