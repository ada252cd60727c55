package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// MarshalScene reconstructs doc as indented JSON with a trailing newline.
func MarshalScene(doc *scene.Document) ([]byte, error) {
	raw, err := scene.Reconstruct(doc)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteScene writes the reconstructed scene to w.
// The output can be re-read with [ReadScene].
func WriteScene(doc *scene.Document, w io.Writer) error {
	data, err := MarshalScene(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportScene writes the reconstructed scene to a file at path.
// This is a convenience wrapper around [WriteScene] for file-based output.
func ExportScene(doc *scene.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteScene(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
