package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/scene"
)

// ReadScene reads all of r and parses it as a scene.
//
// ReadScene returns a MALFORMED_INPUT error if the content is not a scene.
// It does not close r.
func ReadScene(r io.Reader) (*scene.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return scene.Parse(data)
}

// ImportScene reads the scene file at path.
//
// A missing file yields a FILE_NOT_FOUND error; a file that is not a scene
// yields MALFORMED_INPUT. Errors carry the path for context.
func ImportScene(path string) (*scene.Document, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := scene.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadFile reads the raw bytes of a scene file, mapping a missing file to
// FILE_NOT_FOUND.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
