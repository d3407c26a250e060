// Package modelsource reads 3D model bytes for upload. A Reader resolves a
// reference (a file path, an object key) to the model's file name and content.
package modelsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Reader loads model data for upload.
type Reader interface {
	ReadModel(ctx context.Context, ref string) (Model, error)
}

// Model is a file ready to be encoded into an upload request.
type Model struct {
	FileName string
	Data     []byte
}

// FileReader reads models from the local filesystem. ref is a path.
type FileReader struct{}

var _ Reader = FileReader{}

func (FileReader) ReadModel(ctx context.Context, ref string) (Model, error) {
	if err := ctx.Err(); err != nil {
		return Model{}, err
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return Model{}, fmt.Errorf("read model %s: %w", ref, err)
	}
	return Model{FileName: filepath.Base(ref), Data: data}, nil
}
