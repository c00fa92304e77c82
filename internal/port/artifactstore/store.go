// Package artifactstore defines the port for persisting generated
// binary artifacts.
package artifactstore

import "context"

// Store persists generated binaries. The image capability saves each
// rendered image through it and reports the resulting file metadata.
type Store interface {
	SaveImage(ctx context.Context, data []byte, prompt, style string) (*SavedImage, error)
}

// SavedImage describes a persisted image file.
type SavedImage struct {
	ID     string
	Path   string
	Name   string
	SizeKB int64
}
