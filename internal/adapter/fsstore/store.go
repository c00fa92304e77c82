// Package fsstore persists generated artifacts to the local filesystem.
package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/port/artifactstore"
)

// promptSnippetLen bounds how much of the prompt lands in the filename.
const promptSnippetLen = 30

// Store writes images under a base directory, creating it on demand.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a filesystem store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// SaveImage writes the image bytes to a uniquely named PNG file and
// returns its metadata. Filenames embed a timestamp, a short id and a
// sanitized prompt snippet so a directory listing stays readable.
func (s *Store) SaveImage(_ context.Context, data []byte, prompt, style string) (*artifactstore.SavedImage, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}

	id := uuid.NewString()[:8]
	name := fmt.Sprintf("img_%s_%s_%s_%s.png",
		s.now().UTC().Format("20060102_150405"), id, sanitize(prompt), sanitize(style))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write image file: %w", err)
	}

	sizeKB := int64(len(data)) / 1024
	if sizeKB == 0 && len(data) > 0 {
		sizeKB = 1
	}

	return &artifactstore.SavedImage{
		ID:     id,
		Path:   path,
		Name:   name,
		SizeKB: sizeKB,
	}, nil
}

// sanitize reduces free text to a filesystem-safe lowercase snippet.
func sanitize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
		if b.Len() >= promptSnippetLen {
			break
		}
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
