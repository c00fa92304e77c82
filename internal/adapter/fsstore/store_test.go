package fsstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentmesh/agentmesh/internal/adapter/fsstore"
)

func TestSaveImageWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := fsstore.New(dir)

	data := make([]byte, 3000)
	saved, err := s.SaveImage(context.Background(), data, "A Mountain Sunset!", "artistic")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	got, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("saved %d bytes, want %d", len(got), len(data))
	}

	if !strings.HasPrefix(saved.Name, "img_") || !strings.HasSuffix(saved.Name, ".png") {
		t.Fatalf("name = %q", saved.Name)
	}
	if !strings.Contains(saved.Name, "a_mountain_sunset") {
		t.Fatalf("name missing sanitized prompt: %q", saved.Name)
	}
	if !strings.Contains(saved.Name, "artistic") {
		t.Fatalf("name missing style: %q", saved.Name)
	}
	if saved.SizeKB != 2 {
		t.Fatalf("size = %d KB", saved.SizeKB)
	}
	if len(saved.ID) != 8 {
		t.Fatalf("id = %q", saved.ID)
	}
}

func TestSaveImageSmallFileRoundsUp(t *testing.T) {
	s := fsstore.New(t.TempDir())

	saved, err := s.SaveImage(context.Background(), []byte{0x89, 0x50}, "tiny", "minimalist")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if saved.SizeKB != 1 {
		t.Fatalf("size = %d KB, want 1 for non-empty data", saved.SizeKB)
	}
}

func TestSaveImageSanitizesHostileInput(t *testing.T) {
	s := fsstore.New(t.TempDir())

	saved, err := s.SaveImage(context.Background(), []byte("x"), "../../etc/passwd", "!!!")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if strings.Contains(saved.Name, "/") || strings.Contains(saved.Name, "..") {
		t.Fatalf("unsafe name %q", saved.Name)
	}
	// Style of only punctuation collapses to a placeholder.
	if !strings.Contains(saved.Name, "untitled") {
		t.Fatalf("expected placeholder in %q", saved.Name)
	}
}
