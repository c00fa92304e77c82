package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/agentmesh/agentmesh/internal/logger"
)

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewAsyncHandler(slog.NewJSONHandler(&buf, nil), 16, 1)

	log := slog.New(h)
	log.Info("first")
	log.Info("second")
	h.Close()

	if got := bytes.Count(buf.Bytes(), []byte("\n")); got != 2 {
		t.Fatalf("records written = %d, want 2", got)
	}
}

// gatedHandler blocks every Handle call until released, then records
// message texts.
type gatedHandler struct {
	release chan struct{}
	mu      sync.Mutex
	msgs    []string
}

func (g *gatedHandler) Enabled(context.Context, slog.Level) bool { return true }

func (g *gatedHandler) Handle(_ context.Context, rec slog.Record) error {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.msgs = append(g.msgs, rec.Message)
	return nil
}

func (g *gatedHandler) WithAttrs([]slog.Attr) slog.Handler { return g }
func (g *gatedHandler) WithGroup(string) slog.Handler      { return g }

func (g *gatedHandler) has(msg string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

func TestAsyncHandlerDropsWhenFullAndReportsOnClose(t *testing.T) {
	gated := &gatedHandler{release: make(chan struct{})}
	h := logger.NewAsyncHandler(gated, 1, 1)

	// One record can sit in the blocked worker and one in the buffer;
	// the rest must be dropped, never block.
	log := slog.New(h)
	for i := 0; i < 4; i++ {
		log.Info("burst")
	}
	if h.DroppedCount() == 0 {
		t.Fatal("expected drops with a full buffer")
	}

	close(gated.release)
	h.Close()

	if !gated.has("log records dropped by async buffer") {
		t.Fatalf("missing drop report, got %v", gated.msgs)
	}
}
