package a2a

import (
	"sync"
	"time"

	"github.com/agentmesh/agentmesh/internal/domain"
	a2adomain "github.com/agentmesh/agentmesh/internal/domain/a2a"
)

// TaskStore is the in-memory task map owned by a single protocol server.
// It is the single writer for every task it holds; tasks are never
// shared across processes and never persisted. All accessors return
// copies so callers cannot mutate stored state, and every transition
// method enforces the terminal invariant: once a task reaches a terminal
// state it is never mutated again.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2adomain.Task
}

// NewTaskStore creates an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*a2adomain.Task)}
}

// Create stores a new task in the working state. Duplicate ids are
// rejected with domain.ErrTaskExists regardless of the stored task's
// state; callers must supply fresh ids.
func (s *TaskStore) Create(id string) (a2adomain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		return a2adomain.Task{}, domain.ErrTaskExists
	}
	t := a2adomain.NewTask(id)
	s.tasks[id] = t
	return copyTask(t), nil
}

// Get returns a copy of the stored task.
func (s *TaskStore) Get(id string) (a2adomain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return a2adomain.Task{}, domain.ErrNotFound
	}
	return copyTask(t), nil
}

// Complete transitions a working task to completed with its artifacts.
// The bool reports whether the transition applied; it is false when the
// task already reached a terminal state (e.g. canceled mid-execution).
func (s *TaskStore) Complete(id string, artifacts []a2adomain.Artifact, note string) (a2adomain.Task, bool, error) {
	return s.transition(id, func(t *a2adomain.Task) {
		t.Status.State = a2adomain.StateCompleted
		t.Status.Message = a2adomain.AgentNote(note)
		t.Status.Timestamp = time.Now().UTC()
		t.Artifacts = artifacts
	})
}

// Fail transitions a working task to failed with a message part.
func (s *TaskStore) Fail(id string, note string) (a2adomain.Task, bool, error) {
	return s.transition(id, func(t *a2adomain.Task) {
		t.Status.State = a2adomain.StateFailed
		t.Status.Message = a2adomain.AgentNote(note)
		t.Status.Timestamp = time.Now().UTC()
	})
}

// Cancel transitions a non-terminal task to canceled and reports
// whether the transition happened. On a terminal task it is a no-op
// returning the stored task unchanged, timestamp included.
func (s *TaskStore) Cancel(id string) (a2adomain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return a2adomain.Task{}, false, domain.ErrNotFound
	}
	if t.Status.State.Terminal() {
		return copyTask(t), false, nil
	}
	t.Status.State = a2adomain.StateCanceled
	t.Status.Timestamp = time.Now().UTC()
	return copyTask(t), true, nil
}

func (s *TaskStore) transition(id string, apply func(*a2adomain.Task)) (a2adomain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return a2adomain.Task{}, false, domain.ErrNotFound
	}
	if t.Status.State.Terminal() {
		return copyTask(t), false, nil
	}
	apply(t)
	return copyTask(t), true, nil
}

func copyTask(t *a2adomain.Task) a2adomain.Task {
	out := *t
	if t.Status.Message != nil {
		msg := *t.Status.Message
		msg.Parts = append([]a2adomain.Part(nil), t.Status.Message.Parts...)
		out.Status.Message = &msg
	}
	if t.Artifacts != nil {
		out.Artifacts = append([]a2adomain.Artifact(nil), t.Artifacts...)
	}
	return out
}
