package a2a_test

import (
	"errors"
	"testing"

	"github.com/agentmesh/agentmesh/internal/domain"
	a2adomain "github.com/agentmesh/agentmesh/internal/domain/a2a"
	a2aport "github.com/agentmesh/agentmesh/internal/port/a2a"
)

func TestStoreCreateRejectsDuplicates(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Create("t-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := store.Create("t-1"); !errors.Is(err, domain.ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}

	// Duplicate rejection also holds once the first task is terminal.
	if _, _, err := store.Fail("t-1", "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if _, err := store.Create("t-1"); !errors.Is(err, domain.ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists after terminal, got %v", err)
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Get("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreCompleteAttachesArtifacts(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Create("t-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	artifact := a2adomain.NewArtifact([]a2adomain.Part{a2adomain.TextPart("done")})
	task, applied, err := store.Complete("t-1", []a2adomain.Artifact{artifact}, "Task completed successfully")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !applied {
		t.Fatal("expected complete to report the transition")
	}
	if task.Status.State != a2adomain.StateCompleted {
		t.Fatalf("state = %s", task.Status.State)
	}
	if len(task.Artifacts) != 1 || task.Artifacts[0].Parts[0].Text != "done" {
		t.Fatalf("artifacts not attached: %+v", task.Artifacts)
	}
	if task.Status.Message == nil || task.Status.Message.Text() != "Task completed successfully" {
		t.Fatalf("unexpected status message: %+v", task.Status.Message)
	}
}

func TestStoreTerminalTasksAreImmutable(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Create("t-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	done, _, err := store.Complete("t-1", nil, "done")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	failed, applied, err := store.Fail("t-1", "late failure")
	if err != nil {
		t.Fatalf("fail on terminal: %v", err)
	}
	if applied {
		t.Fatal("fail on a terminal task must not report a transition")
	}
	if failed.Status.State != a2adomain.StateCompleted {
		t.Fatalf("terminal task mutated to %s", failed.Status.State)
	}
	if !failed.Status.Timestamp.Equal(done.Status.Timestamp) {
		t.Fatal("terminal task timestamp changed")
	}
}

func TestStoreCancelSemantics(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Create("t-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	task, canceled, err := store.Cancel("t-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !canceled {
		t.Fatal("expected cancel to report the transition")
	}
	if task.Status.State != a2adomain.StateCanceled {
		t.Fatalf("state = %s", task.Status.State)
	}

	// Cancel on an already-terminal task returns it as-is.
	again, canceled, err := store.Cancel("t-1")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if canceled {
		t.Fatal("repeated cancel must not report a transition")
	}
	if again.Status.State != a2adomain.StateCanceled {
		t.Fatalf("state = %s", again.Status.State)
	}
	if !again.Status.Timestamp.Equal(task.Status.Timestamp) {
		t.Fatal("cancel on terminal task must not touch the timestamp")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := a2aport.NewTaskStore()
	if _, err := store.Create("t-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	task, err := store.Get("t-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	task.Status.State = a2adomain.StateFailed

	stored, err := store.Get("t-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status.State != a2adomain.StateWorking {
		t.Fatal("mutating a returned task leaked into the store")
	}
}
