package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

func newInMemoryStore(t *testing.T) *SessionStore {
	t.Helper()

	store, err := NewSessionStore(Config{}, WithInMemory())
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func sessionState(threadID string) *memory.AgentState {
	state := memory.New(threadID)
	state.Working.TaskInput = "plan the launch"
	state.Workflow.Phase = workflow.PhaseSelfJudge
	state.Working.Draft = &checklist.Package{Sections: []checklist.Section{
		{Name: "Prep", Items: []checklist.Item{{Identifier: "1.1", Title: "freeze"}}},
	}}
	state.AppendTurn(memory.RoleUser, "plan the launch")
	return state
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sessionState("t1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "t1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ThreadID != "t1" {
		t.Errorf("thread id = %s", loaded.ThreadID)
	}
	if loaded.Workflow.Phase != workflow.PhaseSelfJudge {
		t.Errorf("phase = %s", loaded.Workflow.Phase)
	}
	if loaded.Working.Draft == nil || loaded.Working.Draft.ItemCount() != 1 {
		t.Error("draft checklist lost in round trip")
	}
	if len(loaded.Turns) != 1 {
		t.Errorf("turns = %d, want 1", len(loaded.Turns))
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore(t)
	ctx := context.Background()

	state := sessionState("t2")
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	state.Workflow.Phase = workflow.PhaseEmittingChecklist
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load(ctx, "t2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Workflow.Phase != workflow.PhaseEmittingChecklist {
		t.Errorf("phase = %s, want the latest snapshot", loaded.Workflow.Phase)
	}
}

func TestLoadUnknownThread(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore(t)
	if _, err := store.Load(context.Background(), "nobody"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sessionState("t3")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "t3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "t3"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error after delete = %v, want ErrSessionNotFound", err)
	}

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("deleting a missing thread should not fail: %v", err)
	}
}

func TestSaveValidation(t *testing.T) {
	t.Parallel()

	store := newInMemoryStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, nil); err == nil {
		t.Error("nil state should fail")
	}
	if err := store.Save(ctx, memory.New("")); err == nil {
		t.Error("state without thread id should fail")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Save(cancelled, sessionState("t4")); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v", err)
	}
}

func TestKeyPrefixIsolation(t *testing.T) {
	t.Parallel()

	base, err := NewSessionStore(Config{}, WithInMemory(), WithKeyPrefix("a:"))
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	t.Cleanup(func() { base.Close() })

	other := NewSessionStoreFromDB(base.db, "b:")
	ctx := context.Background()

	if err := base.Save(ctx, sessionState("shared")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := other.Load(ctx, "shared"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("prefixes should isolate threads, got %v", err)
	}
}
