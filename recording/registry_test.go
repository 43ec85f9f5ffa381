package recording

import (
	"testing"

	"github.com/gogpu/framekit/frame"
)

// saveRegistry swaps in an empty registry and restores it on cleanup.
func saveRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := executors
	executors = make(map[string]ExecutorFactory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		executors = saved
		registryMu.Unlock()
	})
}

func TestRecordExecutorRegistered(t *testing.T) {
	if !IsRegistered("record") {
		t.Fatal(`"record" executor should be registered by init`)
	}
	exec, err := NewExecutor("record", 640, 480)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	rec, ok := exec.(*Recorder)
	if !ok {
		t.Fatalf("executor is %T, want *Recorder", exec)
	}
	if rec.Width() != 640 || rec.Height() != 480 {
		t.Errorf("size = %dx%d", rec.Width(), rec.Height())
	}
}

func TestRegisterAndNewExecutor(t *testing.T) {
	saveRegistry(t)

	var gotW, gotH int
	Register("test", func(w, h int) frame.Executor {
		gotW, gotH = w, h
		return NewRecorder(w, h)
	})

	if _, err := NewExecutor("test", 3, 4); err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}
	if gotW != 3 || gotH != 4 {
		t.Errorf("factory got %dx%d, want 3x4", gotW, gotH)
	}
}

func TestNewExecutorUnknown(t *testing.T) {
	saveRegistry(t)

	if _, err := NewExecutor("unknown", 1, 1); err == nil {
		t.Error("expected error for unknown executor")
	}
}

func TestMustExecutorPanics(t *testing.T) {
	saveRegistry(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown executor")
		}
	}()
	MustExecutor("missing", 1, 1)
}

func TestRegisterNilFactory(t *testing.T) {
	saveRegistry(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil factory")
		}
	}()

	Register("nil", nil)
}

func TestRegisterDuplicate(t *testing.T) {
	saveRegistry(t)

	factory := func(w, h int) frame.Executor { return NewRecorder(w, h) }
	Register("dup", factory)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate registration")
		}
	}()

	Register("dup", factory)
}

func TestUnregister(t *testing.T) {
	saveRegistry(t)

	Register("temp", func(w, h int) frame.Executor { return NewRecorder(w, h) })
	if !IsRegistered("temp") {
		t.Error("executor should be registered")
	}

	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("executor should not be registered after Unregister")
	}

	// Unregister non-existent should not panic
	Unregister("nonexistent")
}

func TestExecutors(t *testing.T) {
	saveRegistry(t)

	factory := func(w, h int) frame.Executor { return NewRecorder(w, h) }
	Register("charlie", factory)
	Register("alpha", factory)
	Register("bravo", factory)

	names := Executors()
	expected := []string{"alpha", "bravo", "charlie"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d executors, got %d", len(expected), len(names))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("names[%d] = %q, want %q", i, name, expected[i])
		}
	}
}
