package recording

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/framekit/frame"
)

// ExecutorFactory creates an executor for a viewport of the given size.
// Factories are registered via Register() and called by NewExecutor().
type ExecutorFactory func(width, height int) frame.Executor

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	executors  = make(map[string]ExecutorFactory)
)

func init() {
	Register("record", func(width, height int) frame.Executor {
		return NewRecorder(width, height)
	})
}

// Register registers an executor factory with the given name.
// This function is typically called from init() in executor packages,
// following the database/sql driver pattern:
//
//	func init() {
//	    recording.Register("vulkan", func(w, h int) frame.Executor {
//	        return NewExecutor(w, h)
//	    })
//	}
//
// Register panics if:
//   - factory is nil
//   - an executor with the same name is already registered
func Register(name string, factory ExecutorFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("recording: Register factory is nil")
	}
	if _, dup := executors[name]; dup {
		panic("recording: Register called twice for " + name)
	}
	executors[name] = factory
}

// Unregister removes an executor from the registry.
// If the executor is not registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(executors, name)
}

// NewExecutor creates a new executor instance by name.
// Returns an error if the executor is not registered.
// The error message includes a hint about forgotten imports.
func NewExecutor(name string, width, height int) (frame.Executor, error) {
	registryMu.RLock()
	factory, ok := executors[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("recording: unknown executor %q (forgotten import?)", name)
	}
	return factory(width, height), nil
}

// MustExecutor creates a new executor instance by name, panicking on error.
func MustExecutor(name string, width, height int) frame.Executor {
	e, err := NewExecutor(name, width, height)
	if err != nil {
		panic(err)
	}
	return e
}

// Executors returns a sorted list of registered executor names.
func Executors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(executors))
	for name := range executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if an executor with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := executors[name]
	return ok
}
