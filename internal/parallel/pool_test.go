package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()
	pool.ExecuteAll(nil)
}

func TestWorkerPool_ExecuteAllPanicIsolated(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	var counter atomic.Int64
	work := []func(){
		func() { counter.Add(1) },
		func() { panic("boom") },
		func() { counter.Add(1) },
	}
	pool.ExecuteAll(work)

	if counter.Load() != 2 {
		t.Errorf("counter = %d, want 2", counter.Load())
	}
	if pool.Panics() != 1 {
		t.Errorf("Panics() = %d, want 1", pool.Panics())
	}
}

func TestWorkerPool_Submit(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	done := make(chan struct{})
	if err := pool.Submit(func() { close(done) }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submitted job did not run")
	}
	if err := pool.Submit(nil); err != nil {
		t.Errorf("Submit(nil) = %v, want nil", err)
	}
}

func TestWorkerPool_OnPanic(t *testing.T) {
	pool := NewWorkerPool(1)
	got := make(chan *PanicError, 1)
	pool.OnPanic = func(pe *PanicError) { got <- pe }
	defer pool.Close()

	if err := pool.Submit(func() { panic("bad shader") }); err != nil {
		t.Fatal(err)
	}
	select {
	case pe := <-got:
		if pe.Value != "bad shader" {
			t.Errorf("PanicError.Value = %v", pe.Value)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnPanic was not called")
	}
}

func TestWorkerPool_CloseRunsQueuedWork(t *testing.T) {
	pool := NewWorkerPool(1)

	release := make(chan struct{})
	var ran atomic.Int32
	_ = pool.Submit(func() { <-release })
	for range 5 {
		_ = pool.Submit(func() { ran.Add(1) })
	}

	closed := make(chan struct{})
	go func() {
		pool.Close()
		close(closed)
	}()
	close(release)

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	if ran.Load() != 5 {
		t.Errorf("ran = %d, want 5 queued jobs drained", ran.Load())
	}
}

func TestWorkerPool_OperationsAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close() // idempotent

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
	if err := pool.Submit(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit after Close = %v, want ErrClosed", err)
	}

	// ExecuteAll falls back to the caller's goroutine.
	var counter atomic.Int32
	pool.ExecuteAll([]func(){func() { counter.Add(1) }, func() { counter.Add(1) }})
	if counter.Load() != 2 {
		t.Errorf("counter = %d, want 2", counter.Load())
	}
}

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), 50)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			pool.ExecuteAll(work)
		}()
	}
	wg.Wait()

	if counter.Load() != 500 {
		t.Errorf("counter = %d, want 500", counter.Load())
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// One slow job must not serialize the fast ones queued after it.
	work := make([]func(), 20)
	work[0] = func() { time.Sleep(50 * time.Millisecond) }
	for i := 1; i < len(work); i++ {
		work[i] = func() { time.Sleep(time.Millisecond) }
	}

	start := time.Now()
	pool.ExecuteAll(work)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ExecuteAll took %v", elapsed)
	}
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	before := runtime.NumGoroutine()
	for range 5 {
		pool := NewWorkerPool(4)
		pool.ExecuteAll([]func(){func() {}})
		pool.Close()
	}
	time.Sleep(20 * time.Millisecond)
	if after := runtime.NumGoroutine(); after > before+2 {
		t.Errorf("goroutines: before=%d after=%d", before, after)
	}
}

func BenchmarkWorkerPool_Submit(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	var wg sync.WaitGroup
	b.ResetTimer()
	for range b.N {
		wg.Add(1)
		_ = pool.Submit(wg.Done)
	}
	wg.Wait()
}
