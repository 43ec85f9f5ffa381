// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/framekit/internal/cache"
	"github.com/gogpu/framekit/internal/parallel"
)

// Option configures a Cache.
type Option func(*Cache)

// WithCompiler replaces the default NagaCompiler.
func WithCompiler(c Compiler) Option {
	return func(cc *Cache) {
		if c != nil {
			cc.compiler = c
		}
	}
}

// WithWorkers sets the number of compile workers. Zero or negative uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Cache) { c.workers = n }
}

// WithIncludeLookup sets the fallback resolver for #include names.
func WithIncludeLookup(l IncludeLookup) Option {
	return func(c *Cache) { c.lookup = l }
}

// WithSourceCapacity sets the per-shard capacity of the source text cache.
func WithSourceCapacity(n int) Option {
	return func(c *Cache) { c.sourceCap = n }
}

// Cache compiles shader variants and keeps them for its lifetime.
//
// Requests for the same Identity return the same *Program. Concurrent
// requests for one identity share a single compile; different identities
// compile in parallel on a worker pool.
//
// Thread safety: Cache is safe for concurrent use.
type Cache struct {
	compiler  Compiler
	lookup    IncludeLookup
	workers   int
	sourceCap int

	pool    *parallel.WorkerPool
	sources *cache.Sharded[string, sourceFile]

	mu       sync.Mutex
	entries  map[Fingerprint]*Program
	inflight map[Fingerprint]*call
	closed   bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	coalesced atomic.Uint64
	compiles  atomic.Uint64
	failures  atomic.Uint64
}

// call is one in-flight compile.
type call struct {
	done   chan struct{}
	cancel context.CancelFunc

	// Guarded by Cache.mu.
	waiters   int
	finished  bool
	abandoned bool

	// Written before done is closed.
	prog *Program
	err  error
}

type sourceFile struct {
	data    []byte
	modTime time.Time
	size    int64
}

// NewCache creates a cache with its own worker pool.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		compiler: NagaCompiler{},
		entries:  make(map[Fingerprint]*Program),
		inflight: make(map[Fingerprint]*call),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pool = parallel.NewWorkerPool(c.workers)
	c.pool.OnPanic = func(pe *parallel.PanicError) {
		slogger().Error("shader: compile worker panicked", "panic", pe.Value)
	}
	c.sources = cache.NewSharded[string, sourceFile](c.sourceCap, cache.StringHasher)
	return c
}

// Compile returns the program for file compiled at entry with profile and
// defines. A failed compile returns a *CompileError and caches nothing, so
// a later call retries.
//
// If ctx is cancelled while waiting, Compile returns ctx.Err(). The compile
// keeps running for other waiters and is abandoned once none remain.
func (c *Cache) Compile(ctx context.Context, file, entry, profile string, defines Defines) (*Program, error) {
	id := Identity{File: file, EntryPoint: entry, Profile: profile, Defines: defines.Clone()}.Normalize()
	stage, err := ParseProfile(id.Profile)
	if err != nil {
		return nil, newCompileError(id, err, "profile")
	}
	return c.get(ctx, id, func(jobCtx context.Context) (*Program, error) {
		text, deps, err := Preprocess(id.File, id.Defines, c.lookup, c.readSource)
		if err != nil {
			return nil, newCompileError(id, err, "preprocess")
		}
		return c.compiler.Compile(jobCtx, Source{Identity: id, Stage: stage, Text: text, Dependencies: deps})
	})
}

// Lookup returns the cached program for id without compiling.
func (c *Cache) Lookup(id Identity) (*Program, bool) {
	fp := id.Normalize().Fingerprint()
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[fp]
	return p, ok
}

func (c *Cache) get(ctx context.Context, id Identity, build func(context.Context) (*Program, error)) (*Program, error) {
	fp := id.Fingerprint()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrCacheClosed
	}
	if p, ok := c.entries[fp]; ok {
		c.mu.Unlock()
		c.hits.Add(1)
		slogger().Debug("shader: cache hit", "program", id)
		return p, nil
	}
	if cl, ok := c.inflight[fp]; ok {
		cl.waiters++
		c.mu.Unlock()
		c.coalesced.Add(1)
		return c.wait(ctx, fp, cl)
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	cl := &call{done: make(chan struct{}), cancel: cancel, waiters: 1}
	c.inflight[fp] = cl
	c.mu.Unlock()
	c.misses.Add(1)
	slogger().Debug("shader: cache miss", "program", id)

	err := c.pool.Submit(func() {
		c.run(jobCtx, id, fp, cl, build)
	})
	if err != nil {
		c.finish(fp, cl, nil, ErrCacheClosed)
	}
	return c.wait(ctx, fp, cl)
}

func (c *Cache) run(ctx context.Context, id Identity, fp Fingerprint, cl *call, build func(context.Context) (*Program, error)) {
	var (
		prog *Program
		err  error
	)
	defer func() {
		if r := recover(); r != nil {
			prog, err = nil, newCompileError(id, &parallel.PanicError{Value: r}, "compiler panicked")
		}
		c.finish(fp, cl, prog, err)
	}()

	if err = ctx.Err(); err != nil {
		return
	}
	c.compiles.Add(1)
	start := time.Now()
	prog, err = build(ctx)
	if err != nil && ctx.Err() == nil && !errors.Is(err, ErrCompile) {
		err = newCompileError(id, err, "compile")
	}
	if err == nil && prog == nil {
		err = newCompileError(id, nil, "compiler returned no program")
	}
	if err == nil {
		slogger().Debug("shader: compiled", "program", id, "elapsed", time.Since(start))
	}
}

func (c *Cache) finish(fp Fingerprint, cl *call, prog *Program, err error) {
	defer cl.cancel()

	c.mu.Lock()
	if c.inflight[fp] == cl {
		delete(c.inflight, fp)
	}
	switch {
	case cl.abandoned:
		prog, err = nil, context.Canceled
	case c.closed:
		prog, err = nil, ErrCacheClosed
	case err != nil:
		c.failures.Add(1)
		slogger().Warn("shader: compile failed", "err", err)
	default:
		c.entries[fp] = prog
	}
	cl.finished = true
	cl.prog, cl.err = prog, err
	c.mu.Unlock()

	close(cl.done)
}

func (c *Cache) wait(ctx context.Context, fp Fingerprint, cl *call) (*Program, error) {
	select {
	case <-cl.done:
		return cl.prog, cl.err
	case <-ctx.Done():
	}

	c.mu.Lock()
	cl.waiters--
	if cl.waiters == 0 && !cl.finished {
		cl.abandoned = true
		if c.inflight[fp] == cl {
			delete(c.inflight, fp)
		}
		cl.cancel()
	}
	c.mu.Unlock()
	return nil, ctx.Err()
}

// readSource reads a file through the source cache. Entries are reused
// while the file's size and modification time are unchanged.
func (c *Cache) readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if f, ok := c.sources.Get(path); ok && f.size == info.Size() && f.modTime.Equal(info.ModTime()) {
		return f.data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.sources.Set(path, sourceFile{data: data, modTime: info.ModTime(), size: info.Size()})
	return data, nil
}

// Revalidate evicts programs whose source files changed on disk since they
// were built, and returns their identities. A dependency that was found
// through the include lookup is also stale when the lookup now resolves it
// elsewhere. Programs already handed out are unaffected; the next request
// for an evicted identity recompiles.
func (c *Cache) Revalidate() []Identity {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	progs := make([]*Program, 0, len(c.entries))
	for _, p := range c.entries {
		progs = append(progs, p)
	}
	c.mu.Unlock()

	paths := make(map[string]int)
	var order []string
	for _, p := range progs {
		for _, d := range p.deps {
			if _, ok := paths[d.Path]; !ok {
				paths[d.Path] = len(order)
				order = append(order, d.Path)
			}
		}
	}

	type result struct {
		hash uint64
		ok   bool
	}
	results := make([]result, len(order))
	work := make([]func(), len(order))
	for i, path := range order {
		work[i] = func() {
			data, err := os.ReadFile(path)
			if err == nil {
				results[i] = result{hash: hashBytes(data), ok: true}
			}
		}
	}
	c.pool.ExecuteAll(work)

	changed := make(map[string]bool)
	var stale []*Program
	for _, p := range progs {
		dirty := false
		for _, d := range p.deps {
			r := results[paths[d.Path]]
			if !r.ok || r.hash != d.Hash {
				changed[d.Path] = true
				dirty = true
				continue
			}
			if d.ViaLookup && c.lookup != nil && c.lookup(d.Name) != d.Path {
				dirty = true
			}
		}
		if dirty {
			stale = append(stale, p)
		}
	}

	for path := range changed {
		c.sources.Delete(path)
	}
	if len(stale) == 0 {
		return nil
	}

	evicted := make([]Identity, 0, len(stale))
	c.mu.Lock()
	for _, p := range stale {
		if c.entries[p.fp] == p {
			delete(c.entries, p.fp)
			evicted = append(evicted, p.id)
		}
	}
	c.mu.Unlock()

	slogger().Info("shader: revalidated", "evicted", len(evicted), "changed_files", len(changed))
	return evicted
}

// Evict removes the program for id, reporting whether one was cached.
func (c *Cache) Evict(id Identity) bool {
	fp := id.Normalize().Fingerprint()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[fp]; !ok {
		return false
	}
	delete(c.entries, fp)
	return true
}

// Files returns the sorted set of files that cached programs were built
// from.
func (c *Cache) Files() []string {
	c.mu.Lock()
	seen := make(map[string]bool)
	for _, p := range c.entries {
		for _, d := range p.deps {
			seen[d.Path] = true
		}
	}
	c.mu.Unlock()

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	// Hits counts requests served from the cache.
	Hits uint64

	// Misses counts requests that started a compile.
	Misses uint64

	// Coalesced counts requests that joined a compile already in flight.
	Coalesced uint64

	// Compiles counts compiler invocations, including failed ones.
	Compiles uint64

	// Failures counts compiles that returned an error.
	Failures uint64

	Entries  int
	InFlight int

	// SourceFiles and SourceHitRate describe the source text cache.
	SourceFiles   int
	SourceHitRate float64
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries, inflight := len(c.entries), len(c.inflight)
	c.mu.Unlock()
	src := c.sources.Stats()
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Coalesced:     c.coalesced.Load(),
		Compiles:      c.compiles.Load(),
		Failures:      c.failures.Load(),
		Entries:       entries,
		InFlight:      inflight,
		SourceFiles:   src.Len,
		SourceHitRate: src.HitRate(),
	}
}

// Close cancels in-flight compiles, stops the workers and drops every
// entry. Waiters receive ErrCacheClosed. Close is safe to call multiple
// times.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, cl := range c.inflight {
		cl.cancel()
	}
	clear(c.entries)
	c.mu.Unlock()

	c.pool.Close()
	c.sources.Clear()
}
