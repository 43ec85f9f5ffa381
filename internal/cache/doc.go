// Package cache provides the sharded LRU used to keep shader source text in
// memory between compiles.
//
// Keys are spread over [ShardCount] shards by a caller-supplied hash so that
// concurrent compile jobs reading different files rarely contend on a lock.
// Each shard evicts its least recently used entry once it holds more than
// its capacity.
//
//	sources := cache.NewSharded[string, []byte](64, cache.StringHasher)
//	sources.Set("shaders/pbr.wgsl", text)
//	text, ok := sources.Get("shaders/pbr.wgsl")
package cache
