// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader compiles WGSL shader variants and describes their
// variables.
//
// A variant is identified by its source file, entry point, target profile
// and preprocessor defines ([Identity]). A [Cache] compiles each variant
// once and hands the same immutable [Program] to every caller that asks
// for it, including callers racing on the same identity.
//
// Each Program carries a [Directory] of the variables that survived
// compilation: uniform members ([Constant]), textures and read-only
// buffers ([Resource]), samplers ([Sampler]) and read-write resources
// ([Uav]). Variables declared in the source but not referenced by the
// entry point are not listed.
//
// Precompiled SPIR-V can be loaded with [Cache.Load]; reflection data is
// then read from a TOML [Manifest] stored next to the binary.
//
// Source files are read through an LRU keyed by path. [Cache.Revalidate]
// evicts programs whose files changed on disk and [Watcher] calls it
// automatically.
package shader
