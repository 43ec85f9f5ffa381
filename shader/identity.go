// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"sort"
	"strings"
)

// Stage is the pipeline stage a program runs in.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// ParseProfile maps a target profile to a stage. Both D3D-style profiles
// ("vs_5_0", "ps_5_0", "cs_5_0") and stage names ("vertex", "fragment",
// "compute") are accepted, case-insensitively.
func ParseProfile(profile string) (Stage, error) {
	p := strings.ToLower(strings.TrimSpace(profile))
	switch {
	case p == "vertex" || p == "vs" || strings.HasPrefix(p, "vs_"):
		return StageVertex, nil
	case p == "fragment" || p == "pixel" || p == "ps" || p == "fs" ||
		strings.HasPrefix(p, "ps_") || strings.HasPrefix(p, "fs_"):
		return StageFragment, nil
	case p == "compute" || p == "cs" || strings.HasPrefix(p, "cs_"):
		return StageCompute, nil
	}
	return 0, fmt.Errorf("unknown profile %q", profile)
}

// Defines is a set of preprocessor macros. Two Defines with the same
// key/value pairs are equal regardless of construction order.
type Defines map[string]string

// Keys returns the macro names in sorted order.
func (d Defines) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of d.
func (d Defines) Clone() Defines {
	if d == nil {
		return nil
	}
	out := make(Defines, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// canonical writes the sorted, length-prefixed form of d so that keys or
// values containing separators cannot alias another set.
func (d Defines) canonical(b *strings.Builder) {
	for _, k := range d.Keys() {
		fmt.Fprintf(b, "%d:%s=%d:%s;", len(k), k, len(d[k]), d[k])
	}
}

func (d Defines) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		parts = append(parts, k+"="+d[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Identity names one shader variant.
type Identity struct {
	File       string
	EntryPoint string
	Profile    string
	Defines    Defines

	// Precompiled marks identities created by Cache.Load.
	Precompiled bool
}

// Fingerprint is the comparable cache key of an Identity.
type Fingerprint struct {
	key string
	sum uint64
}

// Sum returns the 64-bit FNV-1a hash of the fingerprint.
func (f Fingerprint) Sum() uint64 { return f.sum }

func (f Fingerprint) String() string { return fmt.Sprintf("%016x", f.sum) }

// Normalize cleans the file path and lower-cases the profile so that
// equivalent requests produce the same fingerprint.
func (id Identity) Normalize() Identity {
	if id.File != "" {
		if abs, err := filepath.Abs(id.File); err == nil {
			id.File = abs
		} else {
			id.File = filepath.Clean(id.File)
		}
	}
	id.Profile = strings.ToLower(strings.TrimSpace(id.Profile))
	if len(id.Defines) == 0 {
		id.Defines = nil
	}
	return id
}

// Fingerprint returns the canonical key for id. Defines are compared as an
// unordered set.
func (id Identity) Fingerprint() Fingerprint {
	var b strings.Builder
	if id.Precompiled {
		b.WriteString("spv|")
	} else {
		b.WriteString("src|")
	}
	fmt.Fprintf(&b, "%d:%s|%d:%s|%d:%s|", len(id.File), id.File,
		len(id.EntryPoint), id.EntryPoint, len(id.Profile), id.Profile)
	id.Defines.canonical(&b)

	key := b.String()
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv.Write never returns an error
	return Fingerprint{key: key, sum: h.Sum64()}
}

func (id Identity) String() string {
	s := fmt.Sprintf("%s:%s (%s)", filepath.Base(id.File), id.EntryPoint, id.Profile)
	if len(id.Defines) > 0 {
		s += " " + id.Defines.String()
	}
	return s
}
