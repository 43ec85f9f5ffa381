// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// IncludeLookup resolves an #include name that was not found next to the
// including file. It returns "" for unknown names.
type IncludeLookup func(name string) string

// ReadFunc reads a source file.
type ReadFunc func(path string) ([]byte, error)

const maxIncludeDepth = 32

var (
	identRe   = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	includeRe = regexp.MustCompile(`^"([^"]+)"$|^<([^>]+)>$`)
)

// Preprocess expands #include and conditional directives in the file at
// path and substitutes defines into the remaining source.
//
// Supported directives: #include "file" (or <file>), #define NAME [VALUE],
// #undef, #ifdef, #ifndef, #if, #elif, #else, #endif, #pragma once and
// #error. #if and #elif accept an integer, a macro name, defined(NAME) and
// a leading "!".
//
// The returned dependencies list the main file first, then every included
// file in inclusion order.
func Preprocess(path string, defines Defines, lookup IncludeLookup, read ReadFunc) (string, []Dependency, error) {
	if read == nil {
		read = os.ReadFile
	}
	pp := &preprocessor{
		read:    read,
		lookup:  lookup,
		defines: make(map[string]string, len(defines)),
		once:    make(map[string]bool),
	}
	for _, k := range defines.Keys() {
		pp.defines[k] = defines[k]
	}

	data, err := read(path)
	if err != nil {
		return "", nil, err
	}
	pp.deps = append(pp.deps, Dependency{Name: path, Path: path, Hash: hashBytes(data)})
	if err := pp.process(path, string(data), 0); err != nil {
		return "", nil, err
	}
	return pp.out.String(), pp.deps, nil
}

type condFrame struct {
	parentActive bool
	active       bool
	taken        bool
	seenElse     bool
}

type preprocessor struct {
	read    ReadFunc
	lookup  IncludeLookup
	defines map[string]string
	once    map[string]bool
	deps    []Dependency
	out     strings.Builder
}

func (pp *preprocessor) process(file, text string, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("%s: includes nested deeper than %d", file, maxIncludeDepth)
	}

	var stack []condFrame
	active := func() bool { return len(stack) == 0 || stack[len(stack)-1].active }

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lineNo := i + 1
		fail := func(format string, args ...any) error {
			return fmt.Errorf("%s:%d: %s", file, lineNo, fmt.Sprintf(format, args...))
		}

		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				pp.out.WriteString(pp.substitute(line))
			}
			pp.out.WriteByte('\n')
			continue
		}

		directive, arg, _ := strings.Cut(strings.TrimSpace(trimmed[1:]), " ")
		arg = strings.TrimSpace(stripLineComment(arg))

		switch directive {
		case "ifdef", "ifndef":
			_, defined := pp.defines[arg]
			cond := defined == (directive == "ifdef")
			stack = append(stack, condFrame{parentActive: active(), active: active() && cond, taken: cond})
		case "if":
			cond, err := pp.eval(arg)
			if err != nil {
				return fail("%v", err)
			}
			stack = append(stack, condFrame{parentActive: active(), active: active() && cond, taken: cond})
		case "elif":
			if len(stack) == 0 || stack[len(stack)-1].seenElse {
				return fail("#elif without #if")
			}
			top := &stack[len(stack)-1]
			cond, err := pp.eval(arg)
			if err != nil {
				return fail("%v", err)
			}
			top.active = top.parentActive && !top.taken && cond
			top.taken = top.taken || cond
		case "else":
			if len(stack) == 0 || stack[len(stack)-1].seenElse {
				return fail("#else without #if")
			}
			top := &stack[len(stack)-1]
			top.active = top.parentActive && !top.taken
			top.taken = true
			top.seenElse = true
		case "endif":
			if len(stack) == 0 {
				return fail("#endif without #if")
			}
			stack = stack[:len(stack)-1]
		default:
			if active() {
				if err := pp.directive(file, directive, arg, depth); err != nil {
					return fail("%v", err)
				}
			}
		}
		// Keep line numbers stable for compiler diagnostics.
		pp.out.WriteByte('\n')
	}
	if len(stack) > 0 {
		return fmt.Errorf("%s: unterminated #if", file)
	}
	return nil
}

func (pp *preprocessor) directive(file, directive, arg string, depth int) error {
	switch directive {
	case "define":
		name, val, _ := strings.Cut(arg, " ")
		if identRe.FindString(name) != name {
			return fmt.Errorf("invalid macro name %q", name)
		}
		pp.defines[name] = pp.substitute(strings.TrimSpace(val))
	case "undef":
		delete(pp.defines, arg)
	case "pragma":
		if arg == "once" {
			pp.once[file] = true
		}
	case "error":
		return errors.New("#error " + arg)
	case "include":
		return pp.include(file, arg, depth)
	default:
		return fmt.Errorf("unknown directive #%s", directive)
	}
	return nil
}

func (pp *preprocessor) include(from, arg string, depth int) error {
	m := includeRe.FindStringSubmatch(arg)
	if m == nil {
		return fmt.Errorf("malformed #include %s", arg)
	}
	name := m[1] + m[2]

	path, viaLookup := "", false
	if m[1] != "" {
		candidate := filepath.Join(filepath.Dir(from), name)
		if _, err := pp.read(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" && pp.lookup != nil {
		path, viaLookup = pp.lookup(name), true
	}
	if path == "" {
		return fmt.Errorf("cannot resolve #include %q", name)
	}
	if pp.once[path] {
		return nil
	}

	data, err := pp.read(path)
	if err != nil {
		return fmt.Errorf("#include %q: %w", name, err)
	}
	pp.deps = append(pp.deps, Dependency{Name: name, Path: path, Hash: hashBytes(data), ViaLookup: viaLookup})
	return pp.process(path, string(data), depth+1)
}

// eval evaluates a #if expression.
func (pp *preprocessor) eval(expr string) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, errors.New("#if with no expression")
	}
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		v, err := pp.eval(rest)
		return !v, err
	}
	if rest, ok := strings.CutPrefix(expr, "defined"); ok {
		name := strings.TrimSpace(rest)
		name = strings.TrimSuffix(strings.TrimPrefix(name, "("), ")")
		_, defined := pp.defines[strings.TrimSpace(name)]
		return defined, nil
	}
	if n, err := strconv.ParseInt(expr, 0, 64); err == nil {
		return n != 0, nil
	}
	if identRe.FindString(expr) != expr {
		return false, fmt.Errorf("unsupported #if expression %q", expr)
	}
	val, ok := pp.defines[expr]
	if !ok {
		return false, nil
	}
	return truthy(val), nil
}

func truthy(val string) bool {
	val = strings.TrimSpace(val)
	switch strings.ToLower(val) {
	case "", "0", "false":
		return false
	}
	if n, err := strconv.ParseInt(val, 0, 64); err == nil {
		return n != 0
	}
	return true
}

func (pp *preprocessor) substitute(line string) string {
	if len(pp.defines) == 0 {
		return line
	}
	return identRe.ReplaceAllStringFunc(line, func(id string) string {
		if v, ok := pp.defines[id]; ok && v != "" {
			return v
		}
		return id
	})
}

func stripLineComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		return s[:i]
	}
	return s
}

func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return h.Sum64()
}
