// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/framekit/value"
)

// liveGlobals returns the set of global variables referenced by the entry
// point body or by any function reachable from it through calls. Globals
// only used by other entry points are not live.
func liveGlobals(module *ir.Module, entry int) map[ir.GlobalVariableHandle]bool {
	live := make(map[ir.GlobalVariableHandle]bool)
	seen := make(map[ir.FunctionHandle]bool)

	var visit func(fn *ir.Function)
	call := func(h ir.FunctionHandle) {
		if seen[h] || int(h) >= len(module.Functions) {
			return
		}
		seen[h] = true
		visit(&module.Functions[h])
	}
	visit = func(fn *ir.Function) {
		for _, expr := range fn.Expressions {
			switch e := expr.Kind.(type) {
			case ir.ExprGlobalVariable:
				live[e.Variable] = true
			case ir.ExprCallResult:
				call(e.Function)
			}
		}
		walkCalls(fn.Body, call)
	}

	if entry >= 0 && entry < len(module.EntryPoints) {
		visit(&module.EntryPoints[entry].Function)
	}
	return live
}

// walkCalls reports the callee of every call statement in block, including
// those nested in control flow.
func walkCalls(block ir.Block, call func(ir.FunctionHandle)) {
	for _, st := range block {
		switch s := st.Kind.(type) {
		case ir.StmtCall:
			call(s.Function)
		case ir.StmtBlock:
			walkCalls(s.Block, call)
		case ir.StmtIf:
			walkCalls(s.Accept, call)
			walkCalls(s.Reject, call)
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				walkCalls(c.Body, call)
			}
		case ir.StmtLoop:
			walkCalls(s.Body, call)
			walkCalls(s.Continuing, call)
		}
	}
}

// reflectVariables lists the bound globals of module that the entry point
// at index entry in module.EntryPoints uses.
func reflectVariables(module *ir.Module, entry int) []VariableDesc {
	live := liveGlobals(module, entry)
	var vars []VariableDesc
	for gi, g := range module.GlobalVariables {
		if g.Binding == nil || !live[ir.GlobalVariableHandle(gi)] {
			continue
		}
		base := VariableDesc{Name: g.Name, Group: g.Binding.Group, Binding: g.Binding.Binding}
		inner := typeInner(module, g.Type)

		switch g.Space {
		case ir.SpaceUniform:
			if st, ok := inner.(ir.StructType); ok {
				for _, m := range st.Members {
					v := base
					v.Name = m.Name
					v.Kind = Constant
					v.Block = g.Name
					v.Offset = m.Offset
					v.Shape = shapeOf(typeInner(module, m.Type))
					vars = append(vars, v)
				}
				continue
			}
			base.Kind = Constant
			base.Shape = shapeOf(inner)
		case ir.SpaceStorage:
			base.Kind = Uav
			if g.Access == ir.StorageRead {
				base.Kind = Resource
			}
			base.Shape = value.Shape{Kind: value.KindBuffer}
		case ir.SpaceHandle:
			switch t := inner.(type) {
			case ir.SamplerType:
				base.Kind = Sampler
				base.Shape = value.Shape{Kind: value.KindSampler}
			case ir.ImageType:
				base.Kind = Resource
				if t.Class != ir.ImageClassSampled && t.Class != ir.ImageClassDepth {
					base.Kind = Uav
				}
				base.Shape = value.Shape{Kind: value.KindTexture}
			default:
				continue
			}
		default:
			continue
		}
		vars = append(vars, base)
	}
	return vars
}

func typeInner(module *ir.Module, h ir.TypeHandle) ir.TypeInner {
	if int(h) >= len(module.Types) {
		return nil
	}
	return module.Types[h].Inner
}

func shapeOf(inner ir.TypeInner) value.Shape {
	switch t := inner.(type) {
	case ir.ScalarType:
		return value.Shape{Kind: scalarKind(t), Components: 1}
	case ir.VectorType:
		return value.Shape{Kind: scalarKind(t.Scalar), Components: int(t.Size)}
	case ir.MatrixType:
		if int(t.Columns) == 4 && int(t.Rows) == 4 {
			return value.Shape{Kind: value.KindMatrix, Components: 16}
		}
	}
	// Structs, arrays and small matrices are passed through unchecked.
	return value.Shape{Kind: value.KindNone}
}

func scalarKind(s ir.ScalarType) value.Kind {
	switch s.Kind {
	case ir.ScalarFloat:
		return value.KindFloat
	case ir.ScalarBool:
		return value.KindBool
	}
	return value.KindInt
}

// fragmentOutputs counts the colour outputs of a fragment entry point. A
// result bound to a location is one output; a struct result contributes one
// output per location member. Built-in results such as frag_depth are not
// colour outputs.
func fragmentOutputs(module *ir.Module, entry int) int {
	if entry < 0 || entry >= len(module.EntryPoints) {
		return -1
	}
	res := module.EntryPoints[entry].Function.Result
	if res == nil {
		return 0
	}
	if res.Binding != nil {
		if _, ok := (*res.Binding).(ir.LocationBinding); ok {
			return 1
		}
		return 0
	}
	st, ok := typeInner(module, res.Type).(ir.StructType)
	if !ok {
		return -1
	}
	n := 0
	for _, m := range st.Members {
		if m.Binding == nil {
			continue
		}
		if _, ok := (*m.Binding).(ir.LocationBinding); ok {
			n++
		}
	}
	return n
}
