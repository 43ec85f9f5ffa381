// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package binding

import (
	"errors"
	"testing"

	"github.com/gogpu/framekit/gpucore"
	"github.com/gogpu/framekit/material"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/value"
)

var (
	float1 = value.Shape{Kind: value.KindFloat, Components: 1}
	float3 = value.Shape{Kind: value.KindFloat, Components: 3}
	float4 = value.Shape{Kind: value.KindFloat, Components: 4}
	mat4   = value.Shape{Kind: value.KindMatrix, Components: 16}
	tex    = value.Shape{Kind: value.KindTexture}
)

func testProgram(t testing.TB) *shader.Program {
	t.Helper()
	src := shader.Source{
		Identity: shader.Identity{File: "/shaders/pbr.wgsl", EntryPoint: "fs_main", Profile: "ps_5_0"},
		Stage:    shader.StageFragment,
	}
	return shader.NewProgram(src, []uint32{shader.SPIRVMagic}, []shader.VariableDesc{
		{Name: "DiffuseColour", Kind: shader.Constant, Shape: float4, Default: value.Float4(1, 1, 1, 1)},
		{Name: "Roughness", Kind: shader.Constant, Shape: float1},
		{Name: "LightPos", Kind: shader.Constant, Shape: float3},
		{Name: "WorldToProjectionMatrix", Kind: shader.Constant, Shape: mat4},
		{Name: "CameraPosition", Kind: shader.Constant, Shape: float3},
		{Name: "DiffuseTexture", Kind: shader.Resource, Shape: tex},
		{Name: "DepthBuffer", Kind: shader.Resource, Shape: tex},
	}, 1)
}

func TestMissingHandleIsNoOp(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "CompiledOut")
	if !h.IsMissing() {
		t.Fatal("expected Missing handle")
	}
	if err := h.Set(1.0); err != nil {
		t.Errorf("Set: %v", err)
	}
	if err := h.SetFunc(func() value.Value { panic("must not be called") }); err != nil {
		t.Errorf("SetFunc: %v", err)
	}
	if err := h.Bind(CameraPosition); err != nil {
		t.Errorf("Bind: %v", err)
	}
	if err := h.BindToMaterial("X", 1.0); err != nil {
		t.Errorf("BindToMaterial: %v", err)
	}
	if err := h.MarkAsScriptOverride(); err != nil {
		t.Errorf("MarkAsScriptOverride: %v", err)
	}
	v, err := Resolver{}.Resolve(h, nil, nil)
	if err != nil || !v.IsNone() {
		t.Errorf("Resolve = %v, %v; want None", v, err)
	}

	// Kind is part of the lookup.
	if !table.Variable(shader.Resource, "Roughness").IsMissing() {
		t.Error("Roughness is a constant, not a resource")
	}

	var zero Handle
	if !zero.IsMissing() || zero.Name() != "" || zero.Binding().Mode() != ModeUnbound {
		t.Error("zero Handle should be Missing")
	}
}

func TestBindIsExclusive(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "Roughness")
	if err := h.Set(0.5); err != nil {
		t.Fatal(err)
	}
	if err := h.BindToMaterial("Roughness"); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second bind err = %v, want ErrAlreadyBound", err)
	}
	if got, _ := h.Binding().Literal(); !got.Equal(value.Float(0.5)) {
		t.Errorf("binding changed to %v", h.Binding())
	}

	// The resolver-level replace is always allowed.
	table.SetBinding(h, Literal(value.Float(0.25)))
	v, err := Resolver{}.Resolve(h, nil, nil)
	if err != nil || !v.Equal(value.Float(0.25)) {
		t.Errorf("Resolve = %v, %v", v, err)
	}
}

func TestAutoBindCanBeOverriddenOnce(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "WorldToProjectionMatrix")
	if !h.IsAutoBound() || h.Binding().Mode() != ModeBindSource || h.Binding().Source() != WorldToProjectionMatrix {
		t.Fatalf("binding = %v, want auto-bound source", h.Binding())
	}
	if err := h.Set(value.Matrix(value.Identity())); err != nil {
		t.Fatalf("overriding auto-bind: %v", err)
	}
	if h.IsAutoBound() {
		t.Error("explicit bind should clear the auto flag")
	}
	if err := h.MarkAsScriptOverride(); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("err = %v, want ErrAlreadyBound", err)
	}

	depth := table.Variable(shader.Resource, "DepthBuffer")
	if depth.Binding().Source() != DepthBuffer {
		t.Errorf("DepthBuffer resource binding = %v", depth.Binding())
	}
}

func TestSetTypeMismatch(t *testing.T) {
	table := NewTable(testProgram(t))
	tests := []struct {
		name string
		h    Handle
		v    any
	}{
		{"float4 from float", table.Variable(shader.Constant, "DiffuseColour"), 1.0},
		{"texture from float", table.Variable(shader.Resource, "DiffuseTexture"), 2.0},
		{"float from texture", table.Variable(shader.Constant, "Roughness"), gpucore.TextureID(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.h.Set(tt.v)
			var tm *TypeMismatchError
			if !errors.As(err, &tm) || !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("err = %v, want TypeMismatchError", err)
			}
			if tm.Variable != tt.h.Name() {
				t.Errorf("Variable = %q", tm.Variable)
			}
			if tt.h.Binding().Mode() != ModeUnbound {
				t.Error("failed Set should not bind")
			}
		})
	}

	if err := table.Variable(shader.Constant, "Roughness").Bind(DepthBuffer); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Bind(DepthBuffer) on a float: err = %v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	table := NewTable(testProgram(t))
	colour := table.Variable(shader.Constant, "DiffuseColour")
	if err := colour.Set(value.Float4(1, 0, 0, 1)); err != nil {
		t.Fatal(err)
	}

	r := Resolver{}
	v, err := r.Resolve(colour, nil, Overrides{"DiffuseColour": [4]float32{0, 1, 0, 1}})
	if err != nil || !v.Equal(value.Float4(0, 1, 0, 1)) {
		t.Errorf("override: %v, %v", v, err)
	}
	v, err = r.Resolve(colour, nil, nil)
	if err != nil || !v.Equal(value.Float4(1, 0, 0, 1)) {
		t.Errorf("literal: %v, %v", v, err)
	}

	if _, err := r.Resolve(colour, nil, Overrides{"DiffuseColour": 1.0}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("bad override err = %v", err)
	}
}

func TestResolveUnboundUsesDefault(t *testing.T) {
	table := NewTable(testProgram(t))
	v, err := Resolver{}.Resolve(table.Variable(shader.Constant, "DiffuseColour"), nil, nil)
	if err != nil || !v.Equal(value.Float4(1, 1, 1, 1)) {
		t.Errorf("Resolve = %v, %v; want program default", v, err)
	}
	v, err = Resolver{}.Resolve(table.Variable(shader.Constant, "Roughness"), nil, nil)
	if err != nil || !v.Equal(value.Float(0)) {
		t.Errorf("Resolve = %v, %v; want zero", v, err)
	}
}

func TestCallableIsInvokedPerResolve(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "Roughness")
	calls := 0
	if err := h.Set(func() value.Value {
		calls++
		return value.Float(float32(calls))
	}); err != nil {
		t.Fatal(err)
	}

	for want := 1; want <= 2; want++ {
		v, err := Resolver{}.Resolve(h, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !v.Equal(value.Float(float32(want))) {
			t.Errorf("call %d resolved %v", want, v)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

type fixedValuer struct{ v value.Value }

func (f *fixedValuer) Get() value.Value { return f.v }

func TestSetValuerTracksChanges(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "LightPos")
	src := &fixedValuer{v: value.Float3(1, 2, 3)}
	if err := h.Set(src); err != nil {
		t.Fatal(err)
	}
	if h.Binding().Mode() != ModeCallable {
		t.Fatalf("mode = %v, want callable", h.Binding().Mode())
	}
	src.v = value.Float3(4, 5, 6)
	v, _ := Resolver{}.Resolve(h, nil, nil)
	if !v.Equal(value.Float3(4, 5, 6)) {
		t.Errorf("Resolve = %v, want the current value", v)
	}

	src.v = value.Float(1)
	if _, err := (Resolver{}).Resolve(h, nil, nil); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch for a wrongly shaped callable result", err)
	}
}

func TestMaterialFallback(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "DiffuseColour")
	if err := h.BindToMaterial("DiffuseColour", [4]float32{0.5, 0.5, 0.5, 1}); err != nil {
		t.Fatal(err)
	}
	r := Resolver{}

	v, err := r.Resolve(h, material.Bag{}, nil)
	if err != nil || !v.Equal(value.Float4(0.5, 0.5, 0.5, 1)) {
		t.Errorf("without property: %v, %v; want fallback", v, err)
	}

	red := value.Float4(1, 0, 0, 1)
	v, err = r.Resolve(h, material.Bag{"DiffuseColour": red}, nil)
	if err != nil || !v.Equal(red) {
		t.Errorf("with property: %v, %v; want the property", v, err)
	}

	noFallback := table.Variable(shader.Resource, "DiffuseTexture")
	if err := noFallback.BindToMaterial("DiffuseTexture"); err != nil {
		t.Fatal(err)
	}
	v, err = r.Resolve(noFallback, material.Empty, nil)
	if err != nil || !v.Equal(value.Texture(0)) {
		t.Errorf("no fallback: %v, %v; want default", v, err)
	}

	d := &Drawable{Material: material.Bag{"DiffuseTexture": value.Texture(9)}}
	v, err = Resolver{Drawable: d}.Resolve(noFallback, nil, nil)
	if err != nil || v.TextureID() != 9 {
		t.Errorf("drawable material: %v, %v", v, err)
	}
}

func TestScriptOverride(t *testing.T) {
	table := NewTable(testProgram(t))
	h := table.Variable(shader.Constant, "LightPos")
	if err := h.MarkAsScriptOverride(); err != nil {
		t.Fatal(err)
	}

	_, err := Resolver{}.Resolve(h, nil, nil)
	var ue *UnresolvedOverrideError
	if !errors.As(err, &ue) || !errors.Is(err, ErrUnresolvedScriptOverride) {
		t.Fatalf("err = %v, want UnresolvedOverrideError", err)
	}
	if ue.Variable != "LightPos" {
		t.Errorf("Variable = %q", ue.Variable)
	}

	// A nil entry does not supply the value.
	if _, err := (Resolver{}).Resolve(h, nil, Overrides{"LightPos": nil}); !errors.Is(err, ErrUnresolvedScriptOverride) {
		t.Errorf("nil override: err = %v, want ErrUnresolvedScriptOverride", err)
	}

	v, err := Resolver{}.Resolve(h, nil, Overrides{"LightPos": []float32{1, 2, 3}})
	if err != nil || !v.Equal(value.Float3(1, 2, 3)) {
		t.Errorf("Resolve = %v, %v", v, err)
	}
}

func TestBindSources(t *testing.T) {
	table := NewTable(testProgram(t))
	view := ViewInfo{
		EyePosition:      [3]float32{1, 2, 3},
		WorldToView:      value.Translation(0, 0, -5),
		ViewToProjection: value.Scaling(2, 2, 1),
	}
	engine := ViewEngine{View: view}

	cam, err := Resolver{Engine: engine}.Resolve(table.Variable(shader.Constant, "CameraPosition"), nil, nil)
	if err != nil || !cam.Equal(value.Float3(1, 2, 3)) {
		t.Errorf("CameraPosition = %v, %v", cam, err)
	}

	wtp, err := Resolver{Engine: engine}.Resolve(table.Variable(shader.Constant, "WorldToProjectionMatrix"), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := wtp.AsMatrix().TransformPoint([3]float32{1, 1, 0}); got != [3]float32{2, 2, -5} {
		t.Errorf("WorldToProjection * (1,1,0) = %v", got)
	}

	// Without an engine the source falls back to the default.
	v, err := Resolver{}.Resolve(table.Variable(shader.Constant, "CameraPosition"), nil, nil)
	if err != nil || !v.Equal(value.Float3(0, 0, 0)) {
		t.Errorf("no engine: %v, %v", v, err)
	}
}

func TestViewEngineDrawableSources(t *testing.T) {
	e := ViewEngine{View: DefaultView()}
	if _, ok := e.BindSource(LocalToWorldMatrix, nil); ok {
		t.Error("LocalToWorld without a drawable should not resolve")
	}
	d := &Drawable{LocalToWorld: value.Translation(1, 2, 3)}
	v, ok := e.BindSource(WorldToLocalMatrix, d)
	if !ok {
		t.Fatal("WorldToLocal not resolved")
	}
	if got := v.AsMatrix().TransformPoint([3]float32{1, 2, 3}); got != [3]float32{0, 0, 0} {
		t.Errorf("WorldToLocal * (1,2,3) = %v", got)
	}
	it, _ := e.BindSource(LocalToWorldInverseTransposeMatrix, d)
	if it.AsMatrix()[12] != -1 {
		t.Errorf("inverse transpose = %v", it.AsMatrix())
	}
	depth, ok := e.BindSource(DepthBuffer, nil)
	if !ok || depth.Kind() != value.KindDepthBuffer || depth.Depth() != gpucore.DepthDefault {
		t.Errorf("DepthBuffer = %v, %v", depth, ok)
	}
	e.View.Depth = gpucore.DepthNone
	if _, ok := e.BindSource(DepthBuffer, nil); ok {
		t.Error("DepthBuffer resolved for a view without depth")
	}
}

func TestResolveAll(t *testing.T) {
	table := NewTable(testProgram(t))
	if err := table.Variable(shader.Constant, "LightPos").MarkAsScriptOverride(); err != nil {
		t.Fatal(err)
	}
	if err := table.Variable(shader.Constant, "Roughness").MarkAsScriptOverride(); err != nil {
		t.Fatal(err)
	}

	_, err := Resolver{}.ResolveAll(table, nil, nil)
	if !errors.Is(err, ErrUnresolvedScriptOverride) {
		t.Fatalf("err = %v", err)
	}

	vals, err := Resolver{Engine: ViewEngine{View: DefaultView()}}.ResolveAll(table, nil, Overrides{
		"LightPos":  value.Float3(1, 1, 1),
		"Roughness": 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != table.Len() {
		t.Fatalf("len = %d, want %d", len(vals), table.Len())
	}
	for i, h := range table.Handles() {
		if vals[i].Variable.Name != h.Name() {
			t.Errorf("vals[%d] = %s, want directory order", i, vals[i].Variable.Name)
		}
	}
	if !vals[1].Value.Equal(value.Float(0.5)) {
		t.Errorf("Roughness = %v", vals[1].Value)
	}
}

func BenchmarkResolveAll(b *testing.B) {
	table := NewTable(testProgram(b))
	_ = table.Variable(shader.Constant, "DiffuseColour").BindToMaterial("DiffuseColour")
	_ = table.Variable(shader.Constant, "Roughness").SetFunc(func() value.Value { return value.Float(0.3) })
	r := Resolver{Engine: ViewEngine{View: DefaultView()}, Drawable: &Drawable{LocalToWorld: value.Identity()}}
	mat := material.Bag{"DiffuseColour": value.Float4(1, 0, 0, 1)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ResolveAll(table, mat, nil)
	}
}
