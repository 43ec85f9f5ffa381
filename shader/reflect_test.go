// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"testing"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/framekit/value"
)

// reflectShader declares one global used directly by fs_main, one used
// only through a helper, one used by nothing and two used only by cs_main.
const reflectShader = `
struct Params {
    tint: vec4<f32>,
    mvp: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var samp: sampler;
@group(0) @binding(2) var tex: texture_2d<f32>;
@group(0) @binding(3) var detailTex: texture_2d<f32>;
@group(0) @binding(4) var unusedTex: texture_2d<f32>;
@group(1) @binding(0) var<storage, read> inputs: array<f32>;
@group(1) @binding(1) var<storage, read_write> results: array<f32>;

fn detail(uv: vec2<f32>) -> vec4<f32> {
    return textureSample(detailTex, samp, uv);
}

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    let col = textureSample(tex, samp, uv);
    return col * params.tint * detail(uv);
}

@compute @workgroup_size(1)
fn cs_main() {
    results[0] = inputs[0] * 2.0;
}
`

func lowerWGSL(t *testing.T, source string) *ir.Module {
	t.Helper()
	ast, err := naga.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return module
}

func entryIndex(t *testing.T, module *ir.Module, name string) int {
	t.Helper()
	for i, ep := range module.EntryPoints {
		if ep.Name == name {
			return i
		}
	}
	t.Fatalf("entry point %q not found", name)
	return -1
}

func TestReflectVariablesFragment(t *testing.T) {
	m := lowerWGSL(t, reflectShader)
	dir := NewDirectory(reflectVariables(m, entryIndex(t, m, "fs_main")))

	tint, ok := dir.Find(Constant, "tint")
	if !ok {
		t.Fatal("tint not found")
	}
	if tint.Block != "params" || tint.Offset != 0 {
		t.Errorf("tint = %+v, want block params offset 0", tint)
	}
	if tint.Shape != (value.Shape{Kind: value.KindFloat, Components: 4}) {
		t.Errorf("tint shape = %v, want float4", tint.Shape)
	}

	mvp, ok := dir.Find(Constant, "mvp")
	if !ok || mvp.Offset != 16 || mvp.Shape.Kind != value.KindMatrix {
		t.Errorf("mvp = %+v, %v", mvp, ok)
	}
	if _, ok := dir.Find(Sampler, "samp"); !ok {
		t.Error("samp not found")
	}
	if v, ok := dir.Find(Resource, "tex"); !ok || v.Binding != 2 {
		t.Errorf("tex = %+v, %v", v, ok)
	}
	if _, ok := dir.Find(Resource, "unusedTex"); ok {
		t.Error("unreferenced texture should be compiled out")
	}
	if _, ok := dir.Find(Uav, "results"); ok {
		t.Error("global of another entry point should not be listed")
	}
	if _, ok := dir.Find(Resource, "inputs"); ok {
		t.Error("global of another entry point should not be listed")
	}
}

func TestReflectHelperFunctionGlobals(t *testing.T) {
	m := lowerWGSL(t, reflectShader)
	dir := NewDirectory(reflectVariables(m, entryIndex(t, m, "fs_main")))
	if v, ok := dir.Find(Resource, "detailTex"); !ok || v.Binding != 3 {
		t.Errorf("detailTex = %+v, %v; a global used by a called helper should be live", v, ok)
	}

	// cs_main does not call detail.
	dir = NewDirectory(reflectVariables(m, entryIndex(t, m, "cs_main")))
	if _, ok := dir.Find(Resource, "detailTex"); ok {
		t.Error("helper global leaked into an entry point that never calls it")
	}
}

func TestReflectVariablesStorage(t *testing.T) {
	m := lowerWGSL(t, reflectShader)
	vars := reflectVariables(m, entryIndex(t, m, "cs_main"))
	dir := NewDirectory(vars)
	if len(vars) != 2 {
		t.Fatalf("vars = %+v, want inputs and results", vars)
	}
	if v, ok := dir.Find(Uav, "results"); !ok || v.Group != 1 || v.Binding != 1 {
		t.Errorf("results = %+v, %v, want read-write uav", v, ok)
	}
	if v, ok := dir.Find(Resource, "inputs"); !ok || v.Shape.Kind != value.KindBuffer {
		t.Errorf("inputs = %+v, %v, want read-only buffer resource", v, ok)
	}
	if _, ok := dir.Find(Sampler, "samp"); ok {
		t.Error("fragment-only sampler listed for cs_main")
	}
}

func TestFragmentOutputs(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{
			name:   "single location",
			source: "@fragment\nfn fs_main() -> @location(0) vec4<f32> {\n    return vec4<f32>(1.0);\n}\n",
			want:   1,
		},
		{
			name: "struct",
			source: `struct GBuffer {
    @location(0) albedo: vec4<f32>,
    @location(1) normal: vec4<f32>,
    @builtin(frag_depth) depth: f32,
}

@fragment
fn fs_main() -> GBuffer {
    var g: GBuffer;
    g.albedo = vec4<f32>(1.0);
    g.normal = vec4<f32>(0.0, 0.0, 1.0, 0.0);
    g.depth = 0.5;
    return g;
}
`,
			want: 2,
		},
		{
			name:   "no result",
			source: "@fragment\nfn fs_main() {\n}\n",
			want:   0,
		},
		{
			name:   "depth only",
			source: "@fragment\nfn fs_main() -> @builtin(frag_depth) f32 {\n    return 0.5;\n}\n",
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := lowerWGSL(t, tt.source)
			if got := fragmentOutputs(m, entryIndex(t, m, "fs_main")); got != tt.want {
				t.Errorf("fragmentOutputs = %d, want %d", got, tt.want)
			}
		})
	}

	if got := fragmentOutputs(&ir.Module{}, 0); got != -1 {
		t.Errorf("fragmentOutputs(missing entry) = %d, want -1", got)
	}
}

const quadShader = `
@group(0) @binding(0) var texSampler: sampler;
@group(0) @binding(1) var tex: texture_2d<f32>;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) vertexIndex: u32) -> VertexOutput {
    var positions = array<vec2<f32>, 6>(
        vec2<f32>(-1.0,  1.0),
        vec2<f32>(-1.0, -1.0),
        vec2<f32>( 1.0, -1.0),
        vec2<f32>(-1.0,  1.0),
        vec2<f32>( 1.0, -1.0),
        vec2<f32>( 1.0,  1.0)
    );

    var uvs = array<vec2<f32>, 6>(
        vec2<f32>(0.0, 0.0),
        vec2<f32>(0.0, 1.0),
        vec2<f32>(1.0, 1.0),
        vec2<f32>(0.0, 0.0),
        vec2<f32>(1.0, 1.0),
        vec2<f32>(1.0, 0.0)
    );

    var output: VertexOutput;
    output.position = vec4<f32>(positions[vertexIndex], 0.0, 1.0);
    output.uv = uvs[vertexIndex];
    return output;
}

@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(tex, texSampler, input.uv);
}
`
