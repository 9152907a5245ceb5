package webgpu

import "github.com/vizgo/vizr"

// Shader sources are opaque resources to the rendering core: one WGSL
// program per chart type, all sharing the same vertex layout (position +
// size at location 0/1) and frame uniforms (viewport, point scale, LOD
// bias). Shader authoring lives outside this module; these sources are the
// minimal programs the pipelines bind.

const shaderCommon = `
struct FrameUniforms {
    viewport: vec2<f32>,
    point_scale: f32,
    lod_bias: f32,
};
@group(0) @binding(0) var<uniform> frame: FrameUniforms;

struct VertexIn {
    @location(0) pos: vec2<f32>,
    @location(1) size: f32,
};

struct VertexOut {
    @builtin(position) pos: vec4<f32>,
};
`

const markShader = shaderCommon + `
@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.pos = vec4<f32>(in.pos * 2.0 - vec2<f32>(1.0, 1.0), 0.0, 1.0);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(0.26, 0.52, 0.96, 1.0);
}
`

const pointShader = shaderCommon + `
@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    let scaled = in.pos + vec2<f32>(in.size * frame.point_scale, 0.0) / frame.viewport;
    out.pos = vec4<f32>(scaled * 2.0 - vec2<f32>(1.0, 1.0), 0.0, 1.0);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(0.26, 0.52, 0.96, 1.0);
}
`

// shaderSource returns the WGSL program for a chart type.
func shaderSource(t vizr.ChartType) string {
	switch t {
	case vizr.ChartPoint, vizr.ChartScatter:
		return pointShader
	default:
		return markShader
	}
}
