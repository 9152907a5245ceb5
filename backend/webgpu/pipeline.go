package webgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// Fixed multisample count of the WebGPU tier's render targets. Sample count
// is baked into pipeline state, so it is a tier constant rather than a
// per-frame knob; the adaptive config's quality knobs reach this tier
// through point scale, LOD stride, and filtering.
const sampleCount = 4

// vertexStride is bytes per vertex: x, y, size, pad (4 x float32).
const vertexStride = 16

// compileToSPIRV compiles WGSL source to a SPIR-V word slice.
// SPIR-V is little-endian 32-bit words.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// pipeline is a compiled WebGPU drawing program for one chart type.
type pipeline struct {
	chartType vizr.ChartType

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	render     hal.RenderPipeline

	dev      hal.Device
	compiled bool
}

func (p *pipeline) ChartType() vizr.ChartType { return p.chartType }
func (p *pipeline) Compiled() bool            { return p.compiled }

func (p *pipeline) Destroy() {
	if p.dev == nil {
		return
	}
	if p.render != nil {
		p.dev.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.pipeLayout != nil {
		p.dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.dev.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	p.compiled = false
}

// topology maps a chart type to its primitive topology. Quad expansion for
// bar/rect/area marks happens CPU-side during vertex packing, so everything
// except lines and points draws triangle lists.
func topology(t vizr.ChartType) gputypes.PrimitiveTopology {
	switch t {
	case vizr.ChartLine:
		return gputypes.PrimitiveTopologyLineStrip
	case vizr.ChartPoint, vizr.ChartScatter:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// CompilePipeline compiles the chart type's WGSL program to SPIR-V, binds
// the frame-uniform layout, and builds the render pipeline.
func (b *Backend) CompilePipeline(t vizr.ChartType) (backend.Pipeline, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}

	spirv, err := compileToSPIRV(shaderSource(t))
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", t, err)
	}

	p := &pipeline{chartType: t, dev: b.device}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  t.String() + "_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", t, err)
	}
	p.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: t.String() + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s bind group layout: %w", t, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            t.String() + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s pipeline layout: %w", t, err)
	}
	p.pipeLayout = pipeLayout

	// Shared vertex layout: float32x2 position + float32 size.
	vertexLayout := []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 1},
			},
		},
	}

	renderPipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  t.String() + "_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology(t),
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("%w: create %s pipeline: %w", backend.ErrPipelineCompile, t, err)
	}
	p.render = renderPipeline
	p.compiled = true

	vizr.Logger().Debug("webgpu pipeline compiled", "chartType", t.String())
	return p, nil
}
