package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// gpuTimeout bounds the fence wait for one frame's submission.
const gpuTimeout = time.Second

// targetSet holds the lazily-sized render target textures: a multisampled
// color attachment and its single-sample resolve target.
type targetSet struct {
	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView

	width, height uint32
}

// ensure creates or recreates the targets when dimensions change.
func (ts *targetSet) ensure(device hal.Device, w, h uint32) error {
	if ts.width == w && ts.height == h && ts.msaaTex != nil {
		return nil
	}
	ts.destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "chart_msaa_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create MSAA color texture: %w", err)
	}
	ts.msaaTex = msaaTex

	msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label: "chart_msaa_color_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create MSAA color view: %w", err)
	}
	ts.msaaView = msaaView

	resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "chart_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create resolve texture: %w", err)
	}
	ts.resolveTex = resolveTex

	resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label: "chart_resolve_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create resolve view: %w", err)
	}
	ts.resolveView = resolveView

	ts.width = w
	ts.height = h
	return nil
}

func (ts *targetSet) destroy(device hal.Device) {
	if ts.msaaView != nil {
		device.DestroyTextureView(ts.msaaView)
		ts.msaaView = nil
	}
	if ts.msaaTex != nil {
		device.DestroyTexture(ts.msaaTex)
		ts.msaaTex = nil
	}
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	ts.width, ts.height = 0, 0
}

// packVertices serializes the chart data into the shared vertex layout,
// striding over data according to the LOD bias.
func packVertices(spec *vizr.ChartSpec, cfg backend.RenderConfig) ([]byte, int) {
	step := 1 + int(cfg.LODBias)
	count := 0
	out := make([]byte, 0, (len(spec.Data)/step+1)*vertexStride)
	var scratch [vertexStride]byte
	for i := 0; i < len(spec.Data); i += step {
		d := spec.Data[i]
		size := d.Size
		if size == 0 {
			size = 1
		}
		binary.LittleEndian.PutUint32(scratch[0:], math.Float32bits(float32(d.X)))
		binary.LittleEndian.PutUint32(scratch[4:], math.Float32bits(float32(d.Y)))
		binary.LittleEndian.PutUint32(scratch[8:], math.Float32bits(float32(size)))
		binary.LittleEndian.PutUint32(scratch[12:], 0)
		out = append(out, scratch[:]...)
		count++
	}
	return out, count
}

// packIndices serializes a sequential index stream for count vertices.
func packIndices(count int) []byte {
	out := make([]byte, count*4)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(i)) //nolint:gosec // vertex counts fit uint32
	}
	return out
}

// packUniforms serializes the frame uniforms: viewport, point scale, LOD bias.
func packUniforms(w, h uint32, cfg backend.RenderConfig) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint32(out[0:], math.Float32bits(float32(w)))
	binary.LittleEndian.PutUint32(out[4:], math.Float32bits(float32(h)))
	binary.LittleEndian.PutUint32(out[8:], math.Float32bits(float32(cfg.PointScale)))
	binary.LittleEndian.PutUint32(out[12:], math.Float32bits(float32(cfg.LODBias)))
	return out
}

// surfaceSize converts spec dimensions to render target extents. Zero and
// negative dimensions fall back to the default surface before the unsigned
// conversion, so a negative width never wraps to a huge extent.
func surfaceSize(w, h int) (uint32, uint32) {
	if w <= 0 || h <= 0 {
		return 640, 480
	}
	return uint32(w), uint32(h) //nolint:gosec // positive dims fit uint32
}

// triangleEstimate reports the triangle-equivalent geometry of a draw so
// stats stay comparable across tiers (points and line segments count as
// their two-triangle quad expansion).
func triangleEstimate(t vizr.ChartType, vertices int) int {
	switch t {
	case vizr.ChartLine:
		if vertices < 2 {
			return 0
		}
		return (vertices - 1) * 2
	default:
		return vertices * 2
	}
}

// Draw uploads the frame's vertex/index/uniform streams, encodes one render
// pass through the chart type's pipeline, submits it, and waits on the
// frame fence.
func (b *Backend) Draw(in backend.DrawInput) (backend.DrawInfo, error) {
	if !b.initialized {
		return backend.DrawInfo{}, backend.ErrNotInitialized
	}
	if in.Spec == nil || in.Pipeline == nil {
		return backend.DrawInfo{}, fmt.Errorf("webgpu: nil spec or pipeline")
	}
	p, ok := in.Pipeline.(*pipeline)
	if !ok || !p.compiled {
		return backend.DrawInfo{}, fmt.Errorf("%w: %s", backend.ErrPipelineCompile, in.Pipeline.ChartType())
	}
	vbuf, vok := in.Vertex.(*buffer)
	ibuf, iok := in.Index.(*buffer)
	ubuf, uok := in.Uniform.(*buffer)
	if !vok || !iok || !uok {
		return backend.DrawInfo{}, fmt.Errorf("webgpu: draw requires webgpu pool buffers")
	}

	w, h := surfaceSize(in.Spec.Width, in.Spec.Height)
	if err := b.targets.ensure(b.device, w, h); err != nil {
		return backend.DrawInfo{}, err
	}

	vertexData, count := packVertices(in.Spec, in.Config)
	if count == 0 {
		return backend.DrawInfo{}, nil
	}
	if err := vbuf.Upload(vertexData); err != nil {
		return backend.DrawInfo{}, err
	}
	// The pass below draws non-indexed; the index stream is still kept
	// current so the pooled checkout stays uniform with the WebGL2 tier,
	// which binds it for drawElements.
	if err := ibuf.Upload(packIndices(count)); err != nil {
		return backend.DrawInfo{}, err
	}
	if err := ubuf.Upload(packUniforms(w, h, in.Config)); err != nil {
		return backend.DrawInfo{}, err
	}

	bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "chart_frame_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding:  0,
				Resource: gputypes.BufferBinding{Buffer: ubuf.hal.NativeHandle(), Offset: 0, Size: ubuf.spec.Size},
			},
		},
	})
	if err != nil {
		return backend.DrawInfo{}, fmt.Errorf("create bind group: %w", err)
	}
	defer b.device.DestroyBindGroup(bindGroup)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "chart_frame_encoder",
	})
	if err != nil {
		return backend.DrawInfo{}, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("chart_frame"); err != nil {
		return backend.DrawInfo{}, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "chart_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          b.targets.msaaView,
			ResolveTarget: b.targets.resolveView,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(p.render)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, vbuf.hal, 0)
	rp.Draw(uint32(count), 1, 0, 0) //nolint:gosec // vertex counts fit uint32
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return backend.DrawInfo{}, fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return backend.DrawInfo{}, fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return backend.DrawInfo{}, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return backend.DrawInfo{}, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	return backend.DrawInfo{
		Triangles: triangleEstimate(p.chartType, count),
		DrawCalls: 1,
	}, nil
}
