//go:build js && wasm

package webgl

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"syscall/js"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

func init() {
	backend.Register(backend.BackendWebGL2, func() backend.RenderBackend {
		return New()
	})
}

// vertexStride is bytes per vertex: x, y, size (3 x float32).
const vertexStride = 12

// Backend is the WebGL2 execution context. It owns an offscreen canvas
// element and the GL objects created from it.
//
// Backend is not safe for concurrent use; one rendering goroutine owns it.
type Backend struct {
	gl         js.Value
	canvas     js.Value
	extensions []string

	initialized bool
}

var _ backend.RenderBackend = (*Backend)(nil)

// New creates a new, uninitialized WebGL2 backend.
func New() *Backend {
	return &Backend{gl: js.Undefined()}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendWebGL2 }

// Init asks the host document for a WebGL2 context on an offscreen canvas
// and enumerates the supported extensions.
func (b *Backend) Init(ctx context.Context) error {
	if b.initialized {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return fmt.Errorf("%w: no document", ErrNoContext)
	}
	canvas := doc.Call("createElement", "canvas")
	gl := canvas.Call("getContext", "webgl2")
	if gl.IsNull() || gl.IsUndefined() {
		return ErrNoContext
	}
	b.canvas = canvas
	b.gl = gl

	exts := gl.Call("getSupportedExtensions")
	if !exts.IsNull() && !exts.IsUndefined() {
		n := exts.Length()
		b.extensions = make([]string, 0, n)
		for i := 0; i < n; i++ {
			b.extensions = append(b.extensions, exts.Index(i).String())
		}
	}
	b.initialized = true

	vizr.Logger().Info("webgl2 context acquired", "extensions", len(b.extensions))
	return nil
}

// Close drops the context references. The host garbage-collects GL objects
// once the context is unreachable.
func (b *Backend) Close() {
	b.gl = js.Undefined()
	b.canvas = js.Undefined()
	b.extensions = nil
	b.initialized = false
}

// Extensions returns the extension names the context reported.
func (b *Backend) Extensions() []string { return b.extensions }

// Profile returns the WebGL2 tier characteristics.
func (b *Backend) Profile() backend.PerformanceProfile {
	return TierProfile()
}

// SupportsBuffers reports true: GL buffer objects back the pool.
func (b *Backend) SupportsBuffers() bool { return true }

// glTarget maps a pool usage to its GL binding target.
func (b *Backend) glTarget(u backend.BufferUsage) js.Value {
	switch u {
	case backend.BufferUsageIndex:
		return b.gl.Get("ELEMENT_ARRAY_BUFFER")
	case backend.BufferUsageUniform:
		return b.gl.Get("UNIFORM_BUFFER")
	default:
		return b.gl.Get("ARRAY_BUFFER")
	}
}

// buffer wraps a GL buffer object checked out through the pool.
type buffer struct {
	spec    backend.BufferSpec
	handle  js.Value
	backend *Backend
}

func (buf *buffer) Spec() backend.BufferSpec { return buf.spec }

func (buf *buffer) Upload(data []byte) error {
	if buf.handle.IsUndefined() {
		return fmt.Errorf("webgl: upload to destroyed buffer %s", buf.spec)
	}
	if uint64(len(data)) > buf.spec.Size {
		data = data[:buf.spec.Size]
	}
	gl := buf.backend.gl
	target := buf.backend.glTarget(buf.spec.Usage)
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	gl.Call("bindBuffer", target, buf.handle)
	gl.Call("bufferData", target, arr, gl.Get("DYNAMIC_DRAW"))
	return nil
}

func (buf *buffer) Destroy() {
	if !buf.handle.IsUndefined() {
		buf.backend.gl.Call("deleteBuffer", buf.handle)
		buf.handle = js.Undefined()
	}
}

// CreateBuffer allocates a GL buffer object for the given spec.
func (b *Backend) CreateBuffer(spec backend.BufferSpec) (backend.Buffer, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	handle := b.gl.Call("createBuffer")
	if handle.IsNull() {
		return nil, fmt.Errorf("webgl: createBuffer failed for %s", spec)
	}
	return &buffer{spec: spec, handle: handle, backend: b}, nil
}

// Chart shaders, GLSL ES 3.00. Point size honors the adaptive point scale.
const vertexShaderSrc = `#version 300 es
layout(location = 0) in vec2 pos;
layout(location = 1) in float size;
uniform vec2 viewport;
uniform float pointScale;
void main() {
    gl_Position = vec4(pos * 2.0 - vec2(1.0, 1.0), 0.0, 1.0);
    gl_PointSize = max(size * pointScale, 1.0);
}
`

const fragmentShaderSrc = `#version 300 es
precision mediump float;
out vec4 color;
void main() {
    color = vec4(0.26, 0.52, 0.96, 1.0);
}
`

// pipeline is a linked GL program for one chart type.
type pipeline struct {
	chartType vizr.ChartType
	program   js.Value
	mode      js.Value // gl draw mode (POINTS, LINE_STRIP, TRIANGLES)
	backend   *Backend
	compiled  bool
}

func (p *pipeline) ChartType() vizr.ChartType { return p.chartType }
func (p *pipeline) Compiled() bool            { return p.compiled }

func (p *pipeline) Destroy() {
	if !p.program.IsUndefined() {
		p.backend.gl.Call("deleteProgram", p.program)
		p.program = js.Undefined()
	}
	p.compiled = false
}

// compileShader compiles one GLSL stage.
func (b *Backend) compileShader(kind js.Value, src string) (js.Value, error) {
	gl := b.gl
	shader := gl.Call("createShader", kind)
	gl.Call("shaderSource", shader, src)
	gl.Call("compileShader", shader)
	if !gl.Call("getShaderParameter", shader, gl.Get("COMPILE_STATUS")).Bool() {
		log := gl.Call("getShaderInfoLog", shader).String()
		gl.Call("deleteShader", shader)
		return js.Undefined(), fmt.Errorf("%w: %s", ErrShaderCompile, log)
	}
	return shader, nil
}

// CompilePipeline compiles and links the GL program for a chart type.
func (b *Backend) CompilePipeline(t vizr.ChartType) (backend.Pipeline, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	gl := b.gl

	vs, err := b.compileShader(gl.Get("VERTEX_SHADER"), vertexShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("%s vertex: %w", t, err)
	}
	defer gl.Call("deleteShader", vs)
	fs, err := b.compileShader(gl.Get("FRAGMENT_SHADER"), fragmentShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("%s fragment: %w", t, err)
	}
	defer gl.Call("deleteShader", fs)

	program := gl.Call("createProgram")
	gl.Call("attachShader", program, vs)
	gl.Call("attachShader", program, fs)
	gl.Call("linkProgram", program)
	if !gl.Call("getProgramParameter", program, gl.Get("LINK_STATUS")).Bool() {
		log := gl.Call("getProgramInfoLog", program).String()
		gl.Call("deleteProgram", program)
		return nil, fmt.Errorf("%w: %s link: %s", backend.ErrPipelineCompile, t, log)
	}

	mode := gl.Get("TRIANGLES")
	switch t {
	case vizr.ChartPoint, vizr.ChartScatter:
		mode = gl.Get("POINTS")
	case vizr.ChartLine:
		mode = gl.Get("LINE_STRIP")
	}

	vizr.Logger().Debug("webgl pipeline linked", "chartType", t.String())
	return &pipeline{chartType: t, program: program, mode: mode, backend: b, compiled: true}, nil
}

// Draw uploads the frame streams and issues one drawElements call.
func (b *Backend) Draw(in backend.DrawInput) (backend.DrawInfo, error) {
	if !b.initialized {
		return backend.DrawInfo{}, backend.ErrNotInitialized
	}
	if in.Spec == nil || in.Pipeline == nil {
		return backend.DrawInfo{}, fmt.Errorf("webgl: nil spec or pipeline")
	}
	p, ok := in.Pipeline.(*pipeline)
	if !ok || !p.compiled {
		return backend.DrawInfo{}, fmt.Errorf("%w: %s", backend.ErrPipelineCompile, in.Pipeline.ChartType())
	}
	vbuf, vok := in.Vertex.(*buffer)
	ibuf, iok := in.Index.(*buffer)
	if !vok || !iok {
		return backend.DrawInfo{}, fmt.Errorf("webgl: draw requires webgl pool buffers")
	}

	w, h := in.Spec.Width, in.Spec.Height
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	b.canvas.Set("width", w)
	b.canvas.Set("height", h)

	vertexData, count := packVertices(in.Spec, in.Config)
	if count == 0 {
		return backend.DrawInfo{}, nil
	}
	if err := vbuf.Upload(vertexData); err != nil {
		return backend.DrawInfo{}, err
	}
	if err := ibuf.Upload(packIndices(count)); err != nil {
		return backend.DrawInfo{}, err
	}

	gl := b.gl
	gl.Call("viewport", 0, 0, w, h)
	gl.Call("clearColor", 0, 0, 0, 0)
	gl.Call("clear", gl.Get("COLOR_BUFFER_BIT"))
	gl.Call("useProgram", p.program)

	if in.Config.Antialias {
		gl.Call("enable", gl.Get("BLEND"))
		gl.Call("blendFunc", gl.Get("SRC_ALPHA"), gl.Get("ONE_MINUS_SRC_ALPHA"))
	} else {
		gl.Call("disable", gl.Get("BLEND"))
	}

	vpLoc := gl.Call("getUniformLocation", p.program, "viewport")
	gl.Call("uniform2f", vpLoc, w, h)
	psLoc := gl.Call("getUniformLocation", p.program, "pointScale")
	gl.Call("uniform1f", psLoc, in.Config.PointScale)

	gl.Call("bindBuffer", gl.Get("ARRAY_BUFFER"), vbuf.handle)
	gl.Call("enableVertexAttribArray", 0)
	gl.Call("vertexAttribPointer", 0, 2, gl.Get("FLOAT"), false, vertexStride, 0)
	gl.Call("enableVertexAttribArray", 1)
	gl.Call("vertexAttribPointer", 1, 1, gl.Get("FLOAT"), false, vertexStride, 8)

	gl.Call("bindBuffer", gl.Get("ELEMENT_ARRAY_BUFFER"), ibuf.handle)
	gl.Call("drawElements", p.mode, count, gl.Get("UNSIGNED_INT"), 0)

	triangles := count * 2
	if p.chartType == vizr.ChartLine && count > 0 {
		triangles = (count - 1) * 2
	}
	return backend.DrawInfo{Triangles: triangles, DrawCalls: 1}, nil
}

// packVertices serializes chart data into the GL vertex layout, striding
// by the LOD bias.
func packVertices(spec *vizr.ChartSpec, cfg backend.RenderConfig) ([]byte, int) {
	step := 1 + int(cfg.LODBias)
	out := make([]byte, 0, (len(spec.Data)/step+1)*vertexStride)
	count := 0
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
		out = append(out, scratch[:]...)
		count++
	}
	return out, count
}

// packIndices serializes a sequential uint32 index stream.
func packIndices(count int) []byte {
	out := make([]byte, count*4)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(i))
	}
	return out
}
