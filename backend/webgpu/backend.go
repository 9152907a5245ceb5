package webgpu

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import the Vulkan backend so it registers with hal via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

func init() {
	backend.Register(backend.BackendWebGPU, func() backend.RenderBackend {
		return New()
	})
}

// defaultMemoryBudget is the assumed GPU memory budget when the adapter
// does not report one (256 MB, matching common integrated-GPU carve-outs).
const defaultMemoryBudget = 256 * 1024 * 1024

// Backend is the WebGPU execution context: instance, adapter, device, and
// queue, plus the lazily-sized render target textures.
//
// Backend is not safe for concurrent use; one rendering goroutine owns it.
type Backend struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName    string
	computeCapable bool
	memoryBudget   uint64
	externalDevice bool

	targets targetSet

	initialized bool
}

var _ backend.RenderBackend = (*Backend)(nil)

// New creates a new, uninitialized WebGPU backend. Compute capability is a
// tier fact, not a probe result: every hal device that opens exposes
// compute passes, so Profile reports it even before Init.
func New() *Backend {
	return &Backend{memoryBudget: defaultMemoryBudget, computeCapable: true}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendWebGPU }

// Init negotiates a GPU device: HAL backend lookup, instance creation,
// adapter enumeration (preferring discrete over integrated GPUs), and
// device open. Each step checks ctx so a caller-imposed deadline bounds the
// probe.
func (b *Backend) Init(ctx context.Context) error {
	if b.initialized {
		return nil
	}
	if b.externalDevice {
		// Shared device injected before Init; nothing to create.
		b.initialized = true
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return ErrNoHALBackend
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance

	if err := ctx.Err(); err != nil {
		b.closeInstance()
		return err
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		b.closeInstance()
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	if err := ctx.Err(); err != nil {
		b.closeInstance()
		return err
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		b.closeInstance()
		return fmt.Errorf("%w: %w", ErrDeviceOpen, err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	b.initialized = true

	vizr.Logger().Info("webgpu device opened",
		"adapter", b.adapterName,
		"budgetMB", b.memoryBudget/(1024*1024))
	return nil
}

// SetDeviceProvider switches the backend to a shared GPU device from a host
// application before Init. The provider must expose HAL handles via
// HalDevice() any and HalQueue() any (the gpucontext HalProvider shape).
func (b *Backend) SetDeviceProvider(provider backend.DeviceHandle) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrBadProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrBadProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrBadProvider)
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true
	vizr.Logger().Info("webgpu using shared device")
	return nil
}

// Close releases the device, instance, and render targets. Shared devices
// are not destroyed: the host owns them.
func (b *Backend) Close() {
	if b.device != nil {
		b.targets.destroy(b.device)
	}
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		b.closeInstance()
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	b.initialized = false
	b.externalDevice = false
}

func (b *Backend) closeInstance() {
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}

// Profile returns the WebGPU tier characteristics: the largest interactive
// point budgets of the three tiers, 60fps target, and compute availability
// as probed at device open.
func (b *Backend) Profile() backend.PerformanceProfile {
	return backend.PerformanceProfile{
		MaxPoints:        1_000_000,
		TargetFPS:        60,
		MemoryEfficiency: 0.9,
		ComputeShaders:   b.computeCapable,
	}
}

// SupportsBuffers reports true: WebGPU buffers back the pool.
func (b *Backend) SupportsBuffers() bool { return true }

// buffer wraps a hal.Buffer checked out through the pool.
type buffer struct {
	spec  backend.BufferSpec
	hal   hal.Buffer
	dev   hal.Device
	queue hal.Queue
}

func (buf *buffer) Spec() backend.BufferSpec { return buf.spec }

func (buf *buffer) Upload(data []byte) error {
	if buf.hal == nil {
		return fmt.Errorf("webgpu: upload to destroyed buffer %s", buf.spec)
	}
	if uint64(len(data)) > buf.spec.Size {
		data = data[:buf.spec.Size]
	}
	buf.queue.WriteBuffer(buf.hal, 0, data)
	return nil
}

func (buf *buffer) Destroy() {
	if buf.hal != nil {
		buf.dev.DestroyBuffer(buf.hal)
		buf.hal = nil
	}
}

// usageFlags maps pool usages to wgpu buffer usage flags. CopyDst is always
// set: every pooled buffer is written through the queue each checkout.
func usageFlags(u backend.BufferUsage) gputypes.BufferUsage {
	switch u {
	case backend.BufferUsageIndex:
		return gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst
	case backend.BufferUsageUniform:
		return gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	default:
		return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	}
}

// CreateBuffer allocates a device buffer for the given spec.
func (b *Backend) CreateBuffer(spec backend.BufferSpec) (backend.Buffer, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	halBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: spec.Label,
		Size:  spec.Size,
		Usage: usageFlags(spec.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", spec, err)
	}
	return &buffer{spec: spec, hal: halBuf, dev: b.device, queue: b.queue}, nil
}
