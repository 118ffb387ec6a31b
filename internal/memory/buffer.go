package memory

import (
	"unsafe"

	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// WholeSize, passed as Write/Flush/Invalidate's size argument, means
// "the buffer's full effective size," per §4.3.
const WholeSize = -1

// Buffer is a typed GPU-memory resource sized as
// alignment*instanceCount, where alignment is instanceSize rounded up
// to minOffsetAlignment. Grounded on the teacher's buffers.go
// CoreBuffer, generalized from "always a uniform buffer" to arbitrary
// usage flags per §4.3.
type Buffer struct {
	allocator *Allocator

	handle vk.Buffer
	memory vk.DeviceMemory

	instanceSize  int
	instanceCount int
	alignment     int
	usage         vk.BufferUsageFlagBits

	mapped        unsafe.Pointer
	hasDeviceAddr bool
	deviceAddr    vk.DeviceAddress

	descriptor vk.DescriptorBufferInfo
}

// NewBuffer allocates a buffer sized for instanceCount instances of
// instanceSize bytes each, with effective per-instance alignment
// rounded up to minAlignment. memProps selects the backing memory type
// (e.g. host-visible+coherent for a staging buffer, device-local for a
// GPU-only buffer).
func (a *Allocator) NewBuffer(instanceSize, instanceCount int, minAlignment vk.DeviceSize, usage vk.BufferUsageFlagBits, memProps vk.MemoryPropertyFlagBits) (*Buffer, error) {
	alignment := roundUp(instanceSize, int(minAlignment))
	total := alignment * instanceCount

	var handle vk.Buffer
	ret := vk.CreateBuffer(a.device, &vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Size:  vk.DeviceSize(total),
		Usage: vk.BufferUsageFlags(usage),
	}, nil, &handle)
	if err := vkx.Result("CreateBuffer", ret); err != nil {
		return nil, err
	}

	wantsDeviceAddr := usage&vk.BufferUsageFlagBits(vk.BufferUsageShaderDeviceAddressBit) != 0
	memory, err := a.allocateAndBindBuffer(handle, memProps, wantsDeviceAddr)
	if err != nil {
		vk.DestroyBuffer(a.device, handle, nil)
		return nil, err
	}

	b := &Buffer{
		allocator:     a,
		handle:        handle,
		memory:        memory,
		instanceSize:  instanceSize,
		instanceCount: instanceCount,
		alignment:     alignment,
		usage:         usage,
	}
	if wantsDeviceAddr && a.bufferDeviceAddress {
		addr := vk.GetBufferDeviceAddress(a.device, &vk.BufferDeviceAddressInfo{
			SType:  vk.StructureTypeBufferDeviceAddressInfo,
			Buffer: handle,
		})
		b.hasDeviceAddr = true
		b.deviceAddr = addr
	}
	b.descriptor = vk.DescriptorBufferInfo{
		Buffer: handle,
		Offset: 0,
		Range:  vk.DeviceSize(total),
	}
	return b, nil
}

// Handle returns the underlying vk.Buffer.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Size returns the buffer's total effective size in bytes.
func (b *Buffer) Size() int { return b.alignment * b.instanceCount }

// Alignment returns the per-instance effective alignment.
func (b *Buffer) Alignment() int { return b.alignment }

// DeviceAddress returns the cached device address and whether one was
// retrieved at creation (only true when usage included
// shader-device-address and the feature was enabled).
func (b *Buffer) DeviceAddress() (vk.DeviceAddress, bool) { return b.deviceAddr, b.hasDeviceAddr }

// DescriptorInfo returns the descriptor-buffer-info computed once at
// creation, per §4.3.
func (b *Buffer) DescriptorInfo() vk.DescriptorBufferInfo { return b.descriptor }

// Map maps the buffer's full memory range and returns the mapped
// pointer. Mapping an already-mapped buffer is idempotent: it returns
// the existing pointer without remapping or panicking, per the
// resolved double-map open question (SPEC_FULL.md §9).
func (b *Buffer) Map() (unsafe.Pointer, error) {
	if b.mapped != nil {
		return b.mapped, nil
	}
	var ptr unsafe.Pointer
	ret := vk.MapMemory(b.allocator.device, b.memory, 0, vk.DeviceSize(b.Size()), 0, &ptr)
	if err := vkx.Result("MapMemory", ret); err != nil {
		return nil, err
	}
	b.mapped = ptr
	return ptr, nil
}

// Unmap is an idempotent no-op when the buffer is not currently mapped.
func (b *Buffer) Unmap() {
	if b.mapped == nil {
		return
	}
	vk.UnmapMemory(b.allocator.device, b.memory)
	b.mapped = nil
}

// Write copies src into the buffer at offset, mapping it first if
// necessary and unmapping afterward only if it was not already mapped.
// size == WholeSize copies the buffer's full effective size; the
// testable invariant is that the copy length then equals b.Size().
func (b *Buffer) Write(src []byte, size, offset int) error {
	wasMapped := b.mapped != nil
	ptr, err := b.Map()
	if err != nil {
		return err
	}
	if size == WholeSize {
		size = b.Size()
	}
	n := size
	if n > len(src) {
		n = len(src)
	}
	dst := unsafe.Slice((*byte)(unsafe.Add(ptr, offset)), n)
	copy(dst, src[:n])
	if !wasMapped {
		b.Unmap()
	}
	return nil
}

// Flush makes host writes visible to the device for a non-coherent
// memory type.
func (b *Buffer) Flush(size vk.DeviceSize, offset vk.DeviceSize) error {
	if size == 0 {
		size = vk.DeviceSize(b.Size())
	}
	ret := vk.FlushMappedMemoryRanges(b.allocator.device, 1, []vk.MappedMemoryRange{{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: b.memory,
		Offset: offset,
		Size:   size,
	}})
	return vkx.Result("FlushMappedMemoryRanges", ret)
}

// Invalidate makes device writes visible to subsequent host reads for
// a non-coherent memory type.
func (b *Buffer) Invalidate(size vk.DeviceSize, offset vk.DeviceSize) error {
	if size == 0 {
		size = vk.DeviceSize(b.Size())
	}
	ret := vk.InvalidateMappedMemoryRanges(b.allocator.device, 1, []vk.MappedMemoryRange{{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: b.memory,
		Offset: offset,
		Size:   size,
	}})
	return vkx.Result("InvalidateMappedMemoryRanges", ret)
}

// Destroy unmaps (if mapped), frees the backing memory, and destroys
// the buffer handle.
func (b *Buffer) Destroy() {
	b.Unmap()
	if b.memory != nil {
		vk.FreeMemory(b.allocator.device, b.memory, nil)
		b.memory = nil
	}
	if b.handle != vk.NullBuffer {
		vk.DestroyBuffer(b.allocator.device, b.handle, nil)
		b.handle = vk.NullBuffer
	}
}
