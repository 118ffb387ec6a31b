// Package memory implements §4.3: the Allocator and the Buffer, Image,
// and Texture resource types it services. Grounded on the teacher's
// extensions.go (CreateBuffer, FindRequiredMemoryType) and buffers.go
// (CoreBuffer), widened with other_examples' goki/cogentcore
// vgpu-memory.go.go for the region-bookkeeping shape of a multi-buffer
// allocator, and gviegas-neo3's texture-staging files for the
// upload-protocol barrier shape.
package memory

import (
	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// Allocator services every Buffer, Image, and Texture allocation
// against one logical device, per §3's "single GPU memory allocator"
// entity.
type Allocator struct {
	device               vk.Device
	memProps             vk.PhysicalDeviceMemoryProperties
	bufferDeviceAddress  bool
}

// NewAllocator constructs the allocator. bufferDeviceAddress mirrors
// whether DeviceContext successfully enabled
// VK_KHR_buffer_device_address, per §3's "capable of buffer-device-
// address tracking."
func NewAllocator(dc *device.DeviceContext, bufferDeviceAddress bool) *Allocator {
	return &Allocator{
		device:              dc.Device(),
		memProps:            dc.MemoryProperties(),
		bufferDeviceAddress: bufferDeviceAddress,
	}
}

func roundUp(size, align int) int {
	if align <= 0 || size%align == 0 {
		return size
	}
	return (size/align + 1) * align
}

func (a *Allocator) allocateAndBindBuffer(buffer vk.Buffer, props vk.MemoryPropertyFlagBits, deviceAddress bool) (vk.DeviceMemory, error) {
	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(a.device, buffer, &req)
	req.Deref()

	typeIdx, ok := vkx.FindMemoryType(a.memProps, req.MemoryTypeBits, props)
	if !ok {
		typeIdx, ok = vkx.FindMemoryTypeFallback(a.memProps, req.MemoryTypeBits, props)
		if !ok {
			return nil, vkx.ErrUnmappableResource
		}
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIdx,
	}
	var flagsInfo vk.MemoryAllocateFlagsInfo
	if deviceAddress && a.bufferDeviceAddress {
		flagsInfo = vk.MemoryAllocateFlagsInfo{
			SType: vk.StructureTypeMemoryAllocateFlagsInfo,
			Flags: vk.MemoryAllocateFlags(vk.MemoryAllocateDeviceAddressBit),
		}
		allocInfo.PNext = &flagsInfo
	}

	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(a.device, &allocInfo, nil, &memory)
	if err := vkx.Result("AllocateMemory", ret); err != nil {
		return nil, err
	}
	if ret := vk.BindBufferMemory(a.device, buffer, memory, 0); vkx.IsError(ret) {
		vk.FreeMemory(a.device, memory, nil)
		return nil, vkx.Result("BindBufferMemory", ret)
	}
	return memory, nil
}

func (a *Allocator) allocateAndBindImage(image vk.Image, props vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(a.device, image, &req)
	req.Deref()

	typeIdx, ok := vkx.FindMemoryType(a.memProps, req.MemoryTypeBits, props)
	if !ok {
		return nil, vkx.ErrUnmappableResource
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(a.device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIdx,
	}, nil, &memory)
	if err := vkx.Result("AllocateMemory", ret); err != nil {
		return nil, err
	}
	if ret := vk.BindImageMemory(a.device, image, memory, 0); vkx.IsError(ret) {
		vk.FreeMemory(a.device, memory, nil)
		return nil, vkx.Result("BindImageMemory", ret)
	}
	return memory, nil
}
