package device

import (
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool wraps a vk.CommandPool created against one queue family,
// flagged transient and per-buffer resettable. Grounded on the
// teacher's pools.go CorePool, fixing its hardcoded 0x00000002 flag
// literal with the named vk.CommandPoolCreateResetCommandBufferBit.
type CommandPool struct {
	device vk.Device
	pool   vk.CommandPool
}

// NewCommandPool creates a command pool for familyIndex.
func NewCommandPool(dev vk.Device, familyIndex uint32) (*CommandPool, error) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dev, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit | vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: familyIndex,
	}, nil, &pool)
	if err := vkx.Result("CreateCommandPool", ret); err != nil {
		return nil, err
	}
	return &CommandPool{device: dev, pool: pool}, nil
}

// Handle returns the underlying vk.CommandPool.
func (p *CommandPool) Handle() vk.CommandPool { return p.pool }

// Allocate allocates count primary command buffers from the pool.
func (p *CommandPool) Allocate(count uint32) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(p.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}, buffers)
	if err := vkx.Result("AllocateCommandBuffers", ret); err != nil {
		return nil, err
	}
	return buffers, nil
}

// Reset resets the pool, invalidating every command buffer allocated
// from it.
func (p *CommandPool) Reset() error {
	return vkx.Result("ResetCommandPool", vk.ResetCommandPool(p.device, p.pool, 0))
}

// Destroy destroys the pool.
func (p *CommandPool) Destroy() {
	if p.pool != vk.NullCommandPool {
		vk.DestroyCommandPool(p.device, p.pool, nil)
		p.pool = vk.NullCommandPool
	}
}
