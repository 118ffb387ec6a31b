// Package pipeline implements §4.5: PipelineLayout and the
// graphics/compute/meshlet Pipeline kinds, baked against dynamic-
// rendering attachment info rather than a render pass. Grounded on the
// teacher's pipeline.go (PipelineBuilder/BuildPipeline) and shader.go
// (LoadShaderModule), generalized per SPEC_FULL.md §4.5.
package pipeline

import (
	"sync/atomic"

	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// Layout bundles a set of descriptor-set-layout handles and an
// optional single push-constant range. It is reference-counted
// because multiple pipelines commonly share one layout, per §3.
type Layout struct {
	device vk.Device
	handle vk.PipelineLayout
	sets   []vk.DescriptorSetLayout
	refs   int32
}

// NewLayout creates a pipeline layout from setLayouts and an optional
// push-constant range (pass nil for none). The returned Layout starts
// with a reference count of 1.
func NewLayout(device vk.Device, setLayouts []vk.DescriptorSetLayout, pushConstant *vk.PushConstantRange) (*Layout, error) {
	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	}
	if pushConstant != nil {
		info.PushConstantRangeCount = 1
		info.PPushConstantRanges = []vk.PushConstantRange{*pushConstant}
	}

	var handle vk.PipelineLayout
	ret := vk.CreatePipelineLayout(device, &info, nil, &handle)
	if err := vkx.Result("CreatePipelineLayout", ret); err != nil {
		return nil, err
	}
	return &Layout{device: device, handle: handle, sets: setLayouts, refs: 1}, nil
}

// Handle returns the underlying vk.PipelineLayout.
func (l *Layout) Handle() vk.PipelineLayout { return l.handle }

// Retain increments the reference count and returns l. The pipeline
// constructors call it for every Pipeline they build, and
// Pipeline.Destroy releases that reference; the reference returned by
// NewLayout stays with its caller.
func (l *Layout) Retain() *Layout {
	atomic.AddInt32(&l.refs, 1)
	return l
}

// Release decrements the reference count, destroying the underlying
// handle once it reaches zero, per §3's "lives until the last pipeline
// referencing it drops."
func (l *Layout) Release() {
	if atomic.AddInt32(&l.refs, -1) == 0 {
		vk.DestroyPipelineLayout(l.device, l.handle, nil)
		l.handle = vk.NullPipelineLayout
	}
}
