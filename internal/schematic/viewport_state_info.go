package schematic

import vk "github.com/vulkan-go/vulkan"

// ViewportStateInfo holds viewport/scissor counts; the concrete
// rectangles are set dynamically per-frame, per §4.8.
type ViewportStateInfo struct {
	ViewportCount uint32 `json:"viewportCount"`
	ScissorCount  uint32 `json:"scissorCount"`
}

func (v ViewportStateInfo) ToVk() vk.PipelineViewportStateCreateInfo {
	return vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: v.ViewportCount,
		ScissorCount:  v.ScissorCount,
	}
}
