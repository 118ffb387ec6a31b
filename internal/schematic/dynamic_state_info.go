package schematic

import vk "github.com/vulkan-go/vulkan"

// DynamicStateInfo lists the pipeline states deferred to command-buffer
// recording time (viewport/scissor, per §4.5's DefaultDynamicState).
type DynamicStateInfo struct {
	States []vk.DynamicState `json:"states"`
}

func (d DynamicStateInfo) ToVk() vk.PipelineDynamicStateCreateInfo {
	info := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(d.States)),
	}
	if len(d.States) > 0 {
		info.PDynamicStates = d.States
	}
	return info
}
