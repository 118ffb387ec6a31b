package schematic

import vk "github.com/vulkan-go/vulkan"

// InputAssemblyStateInfo holds graphics-only topology state, per §4.8.
// Grounded on original_source's InputAssemblyStateInfo
// (input_assembly_state_info.hpp); unlike the other nested state
// structs it has no conditional fields, so plain json tags suffice.
type InputAssemblyStateInfo struct {
	Topology               vk.PrimitiveTopology `json:"topology"`
	PrimitiveRestartEnable bool                 `json:"primitiveRestartEnable"`
}

// ToVk mirrors the original's constexpr ToVk().
func (i InputAssemblyStateInfo) ToVk() vk.PipelineInputAssemblyStateCreateInfo {
	return vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               i.Topology,
		PrimitiveRestartEnable: vkBool(i.PrimitiveRestartEnable),
	}
}
