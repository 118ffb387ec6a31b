package schematic

import vk "github.com/vulkan-go/vulkan"

// StencilOpStateInfo mirrors vk.StencilOpState verbatim; it has no
// conditional fields, matching original_source's StencilOpStateInfo
// (stencil_op_state_info.hpp).
type StencilOpStateInfo struct {
	FailOp      vk.StencilOp `json:"failOp"`
	PassOp      vk.StencilOp `json:"passOp"`
	DepthFailOp vk.StencilOp `json:"depthFailOp"`
	CompareOp   vk.CompareOp `json:"compareOp"`
	CompareMask uint32       `json:"compareMask"`
	WriteMask   uint32       `json:"writeMask"`
	Reference   uint32       `json:"reference"`
}

func (s StencilOpStateInfo) ToVk() vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      s.FailOp,
		PassOp:      s.PassOp,
		DepthFailOp: s.DepthFailOp,
		CompareOp:   s.CompareOp,
		CompareMask: s.CompareMask,
		WriteMask:   s.WriteMask,
		Reference:   s.Reference,
	}
}
