package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// DepthStencilStateInfo holds depth/stencil test state. Per §4.8 and
// original_source's DepthStencilStateInfo (depth_stencil_state_info.hpp):
// depth-write/compare-op/bounds-test/bounds are required iff
// DepthTestEnable; front/back stencil op states are required iff
// StencilTestEnable.
type DepthStencilStateInfo struct {
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        vk.CompareOp
	DepthBoundsTestEnable bool
	MinDepthBounds        float32
	MaxDepthBounds        float32
	StencilTestEnable     bool
	Front                 StencilOpStateInfo
	Back                  StencilOpStateInfo
}

type depthStencilWire struct {
	DepthTestEnable       bool                 `json:"depthTestEnable"`
	DepthWriteEnable      *bool                `json:"depthWriteEnable,omitempty"`
	DepthCompareOp        *vk.CompareOp        `json:"depthCompareOp,omitempty"`
	DepthBoundsTestEnable *bool                `json:"depthBoundsTestEnable,omitempty"`
	MinDepthBounds        *float32             `json:"minDepthBounds,omitempty"`
	MaxDepthBounds        *float32             `json:"maxDepthBounds,omitempty"`
	StencilTestEnable     bool                 `json:"stencilTestEnable"`
	Front                 *StencilOpStateInfo  `json:"front,omitempty"`
	Back                  *StencilOpStateInfo  `json:"back,omitempty"`
}

func (d DepthStencilStateInfo) MarshalJSON() ([]byte, error) {
	w := depthStencilWire{
		DepthTestEnable:   d.DepthTestEnable,
		StencilTestEnable: d.StencilTestEnable,
	}
	if d.DepthTestEnable {
		dw, op, bt := d.DepthWriteEnable, d.DepthCompareOp, d.DepthBoundsTestEnable
		minB, maxB := d.MinDepthBounds, d.MaxDepthBounds
		w.DepthWriteEnable = &dw
		w.DepthCompareOp = &op
		w.DepthBoundsTestEnable = &bt
		w.MinDepthBounds = &minB
		w.MaxDepthBounds = &maxB
	}
	if d.StencilTestEnable {
		front, back := d.Front, d.Back
		w.Front = &front
		w.Back = &back
	}
	return json.Marshal(w)
}

func (d *DepthStencilStateInfo) UnmarshalJSON(data []byte) error {
	var w depthStencilWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := DepthStencilStateInfo{
		DepthTestEnable:   w.DepthTestEnable,
		StencilTestEnable: w.StencilTestEnable,
	}
	if w.DepthTestEnable {
		if w.DepthWriteEnable == nil || w.DepthCompareOp == nil || w.DepthBoundsTestEnable == nil ||
			w.MinDepthBounds == nil || w.MaxDepthBounds == nil {
			return missingDependent("depthWriteEnable/depthCompareOp/depthBoundsTestEnable/minDepthBounds/maxDepthBounds")
		}
		out.DepthWriteEnable = *w.DepthWriteEnable
		out.DepthCompareOp = *w.DepthCompareOp
		out.DepthBoundsTestEnable = *w.DepthBoundsTestEnable
		out.MinDepthBounds = *w.MinDepthBounds
		out.MaxDepthBounds = *w.MaxDepthBounds
	}
	if w.StencilTestEnable {
		if w.Front == nil || w.Back == nil {
			return missingDependent("front/back")
		}
		out.Front = *w.Front
		out.Back = *w.Back
	}
	*d = out
	return nil
}

func (d DepthStencilStateInfo) ToVk() vk.PipelineDepthStencilStateCreateInfo {
	info := vk.PipelineDepthStencilStateCreateInfo{
		SType:             vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:   vkBool(d.DepthTestEnable),
		StencilTestEnable: vkBool(d.StencilTestEnable),
	}
	if d.DepthTestEnable {
		info.DepthWriteEnable = vkBool(d.DepthWriteEnable)
		info.DepthCompareOp = d.DepthCompareOp
		info.DepthBoundsTestEnable = vkBool(d.DepthBoundsTestEnable)
		info.MinDepthBounds = d.MinDepthBounds
		info.MaxDepthBounds = d.MaxDepthBounds
	}
	if d.StencilTestEnable {
		info.Front = d.Front.ToVk()
		info.Back = d.Back.ToVk()
	}
	return info
}
