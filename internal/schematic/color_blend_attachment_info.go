package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// ColorBlendAttachmentInfo holds one color-attachment's blend state,
// per §4.8: blend factors/ops are written and required iff blending is
// enabled. The 4-bit color-write mask is written for every attachment
// and applied whether or not blending is enabled; it is required on
// input only when blending is enabled.
type ColorBlendAttachmentInfo struct {
	BlendEnable        bool
	SrcColorBlendFactor vk.BlendFactor
	DstColorBlendFactor vk.BlendFactor
	ColorBlendOp        vk.BlendOp
	SrcAlphaBlendFactor vk.BlendFactor
	DstAlphaBlendFactor vk.BlendFactor
	AlphaBlendOp        vk.BlendOp
	ColorWriteMask      vk.ColorComponentFlags // low 4 bits: R,G,B,A
}

type colorBlendAttachmentWire struct {
	BlendEnable         bool                    `json:"blendEnable"`
	SrcColorBlendFactor *vk.BlendFactor         `json:"srcColorBlendFactor,omitempty"`
	DstColorBlendFactor *vk.BlendFactor         `json:"dstColorBlendFactor,omitempty"`
	ColorBlendOp        *vk.BlendOp             `json:"colorBlendOp,omitempty"`
	SrcAlphaBlendFactor *vk.BlendFactor         `json:"srcAlphaBlendFactor,omitempty"`
	DstAlphaBlendFactor *vk.BlendFactor         `json:"dstAlphaBlendFactor,omitempty"`
	AlphaBlendOp        *vk.BlendOp             `json:"alphaBlendOp,omitempty"`
	ColorWriteMask      *vk.ColorComponentFlags `json:"colorWriteMask,omitempty"`
}

func (c ColorBlendAttachmentInfo) MarshalJSON() ([]byte, error) {
	mask := c.ColorWriteMask
	w := colorBlendAttachmentWire{BlendEnable: c.BlendEnable, ColorWriteMask: &mask}
	if c.BlendEnable {
		src, dst, op := c.SrcColorBlendFactor, c.DstColorBlendFactor, c.ColorBlendOp
		srcA, dstA, opA := c.SrcAlphaBlendFactor, c.DstAlphaBlendFactor, c.AlphaBlendOp
		w.SrcColorBlendFactor, w.DstColorBlendFactor, w.ColorBlendOp = &src, &dst, &op
		w.SrcAlphaBlendFactor, w.DstAlphaBlendFactor, w.AlphaBlendOp = &srcA, &dstA, &opA
	}
	return json.Marshal(w)
}

func (c *ColorBlendAttachmentInfo) UnmarshalJSON(data []byte) error {
	var w colorBlendAttachmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := ColorBlendAttachmentInfo{BlendEnable: w.BlendEnable}
	if w.ColorWriteMask != nil {
		out.ColorWriteMask = *w.ColorWriteMask
	}
	if w.BlendEnable {
		if w.SrcColorBlendFactor == nil || w.DstColorBlendFactor == nil || w.ColorBlendOp == nil ||
			w.SrcAlphaBlendFactor == nil || w.DstAlphaBlendFactor == nil || w.AlphaBlendOp == nil || w.ColorWriteMask == nil {
			return missingDependent("blend factors/ops/colorWriteMask")
		}
		out.SrcColorBlendFactor = *w.SrcColorBlendFactor
		out.DstColorBlendFactor = *w.DstColorBlendFactor
		out.ColorBlendOp = *w.ColorBlendOp
		out.SrcAlphaBlendFactor = *w.SrcAlphaBlendFactor
		out.DstAlphaBlendFactor = *w.DstAlphaBlendFactor
		out.AlphaBlendOp = *w.AlphaBlendOp
	}
	*c = out
	return nil
}

func (c ColorBlendAttachmentInfo) ToVk() vk.PipelineColorBlendAttachmentState {
	state := vk.PipelineColorBlendAttachmentState{BlendEnable: vkBool(c.BlendEnable), ColorWriteMask: c.ColorWriteMask}
	if c.BlendEnable {
		state.SrcColorBlendFactor = c.SrcColorBlendFactor
		state.DstColorBlendFactor = c.DstColorBlendFactor
		state.ColorBlendOp = c.ColorBlendOp
		state.SrcAlphaBlendFactor = c.SrcAlphaBlendFactor
		state.DstAlphaBlendFactor = c.DstAlphaBlendFactor
		state.AlphaBlendOp = c.AlphaBlendOp
	}
	return state
}
