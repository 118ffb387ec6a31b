package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// ColorBlendStateInfo holds the per-pipeline blend state: the logic-op
// (required iff enabled), one attachment entry per color target, and
// the blend constants. Grounded on original_source's
// ColorBlendStateInfo (color_blend_state_info.hpp).
type ColorBlendStateInfo struct {
	LogicOpEnable   bool
	LogicOp         vk.LogicOp // meaningful only when LogicOpEnable
	Attachments     []ColorBlendAttachmentInfo
	BlendConstants  [4]float32
}

type colorBlendStateWire struct {
	LogicOpEnable  bool                       `json:"logicOpEnable"`
	LogicOp        *vk.LogicOp                `json:"logicOp,omitempty"`
	Attachments    []ColorBlendAttachmentInfo `json:"attachments"`
	BlendConstants [4]float32                 `json:"blendConstants"`
}

func (c ColorBlendStateInfo) MarshalJSON() ([]byte, error) {
	w := colorBlendStateWire{
		LogicOpEnable:  c.LogicOpEnable,
		Attachments:    c.Attachments,
		BlendConstants: c.BlendConstants,
	}
	if c.LogicOpEnable {
		op := c.LogicOp
		w.LogicOp = &op
	}
	return json.Marshal(w)
}

func (c *ColorBlendStateInfo) UnmarshalJSON(data []byte) error {
	var w colorBlendStateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := ColorBlendStateInfo{
		LogicOpEnable:  w.LogicOpEnable,
		Attachments:    w.Attachments,
		BlendConstants: w.BlendConstants,
	}
	if w.LogicOpEnable {
		if w.LogicOp == nil {
			return missingDependent("logicOp")
		}
		out.LogicOp = *w.LogicOp
	}
	*c = out
	return nil
}

func (c ColorBlendStateInfo) ToVk() (vk.PipelineColorBlendStateCreateInfo, []vk.PipelineColorBlendAttachmentState) {
	attachments := make([]vk.PipelineColorBlendAttachmentState, len(c.Attachments))
	for i, a := range c.Attachments {
		attachments[i] = a.ToVk()
	}
	info := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vkBool(c.LogicOpEnable),
		AttachmentCount: uint32(len(attachments)),
		BlendConstants:  c.BlendConstants,
	}
	if c.LogicOpEnable {
		info.LogicOp = c.LogicOp
	}
	if len(attachments) > 0 {
		info.PAttachments = &attachments[0]
	}
	return info, attachments
}
