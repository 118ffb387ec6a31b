package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// RasterizationStateInfo holds fixed-function rasterizer state, per
// §4.8: line width is required iff polygon mode is Line; depth-bias
// constants are required iff depth bias is enabled. Grounded on
// original_source's RasterizationStateInfo
// (rasterization_state_info.hpp).
type RasterizationStateInfo struct {
	PolygonMode             vk.PolygonMode
	LineWidth               float32 // meaningful only when PolygonMode == PolygonModeLine
	CullMode                vk.CullModeFlagBits
	FrontFace               vk.FrontFace
	RasterizerDiscardEnable bool
	DepthClampEnable        bool
	DepthBiasEnable         bool
	DepthBiasConstantFactor float32 // meaningful only when DepthBiasEnable
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
}

type rasterizationWire struct {
	PolygonMode             vk.PolygonMode      `json:"polygonMode"`
	LineWidth               *float32            `json:"lineWidth,omitempty"`
	CullMode                vk.CullModeFlagBits `json:"cullMode"`
	FrontFace               vk.FrontFace        `json:"frontFace"`
	RasterizerDiscardEnable bool                `json:"rasterizerDiscardEnable"`
	DepthClampEnable        bool                `json:"depthClampEnable"`
	DepthBiasEnable         bool                `json:"depthBiasEnable"`
	DepthBiasConstantFactor *float32            `json:"depthBiasConstantFactor,omitempty"`
	DepthBiasClamp          *float32            `json:"depthBiasClamp,omitempty"`
	DepthBiasSlopeFactor    *float32            `json:"depthBiasSlopeFactor,omitempty"`
}

func (r RasterizationStateInfo) MarshalJSON() ([]byte, error) {
	w := rasterizationWire{
		PolygonMode:             r.PolygonMode,
		CullMode:                r.CullMode,
		FrontFace:               r.FrontFace,
		RasterizerDiscardEnable: r.RasterizerDiscardEnable,
		DepthClampEnable:        r.DepthClampEnable,
		DepthBiasEnable:         r.DepthBiasEnable,
	}
	if r.PolygonMode == vk.PolygonModeLine {
		lw := r.LineWidth
		w.LineWidth = &lw
	}
	if r.DepthBiasEnable {
		cf, cl, sf := r.DepthBiasConstantFactor, r.DepthBiasClamp, r.DepthBiasSlopeFactor
		w.DepthBiasConstantFactor = &cf
		w.DepthBiasClamp = &cl
		w.DepthBiasSlopeFactor = &sf
	}
	return json.Marshal(w)
}

func (r *RasterizationStateInfo) UnmarshalJSON(data []byte) error {
	var w rasterizationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := RasterizationStateInfo{
		PolygonMode:             w.PolygonMode,
		CullMode:                w.CullMode,
		FrontFace:               w.FrontFace,
		RasterizerDiscardEnable: w.RasterizerDiscardEnable,
		DepthClampEnable:        w.DepthClampEnable,
		DepthBiasEnable:         w.DepthBiasEnable,
	}
	if w.PolygonMode == vk.PolygonModeLine {
		if w.LineWidth == nil {
			return missingDependent("lineWidth")
		}
		out.LineWidth = *w.LineWidth
	}
	if w.DepthBiasEnable {
		if w.DepthBiasConstantFactor == nil || w.DepthBiasClamp == nil || w.DepthBiasSlopeFactor == nil {
			return missingDependent("depthBiasConstantFactor/depthBiasClamp/depthBiasSlopeFactor")
		}
		out.DepthBiasConstantFactor = *w.DepthBiasConstantFactor
		out.DepthBiasClamp = *w.DepthBiasClamp
		out.DepthBiasSlopeFactor = *w.DepthBiasSlopeFactor
	}
	*r = out
	return nil
}

func (r RasterizationStateInfo) ToVk() vk.PipelineRasterizationStateCreateInfo {
	info := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode:             r.PolygonMode,
		CullMode:                vk.CullModeFlags(r.CullMode),
		FrontFace:               r.FrontFace,
		RasterizerDiscardEnable: vkBool(r.RasterizerDiscardEnable),
		DepthClampEnable:        vkBool(r.DepthClampEnable),
		DepthBiasEnable:         vkBool(r.DepthBiasEnable),
		LineWidth:               1.0,
	}
	if r.PolygonMode == vk.PolygonModeLine {
		info.LineWidth = r.LineWidth
	}
	if r.DepthBiasEnable {
		info.DepthBiasConstantFactor = r.DepthBiasConstantFactor
		info.DepthBiasClamp = r.DepthBiasClamp
		info.DepthBiasSlopeFactor = r.DepthBiasSlopeFactor
	}
	return info
}
