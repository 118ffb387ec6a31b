package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// PipelineStateInfo aggregates the fixed-function state shared by
// graphics and meshlet pipelines. InputAssembly is present only for
// graphics pipelines (meshlet pipelines generate primitives in the
// mesh shader, so there is no vertex input stage to assemble).
// Grounded on original_source's PipelineStateInfo
// (schematic/pipeline/pipeline_state_info.hpp).
type PipelineStateInfo struct {
	InputAssembly *InputAssemblyStateInfo
	Viewport      ViewportStateInfo
	Rasterization RasterizationStateInfo
	Multisample   MultisampleStateInfo
	ColorBlend    ColorBlendStateInfo
	DepthStencil  DepthStencilStateInfo
	Dynamic       DynamicStateInfo
}

type pipelineStateWire struct {
	InputAssembly *InputAssemblyStateInfo `json:"inputAssembly,omitempty"`
	Viewport      ViewportStateInfo       `json:"viewport"`
	Rasterization RasterizationStateInfo  `json:"rasterization"`
	Multisample   MultisampleStateInfo    `json:"multisample"`
	ColorBlend    ColorBlendStateInfo     `json:"colorBlend"`
	DepthStencil  DepthStencilStateInfo   `json:"depthStencil"`
	Dynamic       DynamicStateInfo        `json:"dynamic"`
}

func (p PipelineStateInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(pipelineStateWire{
		InputAssembly: p.InputAssembly,
		Viewport:      p.Viewport,
		Rasterization: p.Rasterization,
		Multisample:   p.Multisample,
		ColorBlend:    p.ColorBlend,
		DepthStencil:  p.DepthStencil,
		Dynamic:       p.Dynamic,
	})
}

func (p *PipelineStateInfo) UnmarshalJSON(data []byte) error {
	var w pipelineStateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = PipelineStateInfo{
		InputAssembly: w.InputAssembly,
		Viewport:      w.Viewport,
		Rasterization: w.Rasterization,
		Multisample:   w.Multisample,
		ColorBlend:    w.ColorBlend,
		DepthStencil:  w.DepthStencil,
		Dynamic:       w.Dynamic,
	}
	return nil
}

// VkState is the fully-converted set of driver create-info structs for
// one pipeline's fixed-function state, plus the backing slices that
// their pointer fields reference (callers must keep these alive until
// after vkCreateGraphicsPipelines/vkCreateComputePipelines returns).
type VkState struct {
	InputAssembly   *vk.PipelineInputAssemblyStateCreateInfo
	Viewport        vk.PipelineViewportStateCreateInfo
	Rasterization   vk.PipelineRasterizationStateCreateInfo
	Multisample     vk.PipelineMultisampleStateCreateInfo
	ColorBlend      vk.PipelineColorBlendStateCreateInfo
	ColorBlendAttachments []vk.PipelineColorBlendAttachmentState
	DepthStencil    vk.PipelineDepthStencilStateCreateInfo
	Dynamic         vk.PipelineDynamicStateCreateInfo
	DynamicStates   []vk.DynamicState
}

// ToVk converts every nested state struct to its driver form in one
// pass, per §4.8's "schematic -> GraphicsDesc" translation.
func (p PipelineStateInfo) ToVk() VkState {
	colorBlend, attachments := p.ColorBlend.ToVk()
	out := VkState{
		Viewport:              p.Viewport.ToVk(),
		Rasterization:         p.Rasterization.ToVk(),
		Multisample:           p.Multisample.ToVk(),
		ColorBlend:            colorBlend,
		ColorBlendAttachments: attachments,
		DepthStencil:          p.DepthStencil.ToVk(),
		Dynamic:               p.Dynamic.ToVk(),
		DynamicStates:         p.Dynamic.States,
	}
	if p.InputAssembly != nil {
		ia := p.InputAssembly.ToVk()
		out.InputAssembly = &ia
	}
	return out
}
