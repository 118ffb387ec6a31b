package schematic

import (
	"encoding/json"

	vk "github.com/vulkan-go/vulkan"
)

// MultisampleStateInfo holds multisample state; min-sample-shading is
// required iff sample-shading is enabled, per §4.8. Grounded on
// original_source's MultisampleStateInfo (multisample_state_info.hpp).
type MultisampleStateInfo struct {
	RasterizationSamples  vk.SampleCountFlagBits
	SampleShadingEnable   bool
	MinSampleShading      float32 // meaningful only when SampleShadingEnable
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool
}

type multisampleWire struct {
	RasterizationSamples  vk.SampleCountFlagBits `json:"rasterizationSamples"`
	SampleShadingEnable   bool                   `json:"sampleShadingEnable"`
	MinSampleShading      *float32               `json:"minSampleShading,omitempty"`
	AlphaToCoverageEnable bool                   `json:"alphaToCoverageEnable"`
	AlphaToOneEnable      bool                   `json:"alphaToOneEnable"`
}

func (m MultisampleStateInfo) MarshalJSON() ([]byte, error) {
	w := multisampleWire{
		RasterizationSamples:  m.RasterizationSamples,
		SampleShadingEnable:   m.SampleShadingEnable,
		AlphaToCoverageEnable: m.AlphaToCoverageEnable,
		AlphaToOneEnable:      m.AlphaToOneEnable,
	}
	if m.SampleShadingEnable {
		v := m.MinSampleShading
		w.MinSampleShading = &v
	}
	return json.Marshal(w)
}

func (m *MultisampleStateInfo) UnmarshalJSON(data []byte) error {
	var w multisampleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := MultisampleStateInfo{
		RasterizationSamples:  w.RasterizationSamples,
		SampleShadingEnable:   w.SampleShadingEnable,
		AlphaToCoverageEnable: w.AlphaToCoverageEnable,
		AlphaToOneEnable:      w.AlphaToOneEnable,
	}
	if w.SampleShadingEnable {
		if w.MinSampleShading == nil {
			return missingDependent("minSampleShading")
		}
		out.MinSampleShading = *w.MinSampleShading
	}
	*m = out
	return nil
}

func (m MultisampleStateInfo) ToVk() vk.PipelineMultisampleStateCreateInfo {
	info := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  m.RasterizationSamples,
		SampleShadingEnable:   vkBool(m.SampleShadingEnable),
		AlphaToCoverageEnable: vkBool(m.AlphaToCoverageEnable),
		AlphaToOneEnable:      vkBool(m.AlphaToOneEnable),
	}
	if m.SampleShadingEnable {
		info.MinSampleShading = m.MinSampleShading
	}
	return info
}
