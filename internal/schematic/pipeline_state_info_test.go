package schematic

import (
	"encoding/json"
	"errors"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestRasterizationLineWidthRequiredForLineMode(t *testing.T) {
	data := []byte(`{"polygonMode":1,"cullMode":0,"frontFace":0,"rasterizerDiscardEnable":false,"depthClampEnable":false,"depthBiasEnable":false}`)
	var r RasterizationStateInfo
	err := json.Unmarshal(data, &r)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestRasterizationDepthBiasRequiresConstants(t *testing.T) {
	data := []byte(`{"polygonMode":0,"cullMode":0,"frontFace":0,"rasterizerDiscardEnable":false,"depthClampEnable":false,"depthBiasEnable":true}`)
	var r RasterizationStateInfo
	err := json.Unmarshal(data, &r)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestColorBlendAttachmentRequiresFactorsWhenEnabled(t *testing.T) {
	data := []byte(`{"blendEnable":true}`)
	var c ColorBlendAttachmentInfo
	err := json.Unmarshal(data, &c)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestColorBlendAttachmentDisabledRoundTrip(t *testing.T) {
	c := ColorBlendAttachmentInfo{BlendEnable: false}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ColorBlendAttachmentInfo
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != c {
		t.Errorf("round trip = %+v, want %+v", got, c)
	}
}

func TestDepthStencilRequiresFrontBackWhenEnabled(t *testing.T) {
	data := []byte(`{"depthTestEnable":false,"stencilTestEnable":true}`)
	var d DepthStencilStateInfo
	err := json.Unmarshal(data, &d)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestMultisampleRequiresMinSampleShadingWhenEnabled(t *testing.T) {
	data := []byte(`{"rasterizationSamples":1,"sampleShadingEnable":true,"alphaToCoverageEnable":false,"alphaToOneEnable":false}`)
	var m MultisampleStateInfo
	err := json.Unmarshal(data, &m)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestPipelineStateInfoToVkCarriesAttachments(t *testing.T) {
	s := PipelineStateInfo{
		InputAssembly: &InputAssemblyStateInfo{Topology: vk.PrimitiveTopologyTriangleList},
		Viewport:      ViewportStateInfo{ViewportCount: 1, ScissorCount: 1},
		Rasterization: RasterizationStateInfo{PolygonMode: vk.PolygonModeFill, FrontFace: vk.FrontFaceClockwise},
		Multisample:   MultisampleStateInfo{RasterizationSamples: vk.SampleCount1Bit},
		ColorBlend: ColorBlendStateInfo{
			Attachments: []ColorBlendAttachmentInfo{{ColorWriteMask: 0xf}},
		},
		Dynamic: DynamicStateInfo{States: []vk.DynamicState{vk.DynamicStateViewport}},
	}
	vkState := s.ToVk()
	if vkState.InputAssembly == nil {
		t.Fatal("InputAssembly should be set for a graphics schematic")
	}
	if vkState.ColorBlend.AttachmentCount != 1 {
		t.Errorf("AttachmentCount = %d, want 1", vkState.ColorBlend.AttachmentCount)
	}
	if len(vkState.ColorBlendAttachments) != 1 {
		t.Errorf("ColorBlendAttachments len = %d, want 1", len(vkState.ColorBlendAttachments))
	}
}
