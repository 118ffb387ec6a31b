package schematic

import (
	"encoding/json"
	"errors"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func computeSchematic() Schematic {
	return Schematic{
		Type: PipelineCompute,
		Shaders: map[vk.ShaderStageFlagBits]ShaderInfo{
			vk.ShaderStageComputeBit: {
				Path:             "x.comp",
				HasPath:          true,
				EntryPoint:       "main",
				WorkGroupSize:    [3]uint32{3, 3, 1},
				HasWorkGroupSize: true,
			},
		},
	}
}

func graphicsSchematic() Schematic {
	return Schematic{
		Type: PipelineGraphics,
		Shaders: map[vk.ShaderStageFlagBits]ShaderInfo{
			vk.ShaderStageVertexBit:   {Path: "tri.vert", HasPath: true, EntryPoint: "main"},
			vk.ShaderStageFragmentBit: {Path: "tri.frag", HasPath: true, EntryPoint: "main"},
		},
		State: &PipelineStateInfo{
			InputAssembly: &InputAssemblyStateInfo{Topology: vk.PrimitiveTopologyTriangleList},
			Viewport:      ViewportStateInfo{ViewportCount: 1, ScissorCount: 1},
			Rasterization: RasterizationStateInfo{PolygonMode: vk.PolygonModeFill, CullMode: vk.CullModeFlagBits(vk.CullModeBackBit), FrontFace: vk.FrontFaceClockwise},
			Multisample:   MultisampleStateInfo{RasterizationSamples: vk.SampleCount1Bit},
			ColorBlend: ColorBlendStateInfo{
				Attachments:    []ColorBlendAttachmentInfo{{BlendEnable: false, ColorWriteMask: 0xf}},
				BlendConstants: [4]float32{0, 0, 0, 0},
			},
			Dynamic: DynamicStateInfo{States: []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}},
		},
	}
}

func TestSchematicRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    Schematic
	}{
		{"compute", computeSchematic()},
		{"graphics", graphicsSchematic()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.s)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got Schematic
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Type != tt.s.Type {
				t.Errorf("Type = %v, want %v", got.Type, tt.s.Type)
			}
			if len(got.Shaders) != len(tt.s.Shaders) {
				t.Errorf("Shaders len = %d, want %d", len(got.Shaders), len(tt.s.Shaders))
			}
			if (got.State == nil) != (tt.s.State == nil) {
				t.Errorf("State presence = %v, want %v", got.State != nil, tt.s.State != nil)
			}
		})
	}
}

func TestComputeSchematicOmitsState(t *testing.T) {
	data, err := json.Marshal(computeSchematic())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := raw["state"]; ok {
		t.Errorf("compute schematic JSON must omit state, got %s", data)
	}
	var typ string
	if err := json.Unmarshal(raw["type"], &typ); err != nil {
		t.Fatalf("Unmarshal type: %v", err)
	}
	if typ != "Compute" {
		t.Errorf(`type = %q, want "Compute"`, typ)
	}
}

func TestNonComputeSchematicRequiresState(t *testing.T) {
	data := []byte(`{"type":"Graphics","shaders":{}}`)
	var s Schematic
	err := json.Unmarshal(data, &s)
	if !errors.Is(err, ErrMissingDependent) {
		t.Fatalf("Unmarshal error = %v, want ErrMissingDependent", err)
	}
}

func TestShaderStageNameRoundTrip(t *testing.T) {
	stages := []vk.ShaderStageFlagBits{
		vk.ShaderStageVertexBit, vk.ShaderStageTessellationControlBit, vk.ShaderStageTessellationEvaluationBit,
		vk.ShaderStageGeometryBit, vk.ShaderStageFragmentBit, vk.ShaderStageComputeBit,
		TaskShaderStageBit, MeshShaderStageBit,
	}
	for _, stage := range stages {
		name, ok := ShaderStageName(stage)
		if !ok {
			t.Fatalf("ShaderStageName(%v) not found", stage)
		}
		got, ok := ParseShaderStage(name)
		if !ok || got != stage {
			t.Errorf("ParseShaderStage(%q) = %v, %v; want %v, true", name, got, ok, stage)
		}
	}
}
