package shaderc

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestStageFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want vk.ShaderStageFlagBits
	}{
		{"x.vert", vk.ShaderStageVertexBit},
		{"x.tesc", vk.ShaderStageTessellationControlBit},
		{"x.tese", vk.ShaderStageTessellationEvaluationBit},
		{"x.geom", vk.ShaderStageGeometryBit},
		{"x.frag", vk.ShaderStageFragmentBit},
		{"x.comp", vk.ShaderStageComputeBit},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := StageFromExtension(tt.path)
			if !ok {
				t.Fatalf("StageFromExtension(%q) not found", tt.path)
			}
			if got != tt.want {
				t.Errorf("StageFromExtension(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStageFromExtensionUnknown(t *testing.T) {
	if _, ok := StageFromExtension("x.txt"); ok {
		t.Fatal("expected false for unrecognized extension")
	}
}
