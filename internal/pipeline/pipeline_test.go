package pipeline

import (
	"errors"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

// These validation paths return before any Vulkan call is made, so
// they are safe to exercise without a device or instance, matching
// the corpus's convention of unit-testing only GPU-independent logic
// (see DESIGN.md's note on test/render_test.go).
func TestNewGraphicsPipelineRequiresVertexAndFragmentStages(t *testing.T) {
	tests := []struct {
		name    string
		stages  []StageShaderInfo
		wantErr error
	}{
		{"missing both", nil, ErrMissingVertexShader},
		{"missing fragment", []StageShaderInfo{{Stage: vk.ShaderStageVertexBit}}, ErrMissingFragmentShader},
		{"missing vertex", []StageShaderInfo{{Stage: vk.ShaderStageFragmentBit}}, ErrMissingVertexShader},
	}
	var noDevice vk.Device
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraphicsPipeline(noDevice, GraphicsDesc{Stages: tt.stages})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewGraphicsPipeline error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
