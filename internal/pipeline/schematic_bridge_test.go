package pipeline

import (
	"errors"
	"testing"

	"github.com/andewx/muon/internal/schematic"
	vk "github.com/vulkan-go/vulkan"
)

// These cover only the branches of BuildFromSchematic/buildGraphics/
// buildCompute/buildMeshlet that return before issuing any real
// vk.Create* call, since a live vk.Device is otherwise required.

func errResolve(err error) ShaderSource {
	return func(schematic.ShaderInfo) ([]byte, error) { return nil, err }
}

func TestBuildFromSchematicGraphicsMissingState(t *testing.T) {
	s := schematic.Schematic{Type: schematic.PipelineGraphics}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(nil), RenderTargets{})
	if !errors.Is(err, schematic.ErrMissingDependent) {
		t.Fatalf("BuildFromSchematic error = %v, want ErrMissingDependent", err)
	}
}

func TestBuildFromSchematicMeshletMissingState(t *testing.T) {
	s := schematic.Schematic{Type: schematic.PipelineMeshlet}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(nil), RenderTargets{})
	if !errors.Is(err, schematic.ErrMissingDependent) {
		t.Fatalf("BuildFromSchematic error = %v, want ErrMissingDependent", err)
	}
}

func TestBuildFromSchematicComputeMissingStage(t *testing.T) {
	s := schematic.Schematic{Type: schematic.PipelineCompute}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(nil), RenderTargets{})
	if err == nil {
		t.Fatal("BuildFromSchematic() error = nil, want an error for a compute schematic with no compute stage")
	}
}

func TestBuildGraphicsPropagatesResolveError(t *testing.T) {
	wantErr := errors.New("boom")
	state := &schematic.PipelineStateInfo{}
	s := schematic.Schematic{
		Type:    schematic.PipelineGraphics,
		Shaders: map[vk.ShaderStageFlagBits]schematic.ShaderInfo{vk.ShaderStageVertexBit: {Path: "v.spv"}},
		State:   state,
	}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(wantErr), RenderTargets{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("BuildFromSchematic error = %v, want wrapping %v", err, wantErr)
	}
}

func TestBuildComputePropagatesResolveError(t *testing.T) {
	wantErr := errors.New("boom")
	s := schematic.Schematic{
		Type:    schematic.PipelineCompute,
		Shaders: map[vk.ShaderStageFlagBits]schematic.ShaderInfo{vk.ShaderStageComputeBit: {Path: "c.spv"}},
	}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(wantErr), RenderTargets{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("BuildFromSchematic error = %v, want wrapping %v", err, wantErr)
	}
}

func TestBuildMeshletPropagatesResolveError(t *testing.T) {
	wantErr := errors.New("boom")
	state := &schematic.PipelineStateInfo{}
	s := schematic.Schematic{
		Type:    schematic.PipelineMeshlet,
		Shaders: map[vk.ShaderStageFlagBits]schematic.ShaderInfo{vk.ShaderStageFragmentBit: {Path: "m.spv"}},
		State:   state,
	}
	_, err := BuildFromSchematic(vk.Device(nil), &Layout{}, s, errResolve(wantErr), RenderTargets{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("BuildFromSchematic error = %v, want wrapping %v", err, wantErr)
	}
}
