package pipeline

import (
	"fmt"

	"github.com/andewx/muon/internal/schematic"
	vk "github.com/vulkan-go/vulkan"
)

// ShaderSource resolves one schematic.ShaderInfo to its SPIR-V bytes,
// following the path vs. inline (byteOffset, byteLength) branch a
// schematic's shader_info can take. The caller of BuildFromSchematic
// supplies it; a plain filesystem resolver is the common case for a
// path-only schematic.
type ShaderSource func(info schematic.ShaderInfo) ([]byte, error)

// RenderTargets names the dynamic-rendering color/depth formats a
// pipeline built from a schematic will be baked against, per §4.5 step
// 4 (schematics carry no attachment formats of their own).
type RenderTargets struct {
	ColorFormats []vk.Format
	DepthFormat  vk.Format
	ViewMask     uint32
}

func loadStages(device vk.Device, shaders map[vk.ShaderStageFlagBits]schematic.ShaderInfo, resolve ShaderSource) ([]StageShaderInfo, map[vk.ShaderStageFlagBits][]byte, error) {
	stages := make([]StageShaderInfo, 0, len(shaders))
	raw := make(map[vk.ShaderStageFlagBits][]byte, len(shaders))
	for stage, info := range shaders {
		code, err := resolve(info)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: resolving shader source: %w", err)
		}
		module, err := LoadShaderModuleFromBytes(device, code)
		if err != nil {
			return nil, nil, err
		}
		entry := info.EntryPoint
		if entry == "" {
			entry = "main"
		}
		stages = append(stages, StageShaderInfo{Stage: stage, Module: module, EntryPoint: entry})
		raw[stage] = code
	}
	return stages, raw, nil
}

// BuildFromSchematic translates a schematic.Schematic plus its shader
// sources into a baked Pipeline, dispatching on the schematic's
// PipelineType per §4.8's "schematic -> pipeline" translation. Vertex
// input for graphics pipelines is derived from the vertex stage's
// SPIR-V via ReflectVertexInput, never carried in the schematic
// itself.
func BuildFromSchematic(device vk.Device, layout *Layout, s schematic.Schematic, resolve ShaderSource, targets RenderTargets) (*Pipeline, error) {
	switch s.Type {
	case schematic.PipelineCompute:
		return buildCompute(device, layout, s, resolve)
	case schematic.PipelineMeshlet:
		return buildMeshlet(device, layout, s, resolve, targets)
	default:
		return buildGraphics(device, layout, s, resolve, targets)
	}
}

func buildGraphics(device vk.Device, layout *Layout, s schematic.Schematic, resolve ShaderSource, targets RenderTargets) (*Pipeline, error) {
	stages, raw, err := loadStages(device, s.Shaders, resolve)
	if err != nil {
		return nil, err
	}
	if s.State == nil {
		return nil, schematic.ErrMissingDependent
	}
	vkState := s.State.ToVk()

	var binding vk.VertexInputBindingDescription
	var attrs []vk.VertexInputAttributeDescription
	hasVertexInput := false
	if code, ok := raw[vk.ShaderStageVertexBit]; ok {
		binding, attrs, err = ReflectVertexInput(code)
		if err != nil {
			return nil, err
		}
		hasVertexInput = len(attrs) > 0
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{SType: vk.StructureTypePipelineInputAssemblyStateCreateInfo, Topology: vk.PrimitiveTopologyTriangleList}
	if vkState.InputAssembly != nil {
		inputAssembly = *vkState.InputAssembly
	}

	var depthStencil *vk.PipelineDepthStencilStateCreateInfo
	if s.State.DepthStencil.DepthTestEnable || s.State.DepthStencil.StencilTestEnable {
		ds := vkState.DepthStencil
		depthStencil = &ds
	}

	desc := GraphicsDesc{
		Layout:         layout,
		Stages:         stages,
		VertexBinding:  binding,
		VertexAttrs:    attrs,
		HasVertexInput: hasVertexInput,
		InputAssembly:  inputAssembly,
		Rasterization:  vkState.Rasterization,
		Multisample:    vkState.Multisample,
		ColorBlend:     vkState.ColorBlend,
		DepthStencil:   depthStencil,
		DynamicStates:  vkState.DynamicStates,
		ColorFormats:   targets.ColorFormats,
		DepthFormat:    targets.DepthFormat,
		ViewMask:       targets.ViewMask,
	}
	return NewGraphicsPipeline(device, desc)
}

func buildCompute(device vk.Device, layout *Layout, s schematic.Schematic, resolve ShaderSource) (*Pipeline, error) {
	info, ok := s.Shaders[vk.ShaderStageComputeBit]
	if !ok {
		return nil, fmt.Errorf("pipeline: compute schematic has no compute stage")
	}
	code, err := resolve(info)
	if err != nil {
		return nil, fmt.Errorf("pipeline: resolving shader source: %w", err)
	}
	module, err := LoadShaderModuleFromBytes(device, code)
	if err != nil {
		return nil, err
	}
	entry := info.EntryPoint
	if entry == "" {
		entry = "main"
	}
	return NewComputePipeline(device, layout, StageShaderInfo{Stage: vk.ShaderStageComputeBit, Module: module, EntryPoint: entry})
}

func buildMeshlet(device vk.Device, layout *Layout, s schematic.Schematic, resolve ShaderSource, targets RenderTargets) (*Pipeline, error) {
	stages, _, err := loadStages(device, s.Shaders, resolve)
	if err != nil {
		return nil, err
	}
	if s.State == nil {
		return nil, schematic.ErrMissingDependent
	}
	vkState := s.State.ToVk()

	var depthStencil *vk.PipelineDepthStencilStateCreateInfo
	if s.State.DepthStencil.DepthTestEnable || s.State.DepthStencil.StencilTestEnable {
		ds := vkState.DepthStencil
		depthStencil = &ds
	}

	desc := MeshletDesc{
		Layout:        layout,
		Stages:        stages,
		Rasterization: vkState.Rasterization,
		Multisample:   vkState.Multisample,
		ColorBlend:    vkState.ColorBlend,
		DepthStencil:  depthStencil,
		DynamicStates: vkState.DynamicStates,
		ColorFormats:  targets.ColorFormats,
		DepthFormat:   targets.DepthFormat,
	}
	return NewMeshletPipeline(device, desc)
}
