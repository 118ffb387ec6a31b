package pipeline

import (
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// Kind identifies which of the three supported pipeline shapes a
// Pipeline was built as, per §4.5.
type Kind int

const (
	KindGraphics Kind = iota
	KindCompute
	KindMeshlet
)

// Pipeline owns a pipeline cache and the final baked pipeline handle.
// Shader modules are destroyed once baking completes; they are never
// needed again. Grounded on the teacher's PipelineBuilder/BuildPipeline
// in pipeline.go, replacing its RenderPass-bound bake with dynamic
// rendering and adding compute/meshlet construction the teacher never
// had.
type Pipeline struct {
	device vk.Device
	kind   Kind
	cache  vk.PipelineCache
	layout *Layout
	handle vk.Pipeline
}

func newCache(device vk.Device) (vk.PipelineCache, error) {
	var cache vk.PipelineCache
	ret := vk.CreatePipelineCache(device, &vk.PipelineCacheCreateInfo{SType: vk.StructureTypePipelineCacheCreateInfo}, nil, &cache)
	if err := vkx.Result("CreatePipelineCache", ret); err != nil {
		return vk.NullPipelineCache, err
	}
	return cache, nil
}

// DefaultDynamicState is viewport + scissor, set per-frame on the
// command buffer, per §4.5.
func DefaultDynamicState() []vk.DynamicState {
	return []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
}

// GraphicsDesc carries every piece of fixed-function state a graphics
// pipeline needs, produced by internal/schematic's ToVk() methods.
type GraphicsDesc struct {
	Layout          *Layout
	Stages          []StageShaderInfo
	VertexBinding   vk.VertexInputBindingDescription
	VertexAttrs     []vk.VertexInputAttributeDescription
	HasVertexInput  bool
	InputAssembly   vk.PipelineInputAssemblyStateCreateInfo
	Rasterization   vk.PipelineRasterizationStateCreateInfo
	Multisample     vk.PipelineMultisampleStateCreateInfo
	ColorBlend      vk.PipelineColorBlendStateCreateInfo
	DepthStencil    *vk.PipelineDepthStencilStateCreateInfo
	DynamicStates   []vk.DynamicState
	ColorFormats    []vk.Format
	DepthFormat     vk.Format
	ViewMask        uint32
}

// NewGraphicsPipeline creates shader modules for each stage, builds
// stage-create infos, and bakes the pipeline against
// vk.PipelineRenderingCreateInfo (dynamic rendering) rather than a
// render pass, per §4.5 step 4. Shader modules are destroyed after the
// bake regardless of success.
func NewGraphicsPipeline(device vk.Device, desc GraphicsDesc) (*Pipeline, error) {
	var hasVertex, hasFragment bool
	for _, s := range desc.Stages {
		switch s.Stage {
		case vk.ShaderStageVertexBit:
			hasVertex = true
		case vk.ShaderStageFragmentBit:
			hasFragment = true
		}
	}
	if !hasVertex {
		return nil, ErrMissingVertexShader
	}
	if !hasFragment {
		return nil, ErrMissingFragmentShader
	}

	cache, err := newCache(device)
	if err != nil {
		return nil, err
	}

	stageInfos := StageCreateInfos(desc.Stages)
	defer func() {
		for _, s := range desc.Stages {
			vk.DestroyShaderModule(device, s.Module, nil)
		}
	}()

	var vertexInput vk.PipelineVertexInputStateCreateInfo
	vertexInput.SType = vk.StructureTypePipelineVertexInputStateCreateInfo
	if desc.HasVertexInput {
		vertexInput.VertexBindingDescriptionCount = 1
		vertexInput.PVertexBindingDescriptions = []vk.VertexInputBindingDescription{desc.VertexBinding}
		vertexInput.VertexAttributeDescriptionCount = uint32(len(desc.VertexAttrs))
		vertexInput.PVertexAttributeDescriptions = desc.VertexAttrs
	}

	dynamicStates := desc.DynamicStates
	if dynamicStates == nil {
		dynamicStates = DefaultDynamicState()
	}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	renderingInfo := vk.PipelineRenderingCreateInfo{
		SType:                vk.StructureTypePipelineRenderingCreateInfo,
		ViewMask:             desc.ViewMask,
		ColorAttachmentCount: uint32(len(desc.ColorFormats)),
		PColorAttachmentFormats: desc.ColorFormats,
		DepthAttachmentFormat:   desc.DepthFormat,
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               vkx.PNext(&renderingInfo),
		StageCount:          uint32(len(stageInfos)),
		PStages:             stageInfos,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &desc.InputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &desc.Rasterization,
		PMultisampleState:   &desc.Multisample,
		PColorBlendState:    &desc.ColorBlend,
		PDepthStencilState:  desc.DepthStencil,
		PDynamicState:       &dynamicState,
		Layout:              desc.Layout.Handle(),
		BasePipelineIndex:   -1,
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, cache, 1, []vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines)
	if err := vkx.Result("CreateGraphicsPipelines", ret); err != nil {
		vk.DestroyPipelineCache(device, cache, nil)
		return nil, err
	}

	return &Pipeline{device: device, kind: KindGraphics, cache: cache, layout: desc.Layout.Retain(), handle: pipelines[0]}, nil
}

// NewComputePipeline creates a single-stage compute pipeline.
func NewComputePipeline(device vk.Device, layout *Layout, stage StageShaderInfo) (*Pipeline, error) {
	cache, err := newCache(device)
	if err != nil {
		return nil, err
	}
	defer vk.DestroyShaderModule(device, stage.Module, nil)

	createInfo := vk.ComputePipelineCreateInfo{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  StageCreateInfos([]StageShaderInfo{stage})[0],
		Layout: layout.Handle(),
	}
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateComputePipelines(device, cache, 1, []vk.ComputePipelineCreateInfo{createInfo}, nil, pipelines)
	if err := vkx.Result("CreateComputePipelines", ret); err != nil {
		vk.DestroyPipelineCache(device, cache, nil)
		return nil, err
	}
	return &Pipeline{device: device, kind: KindCompute, cache: cache, layout: layout.Retain(), handle: pipelines[0]}, nil
}

// MeshletDesc carries the fixed-function state for a task+mesh(+frag)
// pipeline, baked against dynamic rendering like graphics.
type MeshletDesc struct {
	Layout        *Layout
	Stages        []StageShaderInfo
	Rasterization vk.PipelineRasterizationStateCreateInfo
	Multisample   vk.PipelineMultisampleStateCreateInfo
	ColorBlend    vk.PipelineColorBlendStateCreateInfo
	DepthStencil  *vk.PipelineDepthStencilStateCreateInfo
	DynamicStates []vk.DynamicState
	ColorFormats  []vk.Format
	DepthFormat   vk.Format
}

// NewMeshletPipeline bakes a mesh-shading pipeline: no vertex input
// state or input-assembly state is meaningful since geometry comes
// from the mesh shader, per §4.5.
func NewMeshletPipeline(device vk.Device, desc MeshletDesc) (*Pipeline, error) {
	cache, err := newCache(device)
	if err != nil {
		return nil, err
	}
	stageInfos := StageCreateInfos(desc.Stages)
	defer func() {
		for _, s := range desc.Stages {
			vk.DestroyShaderModule(device, s.Module, nil)
		}
	}()

	dynamicStates := desc.DynamicStates
	if dynamicStates == nil {
		dynamicStates = DefaultDynamicState()
	}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	renderingInfo := vk.PipelineRenderingCreateInfo{
		SType:                   vk.StructureTypePipelineRenderingCreateInfo,
		ColorAttachmentCount:    uint32(len(desc.ColorFormats)),
		PColorAttachmentFormats: desc.ColorFormats,
		DepthAttachmentFormat:   desc.DepthFormat,
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               vkx.PNext(&renderingInfo),
		StageCount:          uint32(len(stageInfos)),
		PStages:             stageInfos,
		PViewportState:      &viewportState,
		PRasterizationState: &desc.Rasterization,
		PMultisampleState:   &desc.Multisample,
		PColorBlendState:    &desc.ColorBlend,
		PDepthStencilState:  desc.DepthStencil,
		PDynamicState:       &dynamicState,
		Layout:              desc.Layout.Handle(),
		BasePipelineIndex:   -1,
	}
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, cache, 1, []vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines)
	if err := vkx.Result("CreateGraphicsPipelines", ret); err != nil {
		vk.DestroyPipelineCache(device, cache, nil)
		return nil, err
	}
	return &Pipeline{device: device, kind: KindMeshlet, cache: cache, layout: desc.Layout.Retain(), handle: pipelines[0]}, nil
}

// Kind reports which pipeline shape this is.
func (p *Pipeline) Kind() Kind { return p.kind }

// Handle returns the underlying vk.Pipeline.
func (p *Pipeline) Handle() vk.Pipeline { return p.handle }

// Bind binds the pipeline and its descriptor sets onto cmd, per §4.5
// step 5.
func (p *Pipeline) Bind(cmd vk.CommandBuffer, bindPoint vk.PipelineBindPoint, descriptorSets []vk.DescriptorSet) {
	vk.CmdBindPipeline(cmd, bindPoint, p.handle)
	if len(descriptorSets) > 0 {
		vk.CmdBindDescriptorSets(cmd, bindPoint, p.layout.Handle(), 0, uint32(len(descriptorSets)), descriptorSets, 0, nil)
	}
}

// Destroy destroys the pipeline handle and cache, and releases the
// pipeline's reference to its layout.
func (p *Pipeline) Destroy() {
	if p.handle != vk.NullPipeline {
		vk.DestroyPipeline(p.device, p.handle, nil)
		p.handle = vk.NullPipeline
	}
	if p.cache != vk.NullPipelineCache {
		vk.DestroyPipelineCache(p.device, p.cache, nil)
		p.cache = vk.NullPipelineCache
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
}
