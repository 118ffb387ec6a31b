package pipeline

import (
	"os"

	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// LoadShaderModule reads a SPIR-V blob from path and creates a shader
// module, generalized from the teacher's shader.go
// CoreShader.LoadShaderModule (which read the file and ignored errors
// silently; this returns them).
func LoadShaderModule(device vk.Device, path string) (vk.ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return vk.NullShaderModule, err
	}
	return LoadShaderModuleFromBytes(device, code)
}

// LoadShaderModuleFromBytes creates a shader module directly from a
// SPIR-V byte blob, used when the schematic's shader_info carries an
// inline (byte_offset, byte_length) slice rather than a path.
func LoadShaderModuleFromBytes(device vk.Device, code []byte) (vk.ShaderModule, error) {
	words := vkx.SliceUint32(code)
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module)
	if err := vkx.Result("CreateShaderModule", ret); err != nil {
		return vk.NullShaderModule, err
	}
	return module, nil
}

// StageShaderInfo pairs a shader stage with its module and entry point,
// used to build vk.PipelineShaderStageCreateInfo.
type StageShaderInfo struct {
	Stage      vk.ShaderStageFlagBits
	Module     vk.ShaderModule
	EntryPoint string
}

// StageCreateInfos builds one vk.PipelineShaderStageCreateInfo per
// entry, per §4.5 step 3.
func StageCreateInfos(stages []StageShaderInfo) []vk.PipelineShaderStageCreateInfo {
	infos := make([]vk.PipelineShaderStageCreateInfo, len(stages))
	for i, s := range stages {
		entry := s.EntryPoint
		if entry == "" {
			entry = "main"
		}
		infos[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  s.Stage,
			Module: s.Module,
			PName:  vkx.SafeString(entry),
		}
	}
	return infos
}
