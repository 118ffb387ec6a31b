package shaderc

import (
	"path/filepath"

	"github.com/andewx/muon/internal/schematic"
	vk "github.com/vulkan-go/vulkan"
)

// StageFromExtension infers a shader stage from a source file's
// extension, per §4.6 step 4.
func StageFromExtension(path string) (vk.ShaderStageFlagBits, bool) {
	switch filepath.Ext(path) {
	case ".vert":
		return vk.ShaderStageVertexBit, true
	case ".tesc":
		return vk.ShaderStageTessellationControlBit, true
	case ".tese":
		return vk.ShaderStageTessellationEvaluationBit, true
	case ".geom":
		return vk.ShaderStageGeometryBit, true
	case ".frag":
		return vk.ShaderStageFragmentBit, true
	case ".task":
		return schematic.TaskShaderStageBit, true
	case ".mesh":
		return schematic.MeshShaderStageBit, true
	case ".comp":
		return vk.ShaderStageComputeBit, true
	default:
		return 0, false
	}
}
