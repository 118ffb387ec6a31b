package shaderc

import vk "github.com/vulkan-go/vulkan"

// Lowerer lowers a shader source to SPIR-V for a given stage. The
// actual GLSL parse/link/optimize pipeline is out of scope per §1's
// non-goals; Compiler depends on this narrow interface instead of a
// concrete compiler backend, following the teacher's pattern of
// depending on small interfaces (Application, Platform) rather than
// concrete types.
type Lowerer interface {
	Lower(stage vk.ShaderStageFlagBits, source []byte) ([]byte, error)
}
