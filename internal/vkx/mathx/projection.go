// Package mathx holds the small clip-space fixups the renderer needs;
// everything else is left to user-supplied math.
package mathx

import lin "github.com/xlab/linmath"

// VulkanProjection converts an OpenGL-style projection matrix to
// Vulkan's clip space: Y flipped (Vulkan's top-left is X=-1,Y=-1) and
// depth remapped from [-1,1] to [0,1].
func VulkanProjection(m, proj *lin.Mat4x4) {
	m.Fill(1.0)
	m.ScaleAniso(m, 1.0, -1.0, 1.0)
	m.ScaleAniso(m, 1.0, 1.0, 0.5)
	m.Translate(0.0, 0.0, 1.0)
	m.Mult(m, proj)
}
