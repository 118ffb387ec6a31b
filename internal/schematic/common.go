package schematic

import vk "github.com/vulkan-go/vulkan"

func vkBool(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
