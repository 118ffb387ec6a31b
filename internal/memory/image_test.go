package memory

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestAspectMaskForFormat(t *testing.T) {
	cases := []struct {
		format vk.Format
		want   vk.ImageAspectFlags
	}{
		{vk.FormatUndefined, 0},
		{vk.FormatD32Sfloat, vk.ImageAspectFlags(vk.ImageAspectDepthBit)},
		{vk.FormatD16Unorm, vk.ImageAspectFlags(vk.ImageAspectDepthBit)},
		{vk.FormatX8D24UnormPack32, vk.ImageAspectFlags(vk.ImageAspectDepthBit)},
		{vk.FormatS8Uint, vk.ImageAspectFlags(vk.ImageAspectStencilBit)},
		{vk.FormatD24UnormS8Uint, vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)},
		{vk.FormatD32SfloatS8Uint, vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)},
		{vk.FormatR8g8b8a8Unorm, vk.ImageAspectFlags(vk.ImageAspectColorBit)},
		{vk.FormatR8g8b8a8Srgb, vk.ImageAspectFlags(vk.ImageAspectColorBit)},
	}
	for _, c := range cases {
		if got := AspectMaskForFormat(c.format); got != c.want {
			t.Errorf("AspectMaskForFormat(%v) = %v, want %v", c.format, got, c.want)
		}
	}
}
