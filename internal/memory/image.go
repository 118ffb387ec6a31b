package memory

import (
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// AspectMaskForFormat derives the image aspect mask from a format, per
// §4.3: depth-only for D16/D32/X8D24, stencil-only for S8, depth+stencil
// for combined formats, color otherwise, none for undefined.
func AspectMaskForFormat(format vk.Format) vk.ImageAspectFlags {
	switch format {
	case vk.FormatUndefined:
		return 0
	case vk.FormatD16Unorm, vk.FormatD32Sfloat, vk.FormatX8D24UnormPack32:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	case vk.FormatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	case vk.FormatD16UnormS8Uint, vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}

// Image is a typed 2D GPU-memory resource with an explicit layout
// contract: it never silently changes layout outside TransitionLayout.
// Grounded on the teacher's image.go (an 11-line stub of maps only),
// built out fully here per §4.3.
type Image struct {
	allocator *Allocator

	handle vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView

	extent vk.Extent2D
	format vk.Format
	aspect vk.ImageAspectFlags

	layout vk.ImageLayout
	access vk.AccessFlags
	stage  vk.PipelineStageFlags

	descriptor vk.DescriptorImageInfo
}

// NewImage allocates device-local memory, creates the image and a 2D
// view with identity swizzles and an aspect-matched subresource range,
// then records (but does not submit) a single barrier transitioning
// from undefined to targetLayout using accessMask/stageMask as the
// destination side, per §4.3. cmd must later be submitted by the
// caller.
func (a *Allocator) NewImage(cmd vk.CommandBuffer, extent vk.Extent2D, format vk.Format, usage vk.ImageUsageFlagBits, targetLayout vk.ImageLayout, accessMask vk.AccessFlagBits, stageMask vk.PipelineStageFlagBits) (*Image, error) {
	aspect := AspectMaskForFormat(format)

	var handle vk.Image
	ret := vk.CreateImage(a.device, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent:    vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels: 1,
		ArrayLayers: 1,
		Samples:   vk.SampleCount1Bit,
		Tiling:       vk.ImageTilingOptimal,
		Usage:        vk.ImageUsageFlags(usage),
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &handle)
	if err := vkx.Result("CreateImage", ret); err != nil {
		return nil, err
	}

	memory, err := a.allocateAndBindImage(handle, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		vk.DestroyImage(a.device, handle, nil)
		return nil, err
	}

	var view vk.ImageView
	ret = vk.CreateImageView(a.device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    handle,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspect,
			LevelCount:     1,
			LayerCount:     1,
		},
	}, nil, &view)
	if err := vkx.Result("CreateImageView", ret); err != nil {
		vk.FreeMemory(a.device, memory, nil)
		vk.DestroyImage(a.device, handle, nil)
		return nil, err
	}

	img := &Image{
		allocator: a,
		handle:    handle,
		memory:    memory,
		view:      view,
		extent:    extent,
		format:    format,
		aspect:    aspect,
		layout:    vk.ImageLayoutUndefined,
	}
	img.recordTransition(cmd, targetLayout, accessMask, stageMask)
	return img, nil
}

// recordTransition records (synchronously, not submitted) a single
// vk.ImageMemoryBarrier from the image's current layout/access/stage to
// the new ones, and updates the cached state and descriptor info to
// match, preserving the §8 invariant that (current_layout,
// descriptor_info.layout) are always equal.
func (img *Image) recordTransition(cmd vk.CommandBuffer, newLayout vk.ImageLayout, newAccess vk.AccessFlagBits, newStage vk.PipelineStageFlagBits) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       img.access,
		DstAccessMask:       vk.AccessFlags(newAccess),
		OldLayout:           img.layout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.handle,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: img.aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	vk.CmdPipelineBarrier(cmd, img.stage, vk.PipelineStageFlags(newStage), 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

	img.layout = newLayout
	img.access = vk.AccessFlags(newAccess)
	img.stage = vk.PipelineStageFlags(newStage)
	img.descriptor = vk.DescriptorImageInfo{
		ImageView:   img.view,
		ImageLayout: img.layout,
	}
}

// TransitionLayout is the only sanctioned way to change an Image's
// layout outside construction, per §3's lifecycle rule.
func (img *Image) TransitionLayout(cmd vk.CommandBuffer, newLayout vk.ImageLayout, newAccess vk.AccessFlagBits, newStage vk.PipelineStageFlagBits) {
	img.recordTransition(cmd, newLayout, newAccess, newStage)
}

func (img *Image) Handle() vk.Image                        { return img.handle }
func (img *Image) View() vk.ImageView                      { return img.view }
func (img *Image) Extent() vk.Extent2D                     { return img.extent }
func (img *Image) Format() vk.Format                       { return img.format }
func (img *Image) Layout() vk.ImageLayout                  { return img.layout }
func (img *Image) DescriptorInfo() vk.DescriptorImageInfo  { return img.descriptor }

// Destroy destroys the view, frees the backing memory, and destroys
// the image handle.
func (img *Image) Destroy() {
	if img.view != vk.NullImageView {
		vk.DestroyImageView(img.allocator.device, img.view, nil)
		img.view = vk.NullImageView
	}
	if img.memory != nil {
		vk.FreeMemory(img.allocator.device, img.memory, nil)
		img.memory = nil
	}
	if img.handle != vk.NullImage {
		vk.DestroyImage(img.allocator.device, img.handle, nil)
		img.handle = vk.NullImage
	}
}
