package memory

import (
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// Texture is an Image plus a sampler, always settling at
// shader-read-only-optimal once uploaded. Grounded conceptually on
// gviegas-neo3's staging-buffer upload shape and the teacher's
// CreateBuffer/memcpy pattern in extensions.go, generalized here to a
// two-barrier image upload per §4.3.
type Texture struct {
	*Image
	sampler vk.Sampler
}

// DefaultSamplerInfo returns the linear-filter repeat-address sampler
// every Texture gets unless the caller supplies its own, per §4.3's
// Texture description.
func DefaultSamplerInfo() vk.SamplerCreateInfo {
	return vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		CompareOp:               vk.CompareOpAlways,
		MinLod:                  0,
		MaxLod:                  0,
	}
}

// NewTexture creates an Image with sampled+transfer-dst usage (left
// undefined/no transition — the image enters existence in
// vk.ImageLayoutUndefined) and a sampler built from samplerInfo.
func (a *Allocator) NewTexture(extent vk.Extent2D, format vk.Format, samplerInfo vk.SamplerCreateInfo) (*Texture, error) {
	var handle vk.Image
	aspect := AspectMaskForFormat(format)
	ret := vk.CreateImage(a.device, &vk.ImageCreateInfo{
		SType:        vk.StructureTypeImageCreateInfo,
		ImageType:    vk.ImageType2d,
		Format:       format,
		Extent:       vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:    1,
		ArrayLayers:  1,
		Samples:      vk.SampleCount1Bit,
		Tiling:       vk.ImageTilingOptimal,
		Usage:        vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
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
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if err := vkx.Result("CreateImageView", ret); err != nil {
		vk.FreeMemory(a.device, memory, nil)
		vk.DestroyImage(a.device, handle, nil)
		return nil, err
	}

	var sampler vk.Sampler
	ret = vk.CreateSampler(a.device, &samplerInfo, nil, &sampler)
	if err := vkx.Result("CreateSampler", ret); err != nil {
		vk.DestroyImageView(a.device, view, nil)
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
		stage:     vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
	}
	return &Texture{Image: img, sampler: sampler}, nil
}

// Sampler returns the underlying vk.Sampler.
func (t *Texture) Sampler() vk.Sampler { return t.sampler }

// DescriptorInfo overrides Image.DescriptorInfo to include the sampler
// handle, as required for a combined-image-sampler descriptor.
func (t *Texture) DescriptorInfo() vk.DescriptorImageInfo {
	return vk.DescriptorImageInfo{
		Sampler:     t.sampler,
		ImageView:   t.view,
		ImageLayout: t.layout,
	}
}

// Upload records the two-barrier staged-upload protocol on cmd:
// undefined/host -> transfer-dst-optimal, a buffer-to-image copy from
// staging, then transfer-dst-optimal -> shader-read-only-optimal. cmd
// is not submitted here; the caller owns submission and must keep
// staging alive until the transfer completes, per §4.3.
func (t *Texture) Upload(cmd vk.CommandBuffer, staging *Buffer) {
	t.recordTransition(cmd, vk.ImageLayoutTransferDstOptimal, vk.AccessTransferWriteBit, vk.PipelineStageTransferBit)

	vk.CmdCopyBufferToImage(cmd, staging.Handle(), t.handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: t.aspect,
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: t.extent.Width, Height: t.extent.Height, Depth: 1},
	}})

	t.recordTransition(cmd, vk.ImageLayoutShaderReadOnlyOptimal, vk.AccessShaderReadBit, vk.PipelineStageFragmentShaderBit|vk.PipelineStageComputeShaderBit)
}

// Destroy destroys the sampler in addition to the underlying Image's
// resources.
func (t *Texture) Destroy() {
	if t.sampler != vk.NullSampler {
		vk.DestroySampler(t.allocator.device, t.sampler, nil)
		t.sampler = vk.NullSampler
	}
	t.Image.Destroy()
}
