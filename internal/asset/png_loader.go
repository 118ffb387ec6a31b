package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/andewx/muon/internal/memory"
	vk "github.com/vulkan-go/vulkan"
)

// PNGLoader decodes PNG images and uploads them as Textures, per
// §4.7's loader contract. Grounded on original_source's PngLoader
// (asset/loaders/png.cpp), which decodes via libspng (a C library with
// no Go binding anywhere in the corpus); Go's standard image/png
// decoder is used instead, matching how the wider pack's own
// gogpu-gg package decodes PNGs via the standard library rather than
// a third-party image codec.
type PNGLoader struct{}

func (PNGLoader) FileTypes() []string { return []string{".png"} }

func (l PNGLoader) LoadFromFile(m *Manager, cmd vk.CommandBuffer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("asset: reading %s: %w", path, err)
	}
	return l.LoadFromMemory(m, cmd, data)
}

func (l PNGLoader) LoadFromMemory(m *Manager, cmd vk.CommandBuffer, data []byte) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("asset: decoding png: %w", err)
	}
	nrgba := toNRGBA(img)
	bounds := nrgba.Bounds()
	extent := vk.Extent2D{Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}

	alloc := m.Allocator()
	hostVisible := vk.MemoryPropertyFlagBits(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	staging, err := alloc.NewBuffer(len(nrgba.Pix), 1, 1, vk.BufferUsageFlagBits(vk.BufferUsageTransferSrcBit), hostVisible)
	if err != nil {
		return fmt.Errorf("asset: allocating staging buffer: %w", err)
	}
	if err := staging.Write(nrgba.Pix, len(nrgba.Pix), 0); err != nil {
		staging.Destroy()
		return fmt.Errorf("asset: writing staging buffer: %w", err)
	}

	texture, err := alloc.NewTexture(extent, vk.FormatR8g8b8a8Srgb, memory.DefaultSamplerInfo())
	if err != nil {
		staging.Destroy()
		return fmt.Errorf("asset: creating texture: %w", err)
	}
	texture.Upload(cmd, staging)

	m.PushStaging(staging)
	m.AddTexture(texture)
	return nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	bounds := img.Bounds()
	n := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			n.Set(x, y, img.At(x, y))
		}
	}
	return n
}
