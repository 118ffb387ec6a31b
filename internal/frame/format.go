package frame

import vk "github.com/vulkan-go/vulkan"

// ColorSpaceClass partitions a surface color space into HDR or SDR,
// per §4.4's probing rules.
type ColorSpaceClass int

const (
	ClassSDR ColorSpaceClass = iota
	ClassHDR
)

// ClassifyColorSpace maps a vk.ColorSpace to ClassHDR or ClassSDR.
// BT2020-linear, HDR10-ST2084/HLG, and Display-Native-AMD classify as
// HDR; BT709/sRGB classify as SDR. Unknown spaces default to SDR.
func ClassifyColorSpace(cs vk.ColorSpace) ColorSpaceClass {
	switch cs {
	case vk.ColorSpaceBt2020LinearExt, vk.ColorSpaceHdr10St2084Ext, vk.ColorSpaceHdr10HlgExt, vk.ColorSpaceDisplayNativeAmd:
		return ClassHDR
	default:
		return ClassSDR
	}
}

// acceptableChannelLayout reports whether format uses a standard 8- or
// 10-bit channel layout, per §4.4's format-acceptance filter.
func acceptableChannelLayout(format vk.Format) bool {
	switch format {
	case vk.FormatR8g8b8a8Unorm, vk.FormatB8g8r8a8Unorm, vk.FormatR8g8b8a8Srgb, vk.FormatB8g8r8a8Srgb,
		vk.FormatA8b8g8r8SrgbPack32, vk.FormatA8b8g8r8UnormPack32,
		vk.FormatA2b10g10r10UnormPack32, vk.FormatA2r10g10b10UnormPack32:
		return true
	default:
		return false
	}
}

// SelectSurfaceFormat picks the preferred format among candidates:
// prefer any HDR-classified, standard-layout format; otherwise the
// first SDR-classified, standard-layout format.
func SelectSurfaceFormat(candidates []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	var firstSDR *vk.SurfaceFormat
	for i := range candidates {
		f := candidates[i]
		if !acceptableChannelLayout(f.Format) {
			continue
		}
		if ClassifyColorSpace(f.ColorSpace) == ClassHDR {
			return f, nil
		}
		if firstSDR == nil {
			firstSDR = &candidates[i]
		}
	}
	if firstSDR != nil {
		return *firstSDR, nil
	}
	return vk.SurfaceFormat{}, ErrNoSuitableSurfaceFormat
}

// HasHDRSupport reports whether any candidate classifies as HDR.
func HasHDRSupport(candidates []vk.SurfaceFormat) bool {
	for _, f := range candidates {
		if acceptableChannelLayout(f.Format) && ClassifyColorSpace(f.ColorSpace) == ClassHDR {
			return true
		}
	}
	return false
}

// SelectPresentMode prefers mailbox and otherwise falls back to fifo,
// which the spec guarantees is always supported. Fifo-relaxed is never
// chosen here; it is used only when pinned through
// SurfacePreferences.PresentMode.
func SelectPresentMode(available []vk.PresentMode) vk.PresentMode {
	for _, m := range available {
		if m == vk.PresentModeMailbox {
			return vk.PresentModeMailbox
		}
	}
	return vk.PresentModeFifo
}
