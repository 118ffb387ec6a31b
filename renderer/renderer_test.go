package muon

import (
	"errors"
	"testing"

	"github.com/andewx/muon/internal/frame"
	vk "github.com/vulkan-go/vulkan"
)

func testRenderer(formats []vk.SurfaceFormat, modes []vk.PresentMode) *Renderer {
	return &Renderer{
		fm:             &frame.FrameManager{},
		surfaceFormats: formats,
		presentModes:   modes,
	}
}

func TestHasHDRSupport(t *testing.T) {
	sdrOnly := testRenderer([]vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}, nil)
	if sdrOnly.HasHDRSupport() {
		t.Error("HasHDRSupport() = true for an SDR-only format set")
	}

	withHDR := testRenderer([]vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: vk.ColorSpaceHdr10St2084Ext},
	}, nil)
	if !withHDR.HasHDRSupport() {
		t.Error("HasHDRSupport() = false despite an HDR-classified format present")
	}
}

func TestAvailableColorSpacesPartitionsAndDedups(t *testing.T) {
	r := testRenderer([]vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: vk.ColorSpaceHdr10St2084Ext},
	}, nil)

	hdr, sdr := r.AvailableColorSpaces()
	if len(hdr) != 1 || hdr[0] != vk.ColorSpaceHdr10St2084Ext {
		t.Errorf("hdr = %v, want [ColorSpaceHdr10St2084Ext]", hdr)
	}
	if len(sdr) != 1 || sdr[0] != vk.ColorSpaceSrgbNonlinear {
		t.Errorf("sdr = %v, want [ColorSpaceSrgbNonlinear] (deduplicated)", sdr)
	}
}

func TestSetActiveSurfaceFormatRejectsUnprobedColorSpace(t *testing.T) {
	r := testRenderer([]vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}, nil)

	err := r.SetActiveSurfaceFormat(vk.ColorSpaceHdr10St2084Ext)
	if !errors.Is(err, ErrColorSpaceNotSupported) {
		t.Fatalf("SetActiveSurfaceFormat error = %v, want ErrColorSpaceNotSupported", err)
	}
}

func TestSetActiveSurfaceFormatAcceptsProbedColorSpace(t *testing.T) {
	r := testRenderer([]vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}, nil)

	if err := r.SetActiveSurfaceFormat(vk.ColorSpaceSrgbNonlinear); err != nil {
		t.Fatalf("SetActiveSurfaceFormat error = %v, want nil", err)
	}
	if cs := r.fm.Preferences().ColorSpace; cs == nil || *cs != vk.ColorSpaceSrgbNonlinear {
		t.Error("preferences were not updated with the accepted color space")
	}
}

func TestSetActivePresentModeRejectsUnprobedMode(t *testing.T) {
	r := testRenderer(nil, []vk.PresentMode{vk.PresentModeFifo})

	err := r.SetActivePresentMode(vk.PresentModeMailbox)
	if !errors.Is(err, ErrPresentModeNotSupported) {
		t.Fatalf("SetActivePresentMode error = %v, want ErrPresentModeNotSupported", err)
	}
}

func TestSetActivePresentModeAcceptsProbedMode(t *testing.T) {
	r := testRenderer(nil, []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox})

	if err := r.SetActivePresentMode(vk.PresentModeMailbox); err != nil {
		t.Fatalf("SetActivePresentMode error = %v, want nil", err)
	}
	if m := r.fm.Preferences().PresentMode; m == nil || *m != vk.PresentModeMailbox {
		t.Error("preferences were not updated with the accepted present mode")
	}
}
