package frame

import (
	"errors"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestClassifyColorSpace(t *testing.T) {
	cases := []struct {
		cs   vk.ColorSpace
		want ColorSpaceClass
	}{
		{vk.ColorSpaceSrgbNonlinear, ClassSDR},
		{vk.ColorSpaceBt2020LinearExt, ClassHDR},
		{vk.ColorSpaceHdr10St2084Ext, ClassHDR},
		{vk.ColorSpaceHdr10HlgExt, ClassHDR},
		{vk.ColorSpaceDisplayNativeAmd, ClassHDR},
	}
	for _, c := range cases {
		if got := ClassifyColorSpace(c.cs); got != c.want {
			t.Errorf("ClassifyColorSpace(%v) = %v, want %v", c.cs, got, c.want)
		}
	}
}

func TestSelectSurfaceFormatPrefersHDR(t *testing.T) {
	candidates := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: vk.ColorSpaceHdr10St2084Ext},
	}
	got, err := SelectSurfaceFormat(candidates)
	if err != nil {
		t.Fatalf("SelectSurfaceFormat: %v", err)
	}
	if got.ColorSpace != vk.ColorSpaceHdr10St2084Ext {
		t.Errorf("SelectSurfaceFormat() = %+v, want the HDR candidate", got)
	}
}

func TestSelectSurfaceFormatFallsBackToSDR(t *testing.T) {
	candidates := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	got, err := SelectSurfaceFormat(candidates)
	if err != nil {
		t.Fatalf("SelectSurfaceFormat: %v", err)
	}
	if got.ColorSpace != vk.ColorSpaceSrgbNonlinear {
		t.Errorf("SelectSurfaceFormat() = %+v, want the SDR candidate", got)
	}
}

func TestSelectSurfaceFormatRejectsNonstandardLayoutOnly(t *testing.T) {
	candidates := []vk.SurfaceFormat{
		{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	_, err := SelectSurfaceFormat(candidates)
	if !errors.Is(err, ErrNoSuitableSurfaceFormat) {
		t.Fatalf("SelectSurfaceFormat error = %v, want ErrNoSuitableSurfaceFormat", err)
	}
}

func TestHasHDRSupport(t *testing.T) {
	if HasHDRSupport([]vk.SurfaceFormat{{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}}) {
		t.Error("HasHDRSupport() = true for an SDR-only set")
	}
	if !HasHDRSupport([]vk.SurfaceFormat{{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: vk.ColorSpaceHdr10St2084Ext}}) {
		t.Error("HasHDRSupport() = false despite an HDR candidate")
	}
}

func TestSelectPresentModePrefersMailbox(t *testing.T) {
	got := SelectPresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeFifoRelaxed})
	if got != vk.PresentModeMailbox {
		t.Errorf("SelectPresentMode() = %v, want PresentModeMailbox", got)
	}
}

func TestSelectPresentModeDoesNotPreferFifoRelaxed(t *testing.T) {
	got := SelectPresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeFifoRelaxed})
	if got != vk.PresentModeFifo {
		t.Errorf("SelectPresentMode() = %v, want PresentModeFifo", got)
	}
}

func TestSelectPresentModeFallsBackToFifo(t *testing.T) {
	got := SelectPresentMode([]vk.PresentMode{vk.PresentModeFifo})
	if got != vk.PresentModeFifo {
		t.Errorf("SelectPresentMode() = %v, want PresentModeFifo", got)
	}
}

func TestSelectSurfaceFormatPreferringHonorsPreferredColorSpace(t *testing.T) {
	candidates := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatA2b10g10r10UnormPack32, ColorSpace: vk.ColorSpaceHdr10St2084Ext},
	}
	preferred := vk.ColorSpaceSrgbNonlinear
	got, err := selectSurfaceFormatPreferring(candidates, &preferred)
	if err != nil {
		t.Fatalf("selectSurfaceFormatPreferring: %v", err)
	}
	if got.ColorSpace != vk.ColorSpaceSrgbNonlinear {
		t.Errorf("selectSurfaceFormatPreferring() = %+v, want the SDR (preferred) candidate despite HDR being available", got)
	}
}

func TestSelectSurfaceFormatPreferringRejectsUnavailableColorSpace(t *testing.T) {
	candidates := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	preferred := vk.ColorSpaceHdr10St2084Ext
	_, err := selectSurfaceFormatPreferring(candidates, &preferred)
	if !errors.Is(err, ErrNoSuitableSurfaceFormat) {
		t.Fatalf("selectSurfaceFormatPreferring error = %v, want ErrNoSuitableSurfaceFormat", err)
	}
}

func TestSelectPresentModePreferringHonorsPreference(t *testing.T) {
	preferred := vk.PresentModeFifo
	got := selectPresentModePreferring([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}, &preferred)
	if got != vk.PresentModeFifo {
		t.Errorf("selectPresentModePreferring() = %v, want the preferred Fifo despite Mailbox being available", got)
	}
}

func TestSelectPresentModePreferringFallsBackWhenUnavailable(t *testing.T) {
	preferred := vk.PresentModeMailbox
	got := selectPresentModePreferring([]vk.PresentMode{vk.PresentModeFifo}, &preferred)
	if got != vk.PresentModeFifo {
		t.Errorf("selectPresentModePreferring() = %v, want the automatic fallback", got)
	}
}
