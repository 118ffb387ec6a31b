// Package muon is the root-importable facade over the engine's
// internal packages, exposing the Renderer described in §4.9.
// Grounded on the teacher's context.go/instance.go frame loop
// (Update/submit_pipeline/present_image), wrapped here as a facade
// over internal/frame rather than the teacher's monolithic context.
package muon

import (
	"errors"
	"fmt"

	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/frame"
	vk "github.com/vulkan-go/vulkan"
)

// ErrPresentModeNotSupported is returned by SetActivePresentMode when
// the requested mode was not in the probed set.
var ErrPresentModeNotSupported = errors.New("renderer: present mode not supported by this surface")

// ErrColorSpaceNotSupported is returned by SetActiveSurfaceFormat when
// the requested color space was not in the probed set.
var ErrColorSpaceNotSupported = errors.New("renderer: color space not supported by this surface")

// Renderer is the user-facing facade: it owns the DeviceContext and
// drives a frame.FrameManager, per §4.9.
type Renderer struct {
	dc *device.DeviceContext
	fm *frame.FrameManager

	surfaceFormats []vk.SurfaceFormat
	presentModes   []vk.PresentMode
}

// New constructs a Renderer against sp (the window collaborator) and
// opts, probing the resulting surface's formats and present modes and
// building the initial swapchain and FrameManager.
func New(sp device.SurfaceProvider, opts device.Options) (*Renderer, error) {
	dc, err := device.New(sp, opts)
	if err != nil {
		return nil, err
	}

	surfaceFormats, err := frame.ProbeSurfaceFormats(dc)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	presentModes, err := frame.ProbePresentModes(dc)
	if err != nil {
		dc.Destroy()
		return nil, err
	}

	sc, err := frame.NewSwapchain(dc, nil, frame.SurfacePreferences{})
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	fm, err := frame.NewFrameManager(dc, sc)
	if err != nil {
		sc.Destroy()
		dc.Destroy()
		return nil, err
	}

	return &Renderer{
		dc:             dc,
		fm:             fm,
		surfaceFormats: surfaceFormats,
		presentModes:   presentModes,
	}, nil
}

// HasHDRSupport reports whether any probed surface format classifies
// as HDR, per §4.9.
func (r *Renderer) HasHDRSupport() bool {
	return frame.HasHDRSupport(r.surfaceFormats)
}

// AvailableColorSpaces partitions the probed surface formats' color
// spaces into HDR and SDR sets, per §4.9's enumeration requirement.
// Each color space appears at most once per set.
func (r *Renderer) AvailableColorSpaces() (hdr, sdr []vk.ColorSpace) {
	seen := map[vk.ColorSpace]bool{}
	for _, f := range r.surfaceFormats {
		if seen[f.ColorSpace] {
			continue
		}
		seen[f.ColorSpace] = true
		if frame.ClassifyColorSpace(f.ColorSpace) == frame.ClassHDR {
			hdr = append(hdr, f.ColorSpace)
		} else {
			sdr = append(sdr, f.ColorSpace)
		}
	}
	return hdr, sdr
}

// AvailablePresentModes returns every present mode probed for this
// surface.
func (r *Renderer) AvailablePresentModes() []vk.PresentMode {
	return append([]vk.PresentMode(nil), r.presentModes...)
}

// SetActiveSurfaceFormat pins the swapchain's color space to
// colorSpace, validating that it was present in the probed set, per
// §4.9. The change takes effect on the next RebuildSwapchain.
func (r *Renderer) SetActiveSurfaceFormat(colorSpace vk.ColorSpace) error {
	found := false
	for _, f := range r.surfaceFormats {
		if f.ColorSpace == colorSpace {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %v", ErrColorSpaceNotSupported, colorSpace)
	}
	prefs := r.fm.Preferences()
	prefs.ColorSpace = &colorSpace
	r.fm.SetPreferences(prefs)
	return nil
}

// SetActivePresentMode pins the swapchain's present mode to mode,
// validating that it was present in the probed set, per §4.9. The
// change takes effect on the next RebuildSwapchain.
func (r *Renderer) SetActivePresentMode(mode vk.PresentMode) error {
	found := false
	for _, m := range r.presentModes {
		if m == mode {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %v", ErrPresentModeNotSupported, mode)
	}
	prefs := r.fm.Preferences()
	prefs.PresentMode = &mode
	r.fm.SetPreferences(prefs)
	return nil
}

// RebuildSwapchain rebuilds the swapchain against the current active
// preferences. It is rejected with frame.ErrFrameInProgress while a
// frame is in progress, per §4.9.
func (r *Renderer) RebuildSwapchain() error {
	if r.fm.InProgress() {
		return frame.ErrFrameInProgress
	}
	return r.fm.Rebuild()
}

// BeginFrame delegates to the FrameManager's acquire protocol.
func (r *Renderer) BeginFrame() (vk.CommandBuffer, uint32, error) {
	return r.fm.BeginFrame()
}

// EndFrame delegates to the FrameManager's submit protocol.
func (r *Renderer) EndFrame() error {
	return r.fm.EndFrame()
}

// NeedsRebuild reports whether the last EndFrame observed an
// out-of-date or suboptimal present.
func (r *Renderer) NeedsRebuild() bool { return r.fm.NeedsRebuild() }

// DeviceContext exposes the underlying device context for components
// (AssetManager, ShaderCompiler, Project) that need direct device
// access.
func (r *Renderer) DeviceContext() *device.DeviceContext { return r.dc }

// FrameManager exposes the underlying frame manager.
func (r *Renderer) FrameManager() *frame.FrameManager { return r.fm }

// Destroy tears down the frame manager and device context, in
// reverse-creation order.
func (r *Renderer) Destroy() {
	r.fm.Destroy()
	r.dc.Destroy()
}
