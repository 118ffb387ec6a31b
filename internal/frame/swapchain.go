// Package frame implements §4.4: the Swapchain and the FrameManager
// that pipelines MAX_FRAMES_IN_FLIGHT frames across it. Grounded on
// the teacher's swapchain.go (CoreSwapchain), context.go's frameLag
// constant and fence/semaphore slices, and managers.go's
// FenceManager/CommandBufferManager.
package frame

import (
	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// MaxFramesInFlight mirrors the teacher's const frameLag = 2.
const MaxFramesInFlight = 2

// Swapchain wraps a vk.Swapchain together with its per-image views and
// the surface format/present mode it was built with.
type Swapchain struct {
	dc *device.DeviceContext

	handle      vk.Swapchain
	format      vk.SurfaceFormat
	presentMode vk.PresentMode
	extent      vk.Extent2D

	images     []vk.Image
	imageViews []vk.ImageView
}

// SurfacePreferences optionally pins the color space and/or present
// mode a new Swapchain is built with, overriding the automatic
// SelectSurfaceFormat/SelectPresentMode choice. Used by the Renderer
// facade's set_active_surface_format/set_active_present_mode, per
// §4.9. A nil field keeps the automatic selection for that axis.
type SurfacePreferences struct {
	ColorSpace  *vk.ColorSpace
	PresentMode *vk.PresentMode
}

// ProbeSurfaceFormats queries every vk.SurfaceFormat the surface
// supports, for the Renderer facade's HDR/SDR enumeration.
func ProbeSurfaceFormats(dc *device.DeviceContext) ([]vk.SurfaceFormat, error) {
	gpu := dc.PhysicalDevice()
	surface := dc.Surface()
	var count uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	if err := vkx.Result("GetPhysicalDeviceSurfaceFormats", ret); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, count)
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats)
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

// ProbePresentModes queries every vk.PresentMode the surface supports.
func ProbePresentModes(dc *device.DeviceContext) ([]vk.PresentMode, error) {
	gpu := dc.PhysicalDevice()
	surface := dc.Surface()
	var count uint32
	ret := vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, nil)
	if err := vkx.Result("GetPhysicalDeviceSurfacePresentModes", ret); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, count)
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, modes)
	return modes, nil
}

func selectSurfaceFormatPreferring(candidates []vk.SurfaceFormat, preferred *vk.ColorSpace) (vk.SurfaceFormat, error) {
	if preferred == nil {
		return SelectSurfaceFormat(candidates)
	}
	for _, f := range candidates {
		if f.ColorSpace == *preferred && acceptableChannelLayout(f.Format) {
			return f, nil
		}
	}
	return vk.SurfaceFormat{}, ErrNoSuitableSurfaceFormat
}

func selectPresentModePreferring(available []vk.PresentMode, preferred *vk.PresentMode) vk.PresentMode {
	if preferred != nil {
		for _, m := range available {
			if m == *preferred {
				return m
			}
		}
	}
	return SelectPresentMode(available)
}

// NewSwapchain queries surface capabilities, formats, and present
// modes, then builds a swapchain. If old is non-nil, its handle is
// passed as OldSwapchain and surrendered (destroyed) once the new
// swapchain is created, per §3's "previous handle is surrendered
// before the old instance is dropped." prefs optionally pins the
// color space and/or present mode; its zero value selects
// automatically.
func NewSwapchain(dc *device.DeviceContext, old *Swapchain, prefs SurfacePreferences) (*Swapchain, error) {
	gpu := dc.PhysicalDevice()
	surface := dc.Surface()

	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps)
	if err := vkx.Result("GetPhysicalDeviceSurfaceCapabilities", ret); err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()

	formats, err := ProbeSurfaceFormats(dc)
	if err != nil {
		return nil, err
	}
	format, err := selectSurfaceFormatPreferring(formats, prefs.ColorSpace)
	if err != nil {
		return nil, err
	}

	modes, err := ProbePresentModes(dc)
	if err != nil {
		return nil, err
	}
	presentMode := selectPresentModePreferring(modes, prefs.PresentMode)

	extent := caps.CurrentExtent
	if extent.Width == vk.MaxUint32 {
		return nil, ErrNoSuitableSurfaceFormat
	}

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	var oldHandle vk.Swapchain
	if old != nil {
		oldHandle = old.handle
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     oldHandle,
	}

	var handle vk.Swapchain
	ret = vk.CreateSwapchain(dc.Device(), &createInfo, nil, &handle)
	if err := vkx.Result("CreateSwapchain", ret); err != nil {
		return nil, err
	}

	if old != nil {
		old.destroyViewsOnly(dc)
		vk.DestroySwapchain(dc.Device(), old.handle, nil)
		old.handle = vk.NullSwapchain
	}

	var count uint32
	vk.GetSwapchainImages(dc.Device(), handle, &count, nil)
	images := make([]vk.Image, count)
	vk.GetSwapchainImages(dc.Device(), handle, &count, images)

	views := make([]vk.ImageView, count)
	for i := uint32(0); i < count; i++ {
		ret := vk.CreateImageView(dc.Device(), &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    images[i],
			ViewType: vk.ImageViewType2d,
			Format:   format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &views[i])
		if err := vkx.Result("CreateImageView", ret); err != nil {
			return nil, err
		}
	}

	return &Swapchain{
		dc:          dc,
		handle:      handle,
		format:      format,
		presentMode: presentMode,
		extent:      extent,
		images:      images,
		imageViews:  views,
	}, nil
}

func (s *Swapchain) Handle() vk.Swapchain             { return s.handle }
func (s *Swapchain) Format() vk.SurfaceFormat          { return s.format }
func (s *Swapchain) PresentMode() vk.PresentMode       { return s.presentMode }
func (s *Swapchain) Extent() vk.Extent2D               { return s.extent }
func (s *Swapchain) ImageCount() int                   { return len(s.images) }
func (s *Swapchain) ImageView(i int) vk.ImageView      { return s.imageViews[i] }
func (s *Swapchain) Image(i int) vk.Image              { return s.images[i] }

func (s *Swapchain) destroyViewsOnly(dc *device.DeviceContext) {
	for _, v := range s.imageViews {
		vk.DestroyImageView(dc.Device(), v, nil)
	}
	s.imageViews = nil
}

// Destroy destroys the swapchain's views and handle.
func (s *Swapchain) Destroy() {
	s.destroyViewsOnly(s.dc)
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.dc.Device(), s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}
