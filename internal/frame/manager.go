package frame

import (
	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

const acquireTimeoutNanos = 30_000_000_000

// FrameManager pipelines MaxFramesInFlight frames across a Swapchain,
// implementing the acquire/submit protocol of §4.4. Grounded on the
// teacher's context.go fence/semaphore slices and managers.go's
// FenceManager, generalized from a fixed render-pass submit to a
// dynamic-rendering-agnostic command-buffer handoff.
type FrameManager struct {
	dc        *device.DeviceContext
	swapchain *Swapchain

	pool    *device.CommandPool
	cmdBufs []vk.CommandBuffer

	imageAvailable []vk.Semaphore
	inFlight       []vk.Fence
	renderFinished []vk.Semaphore
	imagesInFlight []vk.Fence

	currentFrame int
	imageIndex   uint32
	inProgress   bool
	needsRebuild bool

	prefs SurfacePreferences
}

// NewFrameManager allocates the per-frame semaphores/fences and one
// command buffer per in-flight frame from the graphics queue's pool.
func NewFrameManager(dc *device.DeviceContext, sc *Swapchain) (*FrameManager, error) {
	fm := &FrameManager{
		dc:        dc,
		swapchain: sc,
		pool:      dc.Graphics.Pool,
	}
	if err := fm.createSyncObjects(); err != nil {
		fm.Destroy()
		return nil, err
	}
	bufs, err := fm.pool.Allocate(MaxFramesInFlight)
	if err != nil {
		fm.Destroy()
		return nil, err
	}
	fm.cmdBufs = bufs
	return fm, nil
}

func (fm *FrameManager) createSyncObjects() error {
	fm.imageAvailable = make([]vk.Semaphore, MaxFramesInFlight)
	fm.inFlight = make([]vk.Fence, MaxFramesInFlight)
	for i := 0; i < MaxFramesInFlight; i++ {
		ret := vk.CreateSemaphore(fm.dc.Device(), &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil, &fm.imageAvailable[i])
		if err := vkx.Result("CreateSemaphore", ret); err != nil {
			return err
		}
		ret = vk.CreateFence(fm.dc.Device(), &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &fm.inFlight[i])
		if err := vkx.Result("CreateFence", ret); err != nil {
			return err
		}
	}

	n := fm.swapchain.ImageCount()
	fm.renderFinished = make([]vk.Semaphore, n)
	fm.imagesInFlight = make([]vk.Fence, n)
	for i := 0; i < n; i++ {
		ret := vk.CreateSemaphore(fm.dc.Device(), &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil, &fm.renderFinished[i])
		if err := vkx.Result("CreateSemaphore", ret); err != nil {
			return err
		}
	}
	return nil
}

// BeginFrame implements the acquire protocol: wait on the current
// frame's in-flight fence, acquire the next image signaling
// image_available, and return the frame's command buffer ready to
// record into. Returns ErrNeedsRebuild (without marking a frame in
// progress) if the swapchain is out-of-date.
func (fm *FrameManager) BeginFrame() (vk.CommandBuffer, uint32, error) {
	if fm.inProgress {
		panic("frame: BeginFrame called while a frame is already in progress")
	}

	ret := vk.WaitForFences(fm.dc.Device(), 1, fm.inFlight[fm.currentFrame:fm.currentFrame+1], vk.True, acquireTimeoutNanos)
	if err := vkx.Result("WaitForFences", ret); err != nil {
		return nil, 0, err
	}

	var imageIndex uint32
	ret = vk.AcquireNextImage(fm.dc.Device(), fm.swapchain.Handle(), acquireTimeoutNanos, fm.imageAvailable[fm.currentFrame], vk.NullFence, &imageIndex)
	if ret == vk.ErrorOutOfDate {
		return nil, 0, ErrNeedsRebuild
	}
	if err := vkx.Result("AcquireNextImage", ret); err != nil && ret != vk.Suboptimal {
		return nil, 0, err
	}

	fm.imageIndex = imageIndex
	fm.inProgress = true

	cmd := fm.cmdBufs[fm.currentFrame]
	ret = vk.ResetCommandBuffer(cmd, 0)
	if err := vkx.Result("ResetCommandBuffer", ret); err != nil {
		return nil, 0, err
	}
	ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo})
	if err := vkx.Result("BeginCommandBuffer", ret); err != nil {
		return nil, 0, err
	}
	return cmd, imageIndex, nil
}

// EndFrame implements the submit protocol: waits on any fence still
// owning this swapchain image, submits the frame's command buffer
// signaling render_finished and fencing in_flight, presents, and
// advances current_frame. Returns ErrNeedsRebuild if present reports
// the swapchain out-of-date or suboptimal.
func (fm *FrameManager) EndFrame() error {
	if !fm.inProgress {
		panic("frame: EndFrame called without an active frame")
	}

	cmd := fm.cmdBufs[fm.currentFrame]
	if ret := vk.EndCommandBuffer(cmd); vkx.IsError(ret) {
		fm.inProgress = false
		return vkx.Result("EndCommandBuffer", ret)
	}

	if owner := fm.imagesInFlight[fm.imageIndex]; owner != vk.NullFence {
		vk.WaitForFences(fm.dc.Device(), 1, []vk.Fence{owner}, vk.True, acquireTimeoutNanos)
	}
	fm.imagesInFlight[fm.imageIndex] = fm.inFlight[fm.currentFrame]

	if ret := vk.ResetFences(fm.dc.Device(), 1, fm.inFlight[fm.currentFrame:fm.currentFrame+1]); vkx.IsError(ret) {
		fm.inProgress = false
		return vkx.Result("ResetFences", ret)
	}

	waitStages := []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{fm.imageAvailable[fm.currentFrame]},
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{fm.renderFinished[fm.imageIndex]},
	}
	if ret := vk.QueueSubmit(fm.dc.Graphics.Handle, 1, []vk.SubmitInfo{submit}, fm.inFlight[fm.currentFrame]); vkx.IsError(ret) {
		fm.inProgress = false
		return vkx.Result("QueueSubmit", ret)
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount:  1,
		PWaitSemaphores:     []vk.Semaphore{fm.renderFinished[fm.imageIndex]},
		SwapchainCount:      1,
		PSwapchains:         []vk.Swapchain{fm.swapchain.Handle()},
		PImageIndices:       []uint32{fm.imageIndex},
	}
	ret := vk.QueuePresent(fm.dc.Graphics.Handle, &presentInfo)

	fm.currentFrame = (fm.currentFrame + 1) % MaxFramesInFlight
	fm.inProgress = false

	if ret == vk.ErrorOutOfDate || ret == vk.Suboptimal {
		fm.needsRebuild = true
		return ErrNeedsRebuild
	}
	return vkx.Result("QueuePresent", ret)
}

// InProgress reports whether a frame is currently between BeginFrame
// and EndFrame, per §4.9's rebuild_swapchain rejection rule.
func (fm *FrameManager) InProgress() bool { return fm.inProgress }

// NeedsRebuild reports whether the last EndFrame observed an
// out-of-date or suboptimal present.
func (fm *FrameManager) NeedsRebuild() bool { return fm.needsRebuild }

// Rebuild idles the graphics queue, builds a new Swapchain chained
// from the current one, reallocates command buffers only if the
// in-flight count changed (it never does, since MaxFramesInFlight is
// a compile-time constant), and rebuilds per-image sync objects to
// match the new image count.
func (fm *FrameManager) Rebuild() error {
	vk.QueueWaitIdle(fm.dc.Graphics.Handle)

	newSc, err := NewSwapchain(fm.dc, fm.swapchain, fm.prefs)
	if err != nil {
		return err
	}
	fm.swapchain = newSc

	for _, s := range fm.renderFinished {
		vk.DestroySemaphore(fm.dc.Device(), s, nil)
	}
	n := newSc.ImageCount()
	fm.renderFinished = make([]vk.Semaphore, n)
	fm.imagesInFlight = make([]vk.Fence, n)
	for i := 0; i < n; i++ {
		ret := vk.CreateSemaphore(fm.dc.Device(), &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}, nil, &fm.renderFinished[i])
		if err := vkx.Result("CreateSemaphore", ret); err != nil {
			return err
		}
	}

	fm.needsRebuild = false
	return nil
}

// Swapchain returns the manager's current swapchain.
func (fm *FrameManager) Swapchain() *Swapchain { return fm.swapchain }

// SetPreferences pins the color space and/or present mode the next
// Rebuild constructs its swapchain with, per §4.9's
// set_active_surface_format/set_active_present_mode.
func (fm *FrameManager) SetPreferences(p SurfacePreferences) { fm.prefs = p }

// Preferences returns the manager's current swapchain preferences.
func (fm *FrameManager) Preferences() SurfacePreferences { return fm.prefs }

// Destroy tears down sync objects, command buffers, and the
// swapchain, in reverse-creation order.
func (fm *FrameManager) Destroy() {
	vk.DeviceWaitIdle(fm.dc.Device())
	for _, s := range fm.renderFinished {
		if s != vk.NullSemaphore {
			vk.DestroySemaphore(fm.dc.Device(), s, nil)
		}
	}
	for i := range fm.inFlight {
		if fm.inFlight[i] != vk.NullFence {
			vk.DestroyFence(fm.dc.Device(), fm.inFlight[i], nil)
		}
		if fm.imageAvailable[i] != vk.NullSemaphore {
			vk.DestroySemaphore(fm.dc.Device(), fm.imageAvailable[i], nil)
		}
	}
	if fm.swapchain != nil {
		fm.swapchain.Destroy()
	}
}
