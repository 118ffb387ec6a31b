package frame

import "errors"

// ErrNeedsRebuild is returned by BeginFrame when the swapchain is
// out-of-date and must be rebuilt before rendering can continue.
var ErrNeedsRebuild = errors.New("frame: swapchain needs rebuild")

// ErrFrameInProgress is returned by operations that are rejected while
// a frame is currently between BeginFrame and EndFrame, per §4.9's
// rebuild_swapchain rule.
var ErrFrameInProgress = errors.New("frame: operation rejected while a frame is in progress")

// ErrNoSuitableSurfaceFormat is returned when surface-format probing
// finds nothing usable.
var ErrNoSuitableSurfaceFormat = errors.New("frame: no suitable surface format found")
