// Package vkx collects the small helpers every Vulkan-facing package in
// muon needs: result-to-error translation, safe C-string conversion, and
// instance/device extension negotiation.
package vkx

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Sentinel errors for the initialization-error taxonomy. Recoverable
// call sites wrap one of these with %w; fatal call sites pass the
// wrapped error to Must instead of returning it.
var (
	ErrNoSuitableGPU       = errors.New("vkx: no physical device satisfies the required extensions and features")
	ErrMissingExtension    = errors.New("vkx: required extension unavailable")
	ErrMissingFeature      = errors.New("vkx: required physical device feature unavailable")
	ErrNoSuitableQueue     = errors.New("vkx: no queue family satisfies the requested capability")
	ErrSurfaceCreation     = errors.New("vkx: surface creation failed")
	ErrUnmappableResource  = errors.New("vkx: resource is not host-visible and cannot be mapped")
)

// TimeoutError reports a blocking Vulkan wait that exceeded its deadline.
// Per the engine's error-handling design every such timeout is fatal: it
// indicates either a GPU hang or a programming error, never a condition
// the caller can usefully retry.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("vkx: %s timed out", e.Op)
}

// IsError reports whether ret is anything other than vk.Success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// Result wraps a raw vk.Result into a Go error, or nil on success.
func Result(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return fmt.Errorf("vkx: %s: vulkan result %d", op, ret)
}

// Must panics if err is non-nil, running any finalizers first. Used at
// initialization call sites where failure is unrecoverable, mirroring
// the teacher's orPanic.
func Must(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

// Recover turns a panic captured by a deferred call into *err, preserving
// the original message, for API boundaries that must return an error
// rather than propagate a panic. No package in muon calls it;
// FrameManager's invariant checks panic directly.
func Recover(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%v", v)
	}
}
