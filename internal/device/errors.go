package device

import "errors"

var (
	// ErrNoGraphicsPresentFamily is returned when no queue family
	// supports both graphics and present, per §4.1 rule 1. Device
	// selection must fail when this occurs.
	ErrNoGraphicsPresentFamily = errors.New("device: no queue family supports graphics and present")
	ErrNoComputeFamily         = errors.New("device: no queue family supports compute")
	ErrNoTransferFamily        = errors.New("device: no queue family supports transfer")
)
