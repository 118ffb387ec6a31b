package shaderc

import "errors"

var (
	// ErrUnknownStage is returned when a source path's extension does
	// not map to a known shader stage, per §4.6 step 4.
	ErrUnknownStage = errors.New("shaderc: source file extension does not map to a known shader stage")

	// ErrClosed is returned by SubmitWork once Shutdown has been called.
	ErrClosed = errors.New("shaderc: compiler is shut down")
)
