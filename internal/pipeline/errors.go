package pipeline

import "errors"

var (
	errNotWordAligned = errors.New("pipeline: spirv blob is not a multiple of 4 bytes")
	errNotSpirv       = errors.New("pipeline: blob does not start with the SPIR-V magic number")

	// ErrMissingVertexShader is returned when a graphics pipeline's
	// schematic has no vertex stage.
	ErrMissingVertexShader = errors.New("pipeline: graphics pipeline requires a vertex shader")

	// ErrMissingFragmentShader is returned when a graphics pipeline's
	// schematic has no fragment stage.
	ErrMissingFragmentShader = errors.New("pipeline: graphics pipeline requires a fragment shader")
)
