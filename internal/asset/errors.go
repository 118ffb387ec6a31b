package asset

import "errors"

var (
	// ErrNoLoader is returned when no registered loader declares the
	// requested file type.
	ErrNoLoader = errors.New("asset: no loader registered for file type")

	// ErrFileHasNoExtension is returned by LoadFromFile when path has
	// no extension to key a loader lookup by.
	ErrFileHasNoExtension = errors.New("asset: file must have an extension")

	// ErrUploadTimeout is returned when EndLoading's wait on the upload
	// fence exceeds the 30-second budget, per §4.7 step 3.
	ErrUploadTimeout = errors.New("asset: timed out waiting for upload fence")
)
