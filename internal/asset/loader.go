package asset

import vk "github.com/vulkan-go/vulkan"

// Loader is the capability a file-type handler implements, per §4.7's
// "deep virtual class hierarchy" redesign: any value exposing this
// small set can be registered, rather than a loader base class.
// Grounded on original_source's AssetLoader (asset_loader.hpp), whose
// fromMemory/fromFile virtuals become plain methods taking the
// manager and the in-progress command buffer explicitly instead of a
// stashed back-reference.
type Loader interface {
	// FileTypes returns the extensions (including the leading dot,
	// e.g. ".png") this loader handles.
	FileTypes() []string

	// LoadFromMemory decodes data and records any transfer-queue
	// copies into cmd, via m's staging-buffer and collection helpers.
	LoadFromMemory(m *Manager, cmd vk.CommandBuffer, data []byte) error

	// LoadFromFile reads path and behaves as LoadFromMemory.
	LoadFromFile(m *Manager, cmd vk.CommandBuffer, path string) error
}
