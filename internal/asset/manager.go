package asset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andewx/muon/internal/device"
	"github.com/andewx/muon/internal/memory"
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

const uploadTimeoutNanos = 30_000_000_000

// Manager mediates batched asset uploads, per §4.7. It owns one
// transfer-queue command buffer and upload fence, a registry of
// loaders keyed by file extension, a deque of staging buffers live for
// the current session, and the resulting Texture/Mesh collections.
// Grounded on original_source's AssetManager (asset_manager.hpp/.cpp).
// Staging buffers are not pooled across sessions: EndLoading destroys
// them once the upload fence has signaled. Manager itself records no
// image barriers.
type Manager struct {
	device vk.Device
	queue  vk.Queue
	pool   *device.CommandPool
	alloc  *memory.Allocator
	log    *slog.Logger

	cmd   vk.CommandBuffer
	fence vk.Fence

	loadingInProgress bool

	loaders     map[string]Loader
	loaderSets  [][]string
	stagingDeque []*memory.Buffer

	textures []*memory.Texture
	meshes   []*memory.Mesh
}

// NewManager allocates the transfer command buffer and upload fence
// against transferQueue's pool, per §4.7.
func NewManager(dev vk.Device, transferQueue device.Queue, alloc *memory.Allocator, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	bufs, err := transferQueue.Pool.Allocate(1)
	if err != nil {
		return nil, err
	}
	var fence vk.Fence
	ret := vk.CreateFence(dev, &vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}, nil, &fence)
	if err := vkx.Result("CreateFence", ret); err != nil {
		return nil, err
	}
	return &Manager{
		device:  dev,
		queue:   transferQueue.Handle,
		pool:    transferQueue.Pool,
		alloc:   alloc,
		log:     log,
		cmd:     bufs[0],
		fence:   fence,
		loaders: map[string]Loader{},
	}, nil
}

// Allocator returns the allocator loaders use to build staging
// buffers, textures, and meshes.
func (m *Manager) Allocator() *memory.Allocator { return m.alloc }

// PushStaging registers a staging buffer in the session's deque so it
// stays alive until EndLoading clears it.
func (m *Manager) PushStaging(buf *memory.Buffer) { m.stagingDeque = append(m.stagingDeque, buf) }

// AddTexture appends a completed texture to the manager's collection.
func (m *Manager) AddTexture(t *memory.Texture) { m.textures = append(m.textures, t) }

// AddMesh appends a completed mesh to the manager's collection.
func (m *Manager) AddMesh(mesh *memory.Mesh) { m.meshes = append(m.meshes, mesh) }

// Textures returns every texture loaded so far.
func (m *Manager) Textures() []*memory.Texture { return m.textures }

// Meshes returns every mesh loaded so far.
func (m *Manager) Meshes() []*memory.Mesh { return m.meshes }

// RegisterLoader registers loader for every extension in
// loader.FileTypes(). Registration is idempotent by file-type set:
// a loader sharing its exact extension set with an already-registered
// loader is logged and skipped, per §4.7.
func (m *Manager) RegisterLoader(loader Loader) {
	types := loader.FileTypes()
	for _, set := range m.loaderSets {
		if sameSet(set, types) {
			m.log.Warn("asset: skipping loader, already registered for file types", "types", types)
			return
		}
	}
	m.loaderSets = append(m.loaderSets, types)
	for _, ext := range types {
		m.loaders[ext] = loader
	}
	m.log.Debug("asset: registered loader", "types", types)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

func (m *Manager) loaderFor(fileType string) (Loader, error) {
	loader, ok := m.loaders[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, fileType)
	}
	return loader, nil
}

// BeginLoading begins the transfer command buffer, per §4.7 step 1.
// It panics if a loading session is already in progress, per §8's
// boundary behavior mirrored from FrameManager.BeginFrame.
func (m *Manager) BeginLoading() {
	if m.loadingInProgress {
		panic("asset: BeginLoading called while a loading session is already in progress")
	}
	vk.ResetCommandBuffer(m.cmd, 0)
	vk.BeginCommandBuffer(m.cmd, &vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo})
	m.loadingInProgress = true
}

// LoadFromMemory dispatches data to the loader registered for
// fileType, per §4.7 step 2.
func (m *Manager) LoadFromMemory(data []byte, fileType string) error {
	if !m.loadingInProgress {
		panic("asset: LoadFromMemory called outside a loading session")
	}
	loader, err := m.loaderFor(fileType)
	if err != nil {
		return err
	}
	return loader.LoadFromMemory(m, m.cmd, data)
}

// LoadFromFile reads path and dispatches it to the loader registered
// for its extension, per §4.7 step 2.
func (m *Manager) LoadFromFile(path string) error {
	if !m.loadingInProgress {
		panic("asset: LoadFromFile called outside a loading session")
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return ErrFileHasNoExtension
	}
	loader, err := m.loaderFor(ext)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("asset: stat %s: %w", path, err)
	}
	return loader.LoadFromFile(m, m.cmd, path)
}

// EndLoading ends and submits the command buffer, waits on the upload
// fence with a 30-second timeout, resets the fence, and clears the
// staging-buffer deque, per §4.7 step 3.
func (m *Manager) EndLoading() error {
	if !m.loadingInProgress {
		panic("asset: EndLoading called outside a loading session")
	}
	m.loadingInProgress = false

	if ret := vk.EndCommandBuffer(m.cmd); vkx.IsError(ret) {
		return vkx.Result("EndCommandBuffer", ret)
	}

	ret := vk.QueueSubmit(m.queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{m.cmd},
	}}, m.fence)
	if err := vkx.Result("QueueSubmit", ret); err != nil {
		return err
	}

	ret = vk.WaitForFences(m.device, 1, []vk.Fence{m.fence}, vk.True, uploadTimeoutNanos)
	if ret == vk.Timeout {
		return ErrUploadTimeout
	}
	if err := vkx.Result("WaitForFences", ret); err != nil {
		return err
	}

	vk.ResetFences(m.device, 1, []vk.Fence{m.fence})

	for _, buf := range m.stagingDeque {
		buf.Destroy()
	}
	m.stagingDeque = m.stagingDeque[:0]
	return nil
}

// Destroy destroys the upload fence. The command buffer is owned by
// the transfer queue's pool and is freed when that pool is destroyed.
func (m *Manager) Destroy() {
	if m.fence != vk.NullFence {
		vk.DestroyFence(m.device, m.fence, nil)
		m.fence = vk.NullFence
	}
}
