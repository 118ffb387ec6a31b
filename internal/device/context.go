// Package device implements §4.1 (QueueFamilyAnalyzer) and §4.2
// (DeviceContext): instance/device bring-up, physical-device scoring,
// required-feature enablement, and the three logical queues with their
// command pools. Grounded primarily on the teacher's platform.go
// (NewPlatform), core.go (extension/layer lists), device.go (CoreDevice)
// and queue.go (CoreQueue), widened with other_examples' goki/cogentcore
// vgpu-device.go.go for the PNext required-feature-chain pattern.
package device

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/andewx/muon/internal/logging"
	"github.com/andewx/muon/internal/vkx"
	vk "github.com/vulkan-go/vulkan"
)

// Debug gates validation-layer selection and debug-messenger creation.
// Corresponds to §9's "preprocessor-gated debug code" redesign: a
// runtime option on Options.Debug takes the place of a build tag,
// since nothing in the corpus gates this kind of toggle at compile
// time either.
const Debug = false

// RequiredInstanceExtensions are always enabled, independent of the
// window surface provider's own list, per §4.2.
var RequiredInstanceExtensions = []string{
	"VK_KHR_surface",
	"VK_KHR_get_surface_capabilities2",
	"VK_KHR_swapchain_colorspace",
}

// RequiredDeviceExtensions are always enabled on the selected GPU.
var RequiredDeviceExtensions = []string{
	"VK_KHR_swapchain",
	"VK_KHR_dynamic_rendering",
	"VK_KHR_synchronization2",
	"VK_EXT_descriptor_indexing",
	"VK_KHR_buffer_device_address",
}

// WantedDeviceExtensions are enabled when available but not required;
// mesh/task shaders are a §4.2 "enable when available" feature, not a
// hard requirement, since not every GPU in the field supports them.
var WantedDeviceExtensions = []string{
	"VK_EXT_mesh_shader",
}

// DebugInstanceExtensions are added only when Options.Debug is set.
var DebugInstanceExtensions = []string{"VK_EXT_debug_report"}

// DebugValidationLayers are requested only when Options.Debug is set.
var DebugValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}

// SurfaceProvider is the external WindowSurface collaborator (§6),
// satisfied in this repository by a glfw.Window wrapper living in
// cmd/muon, never by this package.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	Extent() (width, height uint32)
}

// Options configures DeviceContext construction.
type Options struct {
	AppName string
	Debug   bool
	Log     *slog.Logger
}

// Queue bundles a logical queue handle with its command pool, per
// §3's "each owns a command pool flagged for transient + per-buffer
// resettable allocation."
type Queue struct {
	Handle      vk.Queue
	FamilyIndex uint32
	QueueIndex  uint32
	Pool        *CommandPool
}

// DeviceContext owns the instance, debug callback, surface, physical
// device, logical device, and the three logical queues. It does not
// hold the memory allocator; memory.NewAllocator builds one from a
// DeviceContext. Grounded on the teacher's basePlatform/platform
// pair in platform.go, generalized from the teacher's
// graphics+optional-separate-present-queue model to the canonical
// three-logical-queue model resolved in SPEC_FULL.md §9.
type DeviceContext struct {
	log *slog.Logger

	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	surface       vk.Surface

	gpu              vk.PhysicalDevice
	gpuProperties    vk.PhysicalDeviceProperties
	memoryProperties vk.PhysicalDeviceMemoryProperties

	device vk.Device

	Graphics Queue
	Compute  Queue
	Transfer Queue

	assignment Assignment
}

// New constructs a DeviceContext following the fixed order in §4.2:
// instance (with required + debug extensions) -> debug messenger ->
// surface -> GPU scoring -> logical device with the required feature
// chain -> three Queues with command pools.
func New(sp SurfaceProvider, opts Options) (*DeviceContext, error) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	dc := &DeviceContext{log: opts.Log}

	instanceExt, err := buildInstanceExtensionList(sp, opts.Debug)
	if err != nil {
		return nil, err
	}
	layers, err := buildLayerList(opts.Debug, opts.Log)
	if err != nil {
		return nil, err
	}

	appName := opts.AppName
	if appName == "" {
		appName = "muon"
	}
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.MakeVersion(1, 3, 0),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PApplicationName:   vkx.SafeString(appName),
			PEngineName:        vkx.SafeString("muon"),
		},
		EnabledExtensionCount:   uint32(len(instanceExt)),
		PpEnabledExtensionNames: vkx.SafeStrings(instanceExt),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     vkx.SafeStrings(layers),
	}, nil, &instance)
	if err := vkx.Result("CreateInstance", ret); err != nil {
		return nil, err
	}
	dc.instance = instance
	vk.InitInstance(instance)

	if opts.Debug {
		ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
			PfnCallback: dc.debugCallbackFunc,
		}, nil, &dc.debugCallback)
		if err := vkx.Result("CreateDebugReportCallback", ret); err != nil {
			opts.Log.Warn("debug report callback unavailable", "error", err)
		}
	}

	surface, err := sp.CreateSurface(instance)
	if err != nil {
		dc.Destroy()
		return nil, fmt.Errorf("%w: %v", vkx.ErrSurfaceCreation, err)
	}
	dc.surface = surface

	gpu, err := selectPhysicalDevice(instance, surface)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	dc.gpu = gpu
	vk.GetPhysicalDeviceProperties(gpu, &dc.gpuProperties)
	dc.gpuProperties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(gpu, &dc.memoryProperties)
	dc.memoryProperties.Deref()

	families, err := AnalyzeQueueFamilies(gpu, surface)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	assignment, err := SelectQueues(families)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	dc.assignment = assignment

	deviceExt, err := buildDeviceExtensionList(gpu)
	if err != nil {
		dc.Destroy()
		return nil, err
	}

	device, err := createLogicalDevice(gpu, assignment, deviceExt, layers)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	dc.device = device

	dc.Graphics, err = newQueue(device, assignment.Graphics)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	dc.Compute, err = newQueue(device, assignment.Compute)
	if err != nil {
		dc.Destroy()
		return nil, err
	}
	dc.Transfer, err = newQueue(device, assignment.Transfer)
	if err != nil {
		dc.Destroy()
		return nil, err
	}

	return dc, nil
}

func newQueue(device vk.Device, lq LogicalQueue) (Queue, error) {
	var handle vk.Queue
	vk.GetDeviceQueue(device, lq.FamilyIndex, lq.QueueIndex, &handle)
	pool, err := NewCommandPool(device, lq.FamilyIndex)
	if err != nil {
		return Queue{}, err
	}
	return Queue{Handle: handle, FamilyIndex: lq.FamilyIndex, QueueIndex: lq.QueueIndex, Pool: pool}, nil
}

func buildInstanceExtensionList(sp SurfaceProvider, debug bool) ([]string, error) {
	wanted := append([]string{}, sp.RequiredInstanceExtensions()...)
	required := append([]string{}, RequiredInstanceExtensions...)
	if debug {
		wanted = append(wanted, DebugInstanceExtensions...)
	}
	set, err := vkx.NewInstanceExtensionSet(wanted, required)
	if err != nil {
		return nil, err
	}
	if ok, missing := set.HasRequired(); !ok {
		return nil, fmt.Errorf("%w: %v", vkx.ErrMissingExtension, missing)
	}
	return set.ToEnable(), nil
}

func buildDeviceExtensionList(gpu vk.PhysicalDevice) ([]string, error) {
	set, err := vkx.NewDeviceExtensionSet(WantedDeviceExtensions, RequiredDeviceExtensions, gpu)
	if err != nil {
		return nil, err
	}
	if ok, missing := set.HasRequired(); !ok {
		return nil, fmt.Errorf("%w: %v", vkx.ErrMissingExtension, missing)
	}
	return set.ToEnable(), nil
}

func buildLayerList(debug bool, log *slog.Logger) ([]string, error) {
	if !debug {
		return nil, nil
	}
	set, err := vkx.NewLayerExtensionSet(DebugValidationLayers)
	if err != nil {
		return nil, err
	}
	if ok, missing := set.HasWanted(); !ok {
		// Validation-layer unavailability is logged, never fatal (§4.2).
		log.Warn("validation layers unavailable", "missing", missing)
	}
	return set.ToEnable(), nil
}

// deviceScore ranks a candidate GPU: discrete GPUs first, then larger
// device-local heap total, per §4.2's GPU scoring rule.
func deviceScore(gpu vk.PhysicalDevice) int64 {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()

	score := int64(0)
	if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		score += 1 << 40
	}

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memProps)
	memProps.Deref()
	for i := uint32(0); i < memProps.MemoryHeapCount; i++ {
		heap := memProps.MemoryHeaps[i]
		heap.Deref()
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			score += int64(heap.Size)
		}
	}
	return score
}

// selectPhysicalDevice enumerates candidates, filters to those with the
// required extensions and queue families, and picks the highest-scored
// survivor, ties broken by enumeration order (first survivor wins when
// scores are equal, since we scan in enumeration order and only replace
// on a strictly higher score).
func selectPhysicalDevice(instance vk.Instance, surface vk.Surface) (vk.PhysicalDevice, error) {
	var count uint32
	if ret := vk.EnumeratePhysicalDevices(instance, &count, nil); vkx.IsError(ret) {
		return nil, vkx.Result("EnumeratePhysicalDevices(count)", ret)
	}
	if count == 0 {
		return nil, vkx.ErrNoSuitableGPU
	}
	gpus := make([]vk.PhysicalDevice, count)
	if ret := vk.EnumeratePhysicalDevices(instance, &count, gpus); vkx.IsError(ret) {
		return nil, vkx.Result("EnumeratePhysicalDevices(list)", ret)
	}

	var best vk.PhysicalDevice
	var bestScore int64 = -1
	for _, gpu := range gpus {
		if _, err := buildDeviceExtensionList(gpu); err != nil {
			continue
		}
		families, err := AnalyzeQueueFamilies(gpu, surface)
		if err != nil {
			continue
		}
		if _, err := SelectQueues(families); err != nil {
			continue
		}
		if s := deviceScore(gpu); best == nil || s > bestScore {
			best, bestScore = gpu, s
		}
	}
	if best == nil {
		return nil, vkx.ErrNoSuitableGPU
	}
	return best, nil
}

// requiredFeatureChain builds the pNext chain of required-when-available
// physical device features for device creation: synchronization-2,
// dynamic-rendering, descriptor-indexing (partially-bound + runtime-array
// + update-after-bind), and buffer-device-address. No mesh/task-shader
// feature struct is chained; VK_EXT_mesh_shader is only requested as a
// wanted device extension. Grounded on other_examples' goki/cogentcore Device.MakeDevice, which
// threads a PhysicalDeviceFeatures2-style struct through
// vk.DeviceCreateInfo.PNext via unsafe.Pointer.
type requiredFeatureChain struct {
	sync2        vk.PhysicalDeviceSynchronization2Features
	dynRendering vk.PhysicalDeviceDynamicRenderingFeatures
	descIndex    vk.PhysicalDeviceDescriptorIndexingFeatures
	bufAddr      vk.PhysicalDeviceBufferDeviceAddressFeatures
}

func newRequiredFeatureChain() *requiredFeatureChain {
	c := &requiredFeatureChain{}
	c.bufAddr = vk.PhysicalDeviceBufferDeviceAddressFeatures{
		SType:               vk.StructureTypePhysicalDeviceBufferDeviceAddressFeatures,
		BufferDeviceAddress: vk.True,
	}
	c.descIndex = vk.PhysicalDeviceDescriptorIndexingFeatures{
		SType:                                         vk.StructureTypePhysicalDeviceDescriptorIndexingFeatures,
		PNext:                                          unsafe.Pointer(&c.bufAddr),
		ShaderSampledImageArrayNonUniformIndexing:      vk.True,
		ShaderUniformBufferArrayNonUniformIndexing:     vk.True,
		ShaderStorageBufferArrayNonUniformIndexing:     vk.True,
		DescriptorBindingPartiallyBound:                vk.True,
		DescriptorBindingVariableDescriptorCount:       vk.True,
		RuntimeDescriptorArray:                         vk.True,
		DescriptorBindingUpdateUnusedWhilePending:      vk.True,
		DescriptorBindingSampledImageUpdateAfterBind:   vk.True,
		DescriptorBindingStorageImageUpdateAfterBind:   vk.True,
		DescriptorBindingUniformBufferUpdateAfterBind:  vk.True,
		DescriptorBindingStorageBufferUpdateAfterBind:  vk.True,
	}
	c.dynRendering = vk.PhysicalDeviceDynamicRenderingFeatures{
		SType:           vk.StructureTypePhysicalDeviceDynamicRenderingFeatures,
		PNext:           unsafe.Pointer(&c.descIndex),
		DynamicRendering: vk.True,
	}
	c.sync2 = vk.PhysicalDeviceSynchronization2Features{
		SType:            vk.StructureTypePhysicalDeviceSynchronization2Features,
		PNext:            unsafe.Pointer(&c.dynRendering),
		Synchronization2: vk.True,
	}
	return c
}

func createLogicalDevice(gpu vk.PhysicalDevice, assignment Assignment, deviceExt, layers []string) (vk.Device, error) {
	chain := newRequiredFeatureChain()
	queueInfos := DeviceQueueCreateInfos(assignment)

	var device vk.Device
	ret := vk.CreateDevice(gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   unsafe.Pointer(&chain.sync2),
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(deviceExt)),
		PpEnabledExtensionNames: vkx.SafeStrings(deviceExt),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     vkx.SafeStrings(layers),
	}, nil, &device)
	if err := vkx.Result("CreateDevice", ret); err != nil {
		return nil, err
	}
	return device, nil
}

func (dc *DeviceContext) debugCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	logging.LogDebugReport(dc.log, flags, objectType, pMessage)
	return vk.Bool32(vk.False)
}

// Instance, Device, PhysicalDevice, Surface, MemoryProperties, and
// QueueAssignment are plain accessors used by internal/memory,
// internal/frame, and internal/pipeline.
func (dc *DeviceContext) Instance() vk.Instance                               { return dc.instance }
func (dc *DeviceContext) Device() vk.Device                                   { return dc.device }
func (dc *DeviceContext) PhysicalDevice() vk.PhysicalDevice                   { return dc.gpu }
func (dc *DeviceContext) Surface() vk.Surface                                 { return dc.surface }
func (dc *DeviceContext) MemoryProperties() vk.PhysicalDeviceMemoryProperties { return dc.memoryProperties }
func (dc *DeviceContext) PhysicalDeviceProperties() vk.PhysicalDeviceProperties { return dc.gpuProperties }
func (dc *DeviceContext) QueueAssignment() Assignment                         { return dc.assignment }
func (dc *DeviceContext) Log() *slog.Logger                                   { return dc.log }

// Destroy idles the device and tears down in reverse creation order:
// queues' command pools -> device -> surface -> debug messenger ->
// instance. Grounded on the teacher's platform.Destroy.
func (dc *DeviceContext) Destroy() {
	if dc.device != nil {
		vk.DeviceWaitIdle(dc.device)
	}
	for _, q := range []*Queue{&dc.Graphics, &dc.Compute, &dc.Transfer} {
		if q.Pool != nil {
			q.Pool.Destroy()
			q.Pool = nil
		}
	}
	if dc.device != nil {
		vk.DestroyDevice(dc.device, nil)
		dc.device = nil
	}
	if dc.surface != vk.NullSurface {
		vk.DestroySurface(dc.instance, dc.surface, nil)
		dc.surface = vk.NullSurface
	}
	if dc.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(dc.instance, dc.debugCallback, nil)
		dc.debugCallback = vk.NullDebugReportCallback
	}
	if dc.instance != nil {
		vk.DestroyInstance(dc.instance, nil)
		dc.instance = nil
	}
}
