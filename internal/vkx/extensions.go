package vkx

import (
	vk "github.com/vulkan-go/vulkan"
)

// ExtensionSet reports the gap between a wanted/required extension or
// layer list and what the platform actually offers. The three concrete
// constructors below (instance extensions, device extensions, layers)
// replace the teacher's two near-identical copies of this logic (one
// under package asche in util.go, one under package dieselvk in
// extensions_2.go) with a single implementation.
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

// HasRequired reports whether every required entry is present, and the
// list of entries that are missing.
func (e *ExtensionSet) HasRequired() (bool, []string) {
	return e.missing(e.required)
}

// HasWanted reports whether every wanted entry is present, and the list
// of entries that are missing.
func (e *ExtensionSet) HasWanted() (bool, []string) {
	return e.missing(e.wanted)
}

func (e *ExtensionSet) missing(want []string) (bool, []string) {
	var missing []string
	for _, w := range want {
		found := false
		for _, a := range e.actual {
			if w == a {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, w)
		}
	}
	return len(missing) == 0, missing
}

// ToEnable returns the required set plus whichever wanted entries are
// actually available, deduplicated, ready to pass to a CreateInfo's
// EnabledExtensionNames/EnabledLayerNames field.
func (e *ExtensionSet) ToEnable() []string {
	enable := append([]string{}, e.required...)
	for _, w := range e.wanted {
		already := false
		for _, r := range e.required {
			if w == r {
				already = true
				break
			}
		}
		if already {
			continue
		}
		for _, a := range e.actual {
			if w == a {
				enable = append(enable, w)
				break
			}
		}
	}
	return enable
}

// InstanceExtensions enumerates the instance extensions the Vulkan
// loader reports as available.
func InstanceExtensions() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, nil); IsError(ret) {
		return nil, Result("EnumerateInstanceExtensionProperties(count)", ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, list); IsError(ret) {
		return nil, Result("EnumerateInstanceExtensionProperties(list)", ret)
	}
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// DeviceExtensions enumerates the extensions a physical device supports.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil); IsError(ret) {
		return nil, Result("EnumerateDeviceExtensionProperties(count)", ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list); IsError(ret) {
		return nil, Result("EnumerateDeviceExtensionProperties(list)", ret)
	}
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// ValidationLayers enumerates the instance layers the loader reports.
func ValidationLayers() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceLayerProperties(&count, nil); IsError(ret) {
		return nil, Result("EnumerateInstanceLayerProperties(count)", ret)
	}
	list := make([]vk.LayerProperties, count)
	if ret := vk.EnumerateInstanceLayerProperties(&count, list); IsError(ret) {
		return nil, Result("EnumerateInstanceLayerProperties(list)", ret)
	}
	names := make([]string, 0, len(list))
	for _, l := range list {
		l.Deref()
		names = append(names, vk.ToString(l.LayerName[:]))
	}
	return names, nil
}

// NewInstanceExtensionSet builds an ExtensionSet against the platform's
// actual instance extensions.
func NewInstanceExtensionSet(wanted, required []string) (*ExtensionSet, error) {
	actual, err := InstanceExtensions()
	if err != nil {
		return nil, err
	}
	return &ExtensionSet{wanted: wanted, required: required, actual: actual}, nil
}

// NewDeviceExtensionSet builds an ExtensionSet against gpu's actual
// supported extensions.
func NewDeviceExtensionSet(wanted, required []string, gpu vk.PhysicalDevice) (*ExtensionSet, error) {
	actual, err := DeviceExtensions(gpu)
	if err != nil {
		return nil, err
	}
	return &ExtensionSet{wanted: wanted, required: required, actual: actual}, nil
}

// NewLayerExtensionSet builds an ExtensionSet against the platform's
// actual validation layers. There is no required layer: validation is
// always optional, logged when unavailable, never fatal (§4.2).
func NewLayerExtensionSet(wanted []string) (*ExtensionSet, error) {
	actual, err := ValidationLayers()
	if err != nil {
		return nil, err
	}
	return &ExtensionSet{wanted: wanted, actual: actual}, nil
}

// FindMemoryType finds a memory type index in props matching
// typeBits (from vk.MemoryRequirements.MemoryTypeBits) and carrying all
// of wantFlags. The fallback variant degrades to "any type with the
// right typeBits" if no type carries wantFlags, matching the teacher's
// FindRequiredMemoryType/FindRequiredMemoryTypeFallback pair.
func FindMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, wantFlags vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		if props.MemoryTypes[i].PropertyFlags&vk.MemoryPropertyFlags(wantFlags) == vk.MemoryPropertyFlags(wantFlags) {
			return i, true
		}
	}
	return 0, false
}

// FindMemoryTypeFallback behaves like FindMemoryType but, failing to
// find wantFlags, returns the first type index matching typeBits alone.
func FindMemoryTypeFallback(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, wantFlags vk.MemoryPropertyFlagBits) (uint32, bool) {
	if idx, ok := FindMemoryType(props, typeBits, wantFlags); ok {
		return idx, true
	}
	if wantFlags != 0 {
		return FindMemoryType(props, typeBits, 0)
	}
	return 0, false
}
