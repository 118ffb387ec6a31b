package vkx

import (
	"reflect"
	"sort"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func newTestSet(wanted, required, actual []string) *ExtensionSet {
	return &ExtensionSet{wanted: wanted, required: required, actual: actual}
}

func TestExtensionSetHasRequired(t *testing.T) {
	set := newTestSet(nil, []string{"VK_KHR_surface", "VK_KHR_swapchain"}, []string{"VK_KHR_surface"})
	ok, missing := set.HasRequired()
	if ok {
		t.Fatal("HasRequired() = true, want false (swapchain missing)")
	}
	if !reflect.DeepEqual(missing, []string{"VK_KHR_swapchain"}) {
		t.Errorf("missing = %v, want [VK_KHR_swapchain]", missing)
	}
}

func TestExtensionSetHasRequiredSatisfied(t *testing.T) {
	set := newTestSet(nil, []string{"VK_KHR_surface"}, []string{"VK_KHR_surface", "VK_KHR_swapchain"})
	ok, missing := set.HasRequired()
	if !ok || len(missing) != 0 {
		t.Fatalf("HasRequired() = (%v, %v), want (true, [])", ok, missing)
	}
}

func TestExtensionSetToEnableDedupsAndPrefersRequired(t *testing.T) {
	set := newTestSet(
		[]string{"VK_KHR_surface", "VK_EXT_debug_report"},
		[]string{"VK_KHR_surface"},
		[]string{"VK_KHR_surface", "VK_EXT_debug_report"},
	)
	enable := set.ToEnable()
	sort.Strings(enable)
	want := []string{"VK_EXT_debug_report", "VK_KHR_surface"}
	if !reflect.DeepEqual(enable, want) {
		t.Errorf("ToEnable() = %v, want %v", enable, want)
	}
}

func TestExtensionSetToEnableDropsUnavailableWanted(t *testing.T) {
	set := newTestSet([]string{"VK_EXT_not_present"}, nil, []string{"VK_KHR_surface"})
	enable := set.ToEnable()
	if len(enable) != 0 {
		t.Errorf("ToEnable() = %v, want empty (wanted extension unavailable)", enable)
	}
}

func memoryPropsWith(types ...vk.MemoryType) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = uint32(len(types))
	copy(props.MemoryTypes[:], types)
	return props
}

func TestFindMemoryType(t *testing.T) {
	props := memoryPropsWith(
		vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)},
		vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)},
	)

	idx, ok := FindMemoryType(props, 0b11, vk.MemoryPropertyHostVisibleBit)
	if !ok || idx != 1 {
		t.Fatalf("FindMemoryType = (%d, %v), want (1, true)", idx, ok)
	}
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	props := memoryPropsWith(vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)})
	_, ok := FindMemoryType(props, 0b1, vk.MemoryPropertyHostVisibleBit)
	if ok {
		t.Fatal("FindMemoryType should fail: no type carries HostVisible")
	}
}

func TestFindMemoryTypeFallback(t *testing.T) {
	props := memoryPropsWith(vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)})
	idx, ok := FindMemoryTypeFallback(props, 0b1, vk.MemoryPropertyHostVisibleBit)
	if !ok || idx != 0 {
		t.Fatalf("FindMemoryTypeFallback = (%d, %v), want (0, true) via fallback", idx, ok)
	}
}

func TestFindMemoryTypeFallbackRespectsTypeBits(t *testing.T) {
	props := memoryPropsWith(vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)})
	_, ok := FindMemoryTypeFallback(props, 0b0, vk.MemoryPropertyHostVisibleBit)
	if ok {
		t.Fatal("FindMemoryTypeFallback should fail when typeBits excludes every type")
	}
}
