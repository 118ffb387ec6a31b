package vkx

import "unsafe"

// SafeString null-terminates s for passage to a C API expecting a
// *uint8. The teacher inlines this at every CreateInfo call site; muon
// gives it one name instead.
func SafeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

// SafeStrings null-terminates every element of ss.
func SafeStrings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = SafeString(s)
	}
	return out
}

// PNext returns s as the unsafe.Pointer a CreateInfo's PNext field
// expects, for chaining extension structs without repeating the cast
// at every call site.
func PNext[T any](s *T) unsafe.Pointer {
	return unsafe.Pointer(s)
}

// SliceUint32 reinterprets a SPIR-V byte blob as the uint32 words the
// vk.ShaderModuleCreateInfo.PCode field expects. buf's length must be a
// multiple of 4; SPIR-V binaries always satisfy this.
func SliceUint32(buf []byte) []uint32 {
	if len(buf)%4 != 0 {
		panic("vkx: SliceUint32: buffer length is not a multiple of 4")
	}
	out := make([]uint32, len(buf)/4)
	src := unsafe.Slice((*uint32)(unsafe.Pointer(&buf[0])), len(out))
	copy(out, src)
	return out
}
