package schematic

import (
	"encoding/json"
	"errors"
)

// Errors returned by ShaderInfo's conditional validation, per §4.8's
// "{path | (byte_offset, byte_length)} XOR" rule.
var (
	ErrShaderSourceConflict = errors.New("schematic: shader_info must specify exactly one of path or (byteOffset, byteLength)")
	ErrShaderSourceMissing  = errors.New("schematic: shader_info requires either path or (byteOffset, byteLength)")
)

// ShaderInfo describes one shader stage's source and entry point, per
// §4.8. Grounded on original_source's schematic::ShaderInfo
// (shader_info.hpp): a path XOR an inline byte range, an entry point,
// and an optional work-group size (meaningful only for compute/mesh/
// task stages, but recorded here regardless since §4.8 does not gate
// it on pipeline type).
type ShaderInfo struct {
	Path       string
	HasPath    bool
	ByteOffset uint64
	ByteLength uint64
	HasInline  bool

	EntryPoint string

	WorkGroupSize    [3]uint32
	HasWorkGroupSize bool
}

type shaderInfoWire struct {
	Path          *string    `json:"path,omitempty"`
	ByteOffset    *uint64    `json:"byteOffset,omitempty"`
	ByteLength    *uint64    `json:"byteLength,omitempty"`
	EntryPoint    string     `json:"entryPoint"`
	WorkGroupSize *[3]uint32 `json:"workGroupSize,omitempty"`
}

func (s ShaderInfo) MarshalJSON() ([]byte, error) {
	w := shaderInfoWire{EntryPoint: s.EntryPoint}
	switch {
	case s.HasPath:
		path := s.Path
		w.Path = &path
	case s.HasInline:
		offset, length := s.ByteOffset, s.ByteLength
		w.ByteOffset = &offset
		w.ByteLength = &length
	}
	if s.HasWorkGroupSize {
		size := s.WorkGroupSize
		w.WorkGroupSize = &size
	}
	return json.Marshal(w)
}

func (s *ShaderInfo) UnmarshalJSON(data []byte) error {
	var w shaderInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	hasPath := w.Path != nil
	hasInline := w.ByteOffset != nil || w.ByteLength != nil
	switch {
	case hasPath && hasInline:
		return ErrShaderSourceConflict
	case !hasPath && !hasInline:
		return ErrShaderSourceMissing
	case hasInline && (w.ByteOffset == nil || w.ByteLength == nil):
		return missingDependent("byteOffset/byteLength")
	}

	out := ShaderInfo{EntryPoint: w.EntryPoint}
	if hasPath {
		out.Path = *w.Path
		out.HasPath = true
	} else {
		out.ByteOffset = *w.ByteOffset
		out.ByteLength = *w.ByteLength
		out.HasInline = true
	}
	if w.WorkGroupSize != nil {
		out.WorkGroupSize = *w.WorkGroupSize
		out.HasWorkGroupSize = true
	}
	*s = out
	return nil
}
