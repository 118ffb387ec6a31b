package pipeline

import (
	"encoding/binary"
	"sort"

	vk "github.com/vulkan-go/vulkan"
)

const (
	spirvMagic           = 0x07230203
	opDecorate           = 71
	opTypeFloat          = 22
	opTypeInt            = 21
	opTypeVector         = 23
	opTypePointer        = 32
	opVariable           = 59
	decorationLocation   = 30
	storageClassInput    = 1
)

type spirvVarInfo struct {
	location uint32
	format   vk.Format
	size     uint32
}

// ReflectVertexInput derives the input binding and attribute
// descriptions for a vertex shader's SPIR-V module, per §4.5: sort
// input variables by location, assign binding 0, compute offsets by
// summing per-format byte sizes. No reflection library appears
// anywhere in the corpus, so this is implemented directly against the
// SPIR-V binary module format using only the standard library.
func ReflectVertexInput(spirv []byte) (vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription, error) {
	words, err := spirvWords(spirv)
	if err != nil {
		return vk.VertexInputBindingDescription{}, nil, err
	}

	locationByID := map[uint32]uint32{}
	typeKind := map[uint32]uint32{}     // result id -> opcode (OpTypeFloat/Int/Vector/Pointer)
	vecComponentType := map[uint32]uint32{} // vector id -> component type id
	vecComponentCount := map[uint32]uint32{}
	ptrPointee := map[uint32]uint32{}
	ptrStorageClass := map[uint32]uint32{}
	variableType := map[uint32]uint32{}
	variableStorage := map[uint32]uint32{}

	i := 5 // skip 5-word header
	for i < len(words) {
		instrLen := words[i] >> 16
		opcode := words[i] & 0xffff
		if instrLen == 0 || int(i+int(instrLen)) > len(words) {
			break
		}
		operands := words[i+1 : i+int(instrLen)]

		switch opcode {
		case opDecorate:
			if len(operands) >= 2 && operands[1] == decorationLocation && len(operands) >= 3 {
				locationByID[operands[0]] = operands[2]
			}
		case opTypeFloat:
			resultID := operands[0]
			typeKind[resultID] = opTypeFloat
		case opTypeInt:
			resultID := operands[0]
			typeKind[resultID] = opTypeInt
		case opTypeVector:
			resultID := operands[0]
			typeKind[resultID] = opTypeVector
			vecComponentType[resultID] = operands[1]
			vecComponentCount[resultID] = operands[2]
		case opTypePointer:
			resultID := operands[0]
			typeKind[resultID] = opTypePointer
			ptrStorageClass[resultID] = operands[1]
			ptrPointee[resultID] = operands[2]
		case opVariable:
			resultType := operands[0]
			resultID := operands[1]
			storageClass := operands[2]
			variableType[resultID] = resultType
			variableStorage[resultID] = storageClass
		}
		i += int(instrLen)
	}

	var vars []spirvVarInfo
	for id, storage := range variableStorage {
		if storage != storageClassInput {
			continue
		}
		loc, ok := locationByID[id]
		if !ok {
			continue
		}
		ptrType := variableType[id]
		pointee := ptrPointee[ptrType]
		format, size := formatForType(pointee, typeKind, vecComponentType, vecComponentCount)
		vars = append(vars, spirvVarInfo{location: loc, format: format, size: size})
	}

	sort.Slice(vars, func(a, b int) bool { return vars[a].location < vars[b].location })

	attrs := make([]vk.VertexInputAttributeDescription, len(vars))
	var offset uint32
	for i, v := range vars {
		attrs[i] = vk.VertexInputAttributeDescription{
			Location: v.location,
			Binding:  0,
			Format:   v.format,
			Offset:   offset,
		}
		offset += v.size
	}

	binding := vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    offset,
		InputRate: vk.VertexInputRateVertex,
	}
	return binding, attrs, nil
}

func formatForType(typeID uint32, kind, vecComp, vecCount map[uint32]uint32) (vk.Format, uint32) {
	switch kind[typeID] {
	case opTypeFloat:
		return vk.FormatR32Sfloat, 4
	case opTypeInt:
		return vk.FormatR32Sint, 4
	case opTypeVector:
		n := vecCount[typeID]
		switch n {
		case 2:
			return vk.FormatR32g32Sfloat, 8
		case 3:
			return vk.FormatR32g32b32Sfloat, 12
		case 4:
			return vk.FormatR32g32b32a32Sfloat, 16
		}
	}
	return vk.FormatR32Sfloat, 4
}

func spirvWords(code []byte) ([]uint32, error) {
	if len(code)%4 != 0 {
		return nil, errNotWordAligned
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4 : i*4+4])
	}
	if len(words) < 5 || words[0] != spirvMagic {
		return nil, errNotSpirv
	}
	return words, nil
}
