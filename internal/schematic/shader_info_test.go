package schematic

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestShaderInfoPathXorInline(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"path only", `{"path":"x.vert","entryPoint":"main"}`, nil},
		{"inline only", `{"byteOffset":4,"byteLength":128,"entryPoint":"main"}`, nil},
		{"both", `{"path":"x.vert","byteOffset":4,"byteLength":128,"entryPoint":"main"}`, ErrShaderSourceConflict},
		{"neither", `{"entryPoint":"main"}`, ErrShaderSourceMissing},
		{"offset without length", `{"byteOffset":4,"entryPoint":"main"}`, ErrMissingDependent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ShaderInfo
			err := json.Unmarshal([]byte(tt.json), &s)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Unmarshal: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unmarshal error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestShaderInfoRoundTrip(t *testing.T) {
	s := ShaderInfo{
		Path:             "a.comp",
		HasPath:          true,
		EntryPoint:       "main",
		WorkGroupSize:    [3]uint32{8, 8, 1},
		HasWorkGroupSize: true,
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ShaderInfo
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != s {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
}
