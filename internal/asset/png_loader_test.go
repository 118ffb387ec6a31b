package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestPNGLoaderFileTypes(t *testing.T) {
	types := PNGLoader{}.FileTypes()
	if len(types) != 1 || types[0] != ".png" {
		t.Fatalf("FileTypes() = %v, want [.png]", types)
	}
}

func TestToNRGBAConvertsRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	got := toNRGBA(src)
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
	}
	r, g, b, a := got.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 || a>>8 != 255 {
		t.Errorf("At(0,0) = (%d,%d,%d,%d), want (255,0,0,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestToNRGBAPassthrough(t *testing.T) {
	n := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if toNRGBA(n) != n {
		t.Error("toNRGBA should return the same pointer for an already-NRGBA image")
	}
}

func TestPNGDecodeRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 50), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
}
