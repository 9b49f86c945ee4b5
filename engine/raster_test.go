package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidNRGBA(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func solidGray(width, height int, v uint8) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, width, height))
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

// patternNRGBA fills every pixel with a position-dependent color so
// round-trip mismatches cannot hide behind uniform fills.
func patternNRGBA(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 17)
			img.Pix[i+1] = uint8(y * 31)
			img.Pix[i+2] = uint8(x + y)
			img.Pix[i+3] = uint8(255 - x)
		}
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := patternNRGBA(13, 7)
	data, err := Encode(src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds mismatch: got %v, want %v", got.Bounds(), src.Bounds())
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("pixel data changed across encode/decode round trip")
	}
}

func TestEncodeMaskRoundTrip(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 9, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	data, err := EncodeMask(src)
	if err != nil {
		t.Fatalf("EncodeMask: %v", err)
	}
	got, err := DecodeMask(data)
	if err != nil {
		t.Fatalf("DecodeMask: %v", err)
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("mask changed across encode/decode round trip")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("not an image"), {0x89, 0x50, 0x4e}} {
		if _, err := Decode(data); !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%q): got %v, want ErrDecode", data, err)
		}
		if _, err := DecodeMask(data); !errors.Is(err, ErrDecode) {
			t.Errorf("DecodeMask(%q): got %v, want ErrDecode", data, err)
		}
	}
}

func TestDecodeMaskCoercesColorToLuminance(t *testing.T) {
	red := color.NRGBA{R: 200, G: 10, B: 30, A: 255}
	data, err := Encode(solidNRGBA(4, 4, red))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	mask, err := DecodeMask(data)
	if err != nil {
		t.Fatalf("DecodeMask: %v", err)
	}
	want := color.GrayModel.Convert(color.NRGBA{R: 200, G: 10, B: 30, A: 255}).(color.Gray).Y
	if mask.Pix[0] != want {
		t.Errorf("luminance: got %d, want %d", mask.Pix[0], want)
	}
}

func TestResizeValidatesDimensions(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{A: 255})
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 4}, {0, 0}} {
		if _, err := Resize(img, dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Resize(%d, %d): got %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
	if _, err := ResizeMask(solidGray(4, 4, 255), 0, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Error("ResizeMask with zero width must fail")
	}
}

func TestResizeProducesRequestedSize(t *testing.T) {
	img := patternNRGBA(16, 16)
	got, err := Resize(img, 7, 23)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got.Bounds().Dx() != 7 || got.Bounds().Dy() != 23 {
		t.Errorf("size: got %dx%d, want 7x23", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

func TestResizeUniformMaskStaysUniform(t *testing.T) {
	// 对常量掩码重采样不能引入新的灰阶
	m := solidGray(32, 32, 255)
	got, err := ResizeMask(m, 100, 100)
	if err != nil {
		t.Fatalf("ResizeMask: %v", err)
	}
	for i, v := range got.Pix {
		if v != 255 {
			t.Fatalf("pixel %d: got %d, want 255", i, v)
		}
	}
}

func TestResizeDoesNotMutateInput(t *testing.T) {
	img := patternNRGBA(8, 8)
	before := append([]uint8(nil), img.Pix...)
	if _, err := Resize(img, 4, 4); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if !bytes.Equal(img.Pix, before) {
		t.Error("Resize mutated its input")
	}
}
