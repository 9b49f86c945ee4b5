package engine

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

var (
	opaqueRed  = color.NRGBA{R: 255, A: 255}
	opaqueBlue = color.NRGBA{B: 255, A: 255}
)

func TestApplyMaskReplacesAlpha(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	mask := solidGray(4, 4, 99)

	got, err := ApplyMask(img, mask, false)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	for i := 0; i < len(got.Pix); i += 4 {
		if got.Pix[i] != 10 || got.Pix[i+1] != 20 || got.Pix[i+2] != 30 {
			t.Fatal("ApplyMask must not touch color channels")
		}
		if got.Pix[i+3] != 99 {
			t.Fatalf("alpha: got %d, want 99", got.Pix[i+3])
		}
	}
	// 输入不被修改
	if img.Pix[3] != 255 {
		t.Error("ApplyMask mutated its input image")
	}
}

func TestApplyMaskInvert(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{A: 255})
	got, err := ApplyMask(img, solidGray(4, 4, 99), true)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	if got.Pix[3] != 156 {
		t.Errorf("inverted alpha: got %d, want 156", got.Pix[3])
	}
}

func TestApplyMaskResizesMask(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{A: 255})
	got, err := ApplyMask(img, solidGray(16, 16, 200), false)
	if err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	for i := 3; i < len(got.Pix); i += 4 {
		if got.Pix[i] != 200 {
			t.Fatalf("alpha after mask resize: got %d, want 200", got.Pix[i])
		}
	}
}

func TestExtractWithMask(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	// 左半 255，右半 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			mask.Pix[mask.PixOffset(x, y)] = 255
		}
	}

	got, err := ExtractWithMask(img, mask)
	if err != nil {
		t.Fatalf("ExtractWithMask: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := got.PixOffset(x, y)
			if x < 2 {
				if got.Pix[i] != 50 || got.Pix[i+3] != 255 {
					t.Fatalf("(%d, %d): masked-in pixel lost, got rgba(%d %d %d %d)",
						x, y, got.Pix[i], got.Pix[i+1], got.Pix[i+2], got.Pix[i+3])
				}
			} else {
				if got.Pix[i] != 0 || got.Pix[i+3] != 0 {
					t.Fatalf("(%d, %d): masked-out pixel not transparent", x, y)
				}
			}
		}
	}
}

func TestExtractWithMaskSoftEdgeGatedBySourceAlpha(t *testing.T) {
	img := solidNRGBA(2, 2, color.NRGBA{R: 9, A: 100})
	got, err := ExtractWithMask(img, solidGray(2, 2, 180))
	if err != nil {
		t.Fatalf("ExtractWithMask: %v", err)
	}
	// min(180, 100) = 100
	if got.Pix[3] != 100 {
		t.Errorf("alpha: got %d, want 100", got.Pix[3])
	}
}

func TestCompositeOpacityBounds(t *testing.T) {
	bg := solidNRGBA(10, 10, opaqueBlue)
	fg := solidNRGBA(10, 10, opaqueRed)

	zero, err := Composite(bg, fg, 0, 0, 0.0)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(zero.Pix, bg.Pix) {
		t.Error("opacity 0 must yield the background exactly")
	}

	one, err := Composite(bg, fg, 0, 0, 1.0)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(one.Pix, fg.Pix) {
		t.Error("opacity 1 with opaque foreground must yield the foreground exactly")
	}
}

func TestCompositeOffsetAndClipping(t *testing.T) {
	bg := solidNRGBA(4, 4, opaqueBlue)
	fg := solidNRGBA(4, 4, opaqueRed)

	got, err := Composite(bg, fg, 2, 2, 1.0)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := got.PixOffset(x, y)
			wantRed := x >= 2 && y >= 2
			if wantRed && got.Pix[i] != 255 {
				t.Fatalf("(%d, %d): want foreground", x, y)
			}
			if !wantRed && got.Pix[i+2] != 255 {
				t.Fatalf("(%d, %d): want background", x, y)
			}
		}
	}

	// 完全越界：结果等于背景
	off, err := Composite(bg, fg, 10, 10, 1.0)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(off.Pix, bg.Pix) {
		t.Error("fully clipped foreground must leave background untouched")
	}
}

func TestCompositeSemiTransparentBlend(t *testing.T) {
	bg := solidNRGBA(2, 2, color.NRGBA{G: 255, A: 255})
	fg := solidNRGBA(2, 2, color.NRGBA{B: 255, A: 255})

	got, err := Composite(bg, fg, 0, 0, 0.5)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	// alpha 255*0.5 四舍五入为 128
	// G: (0*128 + 255*127 + 127) / 255 = 127
	// B: (255*128 + 0 + 127) / 255 = 128
	i := 0
	if got.Pix[i+1] != 127 || got.Pix[i+2] != 128 {
		t.Errorf("blend: got g=%d b=%d, want g=127 b=128", got.Pix[i+1], got.Pix[i+2])
	}
	if got.Pix[i+3] != 255 {
		t.Errorf("alpha over opaque background: got %d, want 255", got.Pix[i+3])
	}
}

func TestApplyOpacityRoundsToNearest(t *testing.T) {
	img := solidNRGBA(2, 2, color.NRGBA{A: 255})
	got := ApplyOpacity(img, 0.5)
	if got.Pix[3] != 128 {
		t.Errorf("255*0.5: got %d, want 128 (round half up)", got.Pix[3])
	}

	img2 := solidNRGBA(2, 2, color.NRGBA{A: 101})
	got2 := ApplyOpacity(img2, 0.3)
	if got2.Pix[3] != 30 {
		t.Errorf("101*0.3: got %d, want 30", got2.Pix[3])
	}
}

func TestApplyOpacityClampsRange(t *testing.T) {
	img := solidNRGBA(2, 2, color.NRGBA{A: 200})
	if got := ApplyOpacity(img, -1); got.Pix[3] != 0 {
		t.Errorf("opacity < 0: got %d, want 0", got.Pix[3])
	}
	if got := ApplyOpacity(img, 2); got.Pix[3] != 200 {
		t.Errorf("opacity > 1: got %d, want 200", got.Pix[3])
	}
}
