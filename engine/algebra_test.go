package engine

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func gradientGray(width, height int, seed int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, width, height))
	for i := range m.Pix {
		m.Pix[i] = uint8((i*seed + seed) % 256)
	}
	return m
}

func TestCombineRequiresTwoMasks(t *testing.T) {
	m := solidGray(4, 4, 255)
	if _, err := Combine(nil, OpUnion); !errors.Is(err, ErrInsufficientInput) {
		t.Errorf("Combine(nil): got %v, want ErrInsufficientInput", err)
	}
	if _, err := Combine([]*image.Gray{m}, OpUnion); !errors.Is(err, ErrInsufficientInput) {
		t.Errorf("Combine(one): got %v, want ErrInsufficientInput", err)
	}
}

func TestCombineRejectsUnknownOperation(t *testing.T) {
	masks := []*image.Gray{solidGray(4, 4, 10), solidGray(4, 4, 20)}
	if _, err := Combine(masks, MaskOp("difference")); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("got %v, want ErrUnsupportedOperation", err)
	}
}

func TestCombineSelfIdentities(t *testing.T) {
	m := gradientGray(8, 8, 13)

	union, err := Combine([]*image.Gray{m, m}, OpUnion)
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	if !bytes.Equal(union.Pix, m.Pix) {
		t.Error("union(m, m) != m")
	}

	inter, err := Combine([]*image.Gray{m, m}, OpIntersection)
	if err != nil {
		t.Fatalf("intersection: %v", err)
	}
	if !bytes.Equal(inter.Pix, m.Pix) {
		t.Error("intersection(m, m) != m")
	}

	xor, err := Combine([]*image.Gray{m, m}, OpXor)
	if err != nil {
		t.Fatalf("xor: %v", err)
	}
	for i, v := range xor.Pix {
		if v != 0 {
			t.Fatalf("xor(m, m) pixel %d: got %d, want 0", i, v)
		}
	}
}

func TestCombineCommutativity(t *testing.T) {
	a := gradientGray(8, 8, 7)
	b := gradientGray(8, 8, 29)

	for _, op := range []MaskOp{OpUnion, OpIntersection, OpXor} {
		ab, err := Combine([]*image.Gray{a, b}, op)
		if err != nil {
			t.Fatalf("%s(a, b): %v", op, err)
		}
		ba, err := Combine([]*image.Gray{b, a}, op)
		if err != nil {
			t.Fatalf("%s(b, a): %v", op, err)
		}
		if !bytes.Equal(ab.Pix, ba.Pix) {
			t.Errorf("%s is not commutative", op)
		}
	}
}

func TestCombineSubtractIsNotCommutative(t *testing.T) {
	a := solidGray(4, 4, 200)
	b := solidGray(4, 4, 50)

	ab, err := Combine([]*image.Gray{a, b}, OpSubtract)
	if err != nil {
		t.Fatalf("subtract(a, b): %v", err)
	}
	ba, err := Combine([]*image.Gray{b, a}, OpSubtract)
	if err != nil {
		t.Fatalf("subtract(b, a): %v", err)
	}
	if ab.Pix[0] != 150 {
		t.Errorf("200-50: got %d, want 150", ab.Pix[0])
	}
	if ba.Pix[0] != 0 {
		t.Errorf("clamp(50-200): got %d, want 0", ba.Pix[0])
	}
}

func TestCombinePixelSemantics(t *testing.T) {
	a := solidGray(2, 2, 100)
	b := solidGray(2, 2, 180)

	cases := []struct {
		op   MaskOp
		want uint8
	}{
		{OpUnion, 180},
		{OpIntersection, 100},
		{OpSubtract, 0},
		{OpXor, 80},
	}
	for _, tc := range cases {
		got, err := Combine([]*image.Gray{a, b}, tc.op)
		if err != nil {
			t.Fatalf("%s: %v", tc.op, err)
		}
		if got.Pix[0] != tc.want {
			t.Errorf("%s(100, 180): got %d, want %d", tc.op, got.Pix[0], tc.want)
		}
	}
}

func TestCombineResizesToFirstMask(t *testing.T) {
	a := solidGray(8, 8, 100)
	b := solidGray(16, 16, 200)

	got, err := Combine([]*image.Gray{a, b}, OpUnion)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 8 {
		t.Fatalf("result size: got %dx%d, want 8x8", got.Bounds().Dx(), got.Bounds().Dy())
	}
	for i, v := range got.Pix {
		if v != 200 {
			t.Fatalf("pixel %d: got %d, want 200", i, v)
		}
	}
}

func TestCombineManyMasksLeftToRight(t *testing.T) {
	// (250 - 100) - 100 = 50
	masks := []*image.Gray{solidGray(3, 3, 250), solidGray(3, 3, 100), solidGray(3, 3, 100)}
	got, err := Combine(masks, OpSubtract)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if got.Pix[0] != 50 {
		t.Errorf("got %d, want 50", got.Pix[0])
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	a := gradientGray(4, 4, 11)
	b := gradientGray(4, 4, 23)
	aBefore := append([]uint8(nil), a.Pix...)
	bBefore := append([]uint8(nil), b.Pix...)

	if _, err := Combine([]*image.Gray{a, b}, OpXor); err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !bytes.Equal(a.Pix, aBefore) || !bytes.Equal(b.Pix, bBefore) {
		t.Error("Combine mutated an input mask")
	}
}
