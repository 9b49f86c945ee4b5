package utils

import (
	"bytes"
	"testing"
)

func TestDecodeBase64ImageStripsDataURLPrefix(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := EncodeBase64Image(raw)

	for _, input := range []string{encoded, "data:image/png;base64," + encoded} {
		got, err := DecodeBase64Image(input)
		if err != nil {
			t.Fatalf("DecodeBase64Image(%q): %v", input, err)
		}
		if !bytes.Equal(got, raw) {
			t.Errorf("got %v, want %v", got, raw)
		}
	}
}

func TestDecodeBase64ImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64Image("!!!not base64!!!"); err == nil {
		t.Error("expected an error for invalid base64")
	}
}

func TestBytesMD5(t *testing.T) {
	// md5("abc")
	if got := BytesMD5([]byte("abc")); got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("got %s", got)
	}
}
