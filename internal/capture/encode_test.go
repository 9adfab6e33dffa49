package capture

import (
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"
	"testing"
)

func TestEncodeDataURL(t *testing.T) {
	img := testFrame(20, 10)

	payload, err := EncodeDataURL(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(payload, DataURLPrefix) {
		t.Fatalf("payload prefix = %q, want %q", payload[:min(len(payload), 30)], DataURLPrefix)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(payload, DataURLPrefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}

	decoded, err := jpeg.Decode(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("payload is not a valid JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("decoded size = %dx%d, want 20x10", b.Dx(), b.Dy())
	}
}

func TestEncodeDataURLBlankSurface(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	payload, err := EncodeDataURL(img)
	if err != nil {
		t.Fatalf("encode blank surface: %v", err)
	}
	if !strings.HasPrefix(payload, DataURLPrefix) {
		t.Fatalf("payload prefix = %q, want %q", payload, DataURLPrefix)
	}
}

func TestEncodeDataURLNilImage(t *testing.T) {
	if _, err := EncodeDataURL(nil); err == nil {
		t.Fatal("expected an error for a nil image")
	}
}
