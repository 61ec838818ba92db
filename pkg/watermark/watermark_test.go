package watermark

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func newTestStamper(t *testing.T) *Stamper {
	t.Helper()
	s, err := New()
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return s
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func floatPtr(v float64) *float64 { return &v }

func TestComposeDarkensBottomBand(t *testing.T) {
	s := newTestStamper(t)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	src := solidImage(1920, 1080, white)

	out := s.Compose(src, Annotation{
		TakenAt:     time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		ProjectName: "Obra Centro",
	})

	// 1080p kaynakta bant 80px olmalı
	top := out.NRGBAAt(960, 1080-80-10)
	if top != white {
		t.Errorf("pixel above band changed: %+v", top)
	}

	inBand := out.NRGBAAt(5, 1080-40)
	if inBand.R >= 200 || inBand.G >= 200 || inBand.B >= 200 {
		t.Errorf("band pixel not darkened: %+v", inBand)
	}
}

func TestComposeMinimumBandHeight(t *testing.T) {
	s := newTestStamper(t)
	src := solidImage(320, 240, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out := s.Compose(src, Annotation{TakenAt: time.Now()})

	// 240px yükseklikte oran 17px verir, minimum 48 uygulanmalı
	inBand := out.NRGBAAt(5, 240-47)
	if inBand.R >= 200 {
		t.Errorf("minimum band not applied, pixel: %+v", inBand)
	}
	above := out.NRGBAAt(5, 240-49)
	if above.R < 200 {
		t.Errorf("band larger than minimum, pixel: %+v", above)
	}
}

func TestComposeLocationLineOnlyWithCoordinates(t *testing.T) {
	s := newTestStamper(t)
	src := solidImage(1920, 1080, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	when := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	withLoc := s.Compose(src, Annotation{
		TakenAt:   when,
		Latitude:  floatPtr(40.416775),
		Longitude: floatPtr(-3.703790),
	})
	withoutLoc := s.Compose(src, Annotation{TakenAt: when})

	// Konumlu versiyonda ikinci satır bölgesi beyaz piksel içermeli,
	// konumsuz versiyonda aynı bölge yalnızca bant rengi olmalı
	whiteIn := func(img *image.NRGBA) bool {
		for y := 1080 - 30; y < 1080-5; y++ {
			for x := 20; x < 400; x++ {
				c := img.NRGBAAt(x, y)
				if c.R > 200 && c.G > 200 && c.B > 200 {
					return true
				}
			}
		}
		return false
	}

	if !whiteIn(withLoc) {
		t.Error("expected coordinate text in band when location is set")
	}
	if whiteIn(withoutLoc) {
		t.Error("unexpected text in coordinate line without location")
	}
}

func TestComposeDoesNotMutateSource(t *testing.T) {
	s := newTestStamper(t)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	src := solidImage(640, 480, white)

	s.Compose(src, Annotation{TakenAt: time.Now(), ProjectName: "Nave 3"})

	if got := src.NRGBAAt(5, 475); got != white {
		t.Errorf("source image mutated: %+v", got)
	}
}

func TestStampRoundTrip(t *testing.T) {
	s := newTestStamper(t)
	src := solidImage(800, 600, color.NRGBA{R: 120, G: 130, B: 140, A: 255})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := s.Stamp(buf.Bytes(), Annotation{
		TakenAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Latitude:    floatPtr(41.385064),
		Longitude:   floatPtr(2.173404),
		ProjectName: "Reforma Eixample",
	})
	if err != nil {
		t.Fatalf("Stamp() = %v", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}

	b := decoded.Bounds()
	if b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("dimensions changed: %dx%d", b.Dx(), b.Dy())
	}
}

func TestStampRejectsGarbage(t *testing.T) {
	s := newTestStamper(t)
	if _, err := s.Stamp([]byte("not an image"), Annotation{}); err == nil {
		t.Error("expected error for invalid image data")
	}
}

func TestThumbnailSize(t *testing.T) {
	src := solidImage(1600, 900, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := Thumbnail(buf.Bytes(), 256)
	if err != nil {
		t.Fatalf("Thumbnail() = %v", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("thumbnail size = %dx%d, want 256x256", b.Dx(), b.Dy())
	}
}
