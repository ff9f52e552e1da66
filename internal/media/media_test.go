package media

import (
	"image"
	"testing"

	trip "io.wandr.triplog/internal/models/trip"
)

func TestThumbnailFitsBox(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape scaled down", 1200, 800, 480, 320},
		{"portrait scaled down", 600, 1200, 240, 480},
		{"small image untouched", 320, 200, 320, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			thumb := Thumbnail(src)
			b := thumb.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("thumbnail of %dx%d = %dx%d, want %dx%d",
					tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTypeForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", trip.MediaTypeImage},
		{"image/heic", trip.MediaTypeImage},
		{"video/mp4", trip.MediaTypeVideo},
		{"application/pdf", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TypeForContentType(tt.contentType); got != tt.want {
			t.Errorf("TypeForContentType(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestExtractExifRejectsGarbage(t *testing.T) {
	if info := ExtractExif([]byte("not an image at all")); info != nil {
		t.Errorf("ExtractExif on garbage = %+v, want nil", info)
	}
	if info := ExtractExif(nil); info != nil {
		t.Errorf("ExtractExif(nil) = %+v, want nil", info)
	}
}
