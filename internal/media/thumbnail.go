package media

import (
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	trip "io.wandr.triplog/internal/models/trip"
)

// Thumbnails are bounded to this box; aspect ratio is preserved.
const thumbnailMaxDim = 480

// DecodeImage reads and decodes an uploaded image, honoring EXIF orientation.
func DecodeImage(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// Thumbnail scales an image down to fit the thumbnail box. Images already
// smaller than the box come back unscaled.
func Thumbnail(img image.Image) *image.NRGBA {
	return imaging.Fit(img, thumbnailMaxDim, thumbnailMaxDim, imaging.Lanczos)
}

// SaveJPEG writes an image as JPEG at feed quality.
func SaveJPEG(img image.Image, path string) error {
	return imaging.Save(img, path, imaging.JPEGQuality(82))
}

// TypeForContentType maps an upload's MIME type to a media type, or returns
// an empty string for anything the diary does not accept.
func TypeForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return trip.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return trip.MediaTypeVideo
	default:
		return ""
	}
}
