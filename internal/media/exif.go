// Package media processes uploaded photos and videos: EXIF extraction for
// capture time and GPS coordinates, and thumbnail generation.
package media

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ExifInfo is what the diary cares about from a photo's EXIF block. The
// capture time is used preferentially over the upload time for chronological
// placement, and the GPS fix can geo-tag a post whose author never set a
// location by hand.
type ExifInfo struct {
	CapturedAt *time.Time
	Latitude   *float64
	Longitude  *float64
	Raw        []byte
}

// ExtractExif parses the EXIF block from an image file. It returns nil when
// the file has no parseable EXIF data; a photo without metadata is normal,
// not an error.
func ExtractExif(data []byte) *ExifInfo {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	info := &ExifInfo{}

	if dt, err := x.DateTime(); err == nil {
		info.CapturedAt = &dt
	}

	if lat, lng, err := x.LatLong(); err == nil {
		info.Latitude = &lat
		info.Longitude = &lng
	}

	if raw, err := json.Marshal(x); err == nil {
		info.Raw = raw
	}

	return info
}
