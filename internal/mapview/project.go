// Package mapview holds the presentation-side geometry for the interactive
// map: projecting coordinates to screen pixels and nudging overlapping
// markers apart. Nothing here touches the underlying geographic data.
package mapview

import "math"

const tileSize = 256

// Project converts a latitude/longitude pair to world pixel coordinates in
// the Web Mercator projection at the given zoom level. Latitude is clamped to
// the Mercator limits so poles do not blow up the projection.
func Project(lat, lng float64, zoom int) (x, y float64) {
	scale := tileSize * math.Exp2(float64(zoom))

	x = (lng + 180) / 360 * scale

	sinY := math.Sin(lat * math.Pi / 180)
	// Clamp away from the singularity at the poles.
	sinY = math.Min(math.Max(sinY, -0.9999), 0.9999)
	y = (0.5 - math.Log((1+sinY)/(1-sinY))/(4*math.Pi)) * scale

	return x, y
}
