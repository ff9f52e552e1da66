package mapview

import "math"

// Marker is a map pin at a projected pixel position.
type Marker struct {
	ID string
	X  float64
	Y  float64
}

// Offset is the pixel-space displacement applied to a marker for display.
// The geographic coordinates underneath never move.
type Offset struct {
	DX float64
	DY float64
}

// DeclutterParams bound the relaxation: markers closer than MinDistance push
// apart, no marker drifts further than MaxOffset from its true position, and
// the pass runs a fixed number of iterations.
type DeclutterParams struct {
	MinDistance float64
	MaxOffset   float64
	Iterations  int
}

// DefaultDeclutterParams matches the pin size the map renders at.
func DefaultDeclutterParams() DeclutterParams {
	return DeclutterParams{MinDistance: 28, MaxOffset: 42, Iterations: 8}
}

// Declutter returns one offset per marker such that visually overlapping
// markers separate. It is a force-directed relaxation in pixel space: each
// iteration, every pair closer than MinDistance is pushed apart along the
// line connecting them, and offsets are clamped to MaxOffset. Markers that do
// not overlap anything at their true position keep a zero offset, so a zoom
// change that resolves the overlap also resets the displacement. The result
// is deterministic for identical input.
func Declutter(markers []Marker, p DeclutterParams) []Offset {
	offsets := make([]Offset, len(markers))
	if len(markers) < 2 || p.MinDistance <= 0 {
		return offsets
	}

	crowded := crowdedSet(markers, p.MinDistance)
	if len(crowded) == 0 {
		return offsets
	}

	for iter := 0; iter < p.Iterations; iter++ {
		moved := false
		for i := 0; i < len(markers); i++ {
			if !crowded[i] {
				continue
			}
			for j := i + 1; j < len(markers); j++ {
				if !crowded[j] {
					continue
				}
				dx := (markers[j].X + offsets[j].DX) - (markers[i].X + offsets[i].DX)
				dy := (markers[j].Y + offsets[j].DY) - (markers[i].Y + offsets[i].DY)
				dist := math.Hypot(dx, dy)
				if dist >= p.MinDistance {
					continue
				}

				var ux, uy float64
				if dist > 0 {
					ux, uy = dx/dist, dy/dist
				} else {
					// Coincident markers: pick a stable direction from the
					// pair's indexes so the result stays deterministic.
					angle := float64(i*31+j) * 2.399963
					ux, uy = math.Cos(angle), math.Sin(angle)
				}

				push := (p.MinDistance - dist) / 2
				offsets[i].DX -= ux * push
				offsets[i].DY -= uy * push
				offsets[j].DX += ux * push
				offsets[j].DY += uy * push
				clamp(&offsets[i], p.MaxOffset)
				clamp(&offsets[j], p.MaxOffset)
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	return offsets
}

// crowdedSet marks the markers that overlap at least one other marker at
// their true positions. Only those participate in the relaxation.
func crowdedSet(markers []Marker, minDist float64) map[int]bool {
	crowded := make(map[int]bool)
	for i := 0; i < len(markers); i++ {
		for j := i + 1; j < len(markers); j++ {
			if math.Hypot(markers[j].X-markers[i].X, markers[j].Y-markers[i].Y) < minDist {
				crowded[i] = true
				crowded[j] = true
			}
		}
	}
	return crowded
}

func clamp(o *Offset, max float64) {
	mag := math.Hypot(o.DX, o.DY)
	if mag > max {
		o.DX = o.DX / mag * max
		o.DY = o.DY / mag * max
	}
}
