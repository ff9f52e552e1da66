package mapview

import (
	"math"
	"reflect"
	"testing"
)

func TestDeclutterLeavesSeparatedMarkersAlone(t *testing.T) {
	markers := []Marker{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 500, Y: 500},
	}

	offsets := Declutter(markers, DefaultDeclutterParams())

	for i, o := range offsets {
		if o.DX != 0 || o.DY != 0 {
			t.Errorf("marker %s moved (%v) despite no overlap", markers[i].ID, o)
		}
	}
}

func TestDeclutterSeparatesOverlappingPair(t *testing.T) {
	p := DefaultDeclutterParams()
	markers := []Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 104, Y: 100},
	}

	offsets := Declutter(markers, p)

	ax := markers[0].X + offsets[0].DX
	ay := markers[0].Y + offsets[0].DY
	bx := markers[1].X + offsets[1].DX
	by := markers[1].Y + offsets[1].DY

	if dist := math.Hypot(bx-ax, by-ay); dist < p.MinDistance-0.5 {
		t.Errorf("markers still %0.1fpx apart after declutter, want >= %0.1f", dist, p.MinDistance)
	}
}

func TestDeclutterSeparatesCoincidentMarkers(t *testing.T) {
	p := DefaultDeclutterParams()
	markers := []Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 100, Y: 100},
	}

	offsets := Declutter(markers, p)

	if offsets[0] == offsets[1] {
		t.Error("coincident markers received identical offsets and still overlap")
	}
}

func TestDeclutterRespectsMaxOffset(t *testing.T) {
	p := DeclutterParams{MinDistance: 60, MaxOffset: 10, Iterations: 20}
	markers := []Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 101, Y: 100},
		{ID: "c", X: 100, Y: 101},
		{ID: "d", X: 101, Y: 101},
	}

	offsets := Declutter(markers, p)

	for i, o := range offsets {
		if mag := math.Hypot(o.DX, o.DY); mag > p.MaxOffset+1e-9 {
			t.Errorf("marker %s offset %0.2fpx exceeds max %0.2fpx", markers[i].ID, mag, p.MaxOffset)
		}
	}
}

func TestDeclutterOnlyMovesCrowdedMarkers(t *testing.T) {
	p := DefaultDeclutterParams()
	markers := []Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 105, Y: 100},
		{ID: "lonely", X: 900, Y: 900},
	}

	offsets := Declutter(markers, p)

	if offsets[2].DX != 0 || offsets[2].DY != 0 {
		t.Errorf("isolated marker moved: %v", offsets[2])
	}
}

func TestDeclutterDeterminism(t *testing.T) {
	p := DefaultDeclutterParams()
	markers := []Marker{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 100, Y: 100},
		{ID: "c", X: 110, Y: 95},
	}

	first := Declutter(markers, p)
	second := Declutter(markers, p)

	if !reflect.DeepEqual(first, second) {
		t.Error("Declutter is not deterministic for identical input")
	}
}

func TestProject(t *testing.T) {
	// At zoom 0 the world is one 256px tile; the origin of lat/lng space maps
	// to its center.
	x, y := Project(0, 0, 0)
	if math.Abs(x-128) > 1e-6 || math.Abs(y-128) > 1e-6 {
		t.Errorf("Project(0,0,0) = (%v, %v), want (128, 128)", x, y)
	}

	// Moving east increases x, moving north decreases y.
	x2, y2 := Project(10, 10, 0)
	if x2 <= x {
		t.Errorf("eastward longitude should increase x: %v <= %v", x2, x)
	}
	if y2 >= y {
		t.Errorf("northward latitude should decrease y: %v >= %v", y2, y)
	}

	// Each zoom level doubles the pixel space.
	x3, _ := Project(0, 90, 1)
	x4, _ := Project(0, 90, 2)
	if math.Abs(x4-2*x3) > 1e-6 {
		t.Errorf("zoom step should double pixel coordinates: %v vs %v", x3, x4)
	}
}
