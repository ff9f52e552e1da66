package journey

import (
	"testing"
	"time"

	trip "io.wandr.triplog/internal/models/trip"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// Delhi 20-22 Dec, Agra from 23 Dec open-ended.
func testMilestones() []trip.Milestone {
	return []trip.Milestone{
		{ID: "m-delhi", Name: "Delhi", DisplayOrder: 0, ArrivalDate: datePtr(2025, 12, 20), DepartureDate: datePtr(2025, 12, 22)},
		{ID: "m-agra", Name: "Agra", DisplayOrder: 1, ArrivalDate: datePtr(2025, 12, 23)},
	}
}

func TestClassifyScenarios(t *testing.T) {
	milestones := testMilestones()

	tests := []struct {
		name     string
		ts       time.Time
		wantKind Kind
		wantName string
	}{
		{"inside first window", date(2025, 12, 21), KindMilestone, "Delhi"},
		{"arrival of second milestone", date(2025, 12, 23), KindMilestone, "Agra"},
		{"before first arrival", date(2025, 12, 19), KindBeforeJourney, ""},
		{"exactly on first arrival", date(2025, 12, 20), KindMilestone, "Delhi"},
		{"departure day of first stop", date(2025, 12, 22), KindMilestone, "Delhi"},
		{"open-ended last window far out", date(2026, 3, 1), KindMilestone, "Agra"},
		{"late capture time stays on its day", time.Date(2025, 12, 22, 23, 0, 0, 0, time.UTC), KindMilestone, "Delhi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ts, milestones)
			if got.Kind != tt.wantKind {
				t.Fatalf("Classify(%v) kind = %v, want %v", tt.ts, got.Kind, tt.wantKind)
			}
			if tt.wantKind == KindMilestone && got.Milestone.Name != tt.wantName {
				t.Errorf("Classify(%v) milestone = %q, want %q", tt.ts, got.Milestone.Name, tt.wantName)
			}
		})
	}
}

func TestClassifyAfterJourney(t *testing.T) {
	milestones := []trip.Milestone{
		{ID: "m1", Name: "Delhi", DisplayOrder: 0, ArrivalDate: datePtr(2025, 12, 20), DepartureDate: datePtr(2025, 12, 22)},
	}

	if got := Classify(date(2025, 12, 22), milestones); got.Kind != KindMilestone {
		t.Errorf("departure day should still belong to the milestone, got kind %v", got.Kind)
	}
	if got := Classify(date(2025, 12, 23), milestones); got.Kind != KindAfterJourney {
		t.Errorf("day after departure should be after journey, got kind %v", got.Kind)
	}
}

func TestClassifyWindowEndExclusive(t *testing.T) {
	// Boundary: a timestamp equal to the next milestone's arrival belongs to
	// the next milestone, not the previous one.
	got := Classify(date(2025, 12, 23), testMilestones())
	if got.Kind != KindMilestone || got.Milestone.Name != "Agra" {
		t.Fatalf("arrival-day post classified into %+v, want Agra", got)
	}
}

func TestClassifyNoMilestones(t *testing.T) {
	got := Classify(date(2025, 12, 21), nil)
	if got.Kind != KindBeforeJourney {
		t.Errorf("empty milestone list should fall back to before-journey, got %v", got.Kind)
	}
}

func TestClassifySkipsMilestonesWithoutArrival(t *testing.T) {
	milestones := []trip.Milestone{
		{ID: "m0", Name: "Somewhere", DisplayOrder: 0}, // no arrival, unusable boundary
		{ID: "m1", Name: "Delhi", DisplayOrder: 1, ArrivalDate: datePtr(2025, 12, 20)},
	}

	got := Classify(date(2025, 12, 21), milestones)
	if got.Kind != KindMilestone || got.Milestone.Name != "Delhi" {
		t.Fatalf("milestone without arrival must not absorb posts, got %+v", got)
	}

	if got := Classify(date(2025, 12, 19), milestones); got.Kind != KindBeforeJourney {
		t.Errorf("pre-arrival post should be before-journey, got %v", got.Kind)
	}
}

func TestClassifyUnsortedInput(t *testing.T) {
	milestones := testMilestones()
	milestones[0], milestones[1] = milestones[1], milestones[0]

	got := Classify(date(2025, 12, 21), milestones)
	if got.Kind != KindMilestone || got.Milestone.Name != "Delhi" {
		t.Fatalf("classification must not depend on input order, got %+v", got)
	}
}
