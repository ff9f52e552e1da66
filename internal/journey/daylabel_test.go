package journey

import (
	"testing"
	"time"
)

func TestDayNumber(t *testing.T) {
	start := date(2025, 12, 18)

	tests := []struct {
		name string
		d    time.Time
		want int
	}{
		{"start date is day zero", date(2025, 12, 18), 0},
		{"two days in", date(2025, 12, 20), 2},
		{"before the journey", date(2025, 12, 16), -2},
		{"time of day is ignored", time.Date(2025, 12, 20, 23, 59, 0, 0, time.UTC), 2},
		{"across a month boundary", date(2026, 1, 1), 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayNumber(tt.d, start); got != tt.want {
				t.Errorf("DayNumber(%v) = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestDayLabel(t *testing.T) {
	if got := DayLabel(2); got != "Dag 2" {
		t.Errorf("DayLabel(2) = %q, want %q", got, "Dag 2")
	}
	if got := DayLabel(0); got != "Dag 0" {
		t.Errorf("DayLabel(0) = %q, want %q", got, "Dag 0")
	}
}
