package journey

import (
	"sort"
	"time"

	trip "io.wandr.triplog/internal/models/trip"
)

// Kind tags a classification result.
type Kind int

const (
	// KindBeforeJourney means the timestamp precedes the first milestone's arrival.
	KindBeforeJourney Kind = iota
	// KindMilestone means the timestamp falls inside a milestone's window.
	KindMilestone
	// KindAfterJourney means the timestamp follows the last milestone's window.
	KindAfterJourney
)

// Classification is the result of placing a timestamp on the journey timeline.
// Milestone is set only when Kind is KindMilestone.
type Classification struct {
	Kind      Kind
	Milestone *trip.Milestone
}

// DateOnly truncates a timestamp to local midnight. All window comparisons are
// day-granular: arrival/departure are dates without time, and a post captured
// at 23:00 must not slip into the next day's milestone because of its
// time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameOrAfter reports whether day a is on or after day b, comparing calendar
// dates regardless of location.
func sameOrAfter(a, b time.Time) bool {
	return !dateKey(a).Before(dateKey(b))
}

// dateKey normalizes a date to UTC midnight so dates from different locations
// compare by calendar day.
func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify places a single timestamp into a milestone window, or before/after
// the journey. Milestones are taken in display_order; those without an arrival
// date cannot contribute window boundaries and are skipped. Windows are
// inclusive at their arrival date and exclusive at the next milestone's
// arrival, so they tile the journey without gaps or overlap. The last window
// closes the day after its departure date, or stays open when departure is
// absent.
//
// With no usable milestones at all there is nothing to match against and the
// timestamp is reported as before the journey; callers treat that as the
// fallback bucket.
func Classify(ts time.Time, milestones []trip.Milestone) Classification {
	anchored := anchoredMilestones(milestones)
	if len(anchored) == 0 {
		return Classification{Kind: KindBeforeJourney}
	}

	day := dateKey(ts)

	if day.Before(dateKey(*anchored[0].ArrivalDate)) {
		return Classification{Kind: KindBeforeJourney}
	}

	last := anchored[len(anchored)-1]
	if last.DepartureDate != nil {
		windowEnd := dateKey(*last.DepartureDate).AddDate(0, 0, 1)
		if !day.Before(windowEnd) {
			return Classification{Kind: KindAfterJourney}
		}
	}

	for i := range anchored {
		if i+1 < len(anchored) {
			next := dateKey(*anchored[i+1].ArrivalDate)
			if !day.Before(next) {
				continue
			}
		}
		if sameOrAfter(day, *anchored[i].ArrivalDate) {
			return Classification{Kind: KindMilestone, Milestone: anchored[i]}
		}
	}

	// Unreachable given the checks above, but a grouping failure must never
	// blank the whole feed; fall back to the before-journey bucket.
	return Classification{Kind: KindBeforeJourney}
}

// anchoredMilestones returns pointers to the milestones that carry an arrival
// date, sorted by display order. Input order is not trusted.
func anchoredMilestones(milestones []trip.Milestone) []*trip.Milestone {
	anchored := make([]*trip.Milestone, 0, len(milestones))
	for i := range milestones {
		if milestones[i].ArrivalDate != nil {
			anchored = append(anchored, &milestones[i])
		}
	}
	sort.SliceStable(anchored, func(i, j int) bool {
		return anchored[i].DisplayOrder < anchored[j].DisplayOrder
	})
	return anchored
}
