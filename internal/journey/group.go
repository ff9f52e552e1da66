package journey

import (
	"sort"
	"time"

	trip "io.wandr.triplog/internal/models/trip"
)

// Names of the synthetic buckets that hold posts falling outside every
// milestone window. They render first and last in the grouped feed so no post
// ever disappears from it.
const (
	BeforeJourneyName = "Voor de reis"
	AfterJourneyName  = "Na de reis"
)

// DayGroup holds the posts of one calendar day within a milestone, in
// chronological reading order.
type DayGroup struct {
	DaySeq int         `json:"daySeq"`
	Date   time.Time   `json:"date"`
	Label  string      `json:"label"`
	Posts  []trip.Post `json:"posts"`
}

// MilestoneGroup is one bucket of the grouped feed. Milestone is nil and
// Pseudo is true for the synthetic before/after buckets; Number is the 1-based
// display number for real milestones and 0 for pseudo ones.
type MilestoneGroup struct {
	Milestone *trip.Milestone `json:"milestone,omitempty"`
	Number    int             `json:"number"`
	Name      string          `json:"name"`
	Pseudo    bool            `json:"pseudo,omitempty"`
	Days      []DayGroup      `json:"days"`
}

// GroupPosts partitions posts into milestone buckets and day buckets within
// them, producing the structure the feed and map render. Posts are placed by
// effective timestamp (captured_at preferred over created_at). Milestones with
// no matching posts still appear, with an empty day list, so the feed shows
// every planned stop. Posts outside all windows go into synthetic
// before/after-journey buckets, which are emitted only when non-empty.
//
// Neither input slice is assumed sorted; the result orders milestone buckets
// by display order, day buckets by date, and posts within a day by effective
// timestamp.
func GroupPosts(posts []trip.Post, milestones []trip.Milestone) []MilestoneGroup {
	ordered := make([]trip.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	byMilestone := make(map[string][]trip.Post, len(ordered))
	var before, after []trip.Post

	for _, p := range posts {
		switch cl := Classify(p.EffectiveTimestamp(), ordered); cl.Kind {
		case KindMilestone:
			byMilestone[cl.Milestone.ID] = append(byMilestone[cl.Milestone.ID], p)
		case KindAfterJourney:
			after = append(after, p)
		default:
			before = append(before, p)
		}
	}

	groups := make([]MilestoneGroup, 0, len(ordered)+2)

	if len(before) > 0 {
		groups = append(groups, MilestoneGroup{
			Name:   BeforeJourneyName,
			Pseudo: true,
			Days:   bucketByDay(before),
		})
	}

	for i := range ordered {
		m := ordered[i]
		groups = append(groups, MilestoneGroup{
			Milestone: &m,
			Number:    m.DisplayOrder + 1,
			Name:      m.Name,
			Days:      bucketByDay(byMilestone[m.ID]),
		})
	}

	if len(after) > 0 {
		groups = append(groups, MilestoneGroup{
			Name:   AfterJourneyName,
			Pseudo: true,
			Days:   bucketByDay(after),
		})
	}

	return groups
}

// bucketByDay splits posts into per-calendar-day groups, days ascending and
// posts within a day ascending by effective timestamp. Returns an empty slice,
// not nil, so empty milestones serialize as "days": [].
func bucketByDay(posts []trip.Post) []DayGroup {
	byDay := make(map[time.Time][]trip.Post)
	for _, p := range posts {
		key := dateKey(p.EffectiveTimestamp())
		byDay[key] = append(byDay[key], p)
	}

	dates := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := make([]DayGroup, 0, len(dates))
	for seq, d := range dates {
		dayPosts := byDay[d]
		sort.SliceStable(dayPosts, func(i, j int) bool {
			return dayPosts[i].EffectiveTimestamp().Before(dayPosts[j].EffectiveTimestamp())
		})
		days = append(days, DayGroup{
			DaySeq: seq + 1,
			Date:   d,
			Label:  d.Format("2006-01-02"),
			Posts:  dayPosts,
		})
	}
	return days
}
