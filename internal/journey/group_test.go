package journey

import (
	"reflect"
	"testing"
	"time"

	trip "io.wandr.triplog/internal/models/trip"
)

func post(id string, capturedAt time.Time) trip.Post {
	return trip.Post{
		ID:         id,
		Body:       "post " + id,
		CreatedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		CapturedAt: &capturedAt,
	}
}

func groupPostCount(groups []MilestoneGroup) int {
	n := 0
	for _, g := range groups {
		for _, d := range g.Days {
			n += len(d.Posts)
		}
	}
	return n
}

func TestGroupPostsSameDayOrdering(t *testing.T) {
	p1 := post("p1", time.Date(2025, 12, 21, 8, 0, 0, 0, time.UTC))
	p2 := post("p2", time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC))

	// Feed the posts in reverse to prove sorting does the work.
	groups := GroupPosts([]trip.Post{p2, p1}, testMilestones())

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	delhi := groups[0]
	if delhi.Name != "Delhi" || delhi.Number != 1 {
		t.Fatalf("first group = %q (#%d), want Delhi #1", delhi.Name, delhi.Number)
	}
	if len(delhi.Days) != 1 {
		t.Fatalf("got %d day groups for Delhi, want 1", len(delhi.Days))
	}
	day := delhi.Days[0]
	if day.DaySeq != 1 {
		t.Errorf("day sequence = %d, want 1", day.DaySeq)
	}
	if len(day.Posts) != 2 || day.Posts[0].ID != "p1" || day.Posts[1].ID != "p2" {
		t.Errorf("same-day posts not in chronological order: %v", postIDs(day.Posts))
	}
}

func TestGroupPostsEmptyMilestoneKept(t *testing.T) {
	p := post("p1", time.Date(2025, 12, 23, 10, 0, 0, 0, time.UTC)) // Agra only

	groups := GroupPosts([]trip.Post{p}, testMilestones())

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (empty Delhi kept)", len(groups))
	}
	if groups[0].Name != "Delhi" {
		t.Fatalf("first group = %q, want Delhi", groups[0].Name)
	}
	if groups[0].Days == nil || len(groups[0].Days) != 0 {
		t.Errorf("empty milestone should have an empty, non-nil day list, got %v", groups[0].Days)
	}
}

func TestGroupPostsPseudoBuckets(t *testing.T) {
	before := post("p-before", time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC))
	during := post("p-during", time.Date(2025, 12, 21, 9, 0, 0, 0, time.UTC))

	milestones := []trip.Milestone{
		{ID: "m1", Name: "Delhi", DisplayOrder: 0, ArrivalDate: datePtr(2025, 12, 20), DepartureDate: datePtr(2025, 12, 22)},
	}

	groups := GroupPosts([]trip.Post{during, before}, milestones)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want before-journey bucket plus Delhi", len(groups))
	}
	if !groups[0].Pseudo || groups[0].Name != BeforeJourneyName {
		t.Errorf("first group = %+v, want pseudo %q", groups[0], BeforeJourneyName)
	}
	if groups[0].Milestone != nil {
		t.Error("pseudo group must not reference a milestone")
	}
	if groupPostCount(groups) != 2 {
		t.Errorf("pseudo policy must not drop posts: counted %d of 2", groupPostCount(groups))
	}

	// After-journey bucket appears last, and only when non-empty.
	late := post("p-late", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))
	groups = GroupPosts([]trip.Post{during, late}, milestones)
	if lastGroup := groups[len(groups)-1]; !lastGroup.Pseudo || lastGroup.Name != AfterJourneyName {
		t.Errorf("last group = %+v, want pseudo %q", lastGroup, AfterJourneyName)
	}

	groups = GroupPosts([]trip.Post{during}, milestones)
	for _, g := range groups {
		if g.Pseudo {
			t.Errorf("empty pseudo bucket %q should not be emitted", g.Name)
		}
	}
}

func TestGroupPostsCompleteness(t *testing.T) {
	posts := []trip.Post{
		post("a", time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)),
		post("b", time.Date(2025, 12, 21, 9, 0, 0, 0, time.UTC)),
		post("c", time.Date(2025, 12, 23, 7, 0, 0, 0, time.UTC)),
		post("d", time.Date(2025, 12, 1, 7, 0, 0, 0, time.UTC)),
		post("e", time.Date(2025, 12, 21, 18, 0, 0, 0, time.UTC)),
	}

	groups := GroupPosts(posts, testMilestones())

	if got := groupPostCount(groups); got != len(posts) {
		t.Fatalf("grouped %d posts, want all %d", got, len(posts))
	}

	seen := map[string]int{}
	for _, g := range groups {
		for _, d := range g.Days {
			for _, p := range d.Posts {
				seen[p.ID]++
			}
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("post %s appears %d times, want exactly once", id, n)
		}
	}
}

func TestGroupPostsOrdering(t *testing.T) {
	posts := []trip.Post{
		post("late", time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)),
		post("early", time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)),
		post("mid", time.Date(2025, 12, 21, 8, 0, 0, 0, time.UTC)),
	}

	groups := GroupPosts(posts, testMilestones())

	prevNumber := 0
	for _, g := range groups {
		if g.Pseudo {
			continue
		}
		if g.Number <= prevNumber {
			t.Errorf("milestone numbers out of sequence: %d after %d", g.Number, prevNumber)
		}
		prevNumber = g.Number

		var prevDate time.Time
		for _, d := range g.Days {
			if d.Date.Before(prevDate) {
				t.Errorf("day groups out of order in %s: %v before %v", g.Name, d.Date, prevDate)
			}
			prevDate = d.Date

			for i := 1; i < len(d.Posts); i++ {
				if d.Posts[i].EffectiveTimestamp().Before(d.Posts[i-1].EffectiveTimestamp()) {
					t.Errorf("posts out of order on %v in %s", d.Date, g.Name)
				}
			}
		}
	}
}

func TestGroupPostsDeterminism(t *testing.T) {
	posts := []trip.Post{
		post("a", time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)),
		post("b", time.Date(2025, 12, 20, 8, 0, 0, 0, time.UTC)), // identical timestamp
		post("c", time.Date(2025, 12, 23, 7, 0, 0, 0, time.UTC)),
	}

	first := GroupPosts(posts, testMilestones())
	second := GroupPosts(posts, testMilestones())

	if !reflect.DeepEqual(first, second) {
		t.Error("GroupPosts is not deterministic for identical input")
	}
}

func TestGroupPostsUsesCreatedAtFallback(t *testing.T) {
	p := trip.Post{
		ID:        "no-exif",
		Body:      "uploaded without capture time",
		CreatedAt: time.Date(2025, 12, 21, 14, 0, 0, 0, time.UTC),
	}

	groups := GroupPosts([]trip.Post{p}, testMilestones())
	if len(groups[0].Days) != 1 || groups[0].Days[0].Posts[0].ID != "no-exif" {
		t.Error("post without captured_at should group by created_at into Delhi")
	}
}

func postIDs(posts []trip.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
