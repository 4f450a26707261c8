package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
)

func jan(day, hour, minute int) int64 {
	return time.Date(2025, 1, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func backOneDay() datewindow.Range {
	return datewindow.Range{
		Source:      datewindow.NewWindow(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), 0),
		Destination: datewindow.NewWindow(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), 0),
	}
}

func TestReviewStampAddDaysKeepsTimeOfDay(t *testing.T) {
	s := StampFromID(jan(3, 14, 25))
	moved := s.AddDays(-1)

	if got, want := moved.ID(), jan(2, 14, 25); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
	if moved.ID() != moved.Millis() {
		t.Fatalf("identifier and timestamp diverged")
	}
	if got := moved.Time(time.UTC).Format("15:04"); got != "14:25" {
		t.Fatalf("expected 14:25, got %s", got)
	}
}

func TestComputeShiftsByExactDays(t *testing.T) {
	entries := []Entry{
		{Stamp: StampFromID(jan(3, 9, 0)), CardID: 1, DeckID: 10},
		{Stamp: StampFromID(jan(3, 12, 30)), CardID: 2, DeckID: 10},
		{Stamp: StampFromID(jan(3, 23, 59)), CardID: 3, DeckID: 11},
	}

	plan := Compute(backOneDay(), entries, nil)

	if len(plan.Applicable()) != 3 || len(plan.Collisions()) != 0 {
		t.Fatalf("expected 3 applicable entries, got %+v", plan.Entries)
	}
	for _, e := range plan.Entries {
		if diff := e.Entry.Stamp.Millis() - e.Proposed.Millis(); diff != datewindow.DayMillis {
			t.Fatalf("expected shift of exactly one day, got %d ms", diff)
		}
		if !plan.Range.Destination.Contains(e.Proposed.Millis()) {
			t.Fatalf("proposed stamp %d outside destination window", e.Proposed.Millis())
		}
	}
	if diff := cmp.Diff([]int64{10, 11}, plan.AffectedDecks()); diff != "" {
		t.Fatalf("affected decks mismatch (-want +got):\n%s", diff)
	}
}

func TestComputePreservesOrderAndGaps(t *testing.T) {
	entries := []Entry{
		{Stamp: StampFromID(jan(3, 18, 0)), CardID: 7},
		{Stamp: StampFromID(jan(3, 8, 0)), CardID: 7},
		{Stamp: StampFromID(jan(3, 8, 5)), CardID: 7},
	}

	plan := Compute(backOneDay(), entries, nil)

	var original, proposed []int64
	for _, e := range plan.Entries {
		original = append(original, e.Entry.Stamp.ID())
		proposed = append(proposed, e.Proposed.ID())
	}
	for i := 1; i < len(proposed); i++ {
		if proposed[i-1] >= proposed[i] {
			t.Fatalf("expected strictly increasing proposed stamps, got %v", proposed)
		}
		if proposed[i]-proposed[i-1] != original[i]-original[i-1] {
			t.Fatalf("gap between reviews changed: original %v proposed %v", original, proposed)
		}
	}
}

func TestComputeMarksCollisionWithExistingReview(t *testing.T) {
	entries := []Entry{
		{Stamp: StampFromID(jan(3, 9, 0)), CardID: 1},
		{Stamp: StampFromID(jan(3, 10, 0)), CardID: 2},
	}
	occupied := map[int64]int64{jan(2, 10, 0): 2}

	plan := Compute(backOneDay(), entries, occupied)

	collisions := plan.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(collisions))
	}
	c := collisions[0]
	if c.Entry.CardID != 2 || c.OccupantCardID != 2 {
		t.Fatalf("unexpected collision entry %+v", c)
	}
	if !errors.Is(c.Err, apperr.ErrTimestampCollision) {
		t.Fatalf("expected TimestampCollision error, got %v", c.Err)
	}
	if len(plan.Applicable()) != 1 || plan.Applicable()[0].Entry.CardID != 1 {
		t.Fatalf("expected card 1 to remain applicable, got %+v", plan.Applicable())
	}
}

func TestComputeMarksCollisionWithinPlan(t *testing.T) {
	dup := StampFromID(jan(3, 9, 0))
	entries := []Entry{
		{Stamp: dup, CardID: 1},
		{Stamp: dup, CardID: 2},
	}

	plan := Compute(backOneDay(), entries, nil)

	want := []Status{StatusPlanned, StatusCollision}
	var got []Status
	for _, e := range plan.Entries {
		got = append(got, e.Status)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	entries := []Entry{
		{Stamp: StampFromID(jan(3, 9, 0)), CardID: 1},
		{Stamp: StampFromID(jan(3, 10, 0)), CardID: 2},
	}
	occupied := map[int64]int64{jan(2, 9, 0): 5}

	first := Compute(backOneDay(), entries, occupied)
	second := Compute(backOneDay(), entries, occupied)

	opts := cmp.Comparer(func(a, b ReviewStamp) bool { return a.ID() == b.ID() })
	errText := cmp.Comparer(func(a, b error) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Error() == b.Error()
	})
	if diff := cmp.Diff(first.Entries, second.Entries, opts, errText); diff != "" {
		t.Fatalf("plans differ (-first +second):\n%s", diff)
	}
}

func TestTargets(t *testing.T) {
	entries := []Entry{
		{Stamp: StampFromID(jan(3, 9, 0))},
		{Stamp: StampFromID(jan(3, 10, 0))},
	}
	want := []int64{jan(1, 9, 0), jan(1, 10, 0)}
	if diff := cmp.Diff(want, Targets(entries, -2)); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSkipsStampsOutsideDestinationAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2025-11-02 has 25 hours in New York; a 23:30 review moved back by
	// 86,400,000 ms lands at 00:30 on the same day.
	rng := datewindow.Range{
		Source:      datewindow.NewWindow(time.Date(2025, 11, 2, 0, 0, 0, 0, ny), 0),
		Destination: datewindow.NewWindow(time.Date(2025, 11, 1, 0, 0, 0, 0, ny), 0),
	}
	entries := []Entry{
		{Stamp: StampFromID(time.Date(2025, 11, 2, 9, 0, 0, 0, ny).UnixMilli()), CardID: 1},
		{Stamp: StampFromID(time.Date(2025, 11, 2, 23, 30, 0, 0, ny).UnixMilli()), CardID: 2},
	}

	plan := Compute(rng, entries, nil)

	if len(plan.Applicable()) != 1 || plan.Applicable()[0].Entry.CardID != 1 {
		t.Fatalf("expected only card 1 to move, got %+v", plan.Applicable())
	}
	out := plan.OutOfDay()
	if len(out) != 1 || out[0].Entry.CardID != 2 {
		t.Fatalf("expected card 2 out of day, got %+v", out)
	}
	if !errors.Is(out[0].Err, apperr.ErrInvalidDateRange) {
		t.Fatalf("expected InvalidDateRange reason, got %v", out[0].Err)
	}
	if len(plan.Skipped()) != 1 || len(plan.Collisions()) != 0 {
		t.Fatalf("expected one skipped entry and no collisions, got %+v", plan.Entries)
	}
	for _, e := range plan.Applicable() {
		if !rng.Destination.Contains(e.Proposed.Millis()) {
			t.Fatalf("planned stamp %d outside destination", e.Proposed.Millis())
		}
	}
}
