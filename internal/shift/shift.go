// Package shift computes where review log entries land when their day moves.
//
// Anki keys each revlog row by the epoch millisecond at which the review
// happened, so the identifier and the timestamp are one number. ReviewStamp
// models that pair and is the only thing a plan ever changes.
package shift

import (
	"sort"
	"time"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
)

// ReviewStamp is the identifier/timestamp pair of a review log entry.
type ReviewStamp struct {
	id int64
}

// StampFromID wraps a revlog identifier.
func StampFromID(id int64) ReviewStamp {
	return ReviewStamp{id: id}
}

// ID is the revlog primary key.
func (s ReviewStamp) ID() int64 { return s.id }

// Millis is the review time in epoch milliseconds.
func (s ReviewStamp) Millis() int64 { return s.id }

// Time is the review time in loc.
func (s ReviewStamp) Time(loc *time.Location) time.Time {
	return time.UnixMilli(s.id).In(loc)
}

// AddDays moves the stamp by whole days, keeping the time of day.
func (s ReviewStamp) AddDays(days int) ReviewStamp {
	return ReviewStamp{id: s.id + int64(days)*datewindow.DayMillis}
}

// Entry is a review log row selected for migration.
type Entry struct {
	Stamp  ReviewStamp
	CardID int64
	NoteID int64
	DeckID int64
}

// Status describes what will happen to a plan entry.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusCollision Status = "collision"
	// StatusOutOfDay marks entries whose shifted stamp misses the destination
	// day, which happens next to a daylight saving change.
	StatusOutOfDay Status = "out_of_day"
)

// PlanEntry is one row of a plan.
type PlanEntry struct {
	Entry    Entry
	Proposed ReviewStamp
	Status   Status
	// OccupantCardID is the card owning the row already at Proposed, set only
	// for collisions.
	OccupantCardID int64
	// Err explains why the entry is skipped.
	Err error
}

// Plan maps each candidate entry to its proposed stamp.
type Plan struct {
	Range   datewindow.Range
	Entries []PlanEntry
}

// OffsetDays is the shift applied to every entry.
func (p Plan) OffsetDays() int {
	return p.Range.OffsetDays()
}

// Applicable returns the entries that can be moved.
func (p Plan) Applicable() []PlanEntry {
	return p.filter(StatusPlanned)
}

// Collisions returns the entries skipped because their new stamp is taken.
func (p Plan) Collisions() []PlanEntry {
	return p.filter(StatusCollision)
}

// OutOfDay returns the entries skipped because their new stamp falls outside
// the destination day.
func (p Plan) OutOfDay() []PlanEntry {
	return p.filter(StatusOutOfDay)
}

// Skipped returns every entry that will not move.
func (p Plan) Skipped() []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Status != StatusPlanned {
			out = append(out, e)
		}
	}
	return out
}

// AffectedDecks lists, ascending, the decks of the entries that will move.
func (p Plan) AffectedDecks() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, e := range p.Applicable() {
		if _, ok := seen[e.Entry.DeckID]; ok {
			continue
		}
		seen[e.Entry.DeckID] = struct{}{}
		ids = append(ids, e.Entry.DeckID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (p Plan) filter(status Status) []PlanEntry {
	var out []PlanEntry
	for _, e := range p.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Targets returns the identifiers entries would receive after moving by days,
// so the caller can look up which of them are already taken.
func Targets(entries []Entry, days int) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Stamp.AddDays(days).ID())
	}
	return ids
}

// Compute builds the plan for moving entries across rng. occupied maps
// identifiers already present in the store to the card that owns them.
// Entries are processed in ascending stamp order. An entry is planned only
// when its new stamp lies inside rng.Destination and is not already used.
func Compute(rng datewindow.Range, entries []Entry, occupied map[int64]int64) Plan {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stamp.ID() < sorted[j].Stamp.ID() })

	days := rng.OffsetDays()
	claimed := make(map[int64]int64, len(sorted))
	plan := Plan{Range: rng, Entries: make([]PlanEntry, 0, len(sorted))}

	for _, e := range sorted {
		proposed := e.Stamp.AddDays(days)
		pe := PlanEntry{Entry: e, Proposed: proposed, Status: StatusPlanned}

		if !rng.Destination.Contains(proposed.Millis()) {
			pe.Status = StatusOutOfDay
			pe.Err = apperr.New(apperr.KindInvalidDateRange,
				"review %d of card %d would land on %s, outside %s",
				e.Stamp.ID(), e.CardID, proposed.Time(rng.Destination.Day.Location()).Format(time.DateTime), rng.Destination)
		} else if owner, ok := occupied[proposed.ID()]; ok {
			pe.Status = StatusCollision
			pe.OccupantCardID = owner
			pe.Err = apperr.New(apperr.KindTimestampCollision,
				"review %d of card %d would land on %d, already used by card %d",
				e.Stamp.ID(), e.CardID, proposed.ID(), owner)
		} else if owner, ok := claimed[proposed.ID()]; ok {
			pe.Status = StatusCollision
			pe.OccupantCardID = owner
			pe.Err = apperr.New(apperr.KindTimestampCollision,
				"review %d of card %d would land on %d, claimed by another review of card %d",
				e.Stamp.ID(), e.CardID, proposed.ID(), owner)
		} else {
			claimed[proposed.ID()] = e.CardID
		}

		plan.Entries = append(plan.Entries, pe)
	}

	return plan
}
