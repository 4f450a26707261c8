package usecase

import (
	"time"

	"github.com/streakkeeper/streakkeeper/internal/shift"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// PlanReport is the serialisable form of a MigrateResult, shared by the JSON
// output and the MCP tools.
type PlanReport struct {
	Collection    string    `json:"collection"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	OffsetDays    int       `json:"offsetDays"`
	Rollover      int       `json:"rollover"`
	Simulated     bool      `json:"simulated"`
	Candidates    int       `json:"candidates"`
	Changed       int       `json:"changed"`
	Skipped       int       `json:"skipped"`
	AffectedDecks []DeckRef `json:"affectedDecks"`
	BackupPath    string    `json:"backupPath,omitempty"`
	Entries       []PlanRow `json:"entries"`
}

type DeckRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PlanRow struct {
	CardID     int64  `json:"cardId"`
	NoteID     int64  `json:"noteId"`
	DeckID     int64  `json:"deckId"`
	Deck       string `json:"deck"`
	OriginalID int64  `json:"originalId"`
	ProposedID int64  `json:"proposedId"`
	Original   string `json:"original"`
	Proposed   string `json:"proposed"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// Report renders r with review times shown in loc.
func (r *MigrateResult) Report(collection string, loc *time.Location) PlanReport {
	if loc == nil {
		loc = time.Local
	}

	report := PlanReport{
		Collection:    collection,
		From:          r.Plan.Range.Source.String(),
		To:            r.Plan.Range.Destination.String(),
		OffsetDays:    r.Plan.OffsetDays(),
		Rollover:      r.Rollover,
		Simulated:     r.Simulated,
		Candidates:    r.Candidates(),
		Changed:       r.Changed,
		Skipped:       r.Skipped,
		AffectedDecks: []DeckRef{},
		BackupPath:    r.BackupPath,
		Entries:       make([]PlanRow, 0, len(r.Plan.Entries)),
	}

	for _, id := range r.AffectedDecks {
		report.AffectedDecks = append(report.AffectedDecks, DeckRef{ID: id, Name: r.deckName(id)})
	}

	for _, e := range r.Plan.Entries {
		row := PlanRow{
			CardID:     e.Entry.CardID,
			NoteID:     e.Entry.NoteID,
			DeckID:     e.Entry.DeckID,
			Deck:       r.deckName(e.Entry.DeckID),
			OriginalID: e.Entry.Stamp.ID(),
			ProposedID: e.Proposed.ID(),
			Original:   e.Entry.Stamp.Time(loc).Format(reportTimeLayout),
			Proposed:   e.Proposed.Time(loc).Format(reportTimeLayout),
			Status:     string(e.Status),
		}
		if e.Status != shift.StatusPlanned && e.Err != nil {
			row.Reason = e.Err.Error()
		}
		report.Entries = append(report.Entries, row)
	}
	return report
}

func (r *MigrateResult) deckName(id int64) string {
	if r.Decks == nil {
		return ""
	}
	name, _ := r.Decks.Name(id)
	return name
}
