package database

import (
	"context"
	"fmt"

	sqldb "github.com/streakkeeper/streakkeeper/internal/database/sqlc"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/shift"
)

type RevlogRepository struct {
	ctx *Context
}

func NewRevlogRepository(dbCtx *Context) *RevlogRepository {
	return &RevlogRepository{ctx: dbCtx}
}

// ListInWindow returns the reviews of cards in deckIDs recorded inside window,
// earliest first. A positive limit keeps only the earliest limit rows.
func (r *RevlogRepository) ListInWindow(ctx context.Context, deckIDs []int64, window datewindow.Window, limit int) ([]shift.Entry, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, errMissingContext
	}

	rows, err := queries.ListReviewsInWindow(ctx, sqldb.ListReviewsInWindowParams{
		DeckIDs: deckIDs,
		Start:   window.Start,
		End:     window.End,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]shift.Entry, 0, len(rows))
	for _, row := range rows {
		result = append(result, shift.Entry{
			Stamp:  shift.StampFromID(row.ID),
			CardID: row.Cid,
			NoteID: row.Nid,
			DeckID: homeDeck(row.Did, row.Odid),
		})
	}
	return result, nil
}

// FindOwners reports which of ids are already used in revlog, mapped to the
// card owning each one.
func (r *RevlogRepository) FindOwners(ctx context.Context, ids []int64) (map[int64]int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, errMissingContext
	}

	owners := make(map[int64]int64)
	for _, chunk := range chunkIDs(ids, maxQueryParams) {
		rows, err := queries.FindRevlogOwners(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			owners[row.ID] = row.Cid
		}
	}
	return owners, nil
}

// CountByDeck returns the number of reviews per home deck inside window.
func (r *RevlogRepository) CountByDeck(ctx context.Context, window datewindow.Window) ([]DeckReviewCount, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, errMissingContext
	}

	rows, err := queries.CountReviewsByDeck(ctx, sqldb.CountReviewsByDeckParams{Start: window.Start, End: window.End})
	if err != nil {
		return nil, err
	}

	result := make([]DeckReviewCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, DeckReviewCount{DeckID: row.Did, Count: row.Count})
	}
	return result, nil
}

// ApplyMoves rewrites revlog identifiers inside a single transaction. Each
// move must touch exactly one row or the whole batch is rolled back.
func (r *RevlogRepository) ApplyMoves(ctx context.Context, moves []Move) (int, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return 0, errMissingContext
	}

	applied := 0
	err := r.ctx.WithTx(ctx, func(q *sqldb.Queries) error {
		for _, m := range moves {
			affected, err := q.UpdateRevlogID(ctx, sqldb.UpdateRevlogIDParams{NewID: m.NewID, OldID: m.OldID})
			if err != nil {
				return fmt.Errorf("move review %d to %d: %w", m.OldID, m.NewID, err)
			}
			if affected != 1 {
				return fmt.Errorf("move review %d to %d: %d rows affected, want 1", m.OldID, m.NewID, affected)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}
