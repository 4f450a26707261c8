package database

import (
	"context"

	"github.com/streakkeeper/streakkeeper/internal/deck"
)

type DeckRepository struct {
	ctx *Context
}

func NewDeckRepository(dbCtx *Context) *DeckRepository {
	return &DeckRepository{ctx: dbCtx}
}

// ListAll returns every deck with its name converted to a "::" path.
func (r *DeckRepository) ListAll(ctx context.Context) ([]deck.Deck, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, errMissingContext
	}

	rows, err := queries.ListDecks(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]deck.Deck, 0, len(rows))
	for _, row := range rows {
		result = append(result, deck.Deck{ID: row.ID, Name: deck.NormalizeName(row.Name)})
	}
	return result, nil
}
