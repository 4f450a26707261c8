package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/services"
)

// Catalog lists the decks of a collection with their activity on one day.
type Catalog struct {
	decks      *services.DeckService
	reviews    *services.ReviewService
	collection *services.CollectionService
}

func NewCatalog(dbCtx *database.Context, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		decks:      services.NewDeckService(dbCtx, logger),
		reviews:    services.NewReviewService(dbCtx, logger),
		collection: services.NewCollectionService(dbCtx, logger),
	}
}

type DeckListInput struct {
	// Dates.From picks the day; empty means today.
	Dates        datewindow.Options
	AnkiRollover bool
}

type DeckRow struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Reviews int64  `json:"reviews"`
}

type DeckList struct {
	Day   string    `json:"day"`
	Decks []DeckRow `json:"decks"`
}

// List returns every deck in path order with the number of reviews its cards
// received on the chosen day.
func (u *Catalog) List(ctx context.Context, input DeckListInput) (*DeckList, error) {
	dates := input.Dates
	if input.AnkiRollover {
		hour, err := u.collection.Rollover(ctx, dates.Rollover)
		if err != nil {
			return nil, err
		}
		dates.Rollover = hour
	}

	window, err := datewindow.ResolveDay(dates)
	if err != nil {
		return nil, err
	}

	table, err := u.decks.Table(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := u.reviews.CountByDeck(ctx, window)
	if err != nil {
		return nil, err
	}

	list := &DeckList{Day: window.String(), Decks: []DeckRow{}}
	for _, d := range table.Decks() {
		list.Decks = append(list.Decks, DeckRow{ID: d.ID, Name: d.Name, Reviews: counts[d.ID]})
	}
	return list, nil
}
