package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/deck"
)

// DeckService resolves user supplied deck names against the collection.
type DeckService struct {
	repo   *database.DeckRepository
	logger *zap.Logger
}

func NewDeckService(ctx *database.Context, logger *zap.Logger) *DeckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckService{
		repo:   database.NewDeckRepository(ctx),
		logger: logger,
	}
}

// Table loads every deck of the collection.
func (s *DeckService) Table(ctx context.Context) (*deck.Table, error) {
	if s.repo == nil {
		return nil, errors.New("deck service: missing repository")
	}
	decks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded decks", zap.Int("count", len(decks)))
	return deck.NewTable(decks), nil
}

// Resolve returns the deck table and the ids selected by name: the named deck
// and all its descendants, or every deck when name is empty.
func (s *DeckService) Resolve(ctx context.Context, name string) (*deck.Table, []int64, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, nil, err
	}

	ids, err := table.Resolve(name)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("resolved deck",
		zap.String("name", name),
		zap.Int64s("deck_ids", ids),
	)
	return table, ids, nil
}
