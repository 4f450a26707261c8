package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/shift"
)

// ReviewService reads and moves review log entries.
type ReviewService struct {
	repo   *database.RevlogRepository
	logger *zap.Logger
}

func NewReviewService(ctx *database.Context, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		repo:   database.NewRevlogRepository(ctx),
		logger: logger,
	}
}

// Select returns the reviews of the given decks recorded inside window,
// earliest first. A positive limit keeps only the earliest limit entries.
func (s *ReviewService) Select(ctx context.Context, deckIDs []int64, window datewindow.Window, limit int) ([]shift.Entry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", limit)
	}
	if len(deckIDs) == 0 {
		return nil, nil
	}

	entries, err := s.repo.ListInWindow(ctx, deckIDs, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}

	s.logger.Debug("selected reviews",
		zap.String("day", window.String()),
		zap.Int64("start_ms", window.Start),
		zap.Int64("end_ms", window.End),
		zap.Int("limit", limit),
		zap.Int("count", len(entries)),
	)
	return entries, nil
}

// Occupied looks up which identifiers entries would take after moving by
// days are already present, mapped to the owning card.
func (s *ReviewService) Occupied(ctx context.Context, entries []shift.Entry, days int) (map[int64]int64, error) {
	if len(entries) == 0 {
		return map[int64]int64{}, nil
	}

	owners, err := s.repo.FindOwners(ctx, shift.Targets(entries, days))
	if err != nil {
		return nil, fmt.Errorf("failed to check target identifiers: %w", err)
	}
	return owners, nil
}

// CountByDeck returns per home deck review counts inside window.
func (s *ReviewService) CountByDeck(ctx context.Context, window datewindow.Window) (map[int64]int64, error) {
	rows, err := s.repo.CountByDeck(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.DeckID] = row.Count
	}
	return counts, nil
}

// Apply writes the applicable entries of plan in one transaction and returns
// how many rows moved. Nothing is written when the transaction fails.
func (s *ReviewService) Apply(ctx context.Context, plan shift.Plan) (int, error) {
	applicable := plan.Applicable()
	if len(applicable) == 0 {
		return 0, errors.New("plan has no applicable entries")
	}

	moves := make([]database.Move, 0, len(applicable))
	for _, e := range applicable {
		moves = append(moves, database.Move{OldID: e.Entry.Stamp.ID(), NewID: e.Proposed.ID()})
	}

	changed, err := s.repo.ApplyMoves(ctx, moves)
	if err != nil {
		return 0, err
	}

	s.logger.Info("moved reviews",
		zap.Int("changed", changed),
		zap.Int("offset_days", plan.OffsetDays()),
	)
	return changed, nil
}
