package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/database"
)

// CollectionService exposes collection wide settings.
type CollectionService struct {
	repo   *database.ConfigRepository
	logger *zap.Logger
}

func NewCollectionService(ctx *database.Context, logger *zap.Logger) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{
		repo:   database.NewConfigRepository(ctx),
		logger: logger,
	}
}

// Rollover returns the hour at which the collection starts a new day, or
// fallback when the collection does not record one.
func (s *CollectionService) Rollover(ctx context.Context, fallback int) (int, error) {
	hour, ok, err := s.repo.Rollover(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read rollover hour: %w", err)
	}
	if !ok {
		s.logger.Debug("collection has no rollover hour", zap.Int("fallback", fallback))
		return fallback, nil
	}
	s.logger.Debug("using collection rollover hour", zap.Int("hour", hour))
	return hour, nil
}
