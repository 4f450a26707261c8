package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/config"
	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/usecase"
)

// ShiftInput aggregates what a command line run of the migration needs.
type ShiftInput struct {
	Settings *config.Settings
	Deck     string
	Logger   *zap.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// MigrateInput converts settings into the usecase input.
func MigrateInput(s *config.Settings, deckName string, now func() time.Time) usecase.MigrateInput {
	return usecase.MigrateInput{
		Deck: deckName,
		Dates: datewindow.Options{
			From:     s.From,
			To:       s.To,
			Rollover: s.Rollover,
			Now:      now,
		},
		Limit:        s.Limit,
		Simulate:     s.Simulate,
		Backup:       s.Backup,
		BackupKeep:   s.BackupKeep,
		AnkiRollover: s.AnkiRollover,
	}
}

// Shift opens the configured collection, runs the migration and closes the
// collection again. The result is returned even when err is a collision
// failure so callers can show what was planned.
func Shift(ctx context.Context, input ShiftInput) (*usecase.MigrateResult, error) {
	dbCtx, err := database.OpenCollection(ctx, input.Settings.CollectionFile())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()

	return usecase.NewMigration(dbCtx, input.Logger).Run(ctx, MigrateInput(input.Settings, input.Deck, input.Now))
}

// ListDecks opens the configured collection and lists its decks with their
// review counts on day (empty means today).
func ListDecks(ctx context.Context, s *config.Settings, day string, logger *zap.Logger) (*usecase.DeckList, error) {
	dbCtx, err := database.OpenCollection(ctx, s.CollectionFile())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()

	return usecase.NewCatalog(dbCtx, logger).List(ctx, usecase.DeckListInput{
		Dates:        datewindow.Options{From: day, Rollover: s.Rollover},
		AnkiRollover: s.AnkiRollover,
	})
}
