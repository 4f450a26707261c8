package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/backup"
	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/datewindow"
	"github.com/streakkeeper/streakkeeper/internal/deck"
	"github.com/streakkeeper/streakkeeper/internal/services"
	"github.com/streakkeeper/streakkeeper/internal/shift"
)

// Migration moves the reviews of one day onto another.
type Migration struct {
	dbCtx      *database.Context
	decks      *services.DeckService
	reviews    *services.ReviewService
	collection *services.CollectionService
	logger     *zap.Logger
}

func NewMigration(dbCtx *database.Context, logger *zap.Logger) *Migration {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migration{
		dbCtx:      dbCtx,
		decks:      services.NewDeckService(dbCtx, logger),
		reviews:    services.NewReviewService(dbCtx, logger),
		collection: services.NewCollectionService(dbCtx, logger),
		logger:     logger,
	}
}

type MigrateInput struct {
	// Deck selects a deck and its subdecks; empty selects every deck.
	Deck  string
	Dates datewindow.Options
	// Limit keeps only the earliest Limit reviews when positive.
	Limit    int
	Simulate bool
	// Backup copies the collection file before anything is written.
	Backup bool
	// BackupKeep prunes older backups after a new one is made; 0 keeps all.
	BackupKeep int
	// AnkiRollover reads the day rollover hour from the collection, falling
	// back to Dates.Rollover when it has none.
	AnkiRollover bool
}

type MigrateResult struct {
	Plan      shift.Plan
	Decks     *deck.Table
	DeckIDs   []int64
	Rollover  int
	Simulated bool
	// Changed counts entries moved, or that would move when Simulated.
	Changed       int
	Skipped       int
	AffectedDecks []int64
	BackupPath    string
	BackupHash    string
}

// Candidates is the number of reviews selected from the source day.
func (r *MigrateResult) Candidates() int {
	return len(r.Plan.Entries)
}

// Plan resolves the input and computes the shift without writing anything.
// When every candidate collides the result is returned together with a
// TimestampCollision error.
func (u *Migration) Plan(ctx context.Context, input MigrateInput) (*MigrateResult, error) {
	if input.Limit < 0 {
		return nil, apperr.New(apperr.KindInvalidOption, "limit must not be negative, got %d", input.Limit)
	}

	dates := input.Dates
	if input.AnkiRollover {
		hour, err := u.collection.Rollover(ctx, dates.Rollover)
		if err != nil {
			return nil, err
		}
		dates.Rollover = hour
	}

	rng, err := datewindow.Resolve(dates)
	if err != nil {
		return nil, err
	}

	table, deckIDs, err := u.decks.Resolve(ctx, input.Deck)
	if err != nil {
		return nil, err
	}

	entries, err := u.reviews.Select(ctx, deckIDs, rng.Source, input.Limit)
	if err != nil {
		return nil, err
	}

	occupied, err := u.reviews.Occupied(ctx, entries, rng.OffsetDays())
	if err != nil {
		return nil, err
	}

	plan := shift.Compute(rng, entries, occupied)
	result := &MigrateResult{
		Plan:          plan,
		Decks:         table,
		DeckIDs:       deckIDs,
		Rollover:      dates.Rollover,
		Simulated:     true,
		Changed:       len(plan.Applicable()),
		Skipped:       len(plan.Skipped()),
		AffectedDecks: plan.AffectedDecks(),
	}

	u.logger.Debug("computed plan",
		zap.String("from", rng.Source.String()),
		zap.String("to", rng.Destination.String()),
		zap.Int("offset_days", plan.OffsetDays()),
		zap.Int("candidates", len(entries)),
		zap.Int("collisions", len(plan.Collisions())),
		zap.Int("out_of_day", len(plan.OutOfDay())),
	)
	for _, c := range plan.Skipped() {
		u.logger.Warn("skipping review", zap.String("status", string(c.Status)), zap.Error(c.Err))
	}

	if len(entries) > 0 && result.Changed == 0 {
		return result, apperr.New(apperr.KindTimestampCollision,
			"none of the %d selected reviews can move to %s", len(entries), rng.Destination)
	}
	return result, nil
}

// Run computes the plan and, unless input.Simulate is set, applies it in a
// single transaction after an optional backup.
func (u *Migration) Run(ctx context.Context, input MigrateInput) (*MigrateResult, error) {
	result, err := u.Plan(ctx, input)
	if err != nil || input.Simulate {
		return result, err
	}
	if result.Changed == 0 {
		u.logger.Info("nothing to move")
		result.Simulated = false
		return result, nil
	}

	if input.Backup {
		if err := u.backup(result, input); err != nil {
			return result, err
		}
	}

	changed, err := u.reviews.Apply(ctx, result.Plan)
	if err != nil {
		return result, apperr.Wrap(apperr.KindPersistenceFailure, err, "no reviews were moved")
	}

	result.Simulated = false
	result.Changed = changed
	return result, nil
}

func (u *Migration) backup(result *MigrateResult, input MigrateInput) error {
	now := time.Now
	if input.Dates.Now != nil {
		now = input.Dates.Now
	}

	path, hash, err := backup.Create(u.dbCtx.Path, now())
	if err != nil {
		return apperr.Wrap(apperr.KindPersistenceFailure, err, "backup of %s failed", u.dbCtx.Path)
	}
	ok, err := backup.Verify(path, hash)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistenceFailure, err, "cannot verify backup %s", path)
	}
	if !ok {
		return apperr.New(apperr.KindPersistenceFailure, "backup %s does not match the collection", path)
	}

	result.BackupPath = path
	result.BackupHash = hash
	u.logger.Info("backed up collection", zap.String("path", path), zap.String("sha256", hash))

	if removed, err := backup.Prune(u.dbCtx.Path, input.BackupKeep); err != nil {
		u.logger.Warn("failed to prune backups", zap.Error(err))
	} else if removed > 0 {
		u.logger.Debug("pruned backups", zap.Int("removed", removed))
	}
	return nil
}
