package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/application"
)

func newShiftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift [deck]",
		Short: "Move the reviews of one day to another day",
		Long: `Move the reviews of a deck and its subdecks from one day (--from, default
today) to another (--to, default the day before --from). Without a deck every
deck of the collection is included. Deck names ignore case; quote names that
contain spaces, e.g. "Japanese::Core 2k".`,
		Example: `  streakkeeper shift Vocabulary --simulate
  streakkeeper shift "Japanese::Core 2k" --from 2025-01-03 --to 2025-01-02
  streakkeeper shift --from yesterday --to 20250101 --limit 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckName := ""
			if len(args) == 1 {
				deckName = strings.TrimSpace(args[0])
			}

			result, err := application.Shift(context.Background(), application.ShiftInput{
				Settings: a.settings,
				Deck:     deckName,
				Logger:   a.logger,
			})
			// A plan where every review collides is still shown.
			if result != nil && (err == nil || errors.Is(err, apperr.ErrTimestampCollision)) {
				report := result.Report(a.settings.CollectionFile(), nil)
				if outErr := writeReport(cmd, a.settings.Format, report); outErr != nil && err == nil {
					err = outErr
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolP("simulate", "s", false, "Show what would change without writing")
	flags.IntP("limit", "l", 0, "Move only the earliest N reviews (0 moves all)")
	flags.String("from", "", "Day the reviews were done: YYYY-MM-DD, YYYYMMDD, today or yesterday")
	flags.String("to", "", "Day to move the reviews to (default the day before --from)")
	flags.Bool("backup", true, "Copy the collection before writing")
	flags.Int("backup-keep", 0, "Keep only the newest N backups (0 keeps all)")

	return cmd
}
