package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/config"
)

// app carries state shared by all commands of one invocation.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "streakkeeper",
		Short: "streakkeeper - move Anki reviews to another day",
		Long: `streakkeeper rewrites the timestamps of Anki reviews so that the reviews of
one day count for another, keeping the order and spacing of the reviews.

Close Anki before running it. A copy of the collection is made before any change.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.settings = settings

			logConfig := zap.NewProductionConfig()
			logConfig.Encoding = "console"
			logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if settings.Verbose {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("collection", "c", config.DefaultProfile, "Anki profile whose collection is used")
	flags.String("collection-path", "", "Path to a collection.anki2 file (overrides --collection)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("format", config.FormatTable, "Output format: table or json")
	flags.Int("rollover", 0, "Hour (0-23) at which a new day starts")
	flags.Bool("anki-rollover", false, "Use the rollover hour stored in the collection")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperr.Wrap(apperr.KindInvalidOption, err, "%s", cmd.CommandPath())
	})

	cmd.AddCommand(newShiftCmd(a))
	cmd.AddCommand(newDecksCmd(a))
	cmd.AddCommand(newPathCmd(a))
	cmd.AddCommand(newMCPCmd(a))

	return cmd
}
