package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/streakkeeper/streakkeeper/internal/application"
)

func newDecksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decks [day]",
		Short: "List decks and their review count on a day",
		Long:  "List every deck of the collection with the number of reviews on day (default today).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ""
			if len(args) == 1 {
				day = args[0]
			}

			list, err := application.ListDecks(context.Background(), a.settings, day, a.logger)
			if err != nil {
				return err
			}
			return writeDeckList(cmd, a.settings.Format, list)
		},
	}

	return cmd
}
