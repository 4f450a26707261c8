package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/streakkeeper/streakkeeper/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for streakkeeper on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(mcp.Options{
				CollectionPath: a.settings.CollectionFile(),
				Version:        version,
				Rollover:       a.settings.Rollover,
				AnkiRollover:   a.settings.AnkiRollover,
				Backup:         a.settings.Backup,
				BackupKeep:     a.settings.BackupKeep,
				Logger:         a.logger,
			})
			if err != nil {
				return err
			}

			return server.Run(context.Background())
		},
	}

	return cmd
}
