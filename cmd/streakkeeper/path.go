package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streakkeeper/streakkeeper/internal/backup"
	"github.com/streakkeeper/streakkeeper/internal/config"
)

type pathOutput struct {
	Collection string   `json:"collection"`
	Exists     bool     `json:"exists"`
	Config     string   `json:"config"`
	Backups    []string `json:"backups"`
}

func newPathCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show the collection, config and backup locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection := a.settings.CollectionFile()
			backups, err := backup.List(collection)
			if err != nil {
				return err
			}
			out := pathOutput{
				Collection: collection,
				Exists:     backup.FileExists(collection),
				Config:     config.GetConfigFile(),
				Backups:    backups,
			}
			if out.Backups == nil {
				out.Backups = []string{}
			}

			if a.settings.Format == config.FormatJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(out)
			}

			status := ""
			if !out.Exists {
				status = " (missing)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collection: %s%s\n", out.Collection, status)
			fmt.Fprintf(cmd.OutOrStdout(), "Config:     %s\n", out.Config)
			fmt.Fprintf(cmd.OutOrStdout(), "Backups:    %d in %s\n", len(out.Backups), backup.Dir(collection))
			return nil
		},
	}

	return cmd
}
