package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/config"
	"github.com/streakkeeper/streakkeeper/internal/usecase"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeReport(cmd *cobra.Command, format string, report usecase.PlanReport) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(cmd.OutOrStdout(), report)
	case config.FormatTable:
		outputPlanTable(cmd.OutOrStdout(), report)
		return nil
	default:
		return apperr.New(apperr.KindInvalidOption, "invalid format: %s (valid values: table, json)", format)
	}
}

func writeDeckList(cmd *cobra.Command, format string, list *usecase.DeckList) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(cmd.OutOrStdout(), list)
	case config.FormatTable:
		outputDeckTable(cmd.OutOrStdout(), list)
		return nil
	default:
		return apperr.New(apperr.KindInvalidOption, "invalid format: %s (valid values: table, json)", format)
	}
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// deckColumnWidth is what remains for the deck column once the fixed width
// columns and borders are accounted for.
func deckColumnWidth(termWidth, fixed, columns int) int {
	width := termWidth - fixed - columns*3 - 1
	if width < 12 {
		width = 12
	}
	return width
}

func outputPlanTable(w io.Writer, report usecase.PlanReport) {
	if report.Simulated {
		fmt.Fprintln(w, "Simulation: the collection was not changed.")
	}

	if len(report.Entries) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)

		// Card and note ids are 13 digits, times 19 characters, status 9.
		deckWidth := deckColumnWidth(getTerminalWidth(), 13+13+19+19+9, 6)

		t.AppendHeader(table.Row{"Card", "Note", "Deck", "Original", "Proposed", "Status"})
		for _, e := range report.Entries {
			t.AppendRow(table.Row{
				e.CardID,
				e.NoteID,
				runewidth.Truncate(e.Deck, deckWidth, "..."),
				e.Original,
				e.Proposed,
				e.Status,
			})
		}
		t.Render()
	}

	verb := "Moved"
	if report.Simulated {
		verb = "Would move"
	}
	fmt.Fprintf(w, "%s %d of %d reviews from %s to %s (%+d days).\n",
		verb, report.Changed, report.Candidates, report.From, report.To, report.OffsetDays)
	if report.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d reviews that cannot move; see the status column.\n", report.Skipped)
	}
	if len(report.AffectedDecks) > 0 {
		names := make([]string, 0, len(report.AffectedDecks))
		for _, d := range report.AffectedDecks {
			names = append(names, d.Name)
		}
		fmt.Fprintf(w, "Decks: %s\n", strings.Join(names, ", "))
	}
	if report.BackupPath != "" {
		fmt.Fprintf(w, "Backup: %s\n", report.BackupPath)
	}
}

func outputDeckTable(w io.Writer, list *usecase.DeckList) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	deckWidth := deckColumnWidth(getTerminalWidth(), 13+7, 3)

	t.AppendHeader(table.Row{"ID", "Deck", "Reviews " + list.Day})
	var total int64
	for _, d := range list.Decks {
		t.AppendRow(table.Row{d.ID, runewidth.Truncate(d.Name, deckWidth, "..."), d.Reviews})
		total += d.Reviews
	}
	t.AppendFooter(table.Row{"", "Total", total})
	t.Render()
}
