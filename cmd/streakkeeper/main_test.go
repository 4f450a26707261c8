package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/database/fixture"
	"github.com/streakkeeper/streakkeeper/internal/usecase"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	t.Setenv("STREAKKEEPER_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	col := fixture.New(t)
	col.AddDeck(1, "Default")
	col.AddDeck(10, "Vocabulary")
	col.AddCard(100, 1000, 10)
	col.AddCard(101, 1001, 10)
	col.AddCard(102, 1002, 1)
	for i, cid := range []int64{100, 101, 102} {
		col.AddReview(time.Date(2025, 1, 3, 9, i, 0, 0, time.Local).UnixMilli(), cid)
	}
	if err := col.DB.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return col.Path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShiftCommandSimulateJSON(t *testing.T) {
	path := setupCLI(t)

	out, err := execute(t, "shift", "Vocabulary", "--collection-path", path,
		"--from", "2025-01-03", "--to", "2025-01-02", "--simulate", "--format", "json")
	if err != nil {
		t.Fatalf("shift returned error: %v", err)
	}

	var report usecase.PlanReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !report.Simulated || report.Candidates != 2 || report.Changed != 2 || report.OffsetDays != -1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.BackupPath != "" {
		t.Fatalf("simulation must not create a backup, got %s", report.BackupPath)
	}
}

func TestShiftCommandCommitThenDecks(t *testing.T) {
	path := setupCLI(t)

	out, err := execute(t, "shift", "--collection-path", path,
		"--from", "2025-01-03", "--to", "2025-01-02")
	if err != nil {
		t.Fatalf("shift returned error: %v", err)
	}
	if !strings.Contains(out, "Moved 3 of 3 reviews") {
		t.Fatalf("expected summary line, got:\n%s", out)
	}
	if !strings.Contains(out, "Backup: ") {
		t.Fatalf("expected backup line, got:\n%s", out)
	}

	out, err = execute(t, "decks", "2025-01-02", "--collection-path", path, "--format", "json")
	if err != nil {
		t.Fatalf("decks returned error: %v", err)
	}
	var list usecase.DeckList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	counts := map[string]int64{}
	for _, d := range list.Decks {
		counts[d.Name] = d.Reviews
	}
	if counts["Default"] != 1 || counts["Vocabulary"] != 2 {
		t.Fatalf("unexpected counts: %+v", list.Decks)
	}
}

func TestShiftCommandUnknownDeck(t *testing.T) {
	path := setupCLI(t)

	_, err := execute(t, "shift", "Kanji", "--collection-path", path, "--from", "2025-01-03")
	if !errors.Is(err, apperr.ErrDeckNotFound) {
		t.Fatalf("expected DeckNotFound, got %v", err)
	}
	if code := apperr.ExitCode(err); code != 4 {
		t.Fatalf("expected exit code 4, got %d", code)
	}
}

func TestInvalidFlagIsInvalidOption(t *testing.T) {
	path := setupCLI(t)

	_, err := execute(t, "shift", "--collection-path", path, "--limit", "many")
	if apperr.ExitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d (%v)", apperr.ExitCode(err), err)
	}
}

func TestPathCommandJSON(t *testing.T) {
	path := setupCLI(t)

	out, err := execute(t, "path", "--collection-path", path, "--format", "json")
	if err != nil {
		t.Fatalf("path returned error: %v", err)
	}
	var got pathOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Collection != path || !got.Exists || len(got.Backups) != 0 {
		t.Fatalf("unexpected output: %+v", got)
	}
}
