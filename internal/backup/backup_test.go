package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCollection(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "User 1")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "collection.anki2")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write collection: %v", err)
	}
	return path
}

func TestCreateAndVerify(t *testing.T) {
	collection := writeCollection(t, "SQLite format 3\x00 pretend")
	now := time.Date(2025, 1, 3, 14, 25, 0, 0, time.UTC)

	path, hash, err := Create(collection, now)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !strings.HasPrefix(path, Dir(collection)) {
		t.Fatalf("expected backup %s under %s", path, Dir(collection))
	}
	if got := filepath.Base(path); got != "collection-20250103-142500.000.anki2" {
		t.Fatalf("unexpected backup name %s", got)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(content) != "SQLite format 3\x00 pretend" {
		t.Fatalf("backup content differs: %q", content)
	}

	ok, err := Verify(path, hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("Verify expected true")
	}

	if err := os.WriteFile(path, []byte("tampered"), 0o600); err != nil {
		t.Fatalf("rewrite backup: %v", err)
	}
	if ok, _ := Verify(path, hash); ok {
		t.Fatalf("Verify expected false after modification")
	}
}

func TestCreateSameInstantDoesNotOverwrite(t *testing.T) {
	collection := writeCollection(t, "one")
	now := time.Date(2025, 1, 3, 14, 25, 0, 0, time.UTC)

	first, _, err := Create(collection, now)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, _, err := Create(collection, now)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct backup paths, got %s twice", first)
	}
	if !FileExists(first) || !FileExists(second) {
		t.Fatalf("expected both backups to exist")
	}
}

func TestCreateMissingCollection(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "collection.anki2")
	if _, _, err := Create(missing, time.Now()); err == nil {
		t.Fatalf("expected error for missing collection")
	}
	if FileExists(Dir(missing)) {
		t.Fatalf("expected no backup directory for a missing collection")
	}
}

func TestVerifyMissingFile(t *testing.T) {
	ok, err := Verify(filepath.Join(t.TempDir(), "nope.anki2"), "abc")
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestListAndPrune(t *testing.T) {
	collection := writeCollection(t, "data")
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		if _, _, err := Create(collection, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	paths, err := List(collection)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 backups, got %d", len(paths))
	}

	removed, err := Prune(collection, 2)
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected to remove 2 backups, got %d", removed)
	}

	remaining, err := List(collection)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(remaining) != 2 || remaining[0] != paths[2] || remaining[1] != paths[3] {
		t.Fatalf("expected newest backups to remain, got %v", remaining)
	}
}

func TestListWithoutBackups(t *testing.T) {
	paths, err := List(writeCollection(t, "data"))
	if err != nil || len(paths) != 0 {
		t.Fatalf("expected no backups, got %v (err=%v)", paths, err)
	}
}
