package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/database/fixture"
	sqldb "github.com/streakkeeper/streakkeeper/internal/database/sqlc"
)

func openFixture(t *testing.T, col *fixture.Collection) *database.Context {
	t.Helper()
	// Release the fixture handle so the collection is opened the way the CLI does.
	if err := col.DB.Close(); err != nil {
		t.Fatalf("close fixture handle: %v", err)
	}

	dbCtx, err := database.OpenCollection(context.Background(), col.Path)
	if err != nil {
		t.Fatalf("OpenCollection returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := database.CloseDatabase(dbCtx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})
	return dbCtx
}

func TestOpenCollection(t *testing.T) {
	col := fixture.New(t)
	dbCtx := openFixture(t, col)

	if dbCtx.Path != col.Path {
		t.Fatalf("expected path %s, got %s", col.Path, dbCtx.Path)
	}

	ok, err := dbCtx.Queries.TableExists(context.Background(), "revlog")
	if err != nil || !ok {
		t.Fatalf("expected revlog table, ok=%v err=%v", ok, err)
	}
}

func TestOpenCollectionMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.anki2")

	_, err := database.OpenCollection(context.Background(), path)
	if !errors.Is(err, apperr.ErrStoreNotFound) {
		t.Fatalf("expected StoreNotFound, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected OpenCollection not to create %s", path)
	}
}

func TestOpenCollectionRejectsDirectory(t *testing.T) {
	_, err := database.OpenCollection(context.Background(), t.TempDir())
	if !errors.Is(err, apperr.ErrStoreNotFound) {
		t.Fatalf("expected StoreNotFound, got %v", err)
	}
}

func TestOpenCollectionRejectsForeignDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a database"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := database.OpenCollection(context.Background(), path)
	if !errors.Is(err, apperr.ErrStoreNotFound) {
		t.Fatalf("expected StoreNotFound, got %v", err)
	}
}

func TestOpenCollectionPathWithURICharacters(t *testing.T) {
	for _, profile := range []string{"we#ird", "what?", "100%", "User 1"} {
		t.Run(profile, func(t *testing.T) {
			base := t.TempDir()
			dir := filepath.Join(base, profile)
			if err := os.MkdirAll(dir, 0o750); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			col := fixture.NewAt(t, filepath.Join(dir, "collection.anki2"))
			dbCtx := openFixture(t, col)

			ok, err := dbCtx.Queries.TableExists(context.Background(), "decks")
			if err != nil || !ok {
				t.Fatalf("expected decks table, ok=%v err=%v", ok, err)
			}

			entries, err := os.ReadDir(base)
			if err != nil {
				t.Fatalf("read dir: %v", err)
			}
			if len(entries) != 1 || entries[0].Name() != profile {
				var names []string
				for _, e := range entries {
					names = append(names, e.Name())
				}
				t.Fatalf("expected only %q in %s, got %v", profile, base, names)
			}
		})
	}
}

func TestDSNEscapesPath(t *testing.T) {
	got := database.DSN("/anki/we#ird/what?/collection.anki2", "mode=rw")
	want := "file:///anki/we%23ird/what%3F/collection.anki2?mode=rw"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	col := fixture.New(t)
	col.AddDeck(1, "Default")
	col.AddCard(100, 10, 1)
	col.AddReview(1_000, 100)
	dbCtx := openFixture(t, col)
	ctx := context.Background()

	boom := errors.New("boom")
	err := dbCtx.WithTx(ctx, func(q *sqldb.Queries) error {
		if _, err := q.UpdateRevlogID(ctx, sqldb.UpdateRevlogIDParams{NewID: 2_000, OldID: 1_000}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to be returned, got %v", err)
	}

	owners, err := dbCtx.Queries.FindRevlogOwners(ctx, []int64{1_000, 2_000})
	if err != nil {
		t.Fatalf("FindRevlogOwners returned error: %v", err)
	}
	if len(owners) != 1 || owners[0].ID != 1_000 {
		t.Fatalf("expected original row to survive rollback, got %+v", owners)
	}
}

func TestCloseDatabaseNil(t *testing.T) {
	if err := database.CloseDatabase(nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
