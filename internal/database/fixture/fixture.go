// Package fixture builds small Anki-shaped collection files for tests.
package fixture

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/streakkeeper/streakkeeper/db/migrations"
	"github.com/streakkeeper/streakkeeper/internal/database"
	"github.com/streakkeeper/streakkeeper/internal/database/collation"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// Collection is a fixture collection file and an open handle to it.
type Collection struct {
	t    testing.TB
	DB   *sql.DB
	Path string
}

// New creates an empty collection named collection.anki2 in a temporary
// directory. The handle is closed when the test finishes.
func New(t testing.TB) *Collection {
	t.Helper()
	return NewAt(t, filepath.Join(t.TempDir(), "collection.anki2"))
}

// NewAt creates an empty collection at path.
func NewAt(t testing.TB, path string) *Collection {
	t.Helper()

	db, err := Create(path)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &Collection{t: t, DB: db, Path: path}
}

// Create writes the collection schema to a new file at path and returns an
// open handle to it.
func Create(path string) (*sql.DB, error) {
	if err := collation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register collations: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture path: %w", err)
	}
	db, err := sql.Open("sqlite", database.DSN(absPath, "mode=rwc"))
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, 0, 0, 0, 18, 0, 0, 0, '', '', '', '', '')`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to seed col row: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialise migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = sourceDriver.Close()
	}()

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// AddDeck inserts a deck. Levels in name are written with Anki's on-disk
// separator.
func (c *Collection) AddDeck(id int64, name string) {
	c.t.Helper()
	stored := strings.ReplaceAll(name, "::", "\x1f")
	c.exec(`INSERT INTO decks (id, name, mtime_secs, usn, common, kind) VALUES (?, ?, 0, 0, x'', x'')`, id, stored)
}

// AddNote inserts a note.
func (c *Collection) AddNote(id int64) {
	c.t.Helper()
	c.exec(`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, 1, 0, 0, '', 'front\x1fback', 0, 0, 0, '')`, id, fmt.Sprintf("guid-%d", id))
}

// AddCard inserts a card with its note.
func (c *Collection) AddCard(id, nid, did int64) {
	c.t.Helper()
	c.AddFilteredCard(id, nid, did, 0)
}

// AddFilteredCard inserts a card currently placed in filtered deck did whose
// home deck is odid.
func (c *Collection) AddFilteredCard(id, nid, did, odid int64) {
	c.t.Helper()
	var exists int
	if err := c.DB.QueryRow(`SELECT COUNT(*) FROM notes WHERE id = ?`, nid).Scan(&exists); err != nil {
		c.t.Fatalf("fixture: count notes: %v", err)
	}
	if exists == 0 {
		c.AddNote(nid)
	}
	c.exec(`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, 0, 0, 0, 2, 2, 0, 3, 2500, 1, 0, 0, 0, ?, 0, '')`, id, nid, did, odid)
}

// AddReview inserts a review log entry for card cid at epoch millisecond id.
func (c *Collection) AddReview(id, cid int64) {
	c.t.Helper()
	c.exec(`INSERT INTO revlog (id, cid, usn, ease, ivl, lastIvl, factor, time, type)
		VALUES (?, ?, 5, 3, 4, 2, 2500, 6000, 1)`, id, cid)
}

// SetConfig stores a JSON encoded config value.
func (c *Collection) SetConfig(key, jsonValue string) {
	c.t.Helper()
	c.exec(`INSERT OR REPLACE INTO config (KEY, usn, mtime_secs, val) VALUES (?, 0, 0, ?)`, key, []byte(jsonValue))
}

// ReviewIDs returns the revlog ids of card cid in ascending order.
func (c *Collection) ReviewIDs(cid int64) []int64 {
	c.t.Helper()
	return c.ids(`SELECT id FROM revlog WHERE cid = ? ORDER BY id`, cid)
}

// ReviewIDsBetween returns the revlog ids in [start, end) in ascending order.
func (c *Collection) ReviewIDsBetween(start, end int64) []int64 {
	c.t.Helper()
	return c.ids(`SELECT id FROM revlog WHERE id >= ? AND id < ? ORDER BY id`, start, end)
}

// ReviewRow returns the non-key columns of a revlog row, for checking that
// a move leaves them untouched.
func (c *Collection) ReviewRow(id int64) []int64 {
	c.t.Helper()
	var cid, usn, ease, ivl, lastIvl, factor, spent, typ int64
	err := c.DB.QueryRow(`SELECT cid, usn, ease, ivl, lastIvl, factor, time, type FROM revlog WHERE id = ?`, id).
		Scan(&cid, &usn, &ease, &ivl, &lastIvl, &factor, &spent, &typ)
	if err != nil {
		c.t.Fatalf("fixture: read revlog %d: %v", id, err)
	}
	return []int64{cid, usn, ease, ivl, lastIvl, factor, spent, typ}
}

func (c *Collection) ids(query string, args ...any) []int64 {
	c.t.Helper()
	rows, err := c.DB.Query(query, args...)
	if err != nil {
		c.t.Fatalf("fixture: query: %v", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			c.t.Fatalf("fixture: scan: %v", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		c.t.Fatalf("fixture: rows: %v", err)
	}
	return ids
}

func (c *Collection) exec(query string, args ...any) {
	c.t.Helper()
	if _, err := c.DB.Exec(query, args...); err != nil {
		c.t.Fatalf("fixture: %v", err)
	}
}
