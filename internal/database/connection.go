// Package database provides access to an Anki collection file.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
	"github.com/streakkeeper/streakkeeper/internal/database/collation"
	sqldb "github.com/streakkeeper/streakkeeper/internal/database/sqlc"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// requiredTables are the parts of the Anki schema streakkeeper reads.
var requiredTables = []string{"decks", "cards", "revlog"}

// Context holds the collection connection and query interface.
type Context struct {
	DB      *sql.DB
	Queries *sqldb.Queries
	Path    string
}

// OpenCollection opens an existing collection file for reading and writing.
// It never creates the file nor changes its schema.
func OpenCollection(ctx context.Context, path string) (*Context, error) {
	if path == "" {
		return nil, apperr.New(apperr.KindStoreNotFound, "no collection path given")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collection path: %w", err)
	}

	info, err := os.Stat(absPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, apperr.Wrap(apperr.KindStoreNotFound, err, "collection %s does not exist", absPath)
	case err != nil:
		return nil, apperr.Wrap(apperr.KindStoreNotFound, err, "cannot access collection %s", absPath)
	case info.IsDir():
		return nil, apperr.New(apperr.KindStoreNotFound, "collection %s is a directory", absPath)
	}

	if err := collation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register collations: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(absPath, "mode=rw&_txlock=immediate&_pragma=busy_timeout(5000)"))
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}
	// A single connection keeps reads and the write transaction on one handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.KindStoreNotFound, err, "cannot open collection %s", absPath)
	}

	queries := sqldb.New(db)
	for _, table := range requiredTables {
		ok, err := queries.TableExists(ctx, table)
		if err != nil {
			_ = db.Close()
			return nil, apperr.Wrap(apperr.KindStoreNotFound, err, "%s is not a readable collection", absPath)
		}
		if !ok {
			_ = db.Close()
			return nil, apperr.New(apperr.KindStoreNotFound, "%s is not an Anki collection (missing table %s)", absPath, table)
		}
	}

	return &Context{
		DB:      db,
		Queries: queries,
		Path:    absPath,
	}, nil
}

// DSN builds the sqlite URI for the absolute path absPath. The path is
// percent-escaped, so '#', '?' and '%' in directory names stay part of it.
func DSN(absPath, query string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p, RawQuery: query}).String()
}

// CloseDatabase closes the collection connection.
func CloseDatabase(ctx *Context) error {
	if ctx == nil || ctx.DB == nil {
		return nil
	}
	return ctx.DB.Close()
}

// WithTx runs fn inside a single transaction. The transaction is committed
// only when fn returns nil; every other exit path rolls it back.
func (c *Context) WithTx(ctx context.Context, fn func(q *sqldb.Queries) error) error {
	if c == nil || c.DB == nil {
		return fmt.Errorf("database: missing collection context")
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	queries := c.Queries
	if queries == nil {
		queries = sqldb.New(c.DB)
	}

	if err := fn(queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
