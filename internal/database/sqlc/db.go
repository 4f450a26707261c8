// Package sqldb holds the queries streakkeeper runs against an Anki collection,
// written in the shape sqlc generates.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs the collection queries against a DBTX.
type Queries struct {
	db DBTX
}

// New constructs a Queries helper around db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// expandSlice replaces the /*SLICE:name*/? marker in query with one
// placeholder per value, the way sqlc.slice() queries are generated.
func expandSlice(query, name string, values []int64) (string, []any) {
	marker := "/*SLICE:" + name + "*/?"
	if len(values) == 0 {
		return strings.Replace(query, marker, "NULL", 1), nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	placeholders := strings.Repeat(",?", len(values))[1:]
	return strings.Replace(query, marker, placeholders, 1), args
}

// jsonArray encodes values for json_each, which keeps a list of any length
// down to a single bound parameter.
func jsonArray(values []int64) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
