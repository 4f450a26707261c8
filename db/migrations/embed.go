// Package migrations contains the subset of the Anki collection schema used to
// build fixture collections. Real collections are never migrated.
package migrations

import "embed"

// Files exposes the compiled-in migration SQL files.
//
//go:embed *.sql
var Files embed.FS
