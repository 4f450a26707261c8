package database

import (
	"strconv"
	"strings"

	sqldb "github.com/streakkeeper/streakkeeper/internal/database/sqlc"
)

// maxQueryParams keeps IN lists well below SQLite's host parameter limit.
const maxQueryParams = 500

func queriesFromContext(ctx *Context) *sqldb.Queries {
	if ctx == nil {
		return nil
	}
	if ctx.Queries != nil {
		return ctx.Queries
	}
	if ctx.DB == nil {
		return nil
	}
	return sqldb.New(ctx.DB)
}

// homeDeck returns the deck a card belongs to outside any filtered deck.
func homeDeck(did, odid int64) int64 {
	if odid != 0 {
		return odid
	}
	return did
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// parseConfigInt reads an integer stored in the config table. Values are JSON
// encoded, so a number arrives as its decimal text, possibly quoted.
func parseConfigInt(raw []byte) (int, error) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return strconv.Atoi(text)
}
