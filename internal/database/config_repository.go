package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// rolloverKey is the config entry holding the hour at which Anki starts a new day.
const rolloverKey = "rollover"

type ConfigRepository struct {
	ctx *Context
}

func NewConfigRepository(dbCtx *Context) *ConfigRepository {
	return &ConfigRepository{ctx: dbCtx}
}

// Rollover returns the collection's day rollover hour. ok is false when the
// collection does not define one.
func (r *ConfigRepository) Rollover(ctx context.Context) (hour int, ok bool, err error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, false, errMissingContext
	}

	exists, err := queries.TableExists(ctx, "config")
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, nil
	}

	raw, err := queries.GetConfigValue(ctx, rolloverKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}

	hour, err = parseConfigInt(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid rollover value %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 {
		return 0, false, fmt.Errorf("rollover hour %d out of range", hour)
	}
	return hour, true, nil
}
