package sqldb

import "context"

const getConfigValue = `SELECT val FROM config WHERE key = ?`

func (q *Queries) GetConfigValue(ctx context.Context, key string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getConfigValue, key)
	var val []byte
	err := row.Scan(&val)
	return val, err
}

const tableExists = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

func (q *Queries) TableExists(ctx context.Context, name string) (bool, error) {
	row := q.db.QueryRowContext(ctx, tableExists, name)
	var count int64
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
