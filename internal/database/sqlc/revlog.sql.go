package sqldb

import "context"

const listReviewsInWindow = `
SELECT r.id, r.cid, c.nid, c.did, c.odid, r.ease, r.type
FROM revlog r
INNER JOIN cards c ON c.id = r.cid
WHERE (c.did IN (SELECT value FROM json_each(?)) OR c.odid IN (SELECT value FROM json_each(?)))
  AND r.id >= ?
  AND r.id < ?
ORDER BY r.id ASC
LIMIT ?`

type ListReviewsInWindowParams struct {
	DeckIDs []int64
	Start   int64
	End     int64
	// Limit caps the row count; values <= 0 mean no limit.
	Limit int64
}

func (q *Queries) ListReviewsInWindow(ctx context.Context, arg ListReviewsInWindowParams) ([]ReviewWithCard, error) {
	deckIDs, err := jsonArray(arg.DeckIDs)
	if err != nil {
		return nil, err
	}

	limit := arg.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := q.db.QueryContext(ctx, listReviewsInWindow, deckIDs, deckIDs, arg.Start, arg.End, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReviewWithCard
	for rows.Next() {
		var i ReviewWithCard
		if err := rows.Scan(&i.ID, &i.Cid, &i.Nid, &i.Did, &i.Odid, &i.Ease, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findRevlogOwners = `SELECT id, cid FROM revlog WHERE id IN (/*SLICE:ids*/?)`

func (q *Queries) FindRevlogOwners(ctx context.Context, ids []int64) ([]RevlogOwner, error) {
	query, args := expandSlice(findRevlogOwners, "ids", ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RevlogOwner
	for rows.Next() {
		var i RevlogOwner
		if err := rows.Scan(&i.ID, &i.Cid); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateRevlogID = `UPDATE revlog SET id = ? WHERE id = ?`

type UpdateRevlogIDParams struct {
	NewID int64
	OldID int64
}

func (q *Queries) UpdateRevlogID(ctx context.Context, arg UpdateRevlogIDParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRevlogID, arg.NewID, arg.OldID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countReviewsByDeck = `
SELECT CASE WHEN c.odid != 0 THEN c.odid ELSE c.did END AS home_did, COUNT(*) AS review_count
FROM revlog r
INNER JOIN cards c ON c.id = r.cid
WHERE r.id >= ? AND r.id < ?
GROUP BY home_did
ORDER BY home_did`

type CountReviewsByDeckParams struct {
	Start int64
	End   int64
}

func (q *Queries) CountReviewsByDeck(ctx context.Context, arg CountReviewsByDeckParams) ([]DeckReviewCount, error) {
	rows, err := q.db.QueryContext(ctx, countReviewsByDeck, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DeckReviewCount
	for rows.Next() {
		var i DeckReviewCount
		if err := rows.Scan(&i.Did, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
