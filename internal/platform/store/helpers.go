package store

import (
	"context"

	perr "textguard/internal/platform/errors"
)

// One runs a query expected to return a single row and maps it with scan.
// No row is perr.ErrNotFound; rows past the first are ignored
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (out T, err error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	if rows.Next() {
		out, err = scan(rows)
		if err != nil {
			return out, err
		}
		return out, rows.Err()
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	return out, perr.ErrNotFound
}
