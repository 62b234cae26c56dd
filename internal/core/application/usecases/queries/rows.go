package queries

import (
	"database/sql"
	"errors"
)

// isNoRows reports whether a scan failed because the query matched nothing.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
