package store

import (
	"database/sql"
	"time"
)

// timestampLayout is the stored form of created_at and updated_at.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// now returns the current UTC time formatted as a stored timestamp.
func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// nullable maps "" to SQL NULL so empty optional values never collide on a
// unique index.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
