// Package store persists the stub API's records in SQLite.
package store

import "database/sql"

// Store holds all sub-stores used by the stub API.
type Store struct {
	Professionals ProfessionalStore
	Requests      RequestLogStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		Professionals: NewSQLiteProfessionalStore(db),
		Requests:      NewSQLiteRequestLogStore(db),
	}
}
