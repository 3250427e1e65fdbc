package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RequestLogEntry is one request served by the stub API.
type RequestLogEntry struct {
	ID            int64  `json:"id"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	Query         string `json:"query,omitempty"`
	StatusCode    int    `json:"status_code"`
	RequestBody   string `json:"request_body,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
	CorrelationID string `json:"correlation_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// RequestLogStore defines the interface for the request log.
type RequestLogStore interface {
	Record(ctx context.Context, e RequestLogEntry) error
	List(ctx context.Context, limit int, beforeID int64) ([]RequestLogEntry, bool, error)
	DeleteAll(ctx context.Context) error
}

// SQLiteRequestLogStore implements RequestLogStore backed by SQLite.
type SQLiteRequestLogStore struct {
	db *sql.DB
}

// NewSQLiteRequestLogStore creates a new SQLiteRequestLogStore.
func NewSQLiteRequestLogStore(db *sql.DB) *SQLiteRequestLogStore {
	return &SQLiteRequestLogStore{db: db}
}

// Record appends e to the log. ID and CreatedAt are assigned here.
func (s *SQLiteRequestLogStore) Record(ctx context.Context, e RequestLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request_log (method, path, query, status_code, request_body, duration_ms, correlation_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Method, e.Path, e.Query, e.StatusCode, nullable(e.RequestBody), e.DurationMs, nullable(e.CorrelationID), now(),
	)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

// List returns up to limit entries newest first. A positive beforeID
// restricts the page to older entries. The boolean reports whether more
// entries exist.
func (s *SQLiteRequestLogStore) List(ctx context.Context, limit int, beforeID int64) ([]RequestLogEntry, bool, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, method, path, query, status_code, COALESCE(request_body, ''),
			  COALESCE(duration_ms, 0), COALESCE(correlation_id, ''), created_at
			  FROM request_log`
	var args []any
	if beforeID > 0 {
		query += ` WHERE id < ?`
		args = append(args, beforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list request log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]RequestLogEntry, 0, limit)
	for rows.Next() {
		var e RequestLogEntry
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.Query, &e.StatusCode,
			&e.RequestBody, &e.DurationMs, &e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan request log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("rows iteration: %w", err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	return entries, hasMore, nil
}

// DeleteAll clears the log.
func (s *SQLiteRequestLogStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM request_log`); err != nil {
		return fmt.Errorf("delete request log: %w", err)
	}
	return nil
}
