package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: professionals directory
	{
		`CREATE TABLE professionals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE,
			phone TEXT UNIQUE,
			job_title TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT 'direct'
				CHECK (source IN ('direct', 'partner', 'internal')),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_professionals_source ON professionals(source)`,
		`CREATE INDEX idx_professionals_created ON professionals(created_at)`,
	},

	// Migration 2: request log
	{
		`CREATE TABLE request_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			query TEXT NOT NULL DEFAULT '',
			status_code INTEGER NOT NULL,
			request_body TEXT,
			duration_ms INTEGER,
			correlation_id TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_request_log_time ON request_log(created_at)`,
	},
}
