package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sheetmap/worklog"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

// ListFilter narrows ListWorklogs and CountWorklogs. Zero fields match all rows.
type ListFilter struct {
	Profile    string
	SourceFile string
	From       time.Time
	To         time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS worklogs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_datetime TEXT NOT NULL,
	end_datetime TEXT NOT NULL,
	billable INTEGER NOT NULL CHECK(billable >= 0),
	description TEXT NOT NULL,
	project TEXT NOT NULL,
	activity TEXT NOT NULL,
	skill TEXT NOT NULL,
	source_format TEXT NOT NULL,
	source_profile TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(start_datetime, end_datetime, billable, description, project, activity, skill, source_file)
);
CREATE INDEX IF NOT EXISTS worklogs_source_file ON worklogs(source_file);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertWorklogs stores entries in one transaction and returns how many rows
// were new. Rows already present are ignored.
func (s *SQLiteStore) InsertWorklogs(entries []worklog.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO worklogs (
	start_datetime,
	end_datetime,
	billable,
	description,
	project,
	activity,
	skill,
	source_format,
	source_profile,
	source_file
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		res, err := stmt.Exec(
			entry.StartDateTime.Format(time.RFC3339),
			entry.EndDateTime.Format(time.RFC3339),
			entry.Billable,
			entry.Description,
			entry.Project,
			entry.Activity,
			entry.Skill,
			entry.SourceFormat,
			entry.SourceProfile,
			entry.SourceFile,
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert worklog: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *SQLiteStore) ListWorklogs(filter ListFilter) ([]worklog.Entry, error) {
	where, args := filter.clause()
	query := `
SELECT
	id,
	start_datetime,
	end_datetime,
	billable,
	description,
	project,
	activity,
	skill,
	source_format,
	source_profile,
	source_file
FROM worklogs` + where + `
ORDER BY start_datetime, id;
`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query worklogs: %w", err)
	}
	defer rows.Close()

	entries := make([]worklog.Entry, 0, 256)
	for rows.Next() {
		var (
			startRaw string
			endRaw   string
			entry    worklog.Entry
		)

		if err := rows.Scan(
			&entry.ID,
			&startRaw,
			&endRaw,
			&entry.Billable,
			&entry.Description,
			&entry.Project,
			&entry.Activity,
			&entry.Skill,
			&entry.SourceFormat,
			&entry.SourceProfile,
			&entry.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scan worklog: %w", err)
		}

		entry.StartDateTime, err = time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return nil, fmt.Errorf("parse start datetime %q: %w", startRaw, err)
		}
		entry.EndDateTime, err = time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return nil, fmt.Errorf("parse end datetime %q: %w", endRaw, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worklogs: %w", err)
	}

	return entries, nil
}

func (s *SQLiteStore) CountWorklogs(filter ListFilter) (int, error) {
	where, args := filter.clause()
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM worklogs`+where+`;`, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count worklogs: %w", err)
	}
	return count, nil
}

// DeleteWorklogsBySourceFile removes every row imported from path, so the
// file can be imported again after it changed.
func (s *SQLiteStore) DeleteWorklogsBySourceFile(path string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM worklogs WHERE source_file = ?;`, path)
	if err != nil {
		return 0, fmt.Errorf("delete worklogs of %s: %w", path, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

// clause renders the filter as a WHERE clause. Times are compared in their
// stored RFC 3339 form, which sorts correctly for a single UTC offset.
func (f ListFilter) clause() (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if strings.TrimSpace(f.Profile) != "" {
		conditions = append(conditions, "source_profile = ?")
		args = append(args, strings.TrimSpace(f.Profile))
	}
	if strings.TrimSpace(f.SourceFile) != "" {
		conditions = append(conditions, "source_file = ?")
		args = append(args, strings.TrimSpace(f.SourceFile))
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "start_datetime >= ?")
		args = append(args, f.From.Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "start_datetime < ?")
		args = append(args, f.To.Format(time.RFC3339))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), args
}
