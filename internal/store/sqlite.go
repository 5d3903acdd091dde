package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/clipline/clipline/internal/project"
)

// Schema for the clipline project store.
//
// history_records.seq is dense per project (0..n-1): appending first
// deletes everything beyond the project's pointer, so a record's seq
// is also its index in the log.
const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id           TEXT PRIMARY KEY,
    aspect_ratio TEXT NOT NULL,
    history_at   TEXT,
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history_records (
    id         TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    seq        INTEGER NOT NULL,
    state      TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (project_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_history_project_seq ON history_records(project_id, seq);
`

// SQLite is the durable store backing real editing sessions.
type SQLite struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path and applies the
// schema.
func Open(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateProject inserts a new project row.
func (s *SQLite) CreateProject(ctx context.Context, projectID string, ratio project.AspectRatio) error {
	if !ratio.Valid() {
		return ErrInvalidAspectRatio
	}

	now := time.Now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, aspect_ratio, history_at, created_at, updated_at)
		VALUES (?, ?, NULL, ?, ?)`,
		projectID, string(ratio), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProjectExists
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// SetAspectRatio updates a project's aspect ratio.
func (s *SQLite) SetAspectRatio(ctx context.Context, projectID string, ratio project.AspectRatio) error {
	if !ratio.Valid() {
		return ErrInvalidAspectRatio
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET aspect_ratio = ?, updated_at = ? WHERE id = ?`,
		string(ratio), time.Now().UnixNano(), projectID,
	)
	if err != nil {
		return fmt.Errorf("update aspect ratio: %w", err)
	}
	return nil
}

// AppendHistoryRecord truncates the redo branch, inserts a new record
// at the tail, and moves the project's pointer to it, all in one
// transaction. A missing project row is created with the default
// aspect ratio.
func (s *SQLite) AppendHistoryRecord(ctx context.Context, projectID string, state project.State) (recordID string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixNano()

	var historyAt sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT history_at FROM projects WHERE id = ?`, projectID,
	).Scan(&historyAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO projects (id, aspect_ratio, history_at, created_at, updated_at)
			VALUES (?, ?, NULL, ?, ?)`,
			projectID, string(project.DefaultAspectRatio), now, now,
		)
		if err != nil {
			return "", fmt.Errorf("insert project: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("read project: %w", err)
	}

	nextSeq := 0
	if historyAt.Valid && historyAt.String != "" {
		var curSeq int
		err = tx.QueryRowContext(ctx,
			`SELECT seq FROM history_records WHERE project_id = ? AND id = ?`,
			projectID, historyAt.String,
		).Scan(&curSeq)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Dangling pointer; rebuild from an empty log.
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM history_records WHERE project_id = ?`, projectID); err != nil {
				return "", fmt.Errorf("reset history: %w", err)
			}
		case err != nil:
			return "", fmt.Errorf("read pointer seq: %w", err)
		default:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM history_records WHERE project_id = ? AND seq > ?`,
				projectID, curSeq); err != nil {
				return "", fmt.Errorf("truncate redo branch: %w", err)
			}
			nextSeq = curSeq + 1
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history_records WHERE project_id = ?`, projectID); err != nil {
			return "", fmt.Errorf("reset history: %w", err)
		}
	}

	recordID = uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO history_records (id, project_id, seq, state, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		recordID, projectID, nextSeq, state.String(), now,
	); err != nil {
		return "", fmt.Errorf("insert history record: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET history_at = ?, updated_at = ? WHERE id = ?`,
		recordID, now, projectID); err != nil {
		return "", fmt.Errorf("move pointer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit append: %w", err)
	}
	return recordID, nil
}

// ListHistoryRecords returns the project's log in insertion order.
func (s *SQLite) ListHistoryRecords(ctx context.Context, projectID string) ([]project.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, state, created_at FROM history_records
		WHERE project_id = ? ORDER BY seq`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list history records: %w", err)
	}
	defer rows.Close()

	var records []project.HistoryRecord
	for rows.Next() {
		var (
			id        string
			raw       string
			createdAt int64
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		state, err := project.NewState([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode state for record %s: %w", id, err)
		}
		records = append(records, project.HistoryRecord{
			ID:        id,
			Index:     len(records),
			State:     state,
			CreatedAt: time.Unix(0, createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history records: %w", err)
	}
	return records, nil
}

// MoveHistoryPointer shifts the project's pointer by delta and returns
// the record now pointed at, or nil at the log boundary.
func (s *SQLite) MoveHistoryPointer(ctx context.Context, projectID string, delta int) (*project.HistoryRecord, error) {
	if delta != -1 && delta != 1 {
		return nil, ErrInvalidDelta
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var historyAt sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT history_at FROM projects WHERE id = ?`, projectID,
	).Scan(&historyAt)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!historyAt.Valid || historyAt.String == "")) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var curSeq int
	err = tx.QueryRowContext(ctx,
		`SELECT seq FROM history_records WHERE project_id = ? AND id = ?`,
		projectID, historyAt.String,
	).Scan(&curSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pointer seq: %w", err)
	}

	var (
		id        string
		raw       string
		createdAt int64
	)
	target := curSeq + delta
	err = tx.QueryRowContext(ctx, `
		SELECT id, state, created_at FROM history_records
		WHERE project_id = ? AND seq = ?`,
		projectID, target,
	).Scan(&id, &raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read target record: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET history_at = ?, updated_at = ? WHERE id = ?`,
		id, time.Now().UnixNano(), projectID); err != nil {
		return nil, fmt.Errorf("move pointer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move: %w", err)
	}

	state, err := project.NewState([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode state for record %s: %w", id, err)
	}
	return &project.HistoryRecord{
		ID:        id,
		Index:     target,
		State:     state,
		CreatedAt: time.Unix(0, createdAt),
	}, nil
}

// ClearHistory removes every record for the project and clears its
// pointer.
func (s *SQLite) ClearHistory(ctx context.Context, projectID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history_records WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("delete history records: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET history_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UnixNano(), projectID); err != nil {
		return fmt.Errorf("clear pointer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// GetProjectState returns the project row, or nil when the project
// does not exist.
func (s *SQLite) GetProjectState(ctx context.Context, projectID string) (*project.Project, error) {
	var (
		ratio     string
		historyAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT aspect_ratio, history_at FROM projects WHERE id = ?`, projectID,
	).Scan(&ratio, &historyAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	proj := &project.Project{
		ID:          projectID,
		AspectRatio: project.AspectRatio(ratio),
	}
	if historyAt.Valid {
		proj.HistoryAt = historyAt.String
	}
	return proj, nil
}

// isUniqueViolation matches sqlite's unique-constraint failures
// without depending on driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
