package history

import (
	"context"

	"github.com/clipline/clipline/internal/project"
)

// Store is the persisted history log the machine drives. The store is
// the source of truth for record content and for the project's history
// pointer; the machine never caches record state.
//
// Implementations must keep each project's log densely indexed in
// insertion order. Only one machine per project id may mutate the log
// (single local editor; no cross-process locking is attempted).
type Store interface {
	// AppendHistoryRecord writes a new record at the tail of the
	// project's log, first discarding any records beyond the project's
	// current history pointer, and moves the pointer to the new
	// record. It returns the new record's id.
	AppendHistoryRecord(ctx context.Context, projectID string, state project.State) (string, error)

	// ListHistoryRecords returns the project's full log in insertion
	// order. An unknown project yields an empty log.
	ListHistoryRecords(ctx context.Context, projectID string) ([]project.HistoryRecord, error)

	// MoveHistoryPointer shifts the project's history pointer by delta
	// (-1 or +1) and returns the record now pointed at, or nil when
	// the move would leave the log.
	MoveHistoryPointer(ctx context.Context, projectID string, delta int) (*project.HistoryRecord, error)

	// ClearHistory removes every record for the project and clears its
	// history pointer.
	ClearHistory(ctx context.Context, projectID string) error

	// GetProjectState returns the project row, or nil when the project
	// does not exist.
	GetProjectState(ctx context.Context, projectID string) (*project.Project, error)
}
