package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipline/clipline/internal/project"
)

// Memory is an in-process store. Useful for tests and for editing
// sessions that never touch disk.
type Memory struct {
	mu       sync.Mutex
	projects map[string]*project.Project
	logs     map[string][]project.HistoryRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		projects: make(map[string]*project.Project),
		logs:     make(map[string][]project.HistoryRecord),
	}
}

// CreateProject registers a new project row.
func (m *Memory) CreateProject(ctx context.Context, projectID string, ratio project.AspectRatio) error {
	if !ratio.Valid() {
		return ErrInvalidAspectRatio
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; ok {
		return ErrProjectExists
	}
	m.projects[projectID] = &project.Project{ID: projectID, AspectRatio: ratio}
	return nil
}

// AppendHistoryRecord truncates the redo branch, appends a new record,
// and moves the project's pointer to it. A missing project row is
// created on the fly so a blank editor can start persisting at once.
func (m *Memory) AppendHistoryRecord(ctx context.Context, projectID string, state project.State) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	proj, ok := m.projects[projectID]
	if !ok {
		proj = &project.Project{ID: projectID, AspectRatio: project.DefaultAspectRatio}
		m.projects[projectID] = proj
	}

	log := m.logs[projectID]
	if proj.HistoryAt != "" {
		for i, rec := range log {
			if rec.ID == proj.HistoryAt {
				log = log[:i+1]
				break
			}
		}
	} else {
		log = nil
	}

	rec := project.HistoryRecord{
		ID:        uuid.NewString(),
		Index:     len(log),
		State:     state,
		CreatedAt: time.Now(),
	}
	m.logs[projectID] = append(log, rec)
	proj.HistoryAt = rec.ID
	return rec.ID, nil
}

// ListHistoryRecords returns a copy of the project's log.
func (m *Memory) ListHistoryRecords(ctx context.Context, projectID string) ([]project.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.logs[projectID]
	out := make([]project.HistoryRecord, len(log))
	copy(out, log)
	return out, nil
}

// MoveHistoryPointer shifts the project's pointer by delta and returns
// the record now pointed at, or nil at the log boundary.
func (m *Memory) MoveHistoryPointer(ctx context.Context, projectID string, delta int) (*project.HistoryRecord, error) {
	if delta != -1 && delta != 1 {
		return nil, ErrInvalidDelta
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	proj, ok := m.projects[projectID]
	if !ok || proj.HistoryAt == "" {
		return nil, nil
	}

	log := m.logs[projectID]
	current := -1
	for i, rec := range log {
		if rec.ID == proj.HistoryAt {
			current = i
			break
		}
	}
	if current < 0 {
		return nil, nil
	}

	target := current + delta
	if target < 0 || target >= len(log) {
		return nil, nil
	}

	rec := log[target]
	proj.HistoryAt = rec.ID
	return &rec, nil
}

// ClearHistory drops the project's log and pointer.
func (m *Memory) ClearHistory(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.logs, projectID)
	if proj, ok := m.projects[projectID]; ok {
		proj.HistoryAt = ""
	}
	return nil
}

// GetProjectState returns a copy of the project row, or nil when the
// project does not exist.
func (m *Memory) GetProjectState(ctx context.Context, projectID string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	proj, ok := m.projects[projectID]
	if !ok {
		return nil, nil
	}
	cp := *proj
	return &cp, nil
}
