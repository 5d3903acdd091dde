package history

import (
	"context"
	"sync"

	"github.com/clipline/clipline/internal/event"
	"github.com/clipline/clipline/internal/project"
	"github.com/clipline/clipline/internal/taskqueue"
)

// Event names emitted on the machine's bus, when one is attached.
// Each carries the machine's project id as its first argument.
const (
	EventReady   = "history.ready"
	EventPushed  = "history.pushed"
	EventUndone  = "history.undone"
	EventRedone  = "history.redone"
	EventCleared = "history.cleared"
)

// Phase is the machine's lifecycle state. Initialized is terminal; a
// fresh machine is required per project.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseInitialized
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Snapshot is the readiness result: what the editor should restore
// when a project opens with recorded history.
type Snapshot struct {
	AspectRatio project.AspectRatio
	State       project.State
}

// Option configures a Machine.
type Option func(*Machine)

// WithQueue substitutes the serial queue used for persistence writes.
func WithQueue(q *taskqueue.Queue) Option {
	return func(m *Machine) {
		m.queue = q
	}
}

// WithBus attaches an event bus; the machine emits history.* events on
// it after each successful state change.
func WithBus(b *event.Bus) Option {
	return func(m *Machine) {
		m.bus = b
	}
}

// Machine sequences reads and writes against one project's persisted
// history log and exposes undo/redo navigation over it.
//
// All methods are safe for concurrent use. Push writes serialize
// through the machine's queue so rapid edits persist in call order,
// one at a time.
type Machine struct {
	projectID string
	store     Store
	queue     *taskqueue.Queue
	bus       *event.Bus

	mu           sync.Mutex
	phase        Phase
	currentID    string
	currentIndex int
	length       int
	generation   uint64

	ready       chan struct{}
	readyResult *Snapshot
}

// New creates a machine for projectID backed by store. The machine is
// unusable until Init runs.
func New(store Store, projectID string, opts ...Option) *Machine {
	m := &Machine{
		projectID:    projectID,
		store:        store,
		currentIndex: -1,
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.queue == nil {
		m.queue = taskqueue.New(taskqueue.WithImmediate())
	}
	return m
}

// ProjectID returns the project the machine owns.
func (m *Machine) ProjectID() string {
	return m.projectID
}

// Phase returns the machine's current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Init loads the project's recorded position and resolves the
// readiness result: the {aspect ratio, state} pair to restore, or nil
// when the project has no usable history. Init is idempotent - later
// calls (and concurrent ones) return the same result. Failures are
// absorbed into the nil result, never returned: the editor always
// starts, worst case with a blank history.
func (m *Machine) Init(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	if m.phase != PhaseUninitialized {
		m.mu.Unlock()
		return m.Ready(ctx)
	}
	m.phase = PhaseInitializing
	m.mu.Unlock()

	snap := m.load(ctx)

	m.mu.Lock()
	m.phase = PhaseInitialized
	m.readyResult = snap
	m.mu.Unlock()
	close(m.ready)

	m.emit(EventReady, m.projectID)
	return snap, nil
}

// load reads the persisted position. Any failure or inconsistency
// resets the cursor to empty and yields a nil snapshot.
func (m *Machine) load(ctx context.Context) *Snapshot {
	proj, err := m.store.GetProjectState(ctx, m.projectID)
	if err != nil || proj == nil || proj.HistoryAt == "" {
		m.resetCursor()
		return nil
	}

	records, err := m.store.ListHistoryRecords(ctx, m.projectID)
	if err != nil {
		m.resetCursor()
		return nil
	}

	for _, rec := range records {
		if rec.ID == proj.HistoryAt {
			m.mu.Lock()
			m.currentID = rec.ID
			m.currentIndex = rec.Index
			m.length = len(records)
			m.mu.Unlock()

			ratio := proj.AspectRatio
			if !ratio.Valid() {
				ratio = project.DefaultAspectRatio
			}
			return &Snapshot{AspectRatio: ratio, State: rec.State}
		}
	}

	// Pointer references a record that no longer exists.
	m.resetCursor()
	return nil
}

// Ready blocks until initialization completes and returns the same
// readiness result every call. It errors only on context cancellation
// or when Init was never started.
func (m *Machine) Ready(ctx context.Context) (*Snapshot, error) {
	if err := m.awaitReady(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyResult, nil
}

func (m *Machine) awaitReady(ctx context.Context) error {
	m.mu.Lock()
	phase := m.phase
	m.mu.Unlock()
	if phase == PhaseUninitialized {
		return ErrNotInitialized
	}

	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pushOutcome is what a persistence write reports back to Push.
type pushOutcome struct {
	id     string
	length int
}

// Push appends state as a new record at the tail of the log and moves
// the cursor to it, returning the new record's id. Pushing while the
// cursor is behind the tail discards the redo branch. Writes serialize
// through the machine's queue in call order.
func (m *Machine) Push(ctx context.Context, state project.State) (string, error) {
	if state.IsZero() {
		return "", ErrEmptyState
	}
	if err := m.awaitReady(ctx); err != nil {
		return "", err
	}

	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	fut := m.queue.Push(ctx, func(ctx context.Context) (any, error) {
		id, err := m.store.AppendHistoryRecord(ctx, m.projectID, state)
		if err != nil {
			return nil, err
		}
		records, err := m.store.ListHistoryRecords(ctx, m.projectID)
		if err != nil {
			return nil, err
		}
		return pushOutcome{id: id, length: len(records)}, nil
	})

	value, err := fut.Wait(ctx)
	if err != nil {
		return "", err
	}
	out := value.(pushOutcome)

	m.mu.Lock()
	// A Clear issued after this push was enqueued wins; do not
	// resurrect the cursor from a stale write.
	if m.generation == gen {
		m.currentID = out.id
		m.currentIndex = out.length - 1
		m.length = out.length
	}
	m.mu.Unlock()

	m.emit(EventPushed, m.projectID, out.id)
	return out.id, nil
}

// Undo moves one record backward and returns the state to restore.
// The ok result is false at the start of the log; that is a routine
// boundary, not an error.
func (m *Machine) Undo(ctx context.Context) (project.State, bool, error) {
	return m.move(ctx, -1, EventUndone)
}

// Redo moves one record forward and returns the state to restore.
// The ok result is false at the tail.
func (m *Machine) Redo(ctx context.Context) (project.State, bool, error) {
	return m.move(ctx, +1, EventRedone)
}

func (m *Machine) move(ctx context.Context, delta int, eventName string) (project.State, bool, error) {
	if err := m.awaitReady(ctx); err != nil {
		return project.State{}, false, err
	}

	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	rec, err := m.store.MoveHistoryPointer(ctx, m.projectID, delta)
	if err != nil {
		return project.State{}, false, err
	}
	if rec == nil {
		return project.State{}, false, nil
	}

	m.mu.Lock()
	if m.generation == gen {
		m.currentID = rec.ID
		m.currentIndex = rec.Index
	}
	m.mu.Unlock()

	m.emit(eventName, m.projectID, rec.ID)
	return rec.State, true, nil
}

// Clear empties the persisted log and resets the cursor, regardless of
// the machine's phase. Clear takes precedence over in-flight pushes:
// a push settling after this call cannot restore the old cursor.
func (m *Machine) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	m.mu.Unlock()

	if err := m.store.ClearHistory(ctx, m.projectID); err != nil {
		return err
	}

	m.resetCursor()
	m.emit(EventCleared, m.projectID)
	return nil
}

// CanUndo reports whether a backward move is possible, from the cached
// cursor only - no I/O. A single record is the base state and is never
// itself undoable.
func (m *Machine) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseInitialized && m.length > 1 && m.currentIndex > 0
}

// CanRedo reports whether a forward move is possible, from the cached
// cursor only.
func (m *Machine) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseInitialized && m.length > 1 && m.currentIndex < m.length-1
}

// HistoryLength returns the cached log length. Like the other cursor
// reads it waits out an in-flight Init first.
func (m *Machine) HistoryLength(ctx context.Context) (int, error) {
	if err := m.awaitReady(ctx); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length, nil
}

// CurrentHistoryID returns the id of the record the cursor points at,
// or empty when the log is empty.
func (m *Machine) CurrentHistoryID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// HistoryList reads the full persisted log. Always a pass-through to
// the store, never cached; used for UI history scrubbing.
func (m *Machine) HistoryList(ctx context.Context) ([]project.HistoryRecord, error) {
	return m.store.ListHistoryRecords(ctx, m.projectID)
}

func (m *Machine) resetCursor() {
	m.mu.Lock()
	m.currentID = ""
	m.currentIndex = -1
	m.length = 0
	m.mu.Unlock()
}

func (m *Machine) emit(name string, args ...any) {
	if m.bus != nil {
		m.bus.Emit(name, args...)
	}
}
