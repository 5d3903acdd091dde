package project

import "time"

// AspectRatio identifies the output frame shape of a project.
type AspectRatio string

const (
	// AspectRatio9x16 is the vertical feed format and the default for
	// new projects.
	AspectRatio9x16 AspectRatio = "9:16"

	// AspectRatio16x9 is the landscape format.
	AspectRatio16x9 AspectRatio = "16:9"

	// AspectRatio1x1 is the square format.
	AspectRatio1x1 AspectRatio = "1:1"

	// AspectRatio3x4 is the portrait format.
	AspectRatio3x4 AspectRatio = "3:4"

	// AspectRatio4x3 is the classic landscape format.
	AspectRatio4x3 AspectRatio = "4:3"
)

// DefaultAspectRatio is used when a project record carries no ratio.
const DefaultAspectRatio = AspectRatio9x16

// Valid returns true if the ratio is one of the supported values.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectRatio9x16, AspectRatio16x9, AspectRatio1x1, AspectRatio3x4, AspectRatio4x3:
		return true
	default:
		return false
	}
}

// String returns the ratio in "W:H" form.
func (a AspectRatio) String() string {
	return string(a)
}

// Project is the persisted project row as the engine sees it.
// The engine reads it once at initialization; all other project
// bookkeeping belongs to the application layer.
type Project struct {
	// ID is the stable project identifier.
	ID string

	// AspectRatio is the project's output frame shape.
	AspectRatio AspectRatio

	// HistoryAt is the id of the history record the project currently
	// points at, or empty when the project has no history.
	HistoryAt string
}

// HistoryRecord is one persisted snapshot of project edit state.
// Records are immutable once written; the ordered sequence of records
// for a project is its undo/redo log.
type HistoryRecord struct {
	// ID is the unique record identifier.
	ID string

	// Index is the record's position in the project's log, starting
	// at zero. The log has no gaps.
	Index int

	// State is the snapshot captured when the record was written.
	State State

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}
