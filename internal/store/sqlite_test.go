package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipline/clipline/internal/project"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "clipline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "clipline.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSQLiteProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	require.NoError(t, s.CreateProject(ctx, "p1", project.AspectRatio9x16))
	require.ErrorIs(t, s.CreateProject(ctx, "p1", project.AspectRatio9x16), ErrProjectExists)
	require.ErrorIs(t, s.CreateProject(ctx, "p2", "5:7"), ErrInvalidAspectRatio)

	proj, err := s.GetProjectState(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, proj)
	require.Equal(t, project.AspectRatio9x16, proj.AspectRatio)
	require.Empty(t, proj.HistoryAt)

	require.NoError(t, s.SetAspectRatio(ctx, "p1", project.AspectRatio16x9))
	proj, err = s.GetProjectState(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, project.AspectRatio16x9, proj.AspectRatio)

	missing, err := s.GetProjectState(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSQLiteAppendListMove(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	states := []project.State{
		project.MustState(`{"clips":[],"duration":0}`),
		project.MustState(`{"clips":[{"src":"a.mp4"}],"duration":3}`),
		project.MustState(`{"clips":[{"src":"a.mp4"},{"src":"b.mp4"}],"duration":7}`),
	}
	ids := make([]string, len(states))
	for i, st := range states {
		id, err := s.AppendHistoryRecord(ctx, "p1", st)
		require.NoError(t, err)
		ids[i] = id
	}

	records, err := s.ListHistoryRecords(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		require.Equal(t, ids[i], rec.ID)
		require.Equal(t, i, rec.Index)
		require.True(t, rec.State.Equal(states[i]), "record %d state", i)
		require.False(t, rec.CreatedAt.IsZero())
	}

	// Walk back to the base, then off the edge.
	rec, err := s.MoveHistoryPointer(ctx, "p1", -1)
	require.NoError(t, err)
	require.Equal(t, ids[1], rec.ID)
	require.Equal(t, 1, rec.Index)

	rec, err = s.MoveHistoryPointer(ctx, "p1", -1)
	require.NoError(t, err)
	require.Equal(t, ids[0], rec.ID)

	rec, err = s.MoveHistoryPointer(ctx, "p1", -1)
	require.NoError(t, err)
	require.Nil(t, rec)

	// And forward again.
	rec, err = s.MoveHistoryPointer(ctx, "p1", +1)
	require.NoError(t, err)
	require.Equal(t, ids[1], rec.ID)

	_, err = s.MoveHistoryPointer(ctx, "p1", 0)
	require.ErrorIs(t, err, ErrInvalidDelta)
}

func TestSQLiteAppendTruncatesRedoBranch(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := s.AppendHistoryRecord(ctx, "p1", project.MustState(`{"n":1}`))
		require.NoError(t, err)
	}
	_, err := s.MoveHistoryPointer(ctx, "p1", -1)
	require.NoError(t, err)

	id, err := s.AppendHistoryRecord(ctx, "p1", project.MustState(`{"new":true}`))
	require.NoError(t, err)

	records, err := s.ListHistoryRecords(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, id, records[2].ID)

	proj, err := s.GetProjectState(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, id, proj.HistoryAt)
}

func TestSQLiteClearHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	_, err := s.AppendHistoryRecord(ctx, "p1", project.MustState(`{}`))
	require.NoError(t, err)

	require.NoError(t, s.ClearHistory(ctx, "p1"))

	records, err := s.ListHistoryRecords(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, records)

	proj, err := s.GetProjectState(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, proj.HistoryAt)

	// Appending after a clear restarts the log at index zero.
	_, err = s.AppendHistoryRecord(ctx, "p1", project.MustState(`{"fresh":true}`))
	require.NoError(t, err)
	records, err = s.ListHistoryRecords(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 0, records[0].Index)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clipline.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.AppendHistoryRecord(ctx, "p1", project.MustState(`{"kept":true}`))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.ListHistoryRecords(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, id, records[0].ID)
	require.True(t, records[0].State.Get("kept").Bool())

	proj, err := s.GetProjectState(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, id, proj.HistoryAt)
}

func TestSQLiteListUnknownProject(t *testing.T) {
	s := openTestDB(t)
	records, err := s.ListHistoryRecords(context.Background(), "ghost")
	require.NoError(t, err)
	require.Empty(t, records)
}
