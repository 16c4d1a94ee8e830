package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()
	base := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, s.Record(ctx, Entry{
		BuildID: "b1", Revision: "3f2a9c", StartedAt: base, Duration: 1500 * time.Millisecond,
		Outcome: "success", Pages: 2, Documents: 5,
	}))
	require.NoError(t, s.Record(ctx, Entry{
		BuildID: "b2", StartedAt: base.Add(time.Minute), Duration: 20 * time.Millisecond,
		Outcome: "failed", Error: "parse layouts: boom",
	}))

	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "b2", entries[0].BuildID)
	assert.Equal(t, "failed", entries[0].Outcome)
	assert.Equal(t, "parse layouts: boom", entries[0].Error)

	assert.Equal(t, Entry{
		BuildID: "b1", Revision: "3f2a9c", StartedAt: base, Duration: 1500 * time.Millisecond,
		Outcome: "success", Pages: 2, Documents: 5,
	}, entries[1])
}

func TestStore_RecentLimit(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Record(ctx, Entry{BuildID: id, StartedAt: base.Add(time.Duration(i) * time.Second), Outcome: "success"}))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].BuildID)
	assert.Equal(t, "b", entries[1].BuildID)
}

func TestStore_DuplicateBuildID(t *testing.T) {
	s := openMemory(t)
	ctx := t.Context()

	require.NoError(t, s.Record(ctx, Entry{BuildID: "same", StartedAt: time.Now(), Outcome: "success"}))
	err := s.Record(ctx, Entry{BuildID: "same", StartedAt: time.Now(), Outcome: "success"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryStorage))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(t.Context(), Entry{BuildID: "kept", StartedAt: time.Now(), Outcome: "success"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	entries, err := s.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].BuildID)
}
