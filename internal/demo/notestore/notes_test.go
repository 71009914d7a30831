package notestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return NewRepo(db)
}

func TestInsertAndList(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openTestRepo(t)

	now := Now()
	require.NoError(t, repo.Insert(ctx, Note{ID: "n1", Body: "first", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Insert(ctx, Note{ID: "n2", Body: "second", CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)}))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "first", notes[0].Body)
	require.Equal(t, "second", notes[1].Body)
	require.False(t, notes[0].Done)
}

func TestSetDoneAndUpdateBody(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openTestRepo(t)

	now := Now()
	require.NoError(t, repo.Insert(ctx, Note{ID: "n1", Body: "draft", CreatedAt: now, UpdatedAt: now}))

	require.NoError(t, repo.SetDone(ctx, "n1", true, now.Add(time.Second)))
	require.NoError(t, repo.UpdateBody(ctx, "n1", "final", now.Add(2*time.Second)))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.True(t, notes[0].Done)
	require.Equal(t, "final", notes[0].Body)
	require.Equal(t, now.Add(2*time.Second), notes[0].UpdatedAt)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := openTestRepo(t)

	now := Now()
	require.NoError(t, repo.Insert(ctx, Note{ID: "n1", Body: "gone soon", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Delete(ctx, "n1"))

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, notes)
}
