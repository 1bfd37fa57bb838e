package sqlite

import (
	"context"
	"testing"

	"github.com/and161185/taskdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T, dir string) *KVRepo {
	t.Helper()
	r, err := Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestKVRepo_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	r := openRepo(t, t.TempDir())

	_, ok, err := r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Set(ctx, repository.KeyToken, "first"))
	require.NoError(t, r.Set(ctx, repository.KeyToken, "second"))

	v, ok, err := r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", v, "set replaces")

	require.NoError(t, r.Delete(ctx, repository.KeyToken))
	require.NoError(t, r.Delete(ctx, repository.KeyToken))
	_, ok, err = r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVRepo_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r1, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, r1.Set(ctx, repository.KeyDarkMode, "true"))
	require.NoError(t, r1.Close())

	// reopening re-runs migrations as a no-op
	r2 := openRepo(t, dir)
	v, ok, err := r2.Get(ctx, repository.KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}
