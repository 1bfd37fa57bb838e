package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/and161185/taskdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestRepo_SetGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "taskdesk")
	r := New(dir)

	_, ok, err := r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok, "missing file means empty store")

	require.NoError(t, r.Set(ctx, repository.KeyToken, "T"))
	require.NoError(t, r.Set(ctx, repository.KeyDarkMode, "true"))

	v, ok, err := r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T", v)

	// a second handle sees the persisted state
	v, ok, err = New(dir).Get(ctx, repository.KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)

	require.NoError(t, r.Delete(ctx, repository.KeyToken))
	require.NoError(t, r.Delete(ctx, repository.KeyToken), "delete is idempotent")
	_, ok, err = r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRepo_FileMode(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := New(dir)
	require.NoError(t, r.Set(context.Background(), repository.KeyToken, "T"))

	st, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestRepo_CorruptDocumentIsSetAside(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	r := New(dir)

	_, ok, err := r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	bad, err := os.ReadFile(path + BadSuffix)
	require.NoError(t, err)
	require.Equal(t, "{not json", string(bad))

	require.NoError(t, r.Set(ctx, repository.KeyToken, "T"))
	v, ok, err := New(dir).Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T", v)

	require.NoError(t, r.Delete(ctx, repository.KeyToken))
	_, ok, err = r.Get(ctx, repository.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_Roundtrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := repository.NewMemory()

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, _ := m.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, "v", v)
	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	require.False(t, ok)
}
