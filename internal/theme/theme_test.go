package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/taskdesk/internal/repository"
)

type brokenKV struct{ repository.KVRepository }

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errors.New("io") }
func (brokenKV) Set(context.Context, string, string) error { return errors.New("io") }

func TestLoad(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		stored string
		set    bool
		want   Mode
	}{
		{set: false, want: Light},
		{stored: "true", set: true, want: Dark},
		{stored: "false", set: true, want: Light},
		{stored: "TRUE", set: true, want: Light},
		{stored: "1", set: true, want: Light},
	} {
		kv := repository.NewMemory()
		if tc.set {
			require.NoError(t, kv.Set(ctx, repository.KeyDarkMode, tc.stored))
		}
		require.Equal(t, tc.want, Load(ctx, kv, zaptest.NewLogger(t)).Mode(), "stored %q", tc.stored)
	}
}

func TestToggle_Persists(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemory()
	th := Load(ctx, kv, nil)
	require.Equal(t, "Switch to Dark Mode", th.ToggleLabel())

	m, err := th.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, Dark, m)
	v, ok, err := kv.Get(ctx, repository.KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)

	require.Equal(t, Palette{Mode: Dark, Primary: "#1976d2", Secondary: "#dc004e"}, th.Palette())
	require.True(t, Load(ctx, kv, nil).IsDark())

	m, err = th.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, Light, m)
	v, _, _ = kv.Get(ctx, repository.KeyDarkMode)
	require.Equal(t, "false", v)
}

func TestToggle_StorageFailureKeepsMode(t *testing.T) {
	th := Load(context.Background(), brokenKV{repository.NewMemory()}, zaptest.NewLogger(t))
	require.Equal(t, Light, th.Mode())

	m, err := th.Toggle(context.Background())
	require.Error(t, err)
	require.Equal(t, Light, m)
	require.False(t, th.IsDark())
}
