// Package theme keeps the persisted light/dark preference.
package theme

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/taskdesk/internal/repository"
)

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Palette is the colour set derived from the mode.
type Palette struct {
	Mode      Mode
	Primary   string
	Secondary string
}

const (
	primary   = "#1976d2"
	secondary = "#dc004e"
)

// Theme is the dark-mode flag backed by repository.KeyDarkMode.
type Theme struct {
	kv  repository.KVRepository
	log *zap.Logger

	mu   sync.Mutex
	dark bool
}

// Load reads the stored flag. Only the exact value "true" selects dark mode;
// a missing or unreadable value means light.
func Load(ctx context.Context, kv repository.KVRepository, log *zap.Logger) *Theme {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Theme{kv: kv, log: log}
	v, ok, err := kv.Get(ctx, repository.KeyDarkMode)
	if err != nil {
		log.Warn("read theme", zap.Error(err))
		return t
	}
	t.dark = ok && v == "true"
	return t
}

func (t *Theme) IsDark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dark
}

func (t *Theme) Mode() Mode {
	if t.IsDark() {
		return Dark
	}
	return Light
}

func (t *Theme) Palette() Palette {
	return Palette{Mode: t.Mode(), Primary: primary, Secondary: secondary}
}

// Toggle flips the flag and persists it. On a storage failure the flag is
// left as it was.
func (t *Theme) Toggle(ctx context.Context) (Mode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := !t.dark
	if err := t.kv.Set(ctx, repository.KeyDarkMode, strconv.FormatBool(next)); err != nil {
		return t.modeLocked(), fmt.Errorf("persist theme: %w", err)
	}
	t.dark = next
	return t.modeLocked(), nil
}

func (t *Theme) modeLocked() Mode {
	if t.dark {
		return Dark
	}
	return Light
}

// ToggleLabel is the hint for the toggle control.
func (t *Theme) ToggleLabel() string {
	if t.IsDark() {
		return "Switch to Light Mode"
	}
	return "Switch to Dark Mode"
}
