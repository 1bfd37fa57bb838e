// Package filekv stores client state as a single JSON document on disk.
package filekv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/and161185/taskdesk/internal/repository"
)

// FileName is the document name inside the data directory.
const FileName = "state.json"

// BadSuffix is appended to a document that could not be decoded; the
// store then starts over empty.
const BadSuffix = ".bad"

// Repo is a KVRepository backed by <dir>/state.json. Writes go through a
// temp file and rename so a crash never leaves a truncated document.
type Repo struct {
	mu   sync.Mutex
	path string
}

var _ repository.KVRepository = (*Repo)(nil)

// New returns a repository rooted at dir. The directory is created on first write.
func New(dir string) *Repo {
	return &Repo{path: filepath.Join(dir, FileName)}
}

func (r *Repo) load() (map[string]string, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		if rerr := os.Rename(r.path, r.path+BadSuffix); rerr != nil {
			return nil, fmt.Errorf("decode %s: %w", r.path, errors.Join(err, rerr))
		}
		return map[string]string{}, nil
	}
	return m, nil
}

func (r *Repo) store(m map[string]string) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o600); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, r.path)
}

// Get implements repository.KVRepository.
func (r *Repo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set implements repository.KVRepository.
func (r *Repo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.load()
	if err != nil {
		return err
	}
	m[key] = value
	return r.store(m)
}

// Delete implements repository.KVRepository.
func (r *Repo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return r.store(m)
}
