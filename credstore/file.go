package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const fileMode = 0o600

type filePayload struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// File is a [Store] backed by a JSON file with 0600 permissions. It survives
// process restarts, which makes it the durable backend for CLI and desktop
// hosts.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file store at path. The file is created lazily on the
// first Set; a missing file reads as an empty pair.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("credstore: file path required")
	}
	return &File{path: path}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when the backing file exists but cannot be read.
func (f *File) Get(_ context.Context) (Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Pair{}, nil
		}
		return Pair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Pair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Pair{Access: payload.AccessToken, Refresh: payload.RefreshToken}, nil
}

// Set describes the set operation and its observable behavior.
//
// Set writes through a temp file and rename so a crash never leaves a
// truncated credential file behind.
func (f *File) Set(_ context.Context, pair Pair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(filePayload{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".credstore-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent: a missing file is already clear.
func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
