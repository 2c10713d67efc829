package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps every entry in a single JSON object on disk.
// Writes go to a temporary file that is renamed over the original. Reads and
// writes pick up a file replaced by another process before using the cached
// entries.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]string
	// file the entries were read from or last written to
	seen os.FileInfo
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

func (s *FileStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return s.save()
}

func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readLocked(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage not initialized, run 'circles init' first")
		}
		return err
	}
	return nil
}

func (s *FileStore) readLocked() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}

	entries := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse storage: %w", err)
		}
	}
	s.entries = entries
	s.seen = info
	return nil
}

// refreshLocked re-reads the file if it is no longer the one last seen.
// A missing file keeps the cached entries; the next save recreates it.
func (s *FileStore) refreshLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	if s.seen != nil && os.SameFile(s.seen, info) &&
		info.ModTime().Equal(s.seen.ModTime()) && info.Size() == s.seen.Size() {
		return nil
	}
	return s.readLocked()
}

func (s *FileStore) Close() error {
	return nil
}

// save must be called with s.mu held.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		s.seen = info
	} else {
		s.seen = nil
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return "", false, ErrNotLoaded
	}
	if err := s.refreshLocked(); err != nil {
		return "", false, err
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return ErrNotLoaded
	}
	if err := s.refreshLocked(); err != nil {
		return err
	}

	prev, existed := s.entries[key]
	s.entries[key] = value
	if err := s.save(); err != nil {
		if existed {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return nil, ErrNotLoaded
	}
	if err := s.refreshLocked(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) GetConfigPath() string {
	return s.path
}
