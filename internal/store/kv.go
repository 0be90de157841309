package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"signet/internal/domain"
)

// FileKV is a storage tier persisted as a single JSON document on disk.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV returns a tier backed by the file at path. The file is created
// on first write.
func NewFileKV(path string) *FileKV { return &FileKV{path: path} }

func (s *FileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *FileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	delete(m, key)
	return s.save(m)
}

func (s *FileKV) load() (map[string]string, error) {
	m := make(map[string]string)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, storageErr("read", s.path, err)
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, storageErr("decode", s.path, err)
	}
	return m, nil
}

// save writes via a temp file, then atomically replaces the target.
func (s *FileKV) save(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return storageErr("encode", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return storageErr("mkdir", s.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return storageErr("write", s.path, err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return storageErr("write", s.path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return storageErr("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("write", s.path, err)
	}
	if err := os.Rename(name, s.path); err != nil {
		return storageErr("write", s.path, err)
	}
	return nil
}

func storageErr(op, path string, err error) error {
	return fmt.Errorf("%s %s: %v: %w", op, path, err, domain.ErrStorageAccess)
}

var _ domain.KV = (*FileKV)(nil)

// MemKV is an in-memory storage tier for tests.
type MemKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemKV() *MemKV { return &MemKV{m: make(map[string]string)} }

func (s *MemKV) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

var _ domain.KV = (*MemKV)(nil)
