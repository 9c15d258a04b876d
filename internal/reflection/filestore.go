package reflection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// FileStore keeps one JSON document per session in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reflection dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// path rejects anything that is not a ULID so ids cannot escape the directory.
func (s *FileStore) path(id string) (string, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.Path(id), nil
}

// Path is where the session with the given id is written.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Create(ctx context.Context) (*Session, error) {
	sess, err := NewSession()
	if err != nil {
		return nil, err
	}
	if err := s.write(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*Session, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read reflection %s: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse reflection %s: %w", id, err)
	}
	return &sess, nil
}

func (s *FileStore) Save(_ context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.write(sess)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("delete reflection %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) write(sess *Session) error {
	path, err := s.path(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reflection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write reflection to %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename reflection %s: %w", sess.ID, err)
	}
	return nil
}
