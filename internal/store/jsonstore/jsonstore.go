package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// The whole file is rewritten on every mutation; a mutex serializes
// concurrent requests within one process.

const DefaultFileName = "todos.json"

type document struct {
	NextID int64        `json:"next_id"`
	Todos  []model.Todo `json:"todos"`
}

type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns a store backed by path. An empty path means todos.json in the
// working directory. The file is created lazily on first write.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	return &Store{path: path, now: time.Now}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() (document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{NextID: 1}, nil
		}
		return document{}, fmt.Errorf("read file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.NextID < 1 {
		doc.NextID = 1
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	set, err := store.StatusSet(statuses)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Todo, 0, len(doc.Todos))
	for _, t := range doc.Todos {
		if set == nil || set[t.Status] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, body string) (model.Todo, error) {
	body, err := model.NormalizeBody(body)
	if err != nil {
		return model.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Todo{}, err
	}
	t := model.Todo{
		ID:        doc.NextID,
		Body:      body,
		Status:    model.StatusPending,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	doc.NextID++
	doc.Todos = append(doc.Todos, t)
	if err := s.save(doc); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	if !status.Valid() {
		return model.Todo{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return model.Todo{}, err
	}
	for i := range doc.Todos {
		if doc.Todos[i].ID == id {
			doc.Todos[i].Status = status
			if err := s.save(doc); err != nil {
				return model.Todo{}, err
			}
			return doc.Todos[i], nil
		}
	}
	return model.Todo{}, fmt.Errorf("update %d: %w", id, model.ErrNotFound)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for i := range doc.Todos {
		if doc.Todos[i].ID == id {
			doc.Todos = append(doc.Todos[:i], doc.Todos[i+1:]...)
			return s.save(doc)
		}
	}
	return fmt.Errorf("delete %d: %w", id, model.ErrNotFound)
}

func (s *Store) Close() error { return nil }
