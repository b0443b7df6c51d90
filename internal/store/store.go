// Package store defines persistence for todos. Implementations live in
// subpackages: jsonstore (single file) and sqlitestore.
package store

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// Store is the server-side source of truth.
// List returns todos in creation order; an empty status set means all.
type Store interface {
	List(ctx context.Context, statuses []model.Status) ([]model.Todo, error)
	Create(ctx context.Context, body string) (model.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// StatusSet turns a status filter into a lookup set. nil means "any".
func StatusSet(statuses []model.Status) (map[model.Status]bool, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	set := make(map[model.Status]bool, len(statuses))
	for _, s := range statuses {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidStatus, s)
		}
		set[s] = true
	}
	return set, nil
}
