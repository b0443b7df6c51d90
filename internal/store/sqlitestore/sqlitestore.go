// Package sqlitestore keeps todos in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// DefaultFileName is used when Open is given a directory.
const DefaultFileName = "tada.db"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if path != ":memory:" {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			path = filepath.Join(path, DefaultFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases are per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) List(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	set, err := store.StatusSet(statuses)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, body, status, created_at FROM todos`
	var args []any
	if set != nil {
		placeholders := make([]string, 0, len(set))
		for _, st := range model.Statuses {
			if set[st] {
				placeholders = append(placeholders, "?")
				args = append(args, string(st))
			}
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func (s *Store) Create(ctx context.Context, body string) (model.Todo, error) {
	body, err := model.NormalizeBody(body)
	if err != nil {
		return model.Todo{}, err
	}
	created := s.now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (body, status, created_at) VALUES (?, ?, ?)`,
		body, string(model.StatusPending), created.Format(time.RFC3339))
	if err != nil {
		return model.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Todo{ID: id, Body: body, Status: model.StatusPending, CreatedAt: created}, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	if !status.Valid() {
		return model.Todo{}, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE todos SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	if err := requireOneRow(res, "update", id); err != nil {
		return model.Todo{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, body, status, created_at FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireOneRow(res, "delete", id)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(sc scanner) (model.Todo, error) {
	var (
		t       model.Todo
		status  string
		created string
	)
	if err := sc.Scan(&t.ID, &t.Body, &status, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, model.ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	t.Status = model.Status(status)
	ts, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return model.Todo{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func requireOneRow(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, model.ErrNotFound)
	}
	return nil
}
