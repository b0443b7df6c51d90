package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Statuses lists every valid status, in display order.
var Statuses = []Status{StatusPending, StatusCompleted}

var (
	ErrNotFound      = errors.New("todo not found")
	ErrEmptyBody     = errors.New("todo body is empty")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidTab    = errors.New("invalid tab")
)

// ParseStatus accepts "pending" or "completed" (case-insensitive).
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Todo is the domain model for a todo entry.
// The client never edits one in place; it refetches after every mutation.
type Todo struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Todo) Completed() bool { return t.Status == StatusCompleted }

// NormalizeBody trims the body and rejects empty input.
func NormalizeBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	return body, nil
}

// Stats counts completed and pending todos.
func Stats(todos []Todo) (completed, pending int) {
	for _, t := range todos {
		if t.Completed() {
			completed++
		} else {
			pending++
		}
	}
	return
}

// Find returns the todo with the given id.
func Find(todos []Todo, id int64) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
