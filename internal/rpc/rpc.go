// Package rpc describes the procedures the server exposes and the client
// calls: their names, inputs, the response envelope and error codes.
//
// Every procedure is a POST to PathPrefix+name with a JSON input body. A
// successful call answers {"result":{"data":...}}, a failed one
// {"error":{"code":...,"message":...}}.
package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Makepad-fr/tada/internal/model"
)

// PathPrefix is where procedures are mounted.
const PathPrefix = "/api/trpc/"

// Procedure names.
const (
	TodoGetAll       = "todo.getAll"
	TodoCreate       = "todo.create"
	TodoDelete       = "todo.delete"
	TodoStatusUpdate = "todoStatus.update"
)

// Procedures lists every known procedure.
var Procedures = []string{TodoGetAll, TodoCreate, TodoDelete, TodoStatusUpdate}

type GetAllInput struct {
	Statuses []model.Status `json:"statuses"`
}

type CreateInput struct {
	Body string `json:"body"`
}

type DeleteInput struct {
	ID int64 `json:"id"`
}

type UpdateStatusInput struct {
	TodoID int64        `json:"todoId"`
	Status model.Status `json:"status"`
}

// Empty is the output of procedures that return nothing.
type Empty struct{}

type Response struct {
	Result *Result `json:"result,omitempty"`
	Error  *Error  `json:"error,omitempty"`
}

type Result struct {
	Data json.RawMessage `json:"data"`
}

// Code classifies a failed call.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus maps a code to the status the server answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeMethodNotSupported:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failed call as seen on the wire. Clients get one back from every
// non-success response and can match it with errors.As.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
