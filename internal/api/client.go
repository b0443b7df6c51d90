// Package api is the typed client for the procedures in package rpc.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/rpc"
)

const DefaultTimeout = 10 * time.Second

// Client talks to a tada server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	timeout time.Duration
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithToken sends token as a bearer token on every call.
func WithToken(token string) ClientOption { return func(c *Client) { c.token = token } }

// WithTimeout bounds every call. It applies to a copy of the HTTP client,
// so a shared client passed with WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) ClientOption { return func(c *Client) { c.timeout = d } }

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// GetAll is the todo.getAll query. No statuses means both.
func (c *Client) GetAll(ctx context.Context, statuses ...model.Status) ([]model.Todo, error) {
	if len(statuses) == 0 {
		statuses = model.Statuses
	}
	var out []model.Todo
	if err := c.call(ctx, rpc.TodoGetAll, rpc.GetAllInput{Statuses: statuses}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, body string) (model.Todo, error) {
	var out model.Todo
	err := c.call(ctx, rpc.TodoCreate, rpc.CreateInput{Body: body}, &out)
	return out, err
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Todo, error) {
	var out model.Todo
	err := c.call(ctx, rpc.TodoStatusUpdate, rpc.UpdateStatusInput{TodoID: id, Status: status}, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.call(ctx, rpc.TodoDelete, rpc.DeleteInput{ID: id}, nil)
}

// Health reports whether the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) call(ctx context.Context, proc string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode input: %w", proc, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpc.PathPrefix+proc, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", proc, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", proc, err)
	}
	defer resp.Body.Close()

	var envelope rpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode response (status %s): %w", proc, resp.Status, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if resp.StatusCode != http.StatusOK || envelope.Result == nil {
		return fmt.Errorf("%s: unexpected response (status %s)", proc, resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result.Data, out); err != nil {
		return fmt.Errorf("%s: decode output: %w", proc, err)
	}
	return nil
}

// IsNotFound reports whether err is a NOT_FOUND answer from the server.
func IsNotFound(err error) bool { return hasCode(err, rpc.CodeNotFound) }

// IsUnauthorized reports whether err is an UNAUTHORIZED answer.
func IsUnauthorized(err error) bool { return hasCode(err, rpc.CodeUnauthorized) }

func hasCode(err error, code rpc.Code) bool {
	var rpcErr *rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}
