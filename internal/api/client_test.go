package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/rpc"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

func newClient(t *testing.T, serverOpts []server.Option, opts ...ClientOption) *Client {
	t.Helper()
	st, err := jsonstore.New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)
	ts := httptest.NewServer(server.New(st, serverOpts...).Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", opts...)
}

func TestClient_Roundtrip(t *testing.T) {
	c := newClient(t, nil)
	ctx := context.Background()

	todos, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	milk, err := c.Create(ctx, "buy milk")
	require.NoError(t, err)
	rent, err := c.Create(ctx, "pay rent")
	require.NoError(t, err)

	got, err := c.UpdateStatus(ctx, rent.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	todos, err = c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, milk.ID, todos[0].ID)
	assert.Equal(t, model.StatusCompleted, todos[1].Status)

	completed, err := c.GetAll(ctx, model.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, rent.ID, completed[0].ID)

	require.NoError(t, c.Delete(ctx, milk.ID))
	todos, err = c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)

	require.NoError(t, c.Health(ctx))
}

func TestClient_Errors(t *testing.T) {
	c := newClient(t, nil)
	ctx := context.Background()

	err := c.Delete(ctx, 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var rpcErr *rpc.Error
	_, err = c.Create(ctx, "   ")
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.CodeBadRequest, rpcErr.Code)

	_, err = c.UpdateStatus(ctx, 1, model.Status("archived"))
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, rpc.CodeBadRequest, rpcErr.Code)
}

func TestClient_Token(t *testing.T) {
	opts := []server.Option{server.WithToken("s3cret")}

	anon := newClient(t, opts)
	_, err := anon.GetAll(context.Background())
	assert.True(t, IsUnauthorized(err))

	authed := newClient(t, opts, WithToken("s3cret"))
	_, err = authed.GetAll(context.Background())
	assert.NoError(t, err)
}

func TestClient_NonEnvelopeResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).GetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), rpc.TodoGetAll)
	assert.False(t, IsNotFound(err))
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewClient(url).Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), rpc.TodoDelete)
}

func TestClient_TimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	for _, opts := range [][]ClientOption{
		{WithHTTPClient(shared), WithTimeout(time.Second)},
		{WithTimeout(time.Second), WithHTTPClient(shared)},
	} {
		c := NewClient("http://localhost:3000", opts...)
		assert.Equal(t, time.Second, c.http.Timeout)
		assert.NotSame(t, shared, c.http)
	}
	assert.Equal(t, time.Minute, shared.Timeout)

	c := NewClient("http://localhost:3000", WithHTTPClient(shared))
	assert.Same(t, shared, c.http)

	c = NewClient("http://localhost:3000")
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
