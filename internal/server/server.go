// Package server exposes a store.Store over the procedures in package rpc.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/rpc"
	"github.com/Makepad-fr/tada/internal/store"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
	headerRequestID = "X-Request-Id"
)

type Server struct {
	store  store.Store
	logger *log.Logger
	token  string
	mux    *http.ServeMux
}

type Option func(*Server)

// WithLogger sets the request logger. The default discards.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithToken requires "Authorization: Bearer <token>" on procedure calls.
func WithToken(token string) Option { return func(s *Server) { s.token = token } }

func New(st store.Store, opts ...Option) *Server {
	s := &Server{store: st, logger: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	s.mux.Handle("POST "+rpc.PathPrefix+"{proc}", s.requireToken(http.HandlerFunc(s.handleProcedure)))
	s.mux.HandleFunc(rpc.PathPrefix+"{proc}", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, rpc.Errorf(rpc.CodeMethodNotSupported, "%s requires POST", r.PathValue("proc")))
	})
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "auth", s.token != "")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleProcedure(w http.ResponseWriter, r *http.Request) {
	proc := r.PathValue("proc")
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, rpc.Errorf(rpc.CodeBadRequest, "read body: %v", err))
		return
	}
	if len(raw) > maxBodyBytes {
		writeError(w, rpc.Errorf(rpc.CodeBadRequest, "input larger than %d bytes", maxBodyBytes))
		return
	}
	if err := rpc.ValidateInput(proc, raw); err != nil {
		writeError(w, s.toRPCError(r, err))
		return
	}

	out, err := s.dispatch(r.Context(), proc, raw)
	if err != nil {
		writeError(w, s.toRPCError(r, err))
		return
	}
	writeResult(w, out)
}

func (s *Server) dispatch(ctx context.Context, proc string, raw []byte) (any, error) {
	switch proc {
	case rpc.TodoGetAll:
		var in rpc.GetAllInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.store.List(ctx, in.Statuses)

	case rpc.TodoCreate:
		var in rpc.CreateInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.store.Create(ctx, in.Body)

	case rpc.TodoStatusUpdate:
		var in rpc.UpdateStatusInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.store.UpdateStatus(ctx, in.TodoID, in.Status)

	case rpc.TodoDelete:
		var in rpc.DeleteInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		if err := s.store.Delete(ctx, in.ID); err != nil {
			return nil, err
		}
		return rpc.Empty{}, nil
	}
	return nil, rpc.Errorf(rpc.CodeMethodNotSupported, "no such procedure %q", proc)
}

func decode(raw []byte, v any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return rpc.Errorf(rpc.CodeBadRequest, "decode input: %v", err)
	}
	return nil
}

func (s *Server) toRPCError(r *http.Request, err error) *rpc.Error {
	var rpcErr *rpc.Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, model.ErrNotFound):
		return &rpc.Error{Code: rpc.CodeNotFound, Message: err.Error()}
	case errors.Is(err, model.ErrEmptyBody), errors.Is(err, model.ErrInvalidStatus):
		return &rpc.Error{Code: rpc.CodeBadRequest, Message: err.Error()}
	}
	s.logger.Error("procedure failed", "procedure", r.PathValue("proc"),
		"request_id", requestID(r), "err", err)
	return &rpc.Error{Code: rpc.CodeInternal, Message: "internal error"}
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		tok, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(tok), []byte(s.token)) != 1 {
			writeError(w, rpc.Errorf(rpc.CodeUnauthorized, "missing or invalid bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", id,
		)
	})
}

func requestID(r *http.Request) string { return r.Header.Get(headerRequestID) }

func writeResult(w http.ResponseWriter, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		writeError(w, rpc.Errorf(rpc.CodeInternal, "encode output: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, rpc.Response{Result: &rpc.Result{Data: b}})
}

func writeError(w http.ResponseWriter, e *rpc.Error) {
	writeJSON(w, e.Code.HTTPStatus(), rpc.Response{Error: e})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
