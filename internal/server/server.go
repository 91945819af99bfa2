// Package server serves the rendered preview with live reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LiveReloadPath is the SSE endpoint preview pages subscribe to
const LiveReloadPath = "/__livereload"

// Server serves files from a preview directory
type Server struct {
	root   string
	broker *Broker
	logger *slog.Logger
	router chi.Router
}

// New creates a server for the preview directory root
func New(root string, logger *slog.Logger) *Server {
	s := &Server{
		root:   root,
		broker: NewBroker(),
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Get(LiveReloadPath, s.broker.ServeHTTP)
	r.Get("/*", s.serveStatic)
	r.Head("/*", s.serveStatic)
	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload tells every open page to reload
func (s *Server) Reload() {
	s.broker.Broadcast("reload")
}

// Broker returns the live-reload broker
func (s *Server) Broker() *Broker {
	return s.broker
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving preview", slog.String("address", "http://"+addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	return nil
}

// serveStatic maps the request path into root. Directories serve their
// index.html, extensionless paths fall back to "<path>.html" and anything
// else missing gets 404.html when the preview has one.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	upath := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		upath = path.Join(upath, "index.html")
	}

	target := filepath.Join(s.root, filepath.FromSlash(upath))
	if !within(s.root, target) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	candidates := []string{target}
	if filepath.Ext(target) == "" {
		candidates = append(candidates, target+".html", filepath.Join(target, "index.html"))
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, c)
			return
		}
	}

	if page, err := os.ReadFile(filepath.Join(s.root, "404.html")); err == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(page)
		return
	}
	http.NotFound(w, r)
}

func within(root, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
