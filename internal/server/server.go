// Package server exposes the cached asset catalog over HTTP: a JSON API
// mirroring the CLI filters plus a small browse page.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/console"
	"github.com/harmonyedit/assetcat/pkg/filter"
	"github.com/harmonyedit/assetcat/pkg/storage"
)

type Server struct {
	DB       *storage.DB
	Ring     *console.Ring
	Username string
	Password string

	mu   sync.Mutex
	view *filter.View
}

func New(db *storage.DB, ring *console.Ring, user, pass string) *Server {
	return &Server{
		DB:       db,
		Ring:     ring,
		Username: user,
		Password: pass,
	}
}

// Reload replaces the in-memory snapshot with the current database
// contents. Called on startup and by POST /api/refresh.
func (s *Server) Reload(ctx context.Context) error {
	roots, err := s.DB.LoadCategories(ctx)
	if err != nil {
		return err
	}
	list, err := s.DB.LoadAssets(ctx, "")
	if err != nil {
		return err
	}

	v := filter.NewView()
	if err := v.ReplaceCatalog(roots); err != nil {
		return err
	}
	v.ReplaceAssets(list)

	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return nil
}

// Handler returns the routed mux. Split from Start so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/assets", s.basicAuth(s.handleAssets))
	mux.HandleFunc("GET /api/tree", s.basicAuth(s.handleTree))
	mux.HandleFunc("GET /api/changes", s.basicAuth(s.handleChanges))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/console", s.basicAuth(s.handleConsole))
	mux.HandleFunc("GET /api/session", s.basicAuth(s.handleSessionGet))
	mux.HandleFunc("DELETE /api/session", s.basicAuth(s.handleSessionClear))
	mux.HandleFunc("POST /api/refresh", s.basicAuth(s.handleRefresh))

	// Browse page
	mux.HandleFunc("GET /{$}", s.basicAuth(s.handleIndex))

	return mux
}

func (s *Server) Start(addr string) error {
	if err := s.Reload(context.Background()); err != nil {
		return err
	}
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
