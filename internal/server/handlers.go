package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/filter"
	"github.com/harmonyedit/assetcat/pkg/storage"
)

type breadcrumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type assetsResponse struct {
	Assets        []assets.Asset  `json:"assets"`
	Total         int             `json:"total"`
	Breadcrumbs   []breadcrumb    `json:"breadcrumbs"`
	SeriesOptions []filter.Option `json:"series_options"`
	SizeOptions   []filter.Option `json:"size_options"`
	TagOptions    []filter.Option `json:"tag_options"`
}

// handleAssets serves GET /api/assets — the filtered listing plus the
// contextual facet options, mirroring the CLI's list/facets flags.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	if v == nil {
		http.Error(w, "snapshot not loaded", http.StatusServiceUnavailable)
		return
	}
	applyQuery(v, q)

	list := v.Assets()
	if list == nil {
		list = []assets.Asset{}
	}
	resp := assetsResponse{
		Assets:        list,
		Total:         len(list),
		SeriesOptions: v.SeriesOptions(),
		SizeOptions:   v.SizeOptions(),
		TagOptions:    v.TagOptions(),
	}
	for _, c := range v.Breadcrumbs() {
		resp.Breadcrumbs = append(resp.Breadcrumbs, breadcrumb{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, resp)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		http.Error(w, "snapshot not loaded", http.StatusServiceUnavailable)
		return
	}
	roots := s.view.Graph().Roots()
	if roots == nil {
		roots = []catalog.Category{}
	}
	writeJSON(w, roots)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	changes, err := s.DB.ListChanges(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if changes == nil {
		changes = []storage.Change{}
	}
	writeJSON(w, changes)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []storage.TypeCount{}
	}
	writeJSON(w, stats)
}

// handleConsole serves the recent log ring. ?n= caps the tail, ?level=
// filters by minimum severity, ?since= returns records after a sequence
// number (for polling clients).
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	if s.Ring == nil {
		http.Error(w, "console capture disabled", http.StatusNotFound)
		return
	}
	q := r.URL.Query()

	if raw := q.Get("since"); raw != "" {
		seq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		writeJSON(w, s.Ring.Since(seq))
		return
	}

	n := 100
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}
	writeJSON(w, s.Ring.Tail(n, q.Get("level")))
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, err := storage.NewSessionStore(s.DB, storage.DefaultSessionKey).Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sess)
}

func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	if err := storage.NewSessionStore(s.DB, storage.DefaultSessionKey).Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// applyQuery drives the shared view from request parameters. Each request
// describes its full filter state, so the view starts clean every time.
func applyQuery(v *filter.View, q url.Values) {
	v.ClearFilters()
	v.SelectCategory(q.Get("category"))
	v.SetDir(q.Get("dir"))
	v.SetQuery(q.Get("search"))
	v.SetOptionQuery(q.Get("facet_search"))
	if series := q.Get("series"); series != "" {
		v.SelectSeries(series)
	}
	for _, size := range q["size"] {
		v.ToggleSize(size)
	}
	for _, tag := range q["tag"] {
		v.ToggleTag(tag)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(v)
}
