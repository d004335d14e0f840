// Package assets defines the asset record shared by sources, storage and
// the filtering engine, plus the small matching helpers the engine uses.
package assets

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// Asset is one catalog entry. Records are deliberately permissive: any
// field other than ID and Name may be empty, and an empty field means
// "unassigned" rather than an error.
type Asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	CategoryID   string   `json:"category_id,omitempty"`
	CategoryPath []string `json:"category_path,omitempty"`

	SeriesID     string `json:"series_id,omitempty"`
	SeriesName   string `json:"series_name,omitempty"`
	SizeCategory string `json:"size_category,omitempty"`

	Tags   []string `json:"tags,omitempty"`
	TagIDs []string `json:"tag_ids,omitempty"`

	Dir         string `json:"dir,omitempty"`
	Source      string `json:"source,omitempty"`
	Provider    string `json:"provider,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
}

// HasSeries reports whether the asset carries any series assignment.
func (a Asset) HasSeries() bool {
	return a.SeriesID != "" || a.SeriesName != ""
}

// InCategorySet reports whether the asset belongs to any category in the
// given descendant closure, via its direct CategoryID or any ancestor id
// recorded in CategoryPath.
func (a Asset) InCategorySet(ids map[string]bool) bool {
	if len(ids) == 0 {
		return false
	}
	if a.CategoryID != "" && ids[a.CategoryID] {
		return true
	}
	for _, id := range a.CategoryPath {
		if ids[id] {
			return true
		}
	}
	return false
}

// InDir reports whether the asset lives in dir or below it. An empty dir
// means no directory restriction.
func (a Asset) InDir(dir string) bool {
	if dir == "" {
		return true
	}
	dir = strings.Trim(dir, "/")
	adir := strings.Trim(a.Dir, "/")
	return adir == dir || strings.HasPrefix(adir, dir+"/")
}

// MatchesSearch reports whether the asset matches a free-text query:
// case-insensitive substring over name, type, series name and tag names.
func (a Asset) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Name), q) ||
		strings.Contains(strings.ToLower(a.Type), q) ||
		strings.Contains(strings.ToLower(a.SeriesName), q) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// DeriveProvider resolves where an asset comes from: the registrable
// domain of its download (or preview) URL, or "local" for file paths and
// anything without a usable host.
func DeriveProvider(a Asset) string {
	for _, raw := range []string{a.DownloadURL, a.PreviewURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == "file" {
			return "local"
		}
		host := strings.Trim(u.Hostname(), "[]")
		domain, err := publicsuffix.Domain(host)
		if err != nil {
			// IPs and bare hostnames don't have a registrable domain.
			return host
		}
		return domain
	}
	return "local"
}
