package library

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harmonyedit/assetcat/pkg/webapi"
)

func newClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	hc, err := webapi.New("")
	if err != nil {
		t.Fatalf("webapi.New failed: %v", err)
	}
	return New(srvURL, "test-token", hc)
}

func TestFetchCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/categories" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		fmt.Fprint(w, `{"categories":[
			{"id":"props","name":"Props","children":[{"id":"furniture","name":"Furniture","children":[]}]},
			{"id":"materials","name":"Materials","children":[]}
		]}`)
	}))
	defer srv.Close()

	roots, err := newClient(t, srv.URL).FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories failed: %v", err)
	}
	if len(roots) != 2 || roots[0].ID != "props" || roots[1].ID != "materials" {
		t.Fatalf("unexpected roots: %+v", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Name != "Furniture" {
		t.Fatalf("nested children not parsed: %+v", roots[0].Children)
	}
}

func TestFetchAssetsPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"assets":[
				{"id":"a1","name":"Oak Chair","type":"model","categoryId":"furniture",
				 "categoryPath":[{"id":"props","name":"Props"},{"id":"furniture","name":"Furniture"}],
				 "seriesId":"s1","seriesName":"Woodland","sizeCategory":"M",
				 "tags":["wood"],"tagIds":["t1"],
				 "downloadUrl":"https://cdn.harmony.example.com/a1.glb","fileSize":2048}
			],"nextCursor":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"assets":[{"id":"a2","name":"Rock","type":"model"}],"nextCursor":""}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
			http.Error(w, "bad cursor", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	list, err := newClient(t, srv.URL).FetchAssets(context.Background())
	if err != nil {
		t.Fatalf("FetchAssets failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assets across pages, got %d", len(list))
	}

	a := list[0]
	if a.ID != "a1" || a.SeriesID != "s1" || a.SizeCategory != "M" {
		t.Fatalf("unexpected asset: %+v", a)
	}
	if len(a.CategoryPath) != 2 || a.CategoryPath[1] != "furniture" {
		t.Fatalf("category path ids not extracted: %v", a.CategoryPath)
	}
	if a.Provider != "example.com" {
		t.Fatalf("provider not derived, got %q", a.Provider)
	}
	if a.Source != "library" {
		t.Fatalf("source not set, got %q", a.Source)
	}
}

func TestFetchAssetsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newClient(t, srv.URL).FetchAssets(context.Background()); err == nil {
		t.Fatal("expected error for 403")
	}
}
