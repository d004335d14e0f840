package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harmonyedit/assetcat/pkg/webapi"
)

const indexPage = `<html><body>
<div class="asset-card" data-asset-id="sf-1" data-asset-type="model">
  <img class="asset-preview" src="/previews/sf-1.png">
  <span class="asset-name"> Granite Boulder </span>
  <span class="asset-series">Rocklands</span>
  <span class="asset-size">L</span>
  <span class="asset-tag">rock</span>
  <span class="asset-tag">outdoor</span>
  <a class="asset-download" href="/dl/sf-1.glb">Download</a>
</div>
<div class="asset-card" data-asset-id="sf-2">
  <span class="asset-name">Moss Material</span>
</div>
<div class="asset-card">
  <span class="asset-name">Upgrade to Pro!</span>
</div>
</body></html>`

func TestFetchAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPage)
	}))
	defer srv.Close()

	hc, err := webapi.New("")
	if err != nil {
		t.Fatalf("webapi.New failed: %v", err)
	}
	list, err := New(srv.URL, hc).FetchAssets(context.Background())
	if err != nil {
		t.Fatalf("FetchAssets failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assets (ad card skipped), got %d", len(list))
	}

	a := list[0]
	if a.ID != "sf-1" || a.Name != "Granite Boulder" || a.Type != "model" {
		t.Fatalf("unexpected asset: %+v", a)
	}
	if a.SeriesName != "Rocklands" || a.SizeCategory != "L" {
		t.Fatalf("series/size not scraped: %+v", a)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "rock" {
		t.Fatalf("tag chips not scraped: %v", a.Tags)
	}
	if a.DownloadURL != srv.URL+"/dl/sf-1.glb" {
		t.Fatalf("download link not absolutized: %q", a.DownloadURL)
	}
	if a.PreviewURL != srv.URL+"/previews/sf-1.png" {
		t.Fatalf("preview link not absolutized: %q", a.PreviewURL)
	}

	// Sparse card: missing fields stay unassigned, defaults apply.
	b := list[1]
	if b.Type != "model" || b.SeriesName != "" || len(b.Tags) != 0 {
		t.Fatalf("sparse card should be permissive: %+v", b)
	}
}

func TestFetchCategoriesIsEmpty(t *testing.T) {
	hc, err := webapi.New("")
	if err != nil {
		t.Fatalf("webapi.New failed: %v", err)
	}
	cats, err := New("http://unused.example", hc).FetchCategories(context.Background())
	if err != nil || cats != nil {
		t.Fatalf("storefront should supply no categories, got %v, %v", cats, err)
	}
}
