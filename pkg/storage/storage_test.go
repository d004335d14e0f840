package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/filter"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "assetcat.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func changeTypes(changes []Change) map[string]string {
	out := make(map[string]string)
	for _, c := range changes {
		out[c.AssetID] = c.ChangeType
	}
	return out
}

func TestCategoriesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	roots := []catalog.Category{
		{ID: "props", Name: "Props", Children: []catalog.Category{
			{ID: "furniture", Name: "Furniture", Children: []catalog.Category{{ID: "chairs", Name: "Chairs"}}},
			{ID: "vegetation", Name: "Vegetation"},
		}},
		{ID: "materials", Name: "Materials"},
	}
	if err := db.ReplaceCategories(ctx, "library", roots); err != nil {
		t.Fatalf("ReplaceCategories failed: %v", err)
	}

	got, err := db.LoadCategories(ctx)
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}
	if !reflect.DeepEqual(got, roots) {
		t.Fatalf("category round-trip mismatch.\nwant: %+v\ngot:  %+v", roots, got)
	}

	// Replacing swaps wholesale, never merges.
	if err := db.ReplaceCategories(ctx, "library", []catalog.Category{{ID: "x", Name: "X"}}); err != nil {
		t.Fatalf("ReplaceCategories failed: %v", err)
	}
	got, err = db.LoadCategories(ctx)
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected replaced snapshot, got %+v", got)
	}
}

func TestUpsertAssetsJournal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := []assets.Asset{
		{ID: "a1", Name: "Oak Chair", Type: "model", CategoryID: "furniture",
			CategoryPath: []string{"props", "furniture"},
			SeriesID:     "s1", SeriesName: "Woodland", SizeCategory: "M",
			Tags: []string{"wood"}, TagIDs: []string{"t1"}, FileSize: 2048},
		{ID: "a2", Name: "Rock", Type: "model"},
	}
	changes, err := db.UpsertAssets(ctx, "library", first)
	if err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}
	if got := changeTypes(changes); len(got) != 2 || got["a1"] != "added" || got["a2"] != "added" {
		t.Fatalf("unexpected first-run changes: %v", got)
	}

	// Same snapshot again: no changes at all.
	changes, err = db.UpsertAssets(ctx, "library", first)
	if err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("identical snapshot should journal nothing, got %+v", changes)
	}

	// Rename a1, drop a2, add a3.
	second := []assets.Asset{
		{ID: "a1", Name: "Oak Armchair", Type: "model", CategoryID: "furniture",
			CategoryPath: []string{"props", "furniture"},
			SeriesID:     "s1", SeriesName: "Woodland", SizeCategory: "M",
			Tags: []string{"wood"}, TagIDs: []string{"t1"}, FileSize: 2048},
		{ID: "a3", Name: "Fern", Type: "model"},
	}
	changes, err = db.UpsertAssets(ctx, "library", second)
	if err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}
	got := changeTypes(changes)
	if got["a1"] != "updated" || got["a2"] != "removed" || got["a3"] != "added" {
		t.Fatalf("unexpected change set: %v", got)
	}

	list, err := db.LoadAssets(ctx, "library")
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 cached assets, got %d", len(list))
	}
}

func TestLoadAssetsRoundTripsFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := assets.Asset{
		ID: "a1", Name: "Oak Chair", Type: "model",
		CategoryID: "furniture", CategoryPath: []string{"props", "furniture"},
		SeriesID: "s1", SeriesName: "Woodland", SizeCategory: "M",
		Tags: []string{"wood", "interior"}, TagIDs: []string{"t1", "t2"},
		Dir: "props/furniture", Provider: "example.com",
		PreviewURL: "https://cdn.example.com/a1.png", DownloadURL: "https://cdn.example.com/a1.glb",
		FileSize: 2048,
	}
	if _, err := db.UpsertAssets(ctx, "library", []assets.Asset{in}); err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}

	list, err := db.LoadAssets(ctx, "")
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(list))
	}
	out := list[0]
	in.Source = "library" // set by the load
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("asset round-trip mismatch.\nwant: %+v\ngot:  %+v", in, out)
	}
}

func TestNameOnlyTagsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := assets.Asset{ID: "a1", Name: "Rock", Type: "model", Tags: []string{"outdoor"}}
	if _, err := db.UpsertAssets(ctx, "library", []assets.Asset{in}); err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}

	// A second identical run must not see a phantom update from tag
	// storage padding.
	changes, err := db.UpsertAssets(ctx, "library", []assets.Asset{in})
	if err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no changes, got %+v", changes)
	}

	list, err := db.LoadAssets(ctx, "library")
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(list[0].TagIDs) != 0 || !reflect.DeepEqual(list[0].Tags, []string{"outdoor"}) {
		t.Fatalf("name-only tags mangled: ids=%v names=%v", list[0].TagIDs, list[0].Tags)
	}
}

func TestWipeGuard(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var many []assets.Asset
	for i := 0; i < 20; i++ {
		many = append(many, assets.Asset{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Asset %d", i), Type: "model"})
	}
	if _, err := db.UpsertAssets(ctx, "library", many); err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}

	_, err := db.UpsertAssets(ctx, "library", nil)
	if !errors.Is(err, ErrWipeAborted) {
		t.Fatalf("expected ErrWipeAborted, got %v", err)
	}

	list, err := db.LoadAssets(ctx, "library")
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(list) != 20 {
		t.Fatalf("wipe guard did not protect the cache, %d assets left", len(list))
	}

	// A small cache sweeps normally.
	if _, err := db.UpsertAssets(ctx, "tiny", many[:2]); err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}
	if _, err := db.UpsertAssets(ctx, "tiny", nil); err != nil {
		t.Fatalf("small caches should allow empty sweeps, got %v", err)
	}
}

func TestListChangesAndStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	list := []assets.Asset{
		{ID: "a1", Name: "Chair", Type: "model"},
		{ID: "a2", Name: "Bark", Type: "texture"},
		{ID: "a3", Name: "Moss", Type: "texture"},
	}
	if _, err := db.UpsertAssets(ctx, "library", list); err != nil {
		t.Fatalf("UpsertAssets failed: %v", err)
	}

	changes, err := db.ListChanges(ctx, 2)
	if err != nil {
		t.Fatalf("ListChanges failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("limit not applied, got %d changes", len(changes))
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := []TypeCount{
		{Source: "library", Type: "model", Count: 1},
		{Source: "library", Type: "texture", Count: 2},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("unexpected stats.\nwant: %+v\ngot:  %+v", want, stats)
	}
}

func TestSessionStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewSessionStore(db, "")

	// Missing state is an empty session, not an error.
	sess, err := store.Load(ctx)
	if err != nil || !sess.IsZero() {
		t.Fatalf("expected empty session, got %+v, %v", sess, err)
	}

	in := filter.Session{
		CategoryID: "furniture",
		Series:     "series:id:s1",
		Sizes:      []string{"M", "size:unassigned"},
		Tags:       []string{"tag:id:t1"},
		Dir:        "props",
		Query:      "oak",
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sess, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(sess, in) {
		t.Fatalf("session round-trip mismatch.\nwant: %+v\ngot:  %+v", in, sess)
	}

	// Corrupted state degrades to empty.
	if err := db.SetState(ctx, DefaultSessionKey, "{broken"); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	sess, err = store.Load(ctx)
	if err != nil || !sess.IsZero() {
		t.Fatalf("corrupted session should degrade to empty, got %+v, %v", sess, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if raw, _ := db.GetState(ctx, DefaultSessionKey); raw != "" {
		t.Fatalf("Clear left state behind: %q", raw)
	}
}
