package catalog

import (
	"errors"
	"reflect"
	"testing"
)

// sampleTree builds the fixture used across tests:
//
//	props
//	├── furniture
//	│   ├── chairs
//	│   └── tables
//	└── vegetation
//	materials
func sampleTree() []Category {
	return []Category{
		{
			ID: "props", Name: "Props",
			Children: []Category{
				{
					ID: "furniture", Name: "Furniture",
					Children: []Category{
						{ID: "chairs", Name: "Chairs"},
						{ID: "tables", Name: "Tables"},
					},
				},
				{ID: "vegetation", Name: "Vegetation"},
			},
		},
		{ID: "materials", Name: "Materials"},
	}
}

func mustGraph(t *testing.T, roots []Category) *Graph {
	t.Helper()
	g, err := BuildGraph(roots)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}
	return g
}

func TestBuildGraphEmpty(t *testing.T) {
	g, err := BuildGraph(nil)
	if err != nil {
		t.Fatalf("BuildGraph(nil) failed: %v", err)
	}
	if len(g.Roots()) != 0 || g.Len() != 0 {
		t.Fatalf("expected empty graph, got %d roots, %d nodes", len(g.Roots()), g.Len())
	}
}

func TestBuildGraphDescendantClosure(t *testing.T) {
	g := mustGraph(t, sampleTree())

	want := map[string][]string{
		"props":      {"props", "furniture", "chairs", "tables", "vegetation"},
		"furniture":  {"furniture", "chairs", "tables"},
		"chairs":     {"chairs"},
		"materials":  {"materials"},
		"vegetation": {"vegetation"},
	}
	for id, ids := range want {
		got := g.Descendants(id)
		if len(got) != len(ids) {
			t.Errorf("descendants(%s): want %d ids, got %v", id, len(ids), got)
			continue
		}
		for _, d := range ids {
			if !got[d] {
				t.Errorf("descendants(%s): missing %s", id, d)
			}
		}
	}
}

// Every node's closure must contain itself and cover each child's closure.
func TestDescendantClosureContainment(t *testing.T) {
	g := mustGraph(t, sampleTree())

	var walk func(c Category)
	walk = func(c Category) {
		own := g.Descendants(c.ID)
		if !own[c.ID] {
			t.Errorf("closure of %s does not contain itself", c.ID)
		}
		for _, child := range c.Children {
			for id := range g.Descendants(child.ID) {
				if !own[id] {
					t.Errorf("closure of %s missing %s from child %s", c.ID, id, child.ID)
				}
			}
			walk(child)
		}
	}
	for _, root := range sampleTree() {
		walk(root)
	}
}

func TestBuildGraphDuplicateID(t *testing.T) {
	roots := []Category{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", Children: []Category{{ID: "a", Name: "A again"}}},
	}
	_, err := BuildGraph(roots)
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if dup.ID != "a" {
		t.Fatalf("expected duplicate id 'a', got %q", dup.ID)
	}
}

func TestParentLinks(t *testing.T) {
	g := mustGraph(t, sampleTree())

	if p := g.Parent("props"); p != nil {
		t.Fatalf("root should have nil parent, got %v", p)
	}
	if p := g.Parent("chairs"); p == nil || p.ID != "furniture" {
		t.Fatalf("parent(chairs) = %v, want furniture", p)
	}
	if p := g.Parent("missing"); p != nil {
		t.Fatalf("unknown id should have nil parent, got %v", p)
	}
}

func TestResolvePath(t *testing.T) {
	g := mustGraph(t, sampleTree())

	path := ResolvePath(*g.Lookup("chairs"), g)
	var ids []string
	for _, c := range path {
		ids = append(ids, c.ID)
	}
	want := []string{"props", "furniture", "chairs"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected path.\nwant: %v\ngot:  %v", want, ids)
	}

	// Every adjacent pair must agree with the parent index.
	for i := 1; i < len(path); i++ {
		if p := g.Parent(path[i].ID); p == nil || p.ID != path[i-1].ID {
			t.Fatalf("parent(%s) does not match path predecessor %s", path[i].ID, path[i-1].ID)
		}
	}
}

func TestResolvePathUnknownLeaf(t *testing.T) {
	g := mustGraph(t, sampleTree())

	stale := Category{ID: "gone", Name: "Removed"}
	path := ResolvePath(stale, g)
	if len(path) != 1 || path[0].ID != "gone" || path[0].Name != "Removed" {
		t.Fatalf("expected single stale entry, got %v", path)
	}
}

func TestReconcilePath(t *testing.T) {
	g := mustGraph(t, sampleTree())
	active := ResolvePath(*g.Lookup("chairs"), g)

	// Same snapshot: path unchanged, no churn signalled.
	if _, changed := ReconcilePath(active, g); changed {
		t.Fatal("identical graph should not report a changed path")
	}

	// Leaf survives under a new parent: chain rebuilt.
	moved := []Category{
		{ID: "props", Name: "Props", Children: []Category{{ID: "chairs", Name: "Chairs"}}},
	}
	next, changed := ReconcilePath(active, mustGraph(t, moved))
	if !changed {
		t.Fatal("expected reparented leaf to report change")
	}
	if len(next) != 2 || next[0].ID != "props" || next[1].ID != "chairs" {
		t.Fatalf("unexpected rebuilt path: %v", next)
	}

	// Leaf gone: collapse to nil.
	next, changed = ReconcilePath(active, mustGraph(t, []Category{{ID: "materials", Name: "Materials"}}))
	if !changed || next != nil {
		t.Fatalf("expected collapse to nil, got changed=%v path=%v", changed, next)
	}

	// Empty current path is a no-op.
	if next, changed := ReconcilePath(nil, g); changed || next != nil {
		t.Fatalf("empty path should stay empty, got changed=%v path=%v", changed, next)
	}
}

// Scenario: selecting a category includes assets attached to any descendant.
func TestDescendantLookupForFiltering(t *testing.T) {
	g := mustGraph(t, []Category{
		{ID: "a", Name: "A", Children: []Category{{ID: "b", Name: "B"}}},
	})
	set := g.Descendants("a")
	if len(set) != 2 || !set["a"] || !set["b"] {
		t.Fatalf("descendants(a) = %v, want {a,b}", set)
	}
	if !g.Contains("a", "b") {
		t.Fatal("Contains(a, b) = false, want true")
	}
	if g.Contains("b", "a") {
		t.Fatal("Contains(b, a) = true, want false")
	}
}
