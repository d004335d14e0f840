package assets

import "testing"

func TestInCategorySet(t *testing.T) {
	set := map[string]bool{"a": true, "b": true}

	cases := []struct {
		name  string
		asset Asset
		want  bool
	}{
		{"direct id", Asset{CategoryID: "b"}, true},
		{"path ancestor", Asset{CategoryID: "x", CategoryPath: []string{"root", "a"}}, true},
		{"no overlap", Asset{CategoryID: "x", CategoryPath: []string{"y"}}, false},
		{"unassigned", Asset{}, false},
	}
	for _, tc := range cases {
		if got := tc.asset.InCategorySet(set); got != tc.want {
			t.Errorf("%s: InCategorySet = %v, want %v", tc.name, got, tc.want)
		}
	}

	if (Asset{CategoryID: "a"}).InCategorySet(nil) {
		t.Error("empty set should match nothing")
	}
}

func TestInDir(t *testing.T) {
	a := Asset{Dir: "props/furniture"}

	if !a.InDir("") {
		t.Error("empty dir should match everything")
	}
	if !a.InDir("props") {
		t.Error("parent dir should match")
	}
	if !a.InDir("props/furniture") {
		t.Error("exact dir should match")
	}
	if a.InDir("props/furnit") {
		t.Error("prefix of a segment must not match")
	}
	if a.InDir("materials") {
		t.Error("sibling dir must not match")
	}
}

func TestMatchesSearch(t *testing.T) {
	a := Asset{
		Name:       "Oak Chair",
		Type:       "model",
		SeriesName: "Woodland",
		Tags:       []string{"Furniture", "interior"},
	}

	for _, q := range []string{"", "oak", "MODEL", "woodland", "furni"} {
		if !a.MatchesSearch(q) {
			t.Errorf("expected match for query %q", q)
		}
	}
	if a.MatchesSearch("marble") {
		t.Error("unexpected match for 'marble'")
	}
}

func TestDeriveProvider(t *testing.T) {
	cases := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"download domain", Asset{DownloadURL: "https://cdn.assetstore.example.com/m/1.glb"}, "example.com"},
		{"preview fallback", Asset{PreviewURL: "https://previews.polylib.io/1.png"}, "polylib.io"},
		{"file url", Asset{DownloadURL: "file:///home/u/assets/1.glb"}, "local"},
		{"local path", Asset{DownloadURL: "/home/u/assets/1.glb"}, "local"},
		{"no urls", Asset{}, "local"},
	}
	for _, tc := range cases {
		if got := DeriveProvider(tc.asset); got != tc.want {
			t.Errorf("%s: DeriveProvider = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLineFormatting(t *testing.T) {
	a := Asset{ID: "1", Name: "Oak Chair", Type: "model", SizeCategory: "M", Tags: []string{"wood", "interior"}}

	line, err := Line(a, "ntz", " ")
	if err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if line != "Oak Chair model M" {
		t.Fatalf("unexpected line: %q", line)
	}

	line, err = Line(a, "ng", "|")
	if err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if line != "Oak Chair|wood,interior" {
		t.Fatalf("unexpected line: %q", line)
	}

	if _, err := Line(a, "nx", " "); err == nil {
		t.Fatal("expected error for invalid output flag")
	}
}
