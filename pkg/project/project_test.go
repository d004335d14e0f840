package project

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleProject = `{
  "name": "demo",
  "scenes": [
    {
      "name": "main",
      "nodes": [
        {
          "name": "root",
          "components": [],
          "children": [
            {
              "name": "chair",
              "components": [
                {"type": "modelRenderer", "assetId": "a1"},
                {"type": "material", "assetId": "a2"}
              ]
            },
            {
              "name": "ambience",
              "components": [{"type": "audioSource", "assetId": "a3"}]
            }
          ]
        }
      ]
    },
    {
      "name": "lobby",
      "nodes": [
        {"name": "chair2", "components": [{"type": "modelRenderer", "assetId": "a1"}]}
      ]
    }
  ],
  "assets": [
    {"id": "a1", "name": "Oak Chair", "type": "model", "categoryId": "furniture",
     "categoryPath": [{"id": "props"}, {"id": "furniture"}],
     "seriesId": "s1", "seriesName": "Woodland", "sizeCategory": "M",
     "tags": ["wood"], "tagIds": ["t1"], "fileSize": 2048},
    {"id": "a2", "name": "Oak Material", "type": "material"},
    {"id": "a3", "name": "Forest Loop", "type": "audio"},
    {"id": "a4", "name": "Unused Rock", "type": "model"}
  ]
}`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.project.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "demo" || len(p.Scenes) != 2 || len(p.Assets) != 4 {
		t.Fatalf("unexpected project shape: name=%q scenes=%d assets=%d", p.Name, len(p.Scenes), len(p.Assets))
	}

	a := p.Assets[0]
	if a.SeriesID != "s1" || a.SizeCategory != "M" || a.FileSize != 2048 {
		t.Fatalf("unexpected asset record: %+v", a)
	}
	if len(a.CategoryPath) != 2 || a.CategoryPath[0] != "props" {
		t.Fatalf("category path ids not extracted: %v", a.CategoryPath)
	}
	if len(a.Tags) != 1 || len(a.TagIDs) != 1 {
		t.Fatalf("tags not extracted: %v %v", a.Tags, a.TagIDs)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	if _, err := Load(writeProject(t, "not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := Load(writeProject(t, `{"scenes": []}`)); err == nil {
		t.Fatal("expected error for a project without a name")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestUsage(t *testing.T) {
	p, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	usage := p.Usage()
	if len(usage) != 3 {
		t.Fatalf("expected 3 referenced assets, got %d", len(usage))
	}
	refs := usage["a1"]
	if len(refs) != 2 {
		t.Fatalf("a1 should be used twice, got %+v", refs)
	}
	if refs[0].Scene != "main" || refs[0].NodePath != "root/chair" || refs[0].Component != "modelRenderer" {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Scene != "lobby" {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
}

func TestUnreferenced(t *testing.T) {
	p, err := Load(writeProject(t, sampleProject))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	unused := p.Unreferenced()
	if len(unused) != 1 || unused[0].ID != "a4" {
		t.Fatalf("expected only a4 unreferenced, got %+v", unused)
	}
}
