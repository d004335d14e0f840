// Package project reads the editor's project file: scenes, their node
// trees, the components attached to each node, and the asset records the
// project bundles. It answers "which assets does this project actually
// use, and where".
package project

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

// Component is one behavior attached to a scene node. Only the asset
// reference matters here; component-specific properties stay opaque.
type Component struct {
	Type    string `json:"type"`
	AssetID string `json:"asset_id,omitempty"`
}

// Node is one element of a scene's hierarchy.
type Node struct {
	Name       string      `json:"name"`
	Children   []Node      `json:"children,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Scene is one scene of the project.
type Scene struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes,omitempty"`
}

// Project is the parsed project file.
type Project struct {
	Name   string         `json:"name"`
	Scenes []Scene        `json:"scenes,omitempty"`
	Assets []assets.Asset `json:"assets,omitempty"`
}

// Ref locates one use of an asset: the scene, the node path within it,
// and the component type that references the asset.
type Ref struct {
	Scene     string `json:"scene"`
	NodePath  string `json:"node_path"`
	Component string `json:"component"`
}

// Load reads and validates a project file. A file that is not valid JSON
// or lacks a project name is rejected; everything else is permissive.
func Load(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s: not a valid project file", path)
	}
	doc := gjson.ParseBytes(raw)
	p := &Project{Name: doc.Get("name").String()}
	if p.Name == "" {
		return nil, fmt.Errorf("%s: project has no name", path)
	}

	doc.Get("scenes").ForEach(func(_, s gjson.Result) bool {
		scene := Scene{Name: s.Get("name").String()}
		s.Get("nodes").ForEach(func(_, n gjson.Result) bool {
			scene.Nodes = append(scene.Nodes, parseNode(n))
			return true
		})
		p.Scenes = append(p.Scenes, scene)
		return true
	})

	doc.Get("assets").ForEach(func(_, a gjson.Result) bool {
		p.Assets = append(p.Assets, parseAsset(a))
		return true
	})
	return p, nil
}

func parseNode(n gjson.Result) Node {
	node := Node{Name: n.Get("name").String()}
	n.Get("components").ForEach(func(_, c gjson.Result) bool {
		node.Components = append(node.Components, Component{
			Type:    c.Get("type").String(),
			AssetID: c.Get("assetId").String(),
		})
		return true
	})
	n.Get("children").ForEach(func(_, c gjson.Result) bool {
		node.Children = append(node.Children, parseNode(c))
		return true
	})
	return node
}

func parseAsset(a gjson.Result) assets.Asset {
	rec := assets.Asset{
		ID:           a.Get("id").String(),
		Name:         a.Get("name").String(),
		Type:         a.Get("type").String(),
		CategoryID:   a.Get("categoryId").String(),
		SeriesID:     a.Get("seriesId").String(),
		SeriesName:   a.Get("seriesName").String(),
		SizeCategory: a.Get("sizeCategory").String(),
		Dir:          a.Get("folder").String(),
		PreviewURL:   a.Get("previewUrl").String(),
		DownloadURL:  a.Get("downloadUrl").String(),
		FileSize:     a.Get("fileSize").Int(),
	}
	a.Get("categoryPath").ForEach(func(_, p gjson.Result) bool {
		rec.CategoryPath = append(rec.CategoryPath, p.Get("id").String())
		return true
	})
	a.Get("tags").ForEach(func(_, tag gjson.Result) bool {
		rec.Tags = append(rec.Tags, tag.String())
		return true
	})
	a.Get("tagIds").ForEach(func(_, tag gjson.Result) bool {
		rec.TagIDs = append(rec.TagIDs, tag.String())
		return true
	})
	rec.Provider = assets.DeriveProvider(rec)
	return rec
}

// Walk visits every node of every scene depth-first, passing the
// slash-joined node path.
func (p *Project) Walk(fn func(scene string, path string, n Node)) {
	for _, s := range p.Scenes {
		for _, n := range s.Nodes {
			walkNode(s.Name, "", n, fn)
		}
	}
}

func walkNode(scene, parent string, n Node, fn func(scene string, path string, n Node)) {
	path := n.Name
	if parent != "" {
		path = parent + "/" + n.Name
	}
	fn(scene, path, n)
	for _, c := range n.Children {
		walkNode(scene, path, c, fn)
	}
}

// Usage maps every referenced asset id to the places it is used.
func (p *Project) Usage() map[string][]Ref {
	usage := make(map[string][]Ref)
	p.Walk(func(scene, path string, n Node) {
		for _, c := range n.Components {
			if c.AssetID == "" {
				continue
			}
			usage[c.AssetID] = append(usage[c.AssetID], Ref{
				Scene:     scene,
				NodePath:  path,
				Component: c.Type,
			})
		}
	})
	return usage
}

// ReferencedIDs returns the set of asset ids any component references.
func (p *Project) ReferencedIDs() map[string]bool {
	ids := make(map[string]bool)
	for id := range p.Usage() {
		ids[id] = true
	}
	return ids
}

// Unreferenced returns the bundled assets no component references,
// in manifest order.
func (p *Project) Unreferenced() []assets.Asset {
	used := p.ReferencedIDs()
	var out []assets.Asset
	for _, a := range p.Assets {
		if !used[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
