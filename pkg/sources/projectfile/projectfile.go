// Package projectfile exposes a local project manifest as a source, so a
// project's bundled assets can be imported into the catalog cache next to
// the remote ones.
package projectfile

import (
	"context"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/project"
)

// Client reads one project file.
type Client struct {
	path string
}

// New builds a project-file source.
func New(path string) *Client {
	return &Client{path: path}
}

func (c *Client) Name() string { return "project" }

// FetchCategories returns nothing: project files carry asset records but
// no category tree of their own.
func (c *Client) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

// FetchAssets loads the manifest and yields its bundled asset records.
func (c *Client) FetchAssets(ctx context.Context) ([]assets.Asset, error) {
	p, err := project.Load(c.path)
	if err != nil {
		return nil, err
	}
	out := make([]assets.Asset, 0, len(p.Assets))
	for _, a := range p.Assets {
		a.Source = "project"
		out = append(out, a)
	}
	return out, nil
}
