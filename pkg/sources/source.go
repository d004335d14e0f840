// Package sources defines the catalog providers assetcat can pull from.
// Each source yields an immutable snapshot of categories and/or asset
// records; fetch failures degrade (last-known-good data stays in place)
// instead of aborting a run.
package sources

import (
	"context"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
)

// Source is one catalog provider. A source that owns no category tree
// returns (nil, nil) from FetchCategories.
type Source interface {
	Name() string
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
	FetchAssets(ctx context.Context) ([]assets.Asset, error)
}
