// Package library implements the editor's asset-library service as a
// source: a JSON API with a nested categories endpoint and a
// cursor-paginated asset listing.
package library

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/webapi"
)

const pageSize = 200

// Client talks to one library service instance.
type Client struct {
	baseURL string
	token   string
	http    *webapi.Client
}

// New builds a library source. token may be empty for anonymous
// libraries.
func New(baseURL, token string, client *webapi.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: client}
}

func (c *Client) Name() string { return "library" }

func (c *Client) headers() []webapi.Header {
	if c.token == "" {
		return nil
	}
	return []webapi.Header{{Name: "Authorization", Value: "Bearer " + c.token}}
}

// FetchCategories pulls the library's category tree. The endpoint returns
// the fully nested forest in one response.
func (c *Client) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	body, err := c.http.Get(ctx, c.baseURL+"/api/v1/categories", c.headers()...)
	if err != nil {
		return nil, fmt.Errorf("library categories: %w", err)
	}

	var roots []catalog.Category
	gjson.GetBytes(body, "categories").ForEach(func(_, r gjson.Result) bool {
		roots = append(roots, parseCategory(r))
		return true
	})
	return roots, nil
}

func parseCategory(r gjson.Result) catalog.Category {
	c := catalog.Category{
		ID:   r.Get("id").String(),
		Name: r.Get("name").String(),
	}
	r.Get("children").ForEach(func(_, child gjson.Result) bool {
		c.Children = append(c.Children, parseCategory(child))
		return true
	})
	return c
}

// FetchAssets pulls the full asset listing, following the service's
// cursor pagination until it reports no next cursor.
func (c *Client) FetchAssets(ctx context.Context) ([]assets.Asset, error) {
	var out []assets.Asset
	cursor := ""
	for {
		u := fmt.Sprintf("%s/api/v1/assets?limit=%d", c.baseURL, pageSize)
		if cursor != "" {
			u += "&cursor=" + url.QueryEscape(cursor)
		}
		body, err := c.http.Get(ctx, u, c.headers()...)
		if err != nil {
			return nil, fmt.Errorf("library assets: %w", err)
		}

		gjson.GetBytes(body, "assets").ForEach(func(_, r gjson.Result) bool {
			out = append(out, parseAsset(r))
			return true
		})

		cursor = gjson.GetBytes(body, "nextCursor").String()
		if cursor == "" {
			return out, nil
		}
	}
}

func parseAsset(r gjson.Result) assets.Asset {
	a := assets.Asset{
		ID:           r.Get("id").String(),
		Name:         r.Get("name").String(),
		Type:         r.Get("type").String(),
		CategoryID:   r.Get("categoryId").String(),
		SeriesID:     r.Get("seriesId").String(),
		SeriesName:   r.Get("seriesName").String(),
		SizeCategory: r.Get("sizeCategory").String(),
		Dir:          r.Get("folder").String(),
		PreviewURL:   r.Get("previewUrl").String(),
		DownloadURL:  r.Get("downloadUrl").String(),
		FileSize:     r.Get("fileSize").Int(),
		Source:       "library",
	}
	r.Get("categoryPath").ForEach(func(_, p gjson.Result) bool {
		// The service ships path entries as {id, name}; only ids matter
		// for descendant matching.
		a.CategoryPath = append(a.CategoryPath, p.Get("id").String())
		return true
	})
	r.Get("tags").ForEach(func(_, tag gjson.Result) bool {
		a.Tags = append(a.Tags, tag.String())
		return true
	})
	r.Get("tagIds").ForEach(func(_, tag gjson.Result) bool {
		a.TagIDs = append(a.TagIDs, tag.String())
		return true
	})
	a.Provider = assets.DeriveProvider(a)
	return a
}
