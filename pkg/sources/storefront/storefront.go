// Package storefront scrapes a vendor asset store's HTML index page into
// asset records. Stores rarely expose an API for their free tiers, so the
// listing cards are the interface: name, series, size tier, tag chips and
// the download/preview links.
package storefront

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/webapi"
)

// Client scrapes one storefront index page.
type Client struct {
	indexURL string
	http     *webapi.Client
}

// New builds a storefront source.
func New(indexURL string, client *webapi.Client) *Client {
	return &Client{indexURL: indexURL, http: client}
}

func (c *Client) Name() string { return "storefront" }

// FetchCategories returns nothing: storefronts organize by marketing
// collections, not the editor's category tree.
func (c *Client) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

// FetchAssets downloads the index page and parses its listing cards.
func (c *Client) FetchAssets(ctx context.Context) ([]assets.Asset, error) {
	body, err := c.http.Get(ctx, c.indexURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(c.indexURL)
	var out []assets.Asset
	doc.Find(".asset-card").Each(func(_ int, card *goquery.Selection) {
		a := assets.Asset{
			ID:           card.AttrOr("data-asset-id", ""),
			Name:         strings.TrimSpace(card.Find(".asset-name").First().Text()),
			Type:         card.AttrOr("data-asset-type", "model"),
			SeriesName:   strings.TrimSpace(card.Find(".asset-series").First().Text()),
			SizeCategory: strings.TrimSpace(card.Find(".asset-size").First().Text()),
			Source:       "storefront",
		}
		if a.ID == "" || a.Name == "" {
			return // decorative cards (ads, upsells) lack both
		}
		card.Find(".asset-tag").Each(func(_ int, chip *goquery.Selection) {
			if tag := strings.TrimSpace(chip.Text()); tag != "" {
				a.Tags = append(a.Tags, tag)
			}
		})
		if href, ok := card.Find("a.asset-download").First().Attr("href"); ok {
			a.DownloadURL = absolute(base, href)
		}
		if src, ok := card.Find("img.asset-preview").First().Attr("src"); ok {
			a.PreviewURL = absolute(base, src)
		}
		a.Provider = assets.DeriveProvider(a)
		out = append(out, a)
	})
	return out, nil
}

func absolute(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
