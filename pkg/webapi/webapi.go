// Package webapi wraps the HTTP plumbing shared by remote catalog
// sources: a retrying client with sane defaults and an error path that
// surfaces the <title> of HTML error pages, which is usually the only
// useful diagnostic a misbehaving service returns.
package webapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

const userAgent = "assetcat (+https://github.com/harmonyedit/assetcat)"

// Header is one custom request header.
type Header struct {
	Name  string
	Value string
}

// Client is a thin JSON-oriented fetch helper over retryablehttp.
type Client struct {
	http *retryablehttp.Client
}

// New builds a client. proxy may be empty; a bad proxy URL is an error at
// construction rather than a silent direct connection.
func New(proxy string) (*Client, error) {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil // retry chatter goes through our own logging, not stdlib log

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", proxy, err)
		}
		rc.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return &Client{http: rc}, nil
}

// Get fetches a URL and returns the body. Non-2xx responses become
// errors; when the error body is an HTML page its title is included.
func (c *Client) Get(ctx context.Context, rawURL string, headers ...Header) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.5")
	req.Header.Set("Accept-Language", "en")
	for _, h := range headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if title := HTMLTitle(string(body)); title != "" {
			return nil, fmt.Errorf("GET %s: status %d (%s)", rawURL, resp.StatusCode, title)
		}
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	return body, nil
}

// HTMLTitle extracts the trimmed, newline-free <title> of an HTML
// document, or "" when there is none.
func HTMLTitle(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	title, _ := findTitle(doc)
	title = strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")
	return strings.ToValidUTF8(strings.TrimSpace(title), "")
}

func findTitle(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title, ok := findTitle(c); ok {
			return title, ok
		}
	}
	return "", false
}
