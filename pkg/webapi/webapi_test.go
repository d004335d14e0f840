package webapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Custom"); got != "yes" {
			t.Errorf("custom header not forwarded, got %q", got)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	body, err := c.Get(context.Background(), srv.URL, Header{Name: "X-Custom", Value: "yes"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestGetErrorIncludesHTMLTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html><head><title>Maintenance window</title></head><body>down</body></html>"))
	}))
	defer srv.Close()

	c, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Retries make 5xx slow; drop them for the failure-path test.
	c.http.RetryMax = 0

	_, err = c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), "Maintenance window") {
		t.Fatalf("error should carry the page title, got: %v", err)
	}
}

func TestNewRejectsBadProxy(t *testing.T) {
	if _, err := New("://not-a-url"); err == nil {
		t.Fatal("expected error for malformed proxy url")
	}
}

func TestHTMLTitle(t *testing.T) {
	if got := HTMLTitle("<html><head><title>  Hi\nthere </title></head></html>"); got != "Hithere" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := HTMLTitle(`{"not":"html"}`); got != "" {
		t.Fatalf("expected empty title for JSON, got %q", got)
	}
}
