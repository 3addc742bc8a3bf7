package page_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bjornaugestad/highlander-go/filecache"
	"github.com/bjornaugestad/highlander-go/httpproto"
	"github.com/bjornaugestad/highlander-go/page"
)

func newRegistry(t *testing.T, docRoot string, canReadFiles bool) *page.Registry {
	t.Helper()
	cache, err := filecache.New(1<<20, 16)
	if err != nil {
		t.Fatal(err)
	}
	return page.NewRegistry(cache, docRoot, canReadFiles, 0)
}

func TestExactMatchWinsOverPrefix(t *testing.T) {
	r := newRegistry(t, "", false)

	if err := r.AddPage("/a/", func(req *httpproto.Request, resp *httpproto.Response) int {
		return 201
	}, page.Attributes{}); err != nil {
		t.Fatal(err)
	}
	if err := r.AddPage("/a/b", func(req *httpproto.Request, resp *httpproto.Response) int {
		return 202
	}, page.Attributes{}); err != nil {
		t.Fatal(err)
	}

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/a/b"}, resp)
	if status != 202 {
		t.Fatalf("status = %d, want 202 (exact match)", status)
	}
}

func TestLongestPrefixWins(t *testing.T) {
	r := newRegistry(t, "", false)

	_ = r.AddPage("/a/", func(req *httpproto.Request, resp *httpproto.Response) int { return 201 }, page.Attributes{})
	_ = r.AddPage("/a/b/", func(req *httpproto.Request, resp *httpproto.Response) int { return 202 }, page.Attributes{})

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/a/b/c"}, resp)
	if status != 202 {
		t.Fatalf("status = %d, want 202 (longest prefix)", status)
	}
}

func TestMissingPageReturns404WithMinimalBody(t *testing.T) {
	r := newRegistry(t, "", false)

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/nope"}, resp)
	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if resp.Len() == 0 {
		t.Fatal("expected a minimal body for 404")
	}
}

func TestStaticFileServedFromCacheAfterStart(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.gif"), make([]byte, 37), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newRegistry(t, dir, false)
	if err := r.AddFile("/logo.gif", filepath.Join(dir, "logo.gif"), page.Attributes{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/logo.gif"}, resp)
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.Len() != 37 {
		t.Fatalf("body length = %d, want 37", resp.Len())
	}
}

func TestDocRootFallbackWhenCanReadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newRegistry(t, dir, true)

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/style.css"}, resp)
	if status != 200 {
		t.Fatalf("status = %d, want 200 from doc-root fallback", status)
	}
}

func TestAuthRequiredRejectsMissingCredentials(t *testing.T) {
	r := newRegistry(t, "", false)

	_ = r.AddPage("/admin", func(req *httpproto.Request, resp *httpproto.Response) int {
		return 200
	}, page.Attributes{
		AuthRequired: true,
		CheckCreds:   func(user, pass string) bool { return user == "root" && pass == "secret" },
	})

	resp := httpproto.NewResponse()
	status := r.Dispatch(&httpproto.Request{Method: httpproto.MethodGet, Path: "/admin", Header: nil}, resp)
	if status != 401 {
		t.Fatalf("status = %d, want 401 without credentials", status)
	}
}
