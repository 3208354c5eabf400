package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wikiepisodes/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWikiAPI_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("meta") != "siteinfo" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("User-Agent") != "preflight-test/1.0" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"query":{"general":{"sitename":"Wikipedia","generator":"MediaWiki 1.43"}}}`))
	}))
	defer srv.Close()

	result := CheckWikiAPI(context.Background(), srv.URL+"/w/api.php", "preflight-test/1.0", time.Second)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != "Wikipedia (MediaWiki 1.43)" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckWikiAPI_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	result := CheckWikiAPI(context.Background(), srv.URL, "", time.Second)
	if result.Passed {
		t.Fatal("expected failure for 403")
	}
}

func TestCheckWikiAPI_NotMediaWiki(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>hello</html>`))
	}))
	defer srv.Close()

	result := CheckWikiAPI(context.Background(), srv.URL, "", time.Second)
	if result.Passed {
		t.Fatal("expected failure for non-JSON response")
	}
}

func TestCheckWikiAPI_InvalidURL(t *testing.T) {
	result := CheckWikiAPI(context.Background(), "not a url", "", time.Second)
	if result.Passed {
		t.Fatal("expected failure for invalid url")
	}
}

func TestRunAllSkipsDisabledCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"general":{"sitename":"Test wiki"}}}`))
	}))
	defer srv.Close()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = base
	cfg.Paths.LogDir = base
	cfg.Cache.Enabled = false
	cfg.Wiki.APIURL = srv.URL

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Detail)
		}
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("nil config should yield no checks")
	}
}
