package testsupport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"wikiepisodes/internal/mediawiki"
)

// WikiServer serves a FakeWiki over the MediaWiki action=parse JSON API.
type WikiServer struct {
	*httptest.Server
	requests atomic.Int64

	mu       sync.Mutex
	sections map[string]int
}

// APIURL returns the api.php endpoint of the server.
func (s *WikiServer) APIURL() string {
	return s.URL + "/w/api.php"
}

// Requests reports how many API requests the server has answered.
func (s *WikiServer) Requests() int64 {
	return s.requests.Load()
}

// SectionRequests reports how many requests carried the given section parameter.
func (s *WikiServer) SectionRequests(section mediawiki.SectionIndex) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[string(section)]
}

// ServeFakeWiki starts an HTTP server backed by wiki and registers cleanup.
func ServeFakeWiki(t testing.TB, wiki *FakeWiki) *WikiServer {
	t.Helper()
	srv := &WikiServer{sections: make(map[string]int)}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.requests.Add(1)
		q := r.URL.Query()
		if q.Get("action") == "query" && q.Get("meta") == "siteinfo" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"query":{"general":{"sitename":"Fake wiki","generator":"MediaWiki test"}}}`))
			return
		}
		page := q.Get("page")
		section := mediawiki.SectionIndex(q.Get("section"))
		if q.Has("section") {
			srv.mu.Lock()
			srv.sections[string(section)]++
			srv.mu.Unlock()
		}

		parse := map[string]any{"title": page}
		var err error
		switch q.Get("prop") {
		case "sections":
			var sections []mediawiki.Section
			if sections, err = wiki.Sections(r.Context(), page); err == nil {
				out := make([]map[string]any, 0, len(sections))
				for _, s := range sections {
					out = append(out, map[string]any{"toclevel": s.Level, "line": s.Title, "number": s.Number, "index": string(s.Index)})
				}
				parse["sections"] = out
			}
		case "links":
			var links []mediawiki.Link
			if links, err = wiki.Links(r.Context(), page, section); err == nil {
				out := make([]map[string]any, 0, len(links))
				for _, l := range links {
					entry := map[string]any{"ns": l.Namespace, "*": l.Text}
					if l.Exists {
						entry["exists"] = ""
					}
					out = append(out, entry)
				}
				parse["links"] = out
			}
		case "wikitext":
			var markup string
			if markup, err = wiki.Wikitext(r.Context(), page, section); err == nil {
				parse["wikitext"] = map[string]string{"*": markup}
			}
		default:
			http.Error(w, "unsupported prop", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			var apiErr *mediawiki.APIError
			if !errors.As(err, &apiErr) {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": apiErr.Code, "info": apiErr.Info}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"parse": parse})
	}))
	t.Cleanup(srv.Close)
	return srv
}
