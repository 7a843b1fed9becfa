package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/pagepeek/internal/extract"
	"github.com/hyperifyio/pagepeek/internal/fetch"
)

func newTestApp() *App {
	return New(Config{ListenAddr: ":0", CacheCapacity: 10})
}

// newPageServer serves small HTML fixtures keyed by path.
func newPageServer(pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
}

func doPeek(t *testing.T, h http.Handler, url string, force bool) (*httptest.ResponseRecorder, peekResponse) {
	t.Helper()
	body := fmt.Sprintf(`{"url":%q,"force":%t}`, url, force)
	req := httptest.NewRequest(http.MethodPost, "/api/peek", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp peekResponse
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w, resp
}

func TestPeekEndpoint_ExtractsAndCaches(t *testing.T) {
	srv := newPageServer(map[string]string{
		"/one": `<html><head><title>Page One</title></head><body><h1>Welcome here</h1></body></html>`,
	})
	defer srv.Close()

	h := newTestApp().Handler()

	w, resp := doPeek(t, h, srv.URL+"/one", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Record.Title != "Page One" {
		t.Fatalf("unexpected title %q", resp.Record.Title)
	}
	if resp.CacheHit {
		t.Fatalf("first request must not be a cache hit")
	}

	w, resp = doPeek(t, h, srv.URL+"/one", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", w.Code)
	}
	if !resp.CacheHit {
		t.Fatalf("repeat request must be served from cache")
	}
}

func TestPeekEndpoint_ForceBypassesCache(t *testing.T) {
	srv := newPageServer(map[string]string{
		"/p": `<html><head><title>Fresh</title></head><body></body></html>`,
	})
	defer srv.Close()

	h := newTestApp().Handler()
	doPeek(t, h, srv.URL+"/p", false)

	w, resp := doPeek(t, h, srv.URL+"/p", true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.CacheHit {
		t.Fatalf("force must bypass the cache lookup")
	}
}

func TestPeekEndpoint_InvalidRequests(t *testing.T) {
	h := newTestApp().Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/peek", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/peek", strings.NewReader("{"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", w.Code)
	}

	w, _ = doPeek(t, h, "ftp://example.com/x", false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid scheme, got %d", w.Code)
	}
}

func TestHistoryEndpoint_MostRecentFirstAndClear(t *testing.T) {
	srv := newPageServer(map[string]string{
		"/one": `<html><head><title>First Page</title></head><body></body></html>`,
		"/two": `<html><head><title>Second Page</title></head><body></body></html>`,
	})
	defer srv.Close()

	h := newTestApp().Handler()
	doPeek(t, h, srv.URL+"/one", false)
	doPeek(t, h, srv.URL+"/two", false)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var records []*extract.Record
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Second Page" || records[1].Title != "First Page" {
		t.Fatalf("expected most recent first, got %q then %q", records[0].Title, records[1].Title)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/history/clear", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	records = nil
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(records))
	}
}

func TestViewEndpoint_RendersRecord(t *testing.T) {
	srv := newPageServer(map[string]string{
		"/page": `<html><head><title>Viewable</title>
			<meta name="description" content="a page for the viewer test">
		</head><body><h1>Viewer heading</h1></body></html>`,
	})
	defer srv.Close()

	h := newTestApp().Handler()
	req := httptest.NewRequest(http.MethodGet, "/view?url="+srv.URL+"/page", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	html := w.Body.String()
	if !strings.Contains(html, "Viewable") {
		t.Fatalf("expected rendered title in view")
	}
	if !strings.Contains(html, "a page for the viewer test") {
		t.Fatalf("expected description in view")
	}
}

func TestViewEndpoint_MissingURLParam(t *testing.T) {
	h := newTestApp().Handler()
	req := httptest.NewRequest(http.MethodGet, "/view", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPeekEndpoint_UpstreamFailureMapsTo502(t *testing.T) {
	srv := newPageServer(nil) // every path is a 404
	defer srv.Close()

	h := newTestApp().Handler()
	w, _ := doPeek(t, h, srv.URL+"/missing", false)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for upstream 404, got %d", w.Code)
	}
}

func TestHTTPStatusFor_Categories(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fetch.ErrInvalidURL, http.StatusBadRequest},
		{fetch.ErrTimeout, http.StatusGatewayTimeout},
		{fetch.ErrUnsupportedContent, http.StatusUnsupportedMediaType},
		{fetch.ErrBadStatus, http.StatusBadGateway},
		{fetch.ErrUnreachable, http.StatusBadGateway},
		{ErrParse, http.StatusUnprocessableEntity},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := httpStatusFor(fmt.Errorf("wrapped: %w", tc.err)); got != tc.want {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestApp().Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
