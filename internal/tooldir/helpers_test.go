package tooldir

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/bobmcallan/tool-directory/internal/spec"
)

// newTestRegistry serves files under testdata by request path and answers
// 404 for anything else.
func newTestRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(filepath.Join("testdata", filepath.FromSlash(r.URL.Path)))
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// recordedRequest is what a fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

// fakeAPI records requests and answers with a fixed status and body.
type fakeAPI struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(raw),
		})
		api.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)
	return api
}

func (a *fakeAPI) history() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]recordedRequest, len(a.requests))
	copy(out, a.requests)
	return out
}

// newTestEndpoint builds an endpoint whose schema holds every name in source.
func newTestEndpoint(method, path string, source map[string]string, required ...string) *Endpoint {
	req := map[string]bool{}
	for _, name := range required {
		req[name] = true
	}
	var params []*spec.Parameter
	for _, name := range sortedKeys(source) {
		params = append(params, &spec.Parameter{Name: name, In: source[name], Required: req[name]})
	}
	return &Endpoint{
		Method:      method,
		Path:        path,
		Description: "Endpoint description",
		ArgsSchema:  BuildSchema(params),
		ArgsSource:  source,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
