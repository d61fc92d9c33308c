package tooldir

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bobmcallan/tool-directory/internal/common"
)

func TestInvoke_GetRequest(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"result": "dummy"}`)
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"api_key": "query", "query": "query"})
	tool := NewTool("Integration description", api.URL, endpoint, map[string]string{"api_key": "dummy"})

	result, err := tool.Invoke(context.Background(), map[string]any{"query": "dummy query"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !reflect.DeepEqual(result, map[string]any{"result": "dummy"}) {
		t.Errorf("unexpected result %#v", result)
	}

	history := api.history()
	if len(history) != 1 {
		t.Fatalf("expected 1 request, got %d", len(history))
	}
	req := history[0]
	if req.Method != http.MethodGet || req.Path != "/dummy" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	expected := map[string][]string{"api_key": {"dummy"}, "query": {"dummy query"}}
	if !reflect.DeepEqual(req.Query, expected) {
		t.Errorf("expected query %v, got %v", expected, req.Query)
	}
}

func TestInvoke_PlainTextResponse(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, "result is plain text")
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"query": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{})

	result, err := tool.Invoke(context.Background(), map[string]any{"query": "dummy query"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != "result is plain text" {
		t.Errorf("expected plain text, got %#v", result)
	}
}

func TestInvoke_HeaderParameters(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, "result is plain text")
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"query": "query", "authorization": "header"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"authorization": "Bearer dummy"})

	if _, err := tool.Invoke(context.Background(), map[string]any{"query": "dummy query"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	req := api.history()[0]
	if req.Header.Get("Authorization") != "Bearer dummy" {
		t.Errorf("expected authorization header, got %q", req.Header.Get("Authorization"))
	}
	expected := map[string][]string{"query": {"dummy query"}}
	if !reflect.DeepEqual(req.Query, expected) {
		t.Errorf("header parameters must not reach the query, got %v", req.Query)
	}
}

func TestInvoke_PostRequest(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"result": "dummy"}`)
	endpoint := newTestEndpoint("post", "/dummy", map[string]string{"api_key": "query", "query": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"api_key": "dummy"})

	result, err := tool.Invoke(context.Background(), map[string]any{"query": "dummy query"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if !reflect.DeepEqual(result, map[string]any{"result": "dummy"}) {
		t.Errorf("unexpected result %#v", result)
	}

	history := api.history()
	if len(history) != 1 {
		t.Fatalf("expected 1 request, got %d", len(history))
	}
	req := history[0]
	if req.Method != http.MethodPost || req.Path != "/dummy" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Body != "api_key=dummy&query=dummy+query" {
		t.Errorf("unexpected form body %q", req.Body)
	}
	if req.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type %q", req.Header.Get("Content-Type"))
	}
	if len(req.Query) != 0 {
		t.Errorf("POST must not send a query, got %v", req.Query)
	}
}

func TestInvoke_PathParameter(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"result": "dummy"}`)
	endpoint := newTestEndpoint("get", "/dummy/{id}", map[string]string{"id": "path", "api_key": "query", "query": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"api_key": "dummy"})

	if _, err := tool.Invoke(context.Background(), map[string]any{"id": "42", "query": "dummy query"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	req := api.history()[0]
	if req.Path != "/dummy/42" {
		t.Errorf("expected /dummy/42, got %s", req.Path)
	}
	expected := map[string][]string{"api_key": {"dummy"}, "query": {"dummy query"}}
	if !reflect.DeepEqual(req.Query, expected) {
		t.Errorf("path parameters must not reach the query, got %v", req.Query)
	}
}

func TestInvoke_PathParameterIsEscaped(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	endpoint := newTestEndpoint("get", "/files/{name}", map[string]string{"name": "path"})
	tool := NewTool("d", api.URL, endpoint, nil)

	if _, err := tool.Invoke(context.Background(), map[string]any{"name": "a b/c"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got := api.history()[0].Path; got != "/files/a b/c" {
		t.Errorf("expected decoded path /files/a b/c, got %s", got)
	}
}

func TestInvoke_UnsupportedMethod(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	endpoint := newTestEndpoint("patch", "/dummy", map[string]string{"query": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"api_key": "dummy"})

	result, err := tool.Invoke(context.Background(), map[string]any{"query": "dummy query"})
	if err != nil {
		t.Fatalf("unsupported method must not fail, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %#v", result)
	}
	if n := len(api.history()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestInvoke_ConstantsWinOnCollision(t *testing.T) {
	for _, method := range []string{"get", "post"} {
		t.Run(method, func(t *testing.T) {
			api := newFakeAPI(t, http.StatusOK, `{}`)
			endpoint := newTestEndpoint(method, "/dummy", map[string]string{"api_key": "query", "q": "query"})
			tool := NewTool("d", api.URL, endpoint, map[string]string{"api_key": "secret"})

			_, err := tool.Invoke(context.Background(), map[string]any{"api_key": "spoofed", "q": "x"})
			if err != nil {
				t.Fatalf("Invoke failed: %v", err)
			}

			req := api.history()[0]
			sent := req.Query
			if method == "post" {
				sent = map[string][]string{}
				for _, pair := range strings.Split(req.Body, "&") {
					k, v, _ := strings.Cut(pair, "=")
					sent[k] = append(sent[k], v)
				}
			}
			if !reflect.DeepEqual(sent["api_key"], []string{"secret"}) {
				t.Errorf("expected constant api_key, got %v", sent["api_key"])
			}
		})
	}
}

func TestInvoke_UnknownArgumentsAreNotSent(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"q": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"appid": "key"})

	if _, err := tool.Invoke(context.Background(), map[string]any{"q": "x", "injected": "y"}); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	expected := map[string][]string{"q": {"x"}, "appid": {"key"}}
	if got := api.history()[0].Query; !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestInvoke_TransportError(t *testing.T) {
	api := newFakeAPI(t, http.StatusInternalServerError, "boom")
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"q": "query"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"appid": "secret"})

	_, err := tool.Invoke(context.Background(), map[string]any{"q": "x"})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusInternalServerError || te.Body != "boom" || te.Method != http.MethodGet {
		t.Errorf("unexpected error fields %+v", te)
	}
	if strings.Contains(te.Error(), "secret") {
		t.Errorf("error must not leak query credentials: %s", te.Error())
	}
}

func TestInvoke_MissingPathParameter(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	endpoint := newTestEndpoint("get", "/dummy/{id}", map[string]string{"id": "path"})
	tool := NewTool("d", api.URL, endpoint, nil)

	_, err := tool.Invoke(context.Background(), map[string]any{})
	var mpe *MissingPathParameterError
	if !errors.As(err, &mpe) || mpe.Name != "id" {
		t.Fatalf("expected MissingPathParameterError for id, got %v", err)
	}
	if n := len(api.history()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestInvoke_ValidationError(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	endpoint := newTestEndpoint("get", "/dummy", map[string]string{"q": "query"}, "q")
	tool := NewTool("d", api.URL, endpoint, nil)

	_, err := tool.Invoke(context.Background(), map[string]any{})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "q" {
		t.Fatalf("expected ValidationError for q, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "GET ") {
		t.Errorf("expected the tool name in the error, got %q", err.Error())
	}
}

func TestInvoke_ConnectionFailure(t *testing.T) {
	endpoint := newTestEndpoint("get", "/dummy", nil)
	tool := NewTool("d", "http://127.0.0.1:1", endpoint, nil)

	_, err := tool.Invoke(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
	var te *TransportError
	if errors.As(err, &te) {
		t.Errorf("connection failures are not TransportErrors: %v", err)
	}
}

func TestInvoke_Concurrent(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"ok": true}`)
	endpoint := newTestEndpoint("get", "/dummy/{id}", map[string]string{"id": "path"})
	tool := NewTool("d", api.URL, endpoint, map[string]string{"appid": "key"})

	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(n int) {
			_, err := tool.Invoke(context.Background(), map[string]any{"id": float64(n)})
			errs <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Invoke failed: %v", err)
		}
	}
	if n := len(api.history()); n != 20 {
		t.Errorf("expected 20 requests, got %d", n)
	}
}

func TestDecodeResult(t *testing.T) {
	if got := decodeResult([]byte(`{"result":"dummy"}`)); !reflect.DeepEqual(got, map[string]any{"result": "dummy"}) {
		t.Errorf("unexpected structured result %#v", got)
	}
	if got := decodeResult([]byte(`"plain text"`)); got != "plain text" {
		t.Errorf("unexpected JSON string result %#v", got)
	}
	if got := decodeResult([]byte(`plain text`)); got != "plain text" {
		t.Errorf("unexpected text result %#v", got)
	}
	if got := decodeResult(nil); got != "" {
		t.Errorf("expected empty string for empty body, got %#v", got)
	}
}

func TestCorrelationID_FromContext(t *testing.T) {
	ctx := common.ContextWithCorrelationID(context.Background(), "req-7")
	if got := correlationID(ctx); got != "req-7" {
		t.Errorf("expected the inbound correlation id, got %q", got)
	}
}

func TestCorrelationID_GeneratedWhenAbsent(t *testing.T) {
	first := correlationID(context.Background())
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a generated uuid, got %q: %v", first, err)
	}
	if second := correlationID(context.Background()); second == first {
		t.Error("expected a fresh id per call")
	}
}

func TestInvoke_WithCorrelatedContext(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"ok":true}`)
	tool := NewTool("d", api.URL, newTestEndpoint("get", "/ping", nil), nil)

	ctx := common.ContextWithCorrelationID(context.Background(), "req-8")
	if _, err := tool.Invoke(ctx, nil); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if len(api.history()) != 1 {
		t.Errorf("expected one request, got %d", len(api.history()))
	}
}
