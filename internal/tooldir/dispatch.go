package tooldir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/spec"
)

// maxResponseSize caps a tool response body.
const maxResponseSize = 50 << 20

// requestArgs is the argument set of one call, bucketed by location.
type requestArgs struct {
	path   map[string]string
	query  url.Values
	header http.Header
}

// Invoke calls the endpoint with args.
//
// Only GET and POST are dispatched. Any other method performs no request and
// returns (nil, nil). On success the result is the decoded JSON body, or the
// body as a string when it is not JSON. A non-2xx response returns a
// *TransportError.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	method := strings.ToUpper(t.Endpoint.Method)
	if method != http.MethodGet && method != http.MethodPost {
		t.logger.Warn().Str("tool", t.Name).Str("method", method).Msg("unsupported method, request skipped")
		return nil, nil
	}

	values, err := t.Endpoint.ArgsSchema.Validate(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}

	ra := t.partition(values)
	path, err := expandPath(t.Endpoint.Path, ra.path)
	if err != nil {
		return nil, err
	}
	target := t.Server + path

	var body io.Reader
	if method == http.MethodGet {
		if len(ra.query) > 0 {
			target += "?" + ra.query.Encode()
		}
	} else if len(ra.query) > 0 {
		body = strings.NewReader(ra.query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", t.Name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, vals := range ra.header {
		for _, v := range vals {
			req.Header.Add(name, v)
		}
	}

	return t.do(ctx, req)
}

// partition buckets validated caller arguments and constant parameters by
// location. Caller arguments outside ArgsSource are dropped; constants
// outside it go to the query. Constants win on collision.
func (t *Tool) partition(values map[string]string) requestArgs {
	ra := requestArgs{
		path:   map[string]string{},
		query:  url.Values{},
		header: http.Header{},
	}
	put := func(name, value, in string) {
		switch in {
		case spec.InPath:
			ra.path[name] = value
		case spec.InHeader:
			ra.header.Set(name, value)
		default:
			ra.query.Set(name, value)
		}
	}

	for name, value := range values {
		if in, ok := t.Endpoint.ArgsSource[name]; ok {
			put(name, value, in)
		}
	}
	for name, value := range t.Parameters {
		put(name, value, t.Endpoint.ArgsSource[name])
	}
	return ra
}

func (t *Tool) do(ctx context.Context, req *http.Request) (any, error) {
	logger := t.logger.WithCorrelationId(correlationID(ctx))
	logger.Debug().Str("tool", t.Name).Str("method", req.Method).Str("url", withoutQuery(req.URL)).Msg("tool request")

	start := time.Now()
	resp, err := t.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Str("tool", t.Name).Int64("duration_ms", duration.Milliseconds()).Err(err).Msg("tool request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("tool response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newTransportError(req.Method, withoutQuery(req.URL), resp.StatusCode, body)
	}
	return decodeResult(body), nil
}

// correlationID returns the id of the inbound request that triggered the
// call, or a fresh one for calls made outside an HTTP request.
func correlationID(ctx context.Context) string {
	if id := common.CorrelationIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

// decodeResult returns the JSON value of body, or body as text.
func decodeResult(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// expandPath substitutes {name} placeholders with escaped values.
func expandPath(template string, values map[string]string) (string, error) {
	var missing string
	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return url.PathEscape(v)
	})
	if missing != "" {
		return "", &MissingPathParameterError{Path: template, Name: missing}
	}
	return expanded, nil
}

// withoutQuery renders u without its query, which may carry credentials.
func withoutQuery(u *url.URL) string {
	stripped := *u
	stripped.RawQuery = ""
	stripped.User = nil
	return stripped.String()
}
