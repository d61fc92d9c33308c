// Package tooldir turns a tool-directory integration into invocable tools.
//
// Load fetches the integration descriptor and its OpenAPI document from the
// registry and merges them. Loader.Tools compiles one Tool per (path, method),
// and Tool.Invoke performs the HTTP call.
package tooldir

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/spec"
)

// maxDocumentSize caps registry documents.
const maxDocumentSize = 10 << 20

// Loader owns one fetched integration and its merged specification.
type Loader struct {
	name           string
	language       string
	integrationURL string
	integration    *spec.Integration
	doc            *spec.Document
	opts           []Option
	logger         *common.Logger
}

// IntegrationURL returns the registry URL of the integration descriptor.
func IntegrationURL(registryURL, name string) string {
	return registryURL + "/integrations/" + url.PathEscape(name) + "/integration.yaml"
}

// Load fetches integration name from the registry and merges its overlay,
// translated to language, into the OpenAPI document it references.
//
// A 404 for the descriptor returns *NotFoundError. Any other non-2xx
// response, for the descriptor or the document, returns *TransportError.
// Nothing is cached: every call fetches both documents.
func Load(ctx context.Context, name, language string, opts ...Option) (*Loader, error) {
	o := newOptions(opts)
	integrationURL := IntegrationURL(o.registryURL, name)

	body, status, err := fetch(ctx, o, integrationURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &NotFoundError{URL: integrationURL}
	}
	if status < 200 || status >= 300 {
		return nil, newTransportError(http.MethodGet, integrationURL, status, body)
	}

	integration, err := spec.ParseIntegration(body)
	if err != nil {
		return nil, fmt.Errorf("integration %s: %w", name, err)
	}
	if integration.OpenAPI == "" {
		return nil, fmt.Errorf("integration %s has no openApi reference", name)
	}

	specURL, err := resolveReference(integrationURL, integration.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("integration %s: invalid openApi reference %q: %w", name, integration.OpenAPI, err)
	}

	body, status, err = fetch(ctx, o, specURL)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, newTransportError(http.MethodGet, specURL, status, body)
	}

	doc, err := spec.ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("integration %s: %w", name, err)
	}
	for _, ref := range doc.UnresolvedRefs {
		o.logger.Warn().Str("integration", name).Str("ref", ref).Msg("dropping unresolved parameter reference")
	}

	spec.Merge(doc, integration, language, o.logger)

	o.logger.Info().
		Str("integration", name).
		Str("language", language).
		Str("openapi_url", specURL).
		Int("operations", doc.OperationCount()).
		Msg("integration loaded")

	return &Loader{
		name:           name,
		language:       language,
		integrationURL: integrationURL,
		integration:    integration,
		doc:            doc,
		opts:           opts,
		logger:         o.logger,
	}, nil
}

// Name returns the integration name.
func (l *Loader) Name() string { return l.name }

// Language returns the language descriptions were translated to.
func (l *Loader) Language() string { return l.language }

// IntegrationURL returns where the descriptor was fetched from.
func (l *Loader) IntegrationURL() string { return l.integrationURL }

// Integration returns the fetched descriptor.
func (l *Loader) Integration() *spec.Integration { return l.integration }

// Spec returns the merged specification.
func (l *Loader) Spec() *spec.Document { return l.doc }

// Tools compiles a fresh set of tools carrying parameters as constants.
func (l *Loader) Tools(parameters map[string]string) ([]*Tool, error) {
	return Compile(l.doc, l.integration, l.language, parameters, l.opts...)
}

// Compile builds one Tool per (path, method) of doc, in document order.
// Every tool is bound to the first server of doc.
func Compile(doc *spec.Document, integration *spec.Integration, language string, parameters map[string]string, opts ...Option) ([]*Tool, error) {
	description := ""
	if integration != nil {
		description = spec.Translate(integration.Description, language)
	}
	server := doc.ServerURL()

	tools := make([]*Tool, 0, doc.OperationCount())
	for _, item := range doc.Paths {
		for _, op := range item.Operations {
			endpoint, err := NewEndpoint(item, op)
			if err != nil {
				return nil, err
			}
			tools = append(tools, NewTool(description, server, endpoint, parameters, opts...))
		}
	}
	return tools, nil
}

func fetch(ctx context.Context, o *options, target string) ([]byte, int, error) {
	o.logger.Debug().Str("url", target).Msg("registry request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	resp, err := o.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		o.logger.Error().Str("url", target).Int64("duration_ms", duration.Milliseconds()).Err(err).Msg("registry request failed")
		return nil, 0, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read registry response: %w", err)
	}

	o.logger.Debug().Str("url", target).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("registry response")
	return body, resp.StatusCode, nil
}

func resolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
