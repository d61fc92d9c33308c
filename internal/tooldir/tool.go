package tooldir

import (
	"fmt"
	"maps"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bobmcallan/tool-directory/internal/common"
)

// toolDescriptionFormat is consumed verbatim by downstream agents.
const toolDescriptionFormat = "Description: %s\nEndpoint: %s %s %s"

var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Tool is one invocable endpoint bound to a server and to constant
// parameters. A Tool is immutable and safe for concurrent Invoke calls.
type Tool struct {
	Name        string
	Description string
	Server      string
	Endpoint    *Endpoint
	// Parameters are sent with every request and override caller arguments.
	Parameters map[string]string

	client HTTPDoer
	logger *common.Logger
}

// NewTool binds endpoint to server. description is the integration
// description that heads the tool description.
func NewTool(description, server string, endpoint *Endpoint, parameters map[string]string, opts ...Option) *Tool {
	o := newOptions(opts)
	escaped := EscapePath(endpoint.Path)
	method := strings.ToUpper(endpoint.Method)

	if parameters == nil {
		parameters = map[string]string{}
	}

	return &Tool{
		Name:        fmt.Sprintf("%s %s%s", method, server, escaped),
		Description: fmt.Sprintf(toolDescriptionFormat, description, method, escaped, endpoint.Description),
		Server:      server,
		Endpoint:    endpoint,
		Parameters:  maps.Clone(parameters),
		client:      o.client,
		logger:      o.logger,
	}
}

// EscapePath rewrites every {name} placeholder as :name.
func EscapePath(path string) string {
	return placeholderPattern.ReplaceAllString(path, ":$1")
}

// Option configures loaders and tools.
type Option func(*options)

type options struct {
	registryURL string
	client      HTTPDoer
	logger      *common.Logger
}

// DefaultRegistryURL is the public tool directory.
const DefaultRegistryURL = "https://tool-directory.dialogplay.jp"

// defaultTimeout applies only to the client created when none is supplied.
const defaultTimeout = 60 * time.Second

func newOptions(opts []Option) *options {
	o := &options{registryURL: DefaultRegistryURL}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: defaultTimeout}
	}
	if o.logger == nil {
		o.logger = common.NewSilentLogger()
	}
	return o
}

// WithRegistryURL points the loader at another registry.
func WithRegistryURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.registryURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient sets the transport used for registry fetches and tool calls.
func WithHTTPClient(client HTTPDoer) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
