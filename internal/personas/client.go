// Package personas is a client for the Personas MCP server. It speaks
// both of the server's calling conventions: JSON-RPC tools/call
// envelopes POSTed to the MCP endpoint, and plain REST GETs against
// the resource API. All persona content is pass-through; scoring and
// recommendation logic live entirely on the server.
package personas

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Screener inspects a tool call's arguments before they leave the
// process. A non-nil error aborts the call locally.
type Screener interface {
	Screen(tool string, arguments map[string]interface{}) error
}

// Client wraps one reusable HTTP session against a Personas server.
//
// Not safe for concurrent use: the request-id counter is plain state,
// matching the strictly sequential calling pattern this client serves.
type Client struct {
	mcpURL     string
	apiURL     string
	healthURL  string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger
	screener   Screener
	requestID  int64
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientID sets the correlation id sent as X-Client-ID.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithScreener installs an outbound-argument screener for tool calls.
func WithScreener(s Screener) Option {
	return func(c *Client) { c.screener = s }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the given MCP, REST and health
// endpoints. Trailing slashes on the REST base are trimmed so paths
// can be joined naively.
func NewClient(mcpURL, apiURL, healthURL string, opts ...Option) *Client {
	c := &Client{
		mcpURL:    mcpURL,
		apiURL:    strings.TrimRight(apiURL, "/"),
		healthURL: healthURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// nextRequestID increments the per-client counter and returns the new
// value. The first call on a fresh client returns 1.
func (c *Client) nextRequestID() int64 {
	c.requestID++
	return c.requestID
}
