package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

const requestTimeout = 30 * time.Second

// NetworkError reports a failed or malformed registry exchange.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("registry request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResolutionError reports registry metadata that cannot satisfy source
// verification: an unresolvable version, or a repository stanza that is
// missing, not git, or without a URL.
type ResolutionError struct {
	Package string
	Detail  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %s", e.Package, e.Detail)
}

// Client fetches packuments over HTTP. Requests are not retried; callers
// decide how a failed fetch affects the run.
type Client struct {
	baseURL string
	httpc   *http.Client
	tracer  trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different registry endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

// NewClient creates a registry client for the public npm registry unless
// overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
		tracer:  otel.Tracer("veripack/registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Packument fetches the registry document for a package. Transport failures,
// non-200 responses, and undecodable bodies all surface as *NetworkError.
func (c *Client) Packument(ctx context.Context, name string) (*Packument, error) {
	url := c.baseURL + "/" + packumentPath(name)

	ctx, span := c.tracer.Start(ctx, "registry.packument",
		trace.WithAttributes(attribute.String("package", name)))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.fail(span, url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.fail(span, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(span, url, fmt.Errorf("registry returned %s", resp.Status))
	}

	var doc Packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, c.fail(span, url, fmt.Errorf("decode packument: %w", err))
	}
	return &doc, nil
}

func (c *Client) fail(span trace.Span, url string, err error) error {
	nerr := &NetworkError{URL: url, Err: err}
	span.RecordError(nerr)
	span.SetStatus(codes.Error, nerr.Error())
	return nerr
}

// packumentPath escapes the slash in scoped package names; the registry
// expects @scope%2fname as a single path segment.
func packumentPath(name string) string {
	if strings.HasPrefix(name, "@") {
		return strings.Replace(name, "/", "%2f", 1)
	}
	return name
}
