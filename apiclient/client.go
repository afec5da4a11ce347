// Package apiclient is the console's HTTP layer over the remote
// enrollment services. Each Client is bound to one base URL; every
// outgoing request asks the TokenSource for the current bearer token and
// attaches it when present. Requests without a token go out
// unauthenticated and the service is expected to reject them.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// TokenSource supplies the bearer token for an outgoing request, usually
// from the session carried in the request context. An empty string means
// no token.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts a function to a TokenSource.
type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// NoToken is a TokenSource that never supplies a token.
var NoToken = TokenSourceFunc(func(context.Context) string { return "" })

// Client issues JSON requests against a single service base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the service at baseURL. tokens may be NoToken
// for services addressed before authentication.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	bearer string
	query  url.Values
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

// WithBearer sends an explicit token instead of consulting the
// TokenSource. The login flow uses this for the dependent profile fetch
// before a session exists.
func WithBearer(token string) RequestOption {
	return func(o *requestOptions) { o.bearer = token }
}

// WithQuery appends query parameters to the request URL.
func WithQuery(v url.Values) RequestOption {
	return func(o *requestOptions) { o.query = v }
}

// Get issues a GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with a JSON body, decoding any response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(ro.query) > 0 {
		u += "?" + ro.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	token := ro.bearer
	if token == "" {
		token = c.tokens.Token(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Keep context cancellation recognisable through the wrap.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "[Client.do] "+method+" "+u)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[Client.do] decode response body")
	}
	return nil
}
