package client

import (
	"net/http"
	neturl "net/url"
	"time"

	"github.com/mcohen01/rusttpx/packages/cookiejar"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
)

// Client owns the immutable request configuration and spawns request
// builders seeded with its defaults. A Client is safe for concurrent use;
// the cookie jar is the only mutable shared state and synchronizes
// internally.
type Client struct {
	transport      http.RoundTripper
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	defaultHeaders http.Header
	middlewares    []Middleware
	jar            *cookiejar.Jar
	baseURL        *neturl.URL
}

type ClientOption func(*Client)

// NewClient builds a Client. Options are applied once; the resulting
// configuration is frozen.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		defaultHeaders: make(http.Header),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = NewTransport()
	}
	if c.jar == nil {
		c.jar = cookiejar.New()
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

// WithMaxRedirects bounds the redirect chain. Zero disables following
// entirely.
func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders.Add(key, value)
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders.Set(k, v)
		}
	}
}

// WithUserAgent is shorthand for a User-Agent default header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders.Set("User-Agent", ua)
	}
}

// WithTransport replaces the transport capability. The transport must not
// follow redirects itself; the client's redirect engine owns that policy.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithCookieJar shares a jar between clients or seeds one with cookies.
func WithCookieJar(jar *cookiejar.Jar) ClientOption {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithMiddleware appends to the chain. Registration order is dispatch
// order for requests and reverse order for responses.
func WithMiddleware(m Middleware) ClientOption {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, m)
	}
}

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if u, err := neturl.Parse(base); err == nil {
			c.baseURL = u
		}
	}
}

// Jar exposes the session cookie jar.
func (c *Client) Jar() *cookiejar.Jar {
	return c.jar
}

func (c *Client) Get(url string) *RequestBuilder {
	return c.NewRequest(http.MethodGet, url)
}

func (c *Client) Post(url string) *RequestBuilder {
	return c.NewRequest(http.MethodPost, url)
}

func (c *Client) Put(url string) *RequestBuilder {
	return c.NewRequest(http.MethodPut, url)
}

func (c *Client) Delete(url string) *RequestBuilder {
	return c.NewRequest(http.MethodDelete, url)
}

func (c *Client) Patch(url string) *RequestBuilder {
	return c.NewRequest(http.MethodPatch, url)
}

func (c *Client) Head(url string) *RequestBuilder {
	return c.NewRequest(http.MethodHead, url)
}

func (c *Client) Options(url string) *RequestBuilder {
	return c.NewRequest(http.MethodOptions, url)
}

// NewRequest starts a builder for an arbitrary method. Builder calls
// mutate only the in-progress request, never the Client.
func (c *Client) NewRequest(method, url string) *RequestBuilder {
	return &RequestBuilder{
		client: c,
		method: method,
		url:    url,
		header: make(http.Header),
	}
}
