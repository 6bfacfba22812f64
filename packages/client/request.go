package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	neturl "net/url"
	"time"
)

// ValidMethods is the set of HTTP methods the client dispatches.
var ValidMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Request is a fully-built request ready for the pipeline. Requests are
// built fresh per call and never reused across redirect hops; the engine
// derives a new one for each hop.
type Request struct {
	Method      string
	URL         *neturl.URL
	Header      http.Header
	Body        []byte
	ContentType string
	Timeout     time.Duration // per-request override, zero means client default
}

// Clone returns a deep copy so middleware and redirect hops cannot alias
// each other's headers or body.
func (r *Request) Clone() *Request {
	nr := &Request{
		Method:      r.Method,
		Header:      r.Header.Clone(),
		ContentType: r.ContentType,
		Timeout:     r.Timeout,
	}
	if r.URL != nil {
		u := *r.URL
		nr.URL = &u
	}
	if r.Body != nil {
		nr.Body = make([]byte, len(r.Body))
		copy(nr.Body, r.Body)
	}
	return nr
}

// RequestBuilder accumulates a single request. Errors from builder calls
// (bad JSON, bad URL) are deferred until Send so call chains stay clean.
type RequestBuilder struct {
	client  *Client
	method  string
	url     string
	header  http.Header
	query   neturl.Values
	body    []byte
	ctype   string
	timeout time.Duration
	err     error
}

func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.header.Add(key, value)
	return b
}

func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	if b.query == nil {
		b.query = make(neturl.Values)
	}
	b.query.Set(key, value)
	return b
}

// Body sets a raw body with its declared content type. The content type
// is attached at dispatch only when no explicit Content-Type header was
// set.
func (b *RequestBuilder) Body(body []byte, contentType string) *RequestBuilder {
	b.body = body
	b.ctype = contentType
	return b
}

func (b *RequestBuilder) Text(body string) *RequestBuilder {
	return b.Body([]byte(body), "text/plain; charset=utf-8")
}

// JSON marshals v as the request body with an application/json content
// type.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	return b.Body(data, "application/json")
}

// Form sets a URL-encoded form body.
func (b *RequestBuilder) Form(data neturl.Values) *RequestBuilder {
	return b.Body([]byte(data.Encode()), "application/x-www-form-urlencoded")
}

func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	b.header.Set("Authorization", "Basic "+creds)
	return b
}

func (b *RequestBuilder) BearerAuth(token string) *RequestBuilder {
	b.header.Set("Authorization", "Bearer "+token)
	return b
}

func (b *RequestBuilder) Timeout(d time.Duration) *RequestBuilder {
	b.timeout = d
	return b
}

// Build validates the URL and produces the immutable Request.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.err != nil {
		return nil, &Error{Kind: KindInvalidRequest, URL: b.url, Err: b.err}
	}
	if !ValidMethods[b.method] {
		return nil, &Error{Kind: KindInvalidRequest, URL: b.url, Err: errInvalidMethod(b.method)}
	}

	u, err := b.client.resolveURL(b.url)
	if err != nil {
		return nil, err
	}

	if b.query != nil {
		q := u.Query()
		for k, vs := range b.query {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return &Request{
		Method:      b.method,
		URL:         u,
		Header:      b.header.Clone(),
		Body:        b.body,
		ContentType: b.ctype,
		Timeout:     b.timeout,
	}, nil
}

// Send builds the request and runs it through the redirect engine.
func (b *RequestBuilder) Send(ctx context.Context) (*Response, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.Do(ctx, req)
}

func (c *Client) resolveURL(raw string) (*neturl.URL, error) {
	u, err := neturl.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, URL: raw, Err: err}
	}

	if c.baseURL != nil && !u.IsAbs() {
		u = c.baseURL.ResolveReference(u)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &Error{Kind: KindInvalidRequest, URL: raw,
			Err: fmt.Errorf("unsupported URL scheme %q (only http and https are allowed)", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &Error{Kind: KindInvalidRequest, URL: raw,
			Err: errors.New("URL must have a host")}
	}
	return u, nil
}

func errInvalidMethod(method string) error {
	return fmt.Errorf("unsupported method %q", method)
}
