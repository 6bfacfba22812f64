package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// execute performs one physical dispatch: header merge, cookie
// injection, the middleware chain, the transport call under the
// effective deadline, and Set-Cookie ingestion. Redirects are the
// caller's concern.
func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	eff := req.Clone()

	// Client defaults fill gaps only; request-specific values win.
	for k, vs := range c.defaultHeaders {
		if len(eff.Header.Values(k)) == 0 {
			for _, v := range vs {
				eff.Header.Add(k, v)
			}
		}
	}

	if len(eff.Body) > 0 && eff.ContentType != "" && eff.Header.Get("Content-Type") == "" {
		eff.Header.Set("Content-Type", eff.ContentType)
	}

	if cookies := c.jar.Select(eff.URL); cookies != "" {
		if manual := eff.Header.Get("Cookie"); manual != "" {
			eff.Header.Set("Cookie", manual+"; "+cookies)
		} else {
			eff.Header.Set("Cookie", cookies)
		}
	}

	eff, err := c.applyRequestMiddleware(ctx, eff)
	if err != nil {
		return nil, &Error{Kind: KindMiddleware, URL: req.URL.String(), Err: err}
	}

	timeout := c.timeout
	if eff.Timeout > 0 {
		timeout = eff.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if len(eff.Body) > 0 {
		body = bytes.NewReader(eff.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, eff.Method, eff.URL.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, URL: eff.URL.String(), Err: err}
	}
	for k, vs := range eff.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = vs
	}

	start := time.Now()
	httpResp, err := c.transport.RoundTrip(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(ctx, eff, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.classifyTransportError(ctx, eff, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       respBody,
		URL:        eff.URL,
		Duration:   time.Since(start),
	}

	c.jar.Ingest(eff.URL, httpResp.Cookies())

	resp, err = c.applyResponseMiddleware(ctx, resp)
	if err != nil {
		return nil, &Error{Kind: KindMiddleware, URL: eff.URL.String(), Err: err}
	}

	return resp, nil
}

// classifyTransportError separates deadline expiry from network failure
// so callers can tell a slow server from an unreachable one.
func (c *Client) classifyTransportError(ctx context.Context, req *Request, err error) *Error {
	kind := KindTransport
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: req.URL.String(), Err: err}
}
