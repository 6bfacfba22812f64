package client

import (
	"context"
	"net/http"
	neturl "net/url"
)

// redirectStatuses are the statuses the engine follows. Everything else
// in the 3xx range (304 in particular) is a terminal response.
var redirectStatuses = map[int]bool{
	http.StatusMovedPermanently:  true, // 301
	http.StatusFound:             true, // 302
	http.StatusSeeOther:          true, // 303
	http.StatusTemporaryRedirect: true, // 307
	http.StatusPermanentRedirect: true, // 308
}

// Do runs the request through the pipeline and follows redirects up to
// the configured hop limit. Hops execute strictly sequentially: hop N+1
// is never dispatched before hop N's response is fully classified.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	hop := 0
	for {
		resp, err := c.execute(ctx, req)
		if err != nil {
			if ce, ok := err.(*Error); ok && hop > 0 {
				ce.Hop = hop
			}
			return nil, err
		}

		if !c.followRedirect || c.maxRedirects <= 0 || !redirectStatuses[resp.StatusCode] {
			return resp, nil
		}

		hop++
		if hop > c.maxRedirects {
			return nil, &Error{
				Kind:     KindTooManyRedirects,
				URL:      req.URL.String(),
				Hop:      hop,
				Response: resp,
			}
		}

		next, err := c.redirectedRequest(req, resp, hop)
		if err != nil {
			return nil, err
		}
		req = next
	}
}

// redirectedRequest derives the follow-up request for one hop: Location
// resolution, the historical method-rewrite policy, and cross-origin
// credential stripping.
func (c *Client) redirectedRequest(req *Request, resp *Response, hop int) (*Request, error) {
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, &Error{
			Kind:     KindMissingLocation,
			URL:      req.URL.String(),
			Hop:      hop,
			Response: resp,
		}
	}

	loc, err := neturl.Parse(location)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, URL: location, Hop: hop, Err: err}
	}
	target := req.URL.ResolveReference(loc)

	next := &Request{
		Method:      req.Method,
		URL:         target,
		Header:      req.Header.Clone(),
		Body:        req.Body,
		ContentType: req.ContentType,
		Timeout:     req.Timeout,
	}

	// 303 always rewrites to GET; 301/302 rewrite everything but
	// GET/HEAD. 307/308 preserve method and body byte-for-byte.
	switch resp.StatusCode {
	case http.StatusSeeOther:
		if next.Method != http.MethodHead {
			next.Method = http.MethodGet
		}
		next.dropBody()
	case http.StatusMovedPermanently, http.StatusFound:
		if next.Method != http.MethodGet && next.Method != http.MethodHead {
			next.Method = http.MethodGet
			next.dropBody()
		}
	}

	// Credentials never cross origins on a redirect.
	if req.URL.Host != target.Host {
		next.Header.Del("Authorization")
		next.Header.Del("Cookie")
	}

	return next, nil
}

func (r *Request) dropBody() {
	r.Body = nil
	r.ContentType = ""
	r.Header.Del("Content-Type")
	r.Header.Del("Content-Length")
}
