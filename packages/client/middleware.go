package client

import "context"

// Middleware intercepts a request before dispatch and a response after
// receipt. Implementations may return a modified copy or the input
// unchanged; returning an error aborts the whole pipeline call.
//
// The chain composes in the onion model: the first-registered middleware
// sees the outermost request and the innermost response. A chain pass
// happens once per physical dispatch, so each redirect hop runs the full
// chain again.
type Middleware interface {
	ProcessRequest(ctx context.Context, req *Request) (*Request, error)
	ProcessResponse(ctx context.Context, resp *Response) (*Response, error)
}

func (c *Client) applyRequestMiddleware(ctx context.Context, req *Request) (*Request, error) {
	for _, m := range c.middlewares {
		var err error
		req, err = m.ProcessRequest(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (c *Client) applyResponseMiddleware(ctx context.Context, resp *Response) (*Response, error) {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		var err error
		resp, err = c.middlewares[i].ProcessResponse(ctx, resp)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}
