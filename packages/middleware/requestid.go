package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcohen01/rusttpx/packages/client"
)

// DefaultRequestIDHeader is where RequestID stamps its identifier.
const DefaultRequestIDHeader = "X-Request-Id"

// RequestID tags every dispatch with a fresh UUID so requests can be
// correlated with server-side logs. An identifier already present on the
// request is left alone.
type RequestID struct {
	header string
}

func NewRequestID() *RequestID {
	return &RequestID{header: DefaultRequestIDHeader}
}

// WithHeader changes the header name used for the identifier.
func (r *RequestID) WithHeader(name string) *RequestID {
	r.header = name
	return r
}

func (r *RequestID) ProcessRequest(_ context.Context, req *client.Request) (*client.Request, error) {
	if req.Header.Get(r.header) == "" {
		req.Header.Set(r.header, uuid.NewString())
	}
	return req, nil
}

func (r *RequestID) ProcessResponse(_ context.Context, resp *client.Response) (*client.Response, error) {
	return resp, nil
}
