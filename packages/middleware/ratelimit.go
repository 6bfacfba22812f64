package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/mcohen01/rusttpx/packages/client"
)

// RateLimit throttles outgoing dispatches with a token bucket. Blocking
// happens in ProcessRequest, before the transport is touched, and honors
// context cancellation.
type RateLimit struct {
	limiter *rate.Limiter
}

// NewRateLimit allows requestsPerSecond sustained with the given burst.
func NewRateLimit(requestsPerSecond float64, burst int) *RateLimit {
	return &RateLimit{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (r *RateLimit) ProcessRequest(ctx context.Context, req *client.Request) (*client.Request, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RateLimit) ProcessResponse(_ context.Context, resp *client.Response) (*client.Response, error) {
	return resp, nil
}
