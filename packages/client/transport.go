package client

import (
	"net/http"
	"time"
)

const (
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// NewTransport returns the default transport: a pooled http.Transport so
// repeated requests reuse connections instead of dialing per call. The
// client never relies on the transport for redirects or cookies; those
// are handled a layer up.
func NewTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}
}
