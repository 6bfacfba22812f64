// Package middleware provides ready-made interceptors for the client's
// middleware chain: logging, authentication, request IDs, rate limiting,
// and latency metrics.
package middleware

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/mcohen01/rusttpx/packages/client"
)

// Func adapts plain functions into a Middleware. Nil callbacks pass the
// value through unchanged.
type Func struct {
	OnRequest  func(ctx context.Context, req *client.Request) (*client.Request, error)
	OnResponse func(ctx context.Context, resp *client.Response) (*client.Response, error)
}

func (f Func) ProcessRequest(ctx context.Context, req *client.Request) (*client.Request, error) {
	if f.OnRequest == nil {
		return req, nil
	}
	return f.OnRequest(ctx, req)
}

func (f Func) ProcessResponse(ctx context.Context, resp *client.Response) (*client.Response, error) {
	if f.OnResponse == nil {
		return resp, nil
	}
	return f.OnResponse(ctx, resp)
}

// Logging logs one line per physical dispatch and one per response.
type Logging struct {
	logger         *slog.Logger
	includeHeaders bool
}

func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

// IncludeHeaders adds request and response headers to the log records.
func (l *Logging) IncludeHeaders() *Logging {
	l.includeHeaders = true
	return l
}

func (l *Logging) ProcessRequest(ctx context.Context, req *client.Request) (*client.Request, error) {
	attrs := []any{
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	}
	if l.includeHeaders {
		for k, vs := range req.Header {
			for _, v := range vs {
				attrs = append(attrs, slog.String("header."+k, v))
			}
		}
	}
	l.logger.InfoContext(ctx, "request", attrs...)
	return req, nil
}

func (l *Logging) ProcessResponse(ctx context.Context, resp *client.Response) (*client.Response, error) {
	attrs := []any{
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", resp.DurationMs()),
	}
	if l.includeHeaders {
		for k, vs := range resp.Header {
			for _, v := range vs {
				attrs = append(attrs, slog.String("header."+k, v))
			}
		}
	}
	l.logger.InfoContext(ctx, "response", attrs...)
	return resp, nil
}

// Auth stamps an Authorization header on every outgoing request. Note
// that it runs per hop, after the redirect engine's cross-origin
// stripping, so it re-authenticates redirected requests deliberately.
type Auth struct {
	header string
}

func NewBearerAuth(token string) *Auth {
	return &Auth{header: "Bearer " + token}
}

func NewBasicAuth(username, password string) *Auth {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return &Auth{header: "Basic " + creds}
}

func (a *Auth) ProcessRequest(_ context.Context, req *client.Request) (*client.Request, error) {
	req.Header.Set("Authorization", a.header)
	return req, nil
}

func (a *Auth) ProcessResponse(_ context.Context, resp *client.Response) (*client.Response, error) {
	return resp, nil
}
