// Package client implements the HTTP client core: configuration,
// request building, the execution pipeline, and the redirect engine.
//
// It orchestrates policy above a pluggable transport:
//   - Configurable timeouts with per-request overrides
//   - An explicit redirect loop with method-rewrite and header-stripping rules
//   - Cookie persistence across a session
//   - An ordered middleware chain around every physical dispatch
//
// Wire-level concerns (connections, TLS, framing) are delegated to an
// http.RoundTripper and never reimplemented here.
package client
