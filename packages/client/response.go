package client

import (
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// Response is the completed result of one top-level call. It is immutable
// once constructed and owned by the caller; the body is fully read from
// the transport stream before the pipeline returns.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	URL        *neturl.URL // effective URL after any redirects
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// JSON unmarshals the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// GetHeader looks up a header case-insensitively, returning the first
// value.
func (r *Response) GetHeader(key string) string {
	return r.Header.Get(key)
}

func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
