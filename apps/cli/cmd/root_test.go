package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcohen01/rusttpx/packages/client"
)

func resetFlags() {
	flagMethod = "GET"
	flagHeaders = nil
	flagBody = ""
	flagContentType = "application/json"
	flagTimeout = 30
	flagFollow = true
	flagNoFollow = false
	flagShowHeaders = false
	flagShowBody = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRoot_CompletedExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out, err := execute(t, server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "200")
	assert.Contains(t, out, `{"ok":true}`)
}

func TestRoot_ErrorStatusStillExitsClean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := execute(t, server.URL)
	assert.NoError(t, err)
}

func TestRoot_MethodHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v", r.Header.Get("X-Custom"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	_, err := execute(t, server.URL,
		"-m", "post",
		"-H", "X-Custom: v",
		"-b", `{"a":1}`,
	)
	require.NoError(t, err)
}

func TestRoot_ShowHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Answer", "42")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	out, err := execute(t, server.URL, "--show-headers")
	require.NoError(t, err)
	assert.Contains(t, out, "X-Answer: 42")
}

func TestRoot_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer server.Close()

	out, err := execute(t, server.URL, "--no-follow-redirects")
	require.NoError(t, err)
	assert.Contains(t, out, "302")
}

func TestRoot_MalformedHeaderFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := execute(t, server.URL, "-H", "not-a-header")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindInvalidRequest))
}

func TestRoot_InvalidURL(t *testing.T) {
	_, err := execute(t, "gopher://example.com")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindInvalidRequest))
}

func TestExitCode_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{&client.Error{Kind: client.KindInvalidRequest}, ExitInvalidRequest},
		{&client.Error{Kind: client.KindTimeout}, ExitTimeout},
		{&client.Error{Kind: client.KindTransport}, ExitNetworkError},
		{&client.Error{Kind: client.KindTooManyRedirects}, ExitRedirectError},
		{&client.Error{Kind: client.KindMissingLocation}, ExitRedirectError},
		{&client.Error{Kind: client.KindMiddleware}, ExitError},
		{errors.New("plain"), ExitError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, exitCode(tt.err))
	}
}
