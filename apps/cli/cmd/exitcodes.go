package cmd

// Exit codes for the rusttpx CLI. A completed HTTP exchange exits 0
// regardless of the status code the server returned; non-zero codes are
// reserved for client-side failures.
const (
	// ExitSuccess indicates a completed HTTP exchange
	ExitSuccess = 0

	// ExitError indicates an unclassified client-side failure
	ExitError = 1

	// ExitInvalidRequest indicates a malformed URL or invalid header syntax
	ExitInvalidRequest = 2

	// ExitNetworkError indicates a connection, TLS or DNS failure
	ExitNetworkError = 4

	// ExitTimeout indicates the configured deadline elapsed
	ExitTimeout = 5

	// ExitRedirectError indicates a redirect-limit or Location failure
	ExitRedirectError = 6

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
