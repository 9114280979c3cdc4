package ports

// StaticServer is a handle to a local static file server.
// A handle serves at most one site at a time; Start on a running
// handle fails.
type StaticServer interface {
	// Start begins serving and returns the base URL.
	Start(opts ServerOptions) (string, error)

	// Stop shuts the server down. Stopping a stopped server is a no-op.
	Stop() error
}

// ServerOptions configures the static server.
type ServerOptions struct {
	Root   string // Directory to serve
	Port   int    // TCP port (0 picks a free port)
	Single bool   // Serve index.html for unknown paths (single page apps)
}
