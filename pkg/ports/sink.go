package ports

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveConfigJSON saves the resolved configuration as JSON.
	SaveConfigJSON(data []byte) error

	// SaveResultJSON saves the result of a task ("baseline", "test", "approve") as JSON.
	SaveResultJSON(task string, data []byte) error
}
