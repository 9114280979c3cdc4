// Package summarizer renders the results of an operation for people.
package summarizer

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Translator translates a message key. Keys containing verbs are translated
// before formatting.
type Translator func(key string) string

func identity(key string) string { return key }
