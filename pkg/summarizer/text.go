package summarizer

import (
	"fmt"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

// minRuleWidth is the narrowest the rules around the result list get.
const minRuleWidth = 40

// TextFormatter renders a console summary: a headline and, when detailed,
// one entry per shot framed by rules with TOTAL / PASSES / FAILS counts.
type TextFormatter struct {
	color     bool
	detailed  bool
	translate Translator
}

// TextOption configures a TextFormatter.
type TextOption func(*TextFormatter)

// WithColor enables ANSI colors.
func WithColor(color bool) TextOption {
	return func(f *TextFormatter) { f.color = color }
}

// WithDetails lists every shot below the headline.
func WithDetails(detailed bool) TextOption {
	return func(f *TextFormatter) { f.detailed = detailed }
}

// WithTextTranslator sets the translator of the console summary.
func WithTextTranslator(t Translator) TextOption {
	return func(f *TextFormatter) { f.translate = t }
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(opts ...TextOption) *TextFormatter {
	f := &TextFormatter{detailed: true, translate: identity}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter. An empty summary renders as "".
func (f *TextFormatter) Format(s *Summary) string {
	if len(s.Shots) == 0 {
		return ""
	}
	tr := f.translate

	taskName := tr("Task")
	switch s.Task {
	case "baseline":
		taskName = tr("Baseline shots")
	case "test":
		taskName = tr("Test cases")
	}
	verb := tr("failed... :(")
	prefix := "[!!]"
	if s.Success {
		prefix = "[ok]"
		verb = tr("complete! :)")
		if s.Task == "test" {
			verb = tr("passed! :)")
		}
	}
	headline := fmt.Sprintf("%s %s %s", prefix, taskName, verb)
	if s.Success {
		headline = f.paint(headline, ansiBold+ansiGreen)
	} else {
		headline = f.paint(headline, ansiBold+ansiRed)
	}

	if !f.detailed {
		return headline
	}

	width := minRuleWidth
	var entries []string
	for i, shot := range s.Shots {
		for _, p := range []string{shot.Baseline, shot.Current, shot.Diff} {
			if len(p)+6 > width {
				width = len(p) + 6
			}
		}

		mark := f.paint("✓", ansiBold+ansiGreen)
		if !shot.Success {
			mark = f.paint("✕", ansiBold+ansiRed)
		}
		first := shot.Current
		if shot.Baseline != "" {
			first = shot.Baseline
		}
		lines := []string{mark + " " + first}
		if shot.Baseline != "" {
			lines = append(lines, "  "+shot.Current)
		}
		if !shot.Success && shot.Diff != "" {
			lines = append(lines, "  "+shot.Diff)
		}
		if len(lines) > 1 && i+1 < len(s.Shots) {
			lines = append(lines, "")
		}
		entries = append(entries, "  "+strings.Join(lines, "\n  "))
	}

	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat("=", width) + "\n")
	b.WriteString("  " + f.paint(tr("RESULTS:"), ansiBold) + "\n")
	b.WriteString(strings.Repeat("-", width) + "\n")
	for _, e := range entries {
		b.WriteString(e + "\n")
	}
	b.WriteString(strings.Repeat("-", width) + "\n")
	fmt.Fprintf(&b, "  %s    %s    %s\n",
		f.paint(fmt.Sprintf(tr("TOTAL: %d"), s.Total()), ansiBold),
		f.paint(fmt.Sprintf(tr("PASSES: %d"), s.Passes()), ansiGreen),
		f.paint(fmt.Sprintf(tr("FAILS: %d"), s.Fails()), ansiRed))
	b.WriteString(strings.Repeat("=", width))
	return b.String()
}

func (f *TextFormatter) paint(s, code string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}
