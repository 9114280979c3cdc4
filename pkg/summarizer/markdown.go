package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the translator of headings and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) { f.translate = t }
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) { f.version = version }
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: identity}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	tr := f.translate
	var b strings.Builder

	b.WriteString("# " + tr("Visual Regression Report") + "\n\n")

	status := tr("Passed")
	if !s.Success {
		status = tr("Failed")
	}
	fmt.Fprintf(&b, "| %s | %s |\n", tr("Item"), tr("Value"))
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s |\n", tr("Task"), s.Task)
	fmt.Fprintf(&b, "| %s | %s |\n", tr("Status"), status)
	fmt.Fprintf(&b, "| %s | %s |\n", tr("URL"), s.Settings.URL)
	fmt.Fprintf(&b, "| %s | %g |\n", tr("Threshold"), s.Settings.Threshold)
	if s.Settings.Engine != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", tr("Engine"), s.Settings.Engine)
	}
	if len(s.Settings.Viewports) > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", tr("Viewports"), strings.Join(s.Settings.Viewports, ", "))
	}
	fmt.Fprintf(&b, "| %s | %d / %d / %d |\n", tr("Total / Passes / Fails"), s.Total(), s.Passes(), s.Fails())
	b.WriteString("\n")

	b.WriteString("## " + tr("Shots") + "\n\n")
	if len(s.Shots) == 0 {
		b.WriteString(tr("No shots were taken.") + "\n")
	} else {
		fmt.Fprintf(&b, "| | %s | %s | %s | %s |\n", tr("Shot"), tr("Viewport"), tr("Bad pixels"), tr("Diff"))
		b.WriteString("|---|---|---|---:|---|\n")
		for _, shot := range s.Shots {
			mark := "✓"
			if !shot.Success {
				mark = "✕"
			}
			diff := "-"
			if shot.Diff != "" {
				diff = fmt.Sprintf("`%s`", shot.Diff)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n", mark, shot.Case, shot.Viewport, shot.BadPixels, diff)
		}
	}

	var failed []Shot
	for _, shot := range s.Shots {
		if !shot.Success && shot.Diff != "" {
			failed = append(failed, shot)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\n## " + tr("Differences") + "\n")
		for _, shot := range failed {
			fmt.Fprintf(&b, "\n### %s\n\n", shot.ID)
			fmt.Fprintf(&b, "![%s](%s)\n", shot.ID, shot.Diff)
		}
	}

	b.WriteString("\n---\n\n")
	footer := fmt.Sprintf(tr("Generated at %s"), s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if f.version != "" {
		footer += " · shots " + f.version
	}
	b.WriteString(footer + "\n")

	return b.String()
}
