package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const invalidPrefix = "INVALID COMMIT MSG: "

// Reporter prints verdicts in the format git users see from the hook.
type Reporter struct {
	out         io.Writer
	helpMessage string

	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	noteStyle    lipgloss.Style
	headerStyle  lipgloss.Style
}

func NewReporter(out io.Writer, helpMessage string) *Reporter {
	renderer := lipgloss.NewRenderer(out)
	return &Reporter{
		out:          out,
		helpMessage:  helpMessage,
		errorStyle:   renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warningStyle: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		noteStyle:    renderer.NewStyle().Faint(true),
		headerStyle:  renderer.NewStyle().Italic(true),
	}
}

// Report writes notes, warnings and, for invalid messages, the problems
// followed by the offending header and help text.
func (r *Reporter) Report(v Verdict) {
	for _, note := range v.Notes {
		fmt.Fprintln(r.out, r.noteStyle.Render(capitalize(note)+"."))
	}

	for _, p := range v.Problems {
		line := invalidPrefix + p.Message + " !"
		if p.Severity == SeverityWarning {
			fmt.Fprintln(r.out, r.warningStyle.Render(line))
			continue
		}
		fmt.Fprintln(r.out, r.errorStyle.Render(line))
	}

	if v.Valid {
		return
	}

	helpTakesMessage := strings.Contains(r.helpMessage, "%s")
	switch {
	case helpTakesMessage:
		fmt.Fprintln(r.out, strings.Replace(r.helpMessage, "%s", v.Body, 1))
	case v.Header != "":
		fmt.Fprintln(r.out, r.headerStyle.Render(v.Header))
	}
	if !helpTakesMessage && r.helpMessage != "" {
		fmt.Fprintln(r.out, r.helpMessage)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
