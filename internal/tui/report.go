package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/transit/internal/domain"
	"github.com/mrz1836/transit/internal/task"
)

// Report is the outcome of one migration run as shown to the user.
type Report struct {
	RunID     string
	Provider  string
	Source    string
	Target    string
	Execution *task.Execution
	Saved     []string
	Err       error
}

// ReportOptions controls report rendering.
type ReportOptions struct {
	// ShowSkipped lists skipped tasks. Subtasks of a hidden task are hidden too.
	ShowSkipped bool
}

// RenderReport writes the report as styled text.
func RenderReport(w io.Writer, r Report, opts ReportOptions) {
	CheckNoColor()
	styles := NewOutputStyles()
	caser := cases.Title(language.English)

	_, _ = fmt.Fprintln(w, styles.Header.Render("Server Migration Report"))
	for _, field := range [][2]string{
		{"Run", r.RunID},
		{"Provider", r.Provider},
		{"Source", r.Source},
		{"Target", r.Target},
	} {
		if field[1] == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", styles.Dim.Render(padRight(field[0]+":", 10)), field[1])
	}

	if r.Execution != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.Header.Render("Tasks"))
		r.Execution.Walk(func(ex *task.Execution, depth int) bool {
			status := ex.Status()
			if depth > 0 && status == domain.StatusSkipped && !opts.ShowSkipped {
				return false
			}
			line := fmt.Sprintf("%s%s %s",
				strings.Repeat("  ", depth),
				StatusStyle(status).Render(StatusIcon(status)),
				ex.Name.String())
			detail := caser.String(status.String())
			if ex.Duration > 0 {
				detail += ", " + FormatDuration(ex.Duration)
			}
			_, _ = fmt.Fprintf(w, "%s %s\n", line, styles.Dim.Render("("+detail+")"))
			if ex.Err != nil && len(ex.Subtasks) == 0 {
				_, _ = fmt.Fprintf(w, "%s  %s\n", strings.Repeat("  ", depth), styles.Error.Render(ex.Err.Error()))
			}
			return true
		})

		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s %d succeeded, %d skipped, %d failed\n",
			styles.Header.Render("Summary:"),
			r.Execution.Count(domain.StatusSuccess),
			r.Execution.Count(domain.StatusSkipped),
			r.Execution.Count(domain.StatusFailed))
	}

	if len(r.Saved) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.Header.Render("Migrated configurations"))
		for _, path := range r.Saved {
			_, _ = fmt.Fprintf(w, "  %s\n", path)
		}
	}

	_, _ = fmt.Fprintln(w)
	switch {
	case r.Err != nil:
		_, _ = fmt.Fprintln(w, styles.Error.Render("✗ Migration failed"))
	case r.Execution != nil && r.Execution.Status() == domain.StatusSkipped:
		_, _ = fmt.Fprintln(w, styles.Warning.Render("⚠ Nothing was migrated"))
	default:
		_, _ = fmt.Fprintln(w, styles.Success.Render("✓ Migration complete"))
	}
}

// ExecutionJSON is the JSON form of an execution record.
type ExecutionJSON struct {
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	DurationMS int64             `json:"duration_ms"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Error      string            `json:"error,omitempty"`
	Subtasks   []ExecutionJSON   `json:"subtasks,omitempty"`
}

// ReportJSON is the JSON form of a Report.
type ReportJSON struct {
	RunID     string         `json:"run_id"`
	Provider  string         `json:"provider,omitempty"`
	Source    string         `json:"source,omitempty"`
	Target    string         `json:"target,omitempty"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Execution *ExecutionJSON `json:"execution,omitempty"`
	Saved     []string       `json:"saved"`
}

// JSONData converts the report for JSON output.
func (r Report) JSONData() ReportJSON {
	out := ReportJSON{
		RunID:    r.RunID,
		Provider: r.Provider,
		Source:   r.Source,
		Target:   r.Target,
		Saved:    append([]string{}, r.Saved...),
		Status:   domain.StatusFailed.String(),
	}
	if r.Execution != nil {
		exec := executionJSON(r.Execution)
		out.Execution = &exec
		out.Status = r.Execution.Status().String()
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		out.Status = domain.StatusFailed.String()
	}
	return out
}

func executionJSON(ex *task.Execution) ExecutionJSON {
	out := ExecutionJSON{
		Name:       ex.Name.String(),
		Status:     ex.Status().String(),
		DurationMS: ex.Duration.Milliseconds(),
		Attributes: ex.Result.Attributes(),
	}
	if ex.Err != nil {
		out.Error = ex.Err.Error()
	}
	for _, sub := range ex.Subtasks {
		out.Subtasks = append(out.Subtasks, executionJSON(sub))
	}
	return out
}

// FormatDuration renders d rounded for humans, e.g. "850ms", "1.2s", "2m5s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
