package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/fsdscan/domain"
)

// Reporter writes audit reports in one output format
type Reporter struct {
	writer io.Writer
	format domain.OutputFormat
	styles styles
}

// Options tune the human-readable rendering
type Options struct {
	// Color enables ANSI styling. The terminal profile still decides whether
	// colors are emitted.
	Color bool
}

// NewReporter creates a reporter for writer
func NewReporter(writer io.Writer, format domain.OutputFormat, opts Options) (*Reporter, error) {
	if writer == nil {
		return nil, errors.New("writer cannot be nil")
	}
	switch format {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML:
	default:
		return nil, domain.NewUnsupportedFormatError(string(format))
	}
	return &Reporter{
		writer: writer,
		format: format,
		styles: newStyles(writer, opts.Color),
	}, nil
}

// Write renders report in the reporter's format
func (r *Reporter) Write(report *domain.AuditReport) error {
	var err error
	switch r.format {
	case domain.OutputFormatJSON:
		err = WriteJSON(r.writer, report)
	case domain.OutputFormatYAML:
		err = WriteYAML(r.writer, report)
	default:
		_, err = io.WriteString(r.writer, r.renderText(report))
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// WriteJSON writes data as indented JSON
func WriteJSON(writer io.Writer, data any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML with two-space indentation
func WriteYAML(writer io.Writer, data any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

type styles struct {
	title   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	tags    map[domain.Priority]lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return styles{
			title:   plain,
			pass:    plain,
			fail:    plain,
			section: plain,
			dim:     plain,
			warn:    plain,
			tags: map[domain.Priority]lipgloss.Style{
				domain.PriorityP0: plain,
				domain.PriorityP1: plain,
				domain.PriorityP2: plain,
			},
		}
	}
	return styles{
		title:   r.NewStyle().Bold(true),
		pass:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		tags: map[domain.Priority]lipgloss.Style{
			domain.PriorityP0: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
			domain.PriorityP1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
			domain.PriorityP2: r.NewStyle().Foreground(lipgloss.Color("#8B949E")),
		},
	}
}

func (r *Reporter) renderText(report *domain.AuditReport) string {
	st := r.styles
	var b strings.Builder

	b.WriteString(st.title.Render("fsdscan audit") + " " + report.Root + "\n")
	status := st.pass.Render(string(report.Status))
	if !report.Passed() {
		status = st.fail.Render(string(report.Status))
	}
	fmt.Fprintf(&b, "Status: %s %s\n", status, st.dim.Render(fmt.Sprintf("(fail on %s)", report.FailOn)))

	s := report.Summary
	fmt.Fprintf(&b, "Files: %d  Import edges: %d  External: %d  Unresolved: %d  Features: %d\n",
		s.FilesScanned, s.ImportEdges, s.ExternalImports, s.UnresolvedLocal, s.FeaturesAudited)
	fmt.Fprintf(&b, "Violations: %d (P0: %d, P1: %d, P2: %d)\n", s.TotalViolations, s.P0, s.P1, s.P2)

	if len(report.Violations) == 0 {
		b.WriteString("\nNo violations found.\n")
	}
	for _, fg := range report.ByFeature {
		name := "feature " + fg.Feature
		if fg.Feature == "" {
			name = "outside features"
		}
		b.WriteString("\n" + st.section.Render("== "+name+" ==") + "\n")
		for _, cg := range fg.Categories {
			b.WriteString("  " + st.dim.Render("-- "+string(cg.Category)+" --") + "\n")
			for _, v := range cg.Violations {
				b.WriteString("  " + r.violationLine(v) + "\n")
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%s\n", st.warn.Render(fmt.Sprintf("Warnings (%d):", len(report.Warnings))))
		for _, w := range report.Warnings {
			tag := string(w.Kind)
			if w.RuleID != "" {
				tag += " " + w.RuleID
			}
			fmt.Fprintf(&b, "  [%s] %s: %s\n", tag, w.Path, w.Message)
		}
	}
	return b.String()
}

// violationLine renders "[FFA3][P0] subject — message — fix"
func (r *Reporter) violationLine(v domain.Violation) string {
	tag := r.styles.tags[v.Priority].Render(fmt.Sprintf("[%s][%s]", v.RuleID, v.Priority))
	line := tag + " " + v.Subject() + " — " + v.Message
	if v.SuggestedFix != nil {
		line += " — " + v.SuggestedFix.String()
	}
	return line
}
