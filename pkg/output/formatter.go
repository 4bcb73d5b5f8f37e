// Package output provides formatters for displaying procfs snapshots.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/danpilch/sysmon/pkg/snapshot"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTSV   Format = "tsv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatTSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, yaml or tsv)", s)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	statusStyles = map[snapshot.Status]lipgloss.Style{
		snapshot.StatusOK:          lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
		snapshot.StatusUndefined:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
		snapshot.StatusMalformed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
		snapshot.StatusError:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
		snapshot.StatusUnavailable: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),  // Gray
	}
)

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
}

// Formatter handles output formatting.
type Formatter struct {
	format Format
	writer io.Writer
	title  string
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
		title:  "System Snapshot",
	}
}

// SetTitle replaces the heading printed above tables.
func (f *Formatter) SetTitle(title string) {
	f.title = title
}

// Render outputs the metrics in the configured format.
func (f *Formatter) Render(metrics []snapshot.Metric) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(metrics)
	case FormatYAML:
		return f.renderYAML(metrics)
	case FormatTSV:
		return f.renderTSV(metrics)
	default:
		return f.renderTable(metrics)
	}
}

type document struct {
	Metrics []snapshot.Metric `json:"metrics" yaml:"metrics"`
	Summary snapshot.Summary  `json:"summary" yaml:"summary"`
}

func (f *Formatter) renderJSON(metrics []snapshot.Metric) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Metrics: metrics, Summary: snapshot.Summarize(metrics)})
}

func (f *Formatter) renderYAML(metrics []snapshot.Metric) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(document{Metrics: metrics, Summary: snapshot.Summarize(metrics)}); err != nil {
		return err
	}
	return enc.Close()
}

func (f *Formatter) renderTable(metrics []snapshot.Metric) error {
	fmt.Fprintln(f.writer, titleStyle.Render(f.title))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = []string{
			m.Resource,
			m.Name,
			m.Value,
			statusStyles[m.Status].Render(strings.ToUpper(string(m.Status))),
		}
	}
	fmt.Fprintln(f.writer, newTable([]string{"RESOURCE", "METRIC", "VALUE", "STATUS"}, rows))

	fmt.Fprintln(f.writer)
	f.renderSummary(metrics)
	f.renderHints(metrics)
	return nil
}

// renderSummary outputs the summary line.
func (f *Formatter) renderSummary(metrics []snapshot.Metric) {
	summary := snapshot.Summarize(metrics)
	parts := []string{}

	if summary.Errors > 0 {
		parts = append(parts, statusStyles[snapshot.StatusError].Render(fmt.Sprintf("%d errors", summary.Errors)))
	}
	if summary.Malformed > 0 {
		parts = append(parts, statusStyles[snapshot.StatusMalformed].Render(fmt.Sprintf("%d malformed", summary.Malformed)))
	}
	if summary.Undefined > 0 {
		parts = append(parts, statusStyles[snapshot.StatusUndefined].Render(fmt.Sprintf("%d undefined", summary.Undefined)))
	}
	if summary.Unavailable > 0 {
		parts = append(parts, statusStyles[snapshot.StatusUnavailable].Render(fmt.Sprintf("%d unavailable", summary.Unavailable)))
	}

	if len(parts) == 0 {
		fmt.Fprintln(f.writer, statusStyles[snapshot.StatusOK].Render("All metrics read"))
	} else {
		fmt.Fprintf(f.writer, "Summary: %s\n", strings.Join(parts, ", "))
	}

	cov := Coverage(metrics)
	fmt.Fprintf(f.writer, "Coverage: %d%% (%s)\n", cov, CoverageLabel(cov))
}

func (f *Formatter) renderHints(metrics []snapshot.Metric) {
	hints := Hints(metrics)
	if len(hints) == 0 {
		return
	}
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "Suggested next steps:")
	for _, h := range hints {
		fmt.Fprintf(f.writer, "  %-40s %s\n", h.Command, h.Reason)
	}
}

// renderTSV outputs metrics as tab-separated values.
func (f *Formatter) renderTSV(metrics []snapshot.Metric) error {
	fmt.Fprintln(f.writer, "RESOURCE\tMETRIC\tVALUE\tRAW_VALUE\tSTATUS\tDESCRIPTION\tSOURCE")

	for _, m := range metrics {
		fmt.Fprintf(f.writer, "%s\t%s\t%s\t%.4f\t%s\t%s\t%s\n",
			m.Resource, m.Name, m.Value, m.RawValue,
			m.Status, m.Description, m.Source)
	}

	return nil
}
