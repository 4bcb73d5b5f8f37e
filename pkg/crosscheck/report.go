package crosscheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	validStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	suspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Result bundles everything the crosscheck command reports.
type Result struct {
	Validations []ValidationResult `json:"validations"`
	Sanity      []SanityResult     `json:"sanity"`
}

// Failed reports whether any validation conflicted or any sanity check failed.
func (r Result) Failed() bool {
	return lo.SomeBy(r.Validations, func(v ValidationResult) bool { return v.Status == StatusConflict }) ||
		lo.SomeBy(r.Sanity, func(s SanityResult) bool { return !s.Passed })
}

// Run cross-checks procfs against the probe and runs sanity checks over the
// collected metrics and process records.
func Run(sys *system.Stats, probe Probe, metrics []snapshot.Metric, records []process.Record) Result {
	validator := NewValidator()
	mem, uptime, kernel := Gather(sys, probe)

	return Result{
		Validations: []ValidationResult{
			validator.CrossCheck("MemTotal", mem),
			validator.CrossCheck("Uptime", uptime),
			validator.CrossCheckText("Kernel release", kernel),
		},
		Sanity: RunSanityChecks(metrics, records),
	}
}

// Report outputs cross-check validation results and sanity checks with lipgloss styling.
func Report(w io.Writer, res Result) {
	fmt.Fprintln(w, titleStyle.Render("Cross-Check Validation Report"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", 60)))

	if len(res.Validations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Source Cross-Checks"))
		fmt.Fprintf(w, "  %-18s %-10s %-10s %s\n",
			headerStyle.Render("METRIC"), headerStyle.Render("MAX DEV"),
			headerStyle.Render("STATUS"), headerStyle.Render("SOURCES"))
		fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", 70)))

		for _, v := range res.Validations {
			sources := lo.Map(v.Sources, func(s Source, _ int) string {
				if s.RawData != "" {
					return fmt.Sprintf("%s=%s", s.Name, s.RawData)
				}
				return fmt.Sprintf("%s=%.0f%s", s.Name, s.Value, s.Unit)
			})
			fmt.Fprintf(w, "  %-18s %-10s %-10s %s\n",
				v.Metric, fmt.Sprintf("%.2f%%", v.MaxDeviation), statusLabel(v.Status),
				dimStyle.Render(strings.Join(sources, ", ")))
		}
	}

	if len(res.Sanity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Sanity Checks"))
		for _, s := range res.Sanity {
			icon := validStyle.Render("PASS")
			if !s.Passed {
				icon = conflictStyle.Render("FAIL")
			}
			fmt.Fprintf(w, "  [%s] %-36s %s\n", icon, s.Check, dimStyle.Render(s.Details))
		}
		failed := lo.CountBy(res.Sanity, func(s SanityResult) bool { return !s.Passed })
		fmt.Fprintln(w)
		if failed == 0 {
			fmt.Fprintf(w, "  %s\n", validStyle.Render(fmt.Sprintf("All %d sanity checks passed.", len(res.Sanity))))
		} else {
			fmt.Fprintf(w, "  %s\n", conflictStyle.Render(fmt.Sprintf("%d of %d sanity checks failed.", failed, len(res.Sanity))))
		}
	}
}

func statusLabel(s ValidationStatus) string {
	switch s {
	case StatusConflict:
		return conflictStyle.Render("CONFLICT")
	case StatusSuspect:
		return suspectStyle.Render("SUSPECT")
	case StatusSkipped:
		return dimStyle.Render("SKIPPED")
	default:
		return validStyle.Render("VALID")
	}
}

// ReportJSON outputs cross-check results as JSON.
func ReportJSON(w io.Writer, res Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
