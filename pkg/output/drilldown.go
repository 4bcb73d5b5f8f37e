package output

import (
	"strings"

	"github.com/samber/lo"

	"github.com/danpilch/sysmon/pkg/snapshot"
)

// Suggestion represents a diagnostic next-step.
type Suggestion struct {
	Command string
	Reason  string
}

// DrillDown returns diagnostic suggestions for a metric that could not be read.
func DrillDown(m snapshot.Metric) []Suggestion {
	var suggestions []Suggestion
	source := m.Source
	if strings.Contains(source, "[pid]") {
		source = ""
	}

	switch m.Status {
	case snapshot.StatusUnavailable:
		suggestions = append(suggestions, Suggestion{"findmnt /proc", "Confirm procfs is mounted"})
		if source != "" {
			suggestions = append(suggestions, Suggestion{"ls -l " + source, "Check the file exists and is readable"})
		}
	case snapshot.StatusMalformed:
		if source != "" {
			suggestions = append(suggestions, Suggestion{"cat " + source, "Inspect the raw file contents"})
		}
	case snapshot.StatusUndefined:
		if strings.EqualFold(m.Resource, "memory") {
			suggestions = append(suggestions, Suggestion{"grep Mem /proc/meminfo", "MemTotal is zero"})
		}
	}

	return suggestions
}

// Hints returns the de-duplicated suggestions for every metric that was not read.
func Hints(metrics []snapshot.Metric) []Suggestion {
	var all []Suggestion
	for _, m := range metrics {
		if m.Status != snapshot.StatusOK {
			all = append(all, DrillDown(m)...)
		}
	}
	return lo.UniqBy(all, func(s Suggestion) string { return s.Command })
}
