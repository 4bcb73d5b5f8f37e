package output

import "github.com/danpilch/sysmon/pkg/snapshot"

// Coverage is the percentage of metrics that were read successfully.
// An empty snapshot has no coverage.
func Coverage(metrics []snapshot.Metric) int {
	s := snapshot.Summarize(metrics)
	if s.Total == 0 {
		return 0
	}
	return s.OK * 100 / s.Total
}

// CoverageLabel returns a human-readable label for a coverage percentage.
func CoverageLabel(pct int) string {
	if pct >= 100 {
		return "complete"
	}
	if pct > 0 {
		return "partial"
	}
	return "none"
}
