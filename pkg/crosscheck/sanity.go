package crosscheck

import (
	"fmt"

	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

// SanityResult holds the outcome of a consistency check.
type SanityResult struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// uptimeSlack absorbs the second that can tick between reading /proc/uptime for
// the snapshot and reading it again for each process.
const uptimeSlack = 1

// RunSanityChecks validates collected metrics and process records against the
// invariants that must hold between them. Metrics that were not read are skipped.
func RunSanityChecks(metrics []snapshot.Metric, records []process.Record) []SanityResult {
	var results []SanityResult
	ok := okMetrics(metrics)

	for _, m := range metrics {
		if m.Name != "utilization" || m.Status != snapshot.StatusOK {
			continue
		}
		check := fmt.Sprintf("%s utilization", m.Resource)
		if m.RawValue < 0 || m.RawValue > 1 {
			results = append(results, SanityResult{check, false, fmt.Sprintf("%.4f outside [0, 1]", m.RawValue)})
		} else {
			results = append(results, SanityResult{check, true, fmt.Sprintf("%.4f within [0, 1]", m.RawValue)})
		}
	}

	total, hasTotal := ok["CPU/jiffies"]
	active, hasActive := ok["CPU/active_jiffies"]
	idle, hasIdle := ok["CPU/idle_jiffies"]
	if hasTotal && hasActive && hasIdle {
		results = append(results, SanityResult{
			Check:   "CPU jiffies = active + idle",
			Passed:  total == active+idle,
			Details: fmt.Sprintf("%.0f vs %.0f + %.0f", total, active, idle),
		})
	}

	if sysUp, found := ok["System/uptime"]; found && len(records) > 0 {
		var over []int
		for _, r := range records {
			if float64(r.UpTime) > sysUp+uptimeSlack {
				over = append(over, r.PID)
			}
		}
		details := fmt.Sprintf("%d processes within %.0fs", len(records), sysUp)
		if len(over) > 0 {
			details = fmt.Sprintf("pids %v exceed system uptime %.0fs", over, sysUp)
		}
		results = append(results, SanityResult{
			Check:   "process uptime <= system uptime",
			Passed:  len(over) == 0,
			Details: details,
		})
	}

	return results
}

func okMetrics(metrics []snapshot.Metric) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range metrics {
		if m.Status == snapshot.StatusOK {
			out[m.Resource+"/"+m.Name] = m.RawValue
		}
	}
	return out
}
