package collectors

import (
	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

// Processes reports how many processes are live and how many could be fully read.
type Processes struct {
	stats *process.Stats
}

// NewProcesses creates a process collector.
func NewProcesses(stats *process.Stats) *Processes {
	return &Processes{stats: stats}
}

// Name returns the collector name.
func (c *Processes) Name() string {
	return "Processes"
}

// Collect enumerates pids once and builds a record for each, so recorded never
// exceeds live.
func (c *Processes) Collect() ([]snapshot.Metric, error) {
	pids, err := c.stats.Pids()
	if err != nil {
		return nil, err
	}
	records := c.stats.Records(pids)

	var ticks uint64
	for _, rec := range records {
		ticks += rec.ActiveTicks
	}

	return []snapshot.Metric{
		snapshot.Counter("Processes", "live", "/proc", uint64(len(pids)), nil),
		snapshot.Counter("Processes", "recorded", "/proc/[pid]", uint64(len(records)), nil),
		snapshot.Counter("Processes", "active_jiffies", "/proc/[pid]/stat", ticks, nil),
	}, nil
}
