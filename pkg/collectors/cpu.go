package collectors

import (
	"github.com/danpilch/sysmon/pkg/cpu"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

// CPU reports the aggregate jiffy counters. Values are cumulative; no rate is derived.
type CPU struct {
	stats *cpu.Stats
}

// NewCPU creates a CPU collector.
func NewCPU(stats *cpu.Stats) *CPU {
	return &CPU{stats: stats}
}

// Name returns the collector name.
func (c *CPU) Name() string {
	return "CPU"
}

// Collect reads one sample and reports its totals and each state counter.
func (c *CPU) Collect() ([]snapshot.Metric, error) {
	sample, err := c.stats.Utilization()
	if err != nil {
		return nil, err
	}

	metrics := make([]snapshot.Metric, 0, 3+int(cpu.NumStates))
	metrics = append(metrics,
		snapshot.Counter("CPU", "jiffies", "/proc/stat", sample.Total(), nil),
		snapshot.Counter("CPU", "active_jiffies", "/proc/stat", sample.Active(), nil),
		snapshot.Counter("CPU", "idle_jiffies", "/proc/stat", sample.Idle(), nil),
	)
	for st := cpu.User; st < cpu.NumStates; st++ {
		metrics = append(metrics, snapshot.Counter("CPU", st.String(), "/proc/stat", sample[st], nil))
	}
	return metrics, nil
}
