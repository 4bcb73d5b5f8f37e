package collectors

import (
	"fmt"

	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

// System reports OS identity, uptime and process counters.
type System struct {
	stats *system.Stats
}

// NewSystem creates a system collector.
func NewSystem(stats *system.Stats) *System {
	return &System{stats: stats}
}

// Name returns the collector name.
func (c *System) Name() string {
	return "System"
}

// Collect reads every system metric independently.
func (c *System) Collect() ([]snapshot.Metric, error) {
	metrics := make([]snapshot.Metric, 0, 5)

	osName, err := c.stats.OperatingSystem()
	metrics = append(metrics, snapshot.NewMetric("System", "os", "os-release", 0, osName, err))

	kernel, err := c.stats.Kernel()
	metrics = append(metrics, snapshot.NewMetric("System", "kernel", "/proc/version", 0, kernel, err))

	up, err := c.stats.UpTime()
	m := snapshot.NewMetric("System", "uptime", "/proc/uptime", float64(up), fmt.Sprintf("%ds", up), err)
	m.Description = "seconds since boot"
	if err != nil {
		m.Description = err.Error()
	}
	metrics = append(metrics, m)

	total, err := c.stats.TotalProcesses()
	metrics = append(metrics, snapshot.Counter("System", "processes", "/proc/stat", total, err))

	running, err := c.stats.RunningProcesses()
	metrics = append(metrics, snapshot.Counter("System", "procs_running", "/proc/stat", running, err))

	return metrics, nil
}
