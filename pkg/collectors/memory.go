package collectors

import (
	"fmt"

	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

// Memory reports MemTotal, MemFree and the used fraction.
type Memory struct {
	stats *system.Stats
}

// NewMemory creates a memory collector.
func NewMemory(stats *system.Stats) *Memory {
	return &Memory{stats: stats}
}

// Name returns the collector name.
func (c *Memory) Name() string {
	return "Memory"
}

// Collect reads /proc/meminfo once and derives utilization from that sample.
func (c *Memory) Collect() ([]snapshot.Metric, error) {
	sample, err := c.stats.Memory()
	if err != nil {
		return nil, err
	}

	util, err := sample.Utilization()
	return []snapshot.Metric{
		snapshot.Counter("Memory", "total_kb", "/proc/meminfo", sample.TotalKB, nil),
		snapshot.Counter("Memory", "free_kb", "/proc/meminfo", sample.FreeKB, nil),
		snapshot.NewMetric("Memory", "utilization", "/proc/meminfo", util, fmt.Sprintf("%.1f%%", util*100), err),
	}, nil
}
