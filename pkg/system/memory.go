package system

import (
	"fmt"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// MemorySample holds the two /proc/meminfo counters utilization is derived from, in kB.
type MemorySample struct {
	TotalKB uint64 `json:"total_kb" yaml:"total_kb"`
	FreeKB  uint64 `json:"free_kb" yaml:"free_kb"`
}

// Utilization returns (total-free)/total. A zero total yields ErrUndefined rather than
// NaN or Inf; free exceeding total is malformed.
func (m MemorySample) Utilization() (float64, error) {
	if m.TotalKB == 0 {
		return 0, fmt.Errorf("%w: MemTotal is 0", procfs.ErrUndefined)
	}
	if m.FreeKB > m.TotalKB {
		return 0, fmt.Errorf("%w: MemFree %d exceeds MemTotal %d", procfs.ErrMalformed, m.FreeKB, m.TotalKB)
	}
	return float64(m.TotalKB-m.FreeKB) / float64(m.TotalKB), nil
}

// Memory reads MemTotal and MemFree. A missing MemTotal leaves the total at 0, which
// Utilization reports as undefined. A MemTotal without MemFree is malformed.
func (s *Stats) Memory() (MemorySample, error) {
	fields, err := s.r.Fields(s.r.Proc("meminfo"))
	if err != nil {
		return MemorySample{}, err
	}

	var (
		m                   MemorySample
		seenTotal, seenFree bool
	)
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		switch f[0] {
		case "MemTotal:":
			m.TotalKB = procfs.ParseUint(f[1])
			seenTotal = true
		case "MemFree:":
			m.FreeKB = procfs.ParseUint(f[1])
			seenFree = true
		}
	}
	if seenTotal && !seenFree {
		return MemorySample{}, fmt.Errorf("%w: MemFree not found in /proc/meminfo", procfs.ErrMalformed)
	}
	return m, nil
}

// MemoryUtilization returns the used fraction of physical memory in [0, 1].
func (s *Stats) MemoryUtilization() (float64, error) {
	m, err := s.Memory()
	if err != nil {
		return 0, err
	}
	return m.Utilization()
}
