// Package cpu reads cumulative CPU time counters from /proc/stat and /proc/[pid]/stat.
//
// Every value is a tick count since boot. Nothing here computes a rate: callers
// sample twice and divide the counter delta by elapsed ticks.
package cpu

import (
	"fmt"
	"io"
	"strings"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// State indexes a counter on the aggregate cpu line, in kernel order.
type State int

const (
	User State = iota
	Nice
	System
	Idle
	IOWait
	IRQ
	SoftIRQ
	Steal

	NumStates
)

var stateNames = [NumStates]string{"user", "nice", "system", "idle", "iowait", "irq", "softirq", "steal"}

func (s State) String() string {
	if s < 0 || s >= NumStates {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Class buckets CPU states into time spent working and time spent idle.
type Class int

const (
	Active Class = iota
	Inactive
)

// classes is the single source of truth for which counters are active and which idle.
var classes = [NumStates]Class{
	User:    Active,
	Nice:    Active,
	System:  Active,
	Idle:    Inactive,
	IOWait:  Inactive,
	IRQ:     Active,
	SoftIRQ: Active,
	Steal:   Active,
}

// ClassOf returns the bucket a state is summed into.
func ClassOf(s State) Class {
	return classes[s]
}

// Sample is one reading of the eight aggregate counters.
type Sample [NumStates]uint64

// Sum adds every counter in class c.
func (s Sample) Sum(c Class) uint64 {
	var total uint64
	for st, v := range s {
		if classes[st] == c {
			total += v
		}
	}
	return total
}

// Active returns user+nice+system+irq+softirq+steal.
func (s Sample) Active() uint64 { return s.Sum(Active) }

// Idle returns idle+iowait.
func (s Sample) Idle() uint64 { return s.Sum(Inactive) }

// Total returns all eight counters; always Active()+Idle().
func (s Sample) Total() uint64 { return s.Active() + s.Idle() }

// ParseSample reads the counters following the "cpu" tag. The steal column is absent on
// kernels older than 2.6.11 and is then left at 0.
func ParseSample(fields []string) (Sample, error) {
	var s Sample
	if len(fields) < int(Steal) {
		return s, fmt.Errorf("%w: cpu line has %d counters", procfs.ErrMalformed, len(fields))
	}
	for st := User; st < NumStates && int(st) < len(fields); st++ {
		s[st] = procfs.ParseUint(fields[st])
	}
	return s, nil
}

// Stats reads CPU counters. It holds no state between calls.
type Stats struct {
	r *procfs.Reader
}

// New creates a CPU stats reader.
func New(r *procfs.Reader) *Stats {
	return &Stats{r: r}
}

// Utilization returns the aggregate "cpu" line of /proc/stat; per-core lines are skipped.
func (c *Stats) Utilization() (Sample, error) {
	var (
		counters []string
		found    bool
	)
	err := c.r.ScanLines(c.r.Proc("stat"), func(line string) error {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == "cpu" {
			counters, found = fields[1:], true
			return io.EOF
		}
		return nil
	})
	if err != nil {
		return Sample{}, err
	}
	if !found {
		return Sample{}, fmt.Errorf("%w: cpu line not found in /proc/stat", procfs.ErrMalformed)
	}
	return ParseSample(counters)
}

// Jiffies returns the sum of all eight counters.
func (c *Stats) Jiffies() (uint64, error) {
	s, err := c.Utilization()
	if err != nil {
		return 0, err
	}
	return s.Total(), nil
}

// ActiveJiffies returns the system-wide non-idle ticks.
func (c *Stats) ActiveJiffies() (uint64, error) {
	s, err := c.Utilization()
	if err != nil {
		return 0, err
	}
	return s.Active(), nil
}

// IdleJiffies returns the system-wide idle and iowait ticks.
func (c *Stats) IdleJiffies() (uint64, error) {
	s, err := c.Utilization()
	if err != nil {
		return 0, err
	}
	return s.Idle(), nil
}

// ProcessActiveJiffies returns utime+stime+cutime+cstime for pid. A vanished process or a
// short stat line yields 0 with ErrUnavailable or ErrMalformed respectively.
func (c *Stats) ProcessActiveJiffies(pid int) (uint64, error) {
	st, err := c.r.ProcStat(pid)
	if err != nil {
		return 0, err
	}
	return st.ActiveTicks(), nil
}
