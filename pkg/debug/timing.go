// Package debug provides instrumentation for collector runs.
package debug

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/sysmon/pkg/snapshot"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// CollectorTiming records the duration of a collector's Collect call.
type CollectorTiming struct {
	Name     string
	Duration time.Duration
	Metrics  int
	Failed   bool
}

// TimedCollector wraps a snapshot.Collector to record collection duration.
type TimedCollector struct {
	inner  snapshot.Collector
	Timing CollectorTiming
}

// NewTimedCollector wraps a collector with timing instrumentation.
func NewTimedCollector(c snapshot.Collector) *TimedCollector {
	return &TimedCollector{inner: c}
}

// Wrap times every collector in the slice. The returned slices share order.
func Wrap(cs []snapshot.Collector) ([]snapshot.Collector, []*TimedCollector) {
	wrapped := make([]snapshot.Collector, len(cs))
	timed := make([]*TimedCollector, len(cs))
	for i, c := range cs {
		timed[i] = NewTimedCollector(c)
		wrapped[i] = timed[i]
	}
	return wrapped, timed
}

// Name returns the wrapped collector's name.
func (t *TimedCollector) Name() string {
	return t.inner.Name()
}

// Collect runs the wrapped collector and records duration.
func (t *TimedCollector) Collect() ([]snapshot.Metric, error) {
	start := time.Now()
	metrics, err := t.inner.Collect()
	t.Timing = CollectorTiming{
		Name:     t.inner.Name(),
		Duration: time.Since(start),
		Metrics:  len(metrics),
		Failed:   err != nil,
	}
	return metrics, err
}

// Timings collects the recorded timings. Call only after the run has finished.
func Timings(timed []*TimedCollector) []CollectorTiming {
	out := make([]CollectorTiming, len(timed))
	for i, t := range timed {
		out[i] = t.Timing
	}
	return out
}

// TimingReport prints a styled timing summary for all timed collectors.
func TimingReport(w io.Writer, timings []CollectorTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Collector Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 48)))
	fmt.Fprintf(w, "  %s  %s  %s\n",
		debugHeader.Render("COLLECTOR          "),
		debugHeader.Render("DURATION    "),
		debugHeader.Render("METRICS"))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 48)))

	var total time.Duration
	for _, t := range timings {
		count := fmt.Sprintf("%d", t.Metrics)
		if t.Failed {
			count = "failed"
		}
		fmt.Fprintf(w, "  %-20s %-14v %s\n", t.Name, t.Duration.Round(time.Microsecond), count)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 48)))
	fmt.Fprintf(w, "  %-20s %v\n",
		lipgloss.NewStyle().Bold(true).Render("TOTAL"), total.Round(time.Microsecond))
}
