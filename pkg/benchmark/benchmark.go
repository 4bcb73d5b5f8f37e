// Package benchmark measures how long each collector takes to read procfs.
package benchmark

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/danpilch/sysmon/pkg/snapshot"
)

// Options configures a benchmark run.
type Options struct {
	Iterations int
	Warmup     int
}

// DefaultOptions returns sensible benchmark defaults.
func DefaultOptions() Options {
	return Options{
		Iterations: 20,
		Warmup:     3,
	}
}

// Result holds benchmark results for a single collector.
type Result struct {
	Collector string          `json:"collector"`
	Latencies []time.Duration `json:"-"`
	P50       time.Duration   `json:"p50"`
	P95       time.Duration   `json:"p95"`
	P99       time.Duration   `json:"p99"`
	Failures  int             `json:"failures"`
}

// Overhead holds the allocations made during a run.
type Overhead struct {
	AllocBytes uint64 `json:"alloc_bytes"`
	AllocCount uint64 `json:"alloc_count"`
	GCCycles   uint32 `json:"gc_cycles"`
}

var (
	bmTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	bmHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	bmDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Run benchmarks each collector in turn and reports what the run allocated.
// A call counts as a failure when Collect errors or any metric is not OK.
func Run(collectors []snapshot.Collector, opts Options) ([]Result, Overhead) {
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}

	before := readMemStats()
	results := make([]Result, 0, len(collectors))

	for _, col := range collectors {
		for i := 0; i < opts.Warmup; i++ {
			_, _ = col.Collect()
		}

		latencies := make([]time.Duration, opts.Iterations)
		failures := 0
		for i := range latencies {
			start := time.Now()
			metrics, err := col.Collect()
			latencies[i] = time.Since(start)

			if err != nil || snapshot.Summarize(metrics).OK != len(metrics) {
				failures++
			}
		}
		slices.Sort(latencies)

		results = append(results, Result{
			Collector: col.Name(),
			Latencies: latencies,
			P50:       percentile(latencies, 0.50),
			P95:       percentile(latencies, 0.95),
			P99:       percentile(latencies, 0.99),
			Failures:  failures,
		})
	}

	after := readMemStats()
	return results, Overhead{
		AllocBytes: after.TotalAlloc - before.TotalAlloc,
		AllocCount: after.Mallocs - before.Mallocs,
		GCCycles:   after.NumGC - before.NumGC,
	}
}

func readMemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// RenderResults outputs styled benchmark results.
func RenderResults(w io.Writer, results []Result, overhead Overhead) {
	fmt.Fprintln(w, bmTitle.Render("Collector Benchmark"))
	fmt.Fprintln(w, bmDim.Render(strings.Repeat("═", 70)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		bmHeader.Render("COLLECTOR          "),
		bmHeader.Render("P50        "),
		bmHeader.Render("P95        "),
		bmHeader.Render("P99        "),
		bmHeader.Render("FAILURES"))
	fmt.Fprintln(w, "  "+bmDim.Render(strings.Repeat("─", 70)))

	for _, r := range results {
		fmt.Fprintf(w, "  %-20s %-12v %-12v %-12v %d/%d\n",
			r.Collector, r.P50, r.P95, r.P99, r.Failures, len(r.Latencies))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bmTitle.Render("Run Overhead"))
	fmt.Fprintln(w, bmDim.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(w, "  Memory allocated: %s\n", lipgloss.NewStyle().Bold(true).Render(humanize.IBytes(overhead.AllocBytes)))
	fmt.Fprintf(w, "  Allocations:      %s\n", lipgloss.NewStyle().Bold(true).Render(humanize.Comma(int64(overhead.AllocCount))))
	fmt.Fprintf(w, "  GC cycles:        %s\n", lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d", overhead.GCCycles)))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
