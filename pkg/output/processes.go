package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/danpilch/sysmon/pkg/process"
)

// SortKey orders the process table.
type SortKey string

const (
	SortPID    SortKey = "pid"
	SortRAM    SortKey = "ram"
	SortUpTime SortKey = "uptime"
	SortCPU    SortKey = "cpu"
)

// ParseSortKey validates a --sort value.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortPID, SortRAM, SortUpTime, SortCPU:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want pid, ram, uptime or cpu)", s)
}

var (
	procTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	procDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SortRecords orders records in place. Every key except pid sorts descending; ties
// fall back to ascending pid.
func SortRecords(records []process.Record, key SortKey) {
	slices.SortStableFunc(records, func(a, b process.Record) int {
		var c int
		switch key {
		case SortRAM:
			c = compareDesc(ramMB(a), ramMB(b))
		case SortUpTime:
			c = compareDesc(a.UpTime, b.UpTime)
		case SortCPU:
			c = compareDesc(a.ActiveTicks, b.ActiveTicks)
		}
		if c != 0 {
			return c
		}
		return a.PID - b.PID
	})
}

func compareDesc[T int64 | uint64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func ramMB(r process.Record) int64 {
	v, _ := strconv.ParseInt(r.RamMB, 10, 64)
	return v
}

// HumanRAM renders a megabyte string as an IEC size. Unparseable input is returned unchanged.
func HumanRAM(mb string) string {
	v, err := strconv.ParseUint(mb, 10, 64)
	if err != nil {
		return mb
	}
	return humanize.IBytes(v * 1024 * 1024)
}

// RenderProcesses writes up to topN records (all when topN <= 0) in the given format.
func RenderProcesses(w io.Writer, format Format, records []process.Record, topN int) error {
	if topN > 0 && topN < len(records) {
		records = records[:topN]
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Processes []process.Record `json:"processes"`
		}{records})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(struct {
			Processes []process.Record `yaml:"processes"`
		}{records}); err != nil {
			return err
		}
		return enc.Close()
	case FormatTSV:
		fmt.Fprintln(w, "PID\tUSER\tRAM_MB\tUPTIME\tTICKS\tCOMMAND")
		for _, p := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				p.PID, p.User, p.RamMB, ElapsedTime(p.UpTime), p.ActiveTicks, p.Command)
		}
		return nil
	}

	fmt.Fprintln(w, procTitle.Render("Processes"))
	fmt.Fprintln(w, procDim.Render(strings.Repeat("═", 60)))
	fmt.Fprintln(w)

	rows := lo.Map(records, func(p process.Record, _ int) []string {
		return []string{
			strconv.Itoa(p.PID),
			p.User,
			HumanRAM(p.RamMB),
			ElapsedTime(p.UpTime),
			strconv.FormatUint(p.ActiveTicks, 10),
			truncate(p.Command, 60),
		}
	})
	fmt.Fprintln(w, newTable([]string{"PID", "USER", "RAM", "UPTIME", "TICKS", "COMMAND"}, rows))

	users := lo.Uniq(lo.Map(records, func(p process.Record, _ int) string { return p.User }))
	fmt.Fprintf(w, "%s %d processes, %d users\n", procTitle.Render("Summary:"), len(records), len(users))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
