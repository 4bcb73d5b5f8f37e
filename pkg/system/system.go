// Package system derives operating-system level metrics from /proc and the release-info file.
package system

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// Stats reads system-wide metrics. It holds no state between calls.
type Stats struct {
	r *procfs.Reader
}

// New creates a system stats reader.
func New(r *procfs.Reader) *Stats {
	return &Stats{r: r}
}

// releaseReplacer turns `PRETTY_NAME="Debian GNU/Linux 12"` into
// `PRETTY_NAME  Debian_GNU/Linux_12 ` so key and value split on whitespace.
var releaseReplacer = strings.NewReplacer(" ", "_", "=", " ", `"`, " ")

// OperatingSystem returns PRETTY_NAME from the release-info file.
func (s *Stats) OperatingSystem() (string, error) {
	path := s.r.Config().OSReleasePath

	var name string
	found := false
	err := s.r.ScanLines(path, func(line string) error {
		fields := strings.Fields(releaseReplacer.Replace(line))
		if len(fields) >= 2 && fields[0] == "PRETTY_NAME" {
			name = strings.ReplaceAll(fields[1], "_", " ")
			found = true
			return io.EOF
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: PRETTY_NAME not set in %s", procfs.ErrUnavailable, path)
	}
	return name, nil
}

// Kernel returns the kernel release, the third token of /proc/version.
func (s *Stats) Kernel() (string, error) {
	line, err := s.r.FirstLine(s.r.Proc("version"))
	if err != nil {
		return "", err
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", fmt.Errorf("%w: unexpected /proc/version format", procfs.ErrMalformed)
	}
	return fields[2], nil
}

// UpTime returns whole seconds since boot.
func (s *Stats) UpTime() (int64, error) {
	line, err := s.r.FirstLine(s.r.Proc("uptime"))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return 0, fmt.Errorf("%w: unexpected /proc/uptime format", procfs.ErrMalformed)
	}
	up, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: uptime %q: %v", procfs.ErrMalformed, fields[0], err)
	}
	return int64(up), nil
}

// TotalProcesses returns the number of forks since boot ("processes" in /proc/stat).
func (s *Stats) TotalProcesses() (uint64, error) {
	return s.statCounter("processes")
}

// RunningProcesses returns the number of runnable tasks ("procs_running" in /proc/stat).
func (s *Stats) RunningProcesses() (uint64, error) {
	return s.statCounter("procs_running")
}

func (s *Stats) statCounter(key string) (uint64, error) {
	value, err := s.r.Lookup(s.r.Proc("stat"), key)
	if err != nil {
		return 0, err
	}
	if len(value) < 1 {
		return 0, fmt.Errorf("%w: %s has no value", procfs.ErrMalformed, key)
	}
	return procfs.ParseUint(value[0]), nil
}
