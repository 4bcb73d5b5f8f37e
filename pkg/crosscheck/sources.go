package crosscheck

import (
	"errors"
	"path/filepath"

	"github.com/danpilch/sysmon/pkg/system"
)

// ErrUnsupported is returned by probes on platforms without the backing syscall.
var ErrUnsupported = errors.New("crosscheck: unsupported platform")

// ErrForeignRoot is returned by the probe chosen for a proc root other than the host's.
var ErrForeignRoot = errors.New("crosscheck: proc root is not the running kernel's")

// HostProcRoot is where the running kernel's procfs is mounted.
const HostProcRoot = "/proc"

// Probe reads the same quantities as procfs through a different kernel interface.
type Probe interface {
	Name() string
	MemTotalKB() (uint64, error)
	UpTime() (int64, error)
	KernelRelease() (string, error)
}

// ProbeFor returns the syscall probe when procRoot is the host's procfs. Any other
// root describes a different system, so every probe read fails and the
// cross-checks are skipped.
func ProbeFor(procRoot string) Probe {
	if filepath.Clean(procRoot) == HostProcRoot {
		return NewSyscallProbe()
	}
	return foreignRootProbe{}
}

type foreignRootProbe struct{}

func (foreignRootProbe) Name() string                   { return "sysinfo" }
func (foreignRootProbe) MemTotalKB() (uint64, error)    { return 0, ErrForeignRoot }
func (foreignRootProbe) UpTime() (int64, error)         { return 0, ErrForeignRoot }
func (foreignRootProbe) KernelRelease() (string, error) { return "", ErrForeignRoot }

// Gather builds the numeric and textual source lists for each cross-checked metric.
func Gather(sys *system.Stats, probe Probe) (mem, uptime, kernel []Source) {
	if sample, err := sys.Memory(); err == nil {
		mem = append(mem, Source{Name: "/proc/meminfo", Value: float64(sample.TotalKB), Unit: "kB"})
	}
	if total, err := probe.MemTotalKB(); err == nil {
		mem = append(mem, Source{Name: probe.Name(), Value: float64(total), Unit: "kB"})
	}

	if up, err := sys.UpTime(); err == nil {
		uptime = append(uptime, Source{Name: "/proc/uptime", Value: float64(up), Unit: "s"})
	}
	if up, err := probe.UpTime(); err == nil {
		uptime = append(uptime, Source{Name: probe.Name(), Value: float64(up), Unit: "s"})
	}

	if rel, err := sys.Kernel(); err == nil {
		kernel = append(kernel, Source{Name: "/proc/version", RawData: rel})
	}
	if rel, err := probe.KernelRelease(); err == nil {
		kernel = append(kernel, Source{Name: "uname", RawData: rel})
	}
	return mem, uptime, kernel
}
