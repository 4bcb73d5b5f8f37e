//go:build linux

package crosscheck

import (
	"golang.org/x/sys/unix"
)

// SyscallProbe reads memory and uptime from sysinfo(2) and the release from uname(2).
type SyscallProbe struct{}

// NewSyscallProbe returns the probe for the running kernel.
func NewSyscallProbe() Probe {
	return SyscallProbe{}
}

func (SyscallProbe) Name() string { return "sysinfo" }

func (SyscallProbe) MemTotalKB() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit) / 1024, nil
}

func (SyscallProbe) UpTime() (int64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return int64(info.Uptime), nil
}

func (SyscallProbe) KernelRelease() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Release[:]), nil
}
