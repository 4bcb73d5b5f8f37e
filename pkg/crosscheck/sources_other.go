//go:build !linux

package crosscheck

type unsupportedProbe struct{}

// NewSyscallProbe returns a probe whose reads all fail with ErrUnsupported.
func NewSyscallProbe() Probe {
	return unsupportedProbe{}
}

func (unsupportedProbe) Name() string                   { return "sysinfo" }
func (unsupportedProbe) MemTotalKB() (uint64, error)    { return 0, ErrUnsupported }
func (unsupportedProbe) UpTime() (int64, error)         { return 0, ErrUnsupported }
func (unsupportedProbe) KernelRelease() (string, error) { return "", ErrUnsupported }
