package procfs

import (
	"github.com/tklauser/go-sysconf"
)

// DefaultUserHZ is the tick rate assumed when sysconf cannot be queried.
const DefaultUserHZ = 100

// UserHZ returns the kernel's clock ticks per second (_SC_CLK_TCK).
func UserHZ() int64 {
	hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || hz <= 0 {
		return DefaultUserHZ
	}
	return hz
}
