// Package process enumerates live processes and derives per-process metrics from /proc/[pid].
//
// A pid returned by Pids may exit before any later read. Every per-pid accessor treats
// that as an expected outcome and returns its documented default with an error wrapping
// procfs.ErrUnavailable.
package process

import (
	"fmt"
	"os"
	"strconv"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// Pids lists the numeric directories of the proc root, unordered.
func Pids(r *procfs.Reader) ([]int, error) {
	root := r.Proc()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", procfs.ErrUnavailable, root, err)
	}

	pids := make([]int, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !isDigits(entry.Name()) {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// isDigits is stricter than strconv.Atoi, which would accept "+1".
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
