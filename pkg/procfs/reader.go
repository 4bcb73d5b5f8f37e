// Package procfs reads and tokenizes files from the kernel's /proc pseudo-filesystem.
//
// Every read opens, scans and closes its file within the call. Nothing is cached:
// two calls against an unchanged file return identical results.
package procfs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the locations the readers draw from.
type Config struct {
	ProcRoot      string
	OSReleasePath string
	PasswdPath    string
}

// DefaultConfig returns the standard host locations.
func DefaultConfig() Config {
	return Config{
		ProcRoot:      "/proc",
		OSReleasePath: "/etc/os-release",
		PasswdPath:    "/etc/passwd",
	}
}

// MaxLineSize bounds a single line. /proc/[pid]/cmdline is one line holding the
// whole argument vector, which can run to megabytes.
const MaxLineSize = 16 << 20

// Reader opens pseudo-files relative to a configured proc root.
type Reader struct {
	cfg Config
}

// New creates a Reader. All configured paths must be absolute.
func New(cfg Config) (*Reader, error) {
	for name, p := range map[string]string{
		"ProcRoot":      cfg.ProcRoot,
		"OSReleasePath": cfg.OSReleasePath,
		"PasswdPath":    cfg.PasswdPath,
	} {
		if !filepath.IsAbs(p) {
			return nil, fmt.Errorf("%s must be an absolute path, got: %q", name, p)
		}
	}
	return &Reader{cfg: cfg}, nil
}

// Config returns the reader's configuration.
func (r *Reader) Config() Config {
	return r.cfg
}

// Proc joins elem under the proc root.
func (r *Reader) Proc(elem ...string) string {
	return filepath.Join(append([]string{r.cfg.ProcRoot}, elem...)...)
}

// PID returns the path of a per-process file, e.g. PID(42, "stat") -> /proc/42/stat.
func (r *Reader) PID(pid int, name string) string {
	return r.Proc(strconv.Itoa(pid), name)
}

// ScanLines calls fn for every line of path. Returning io.EOF from fn stops the scan
// without error. The file is closed on every return path.
func (r *Reader) ScanLines(path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		// e.g. ESRCH when the process exits mid-read
		return fmt.Errorf("%w: reading %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// Lines returns all lines of path.
func (r *Reader) Lines(path string) ([]string, error) {
	var lines []string
	err := r.ScanLines(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Fields returns the whitespace-delimited tokens of every line of path.
func (r *Reader) Fields(path string) ([][]string, error) {
	var fields [][]string
	err := r.ScanLines(path, func(line string) error {
		fields = append(fields, strings.Fields(line))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// FirstLine returns the first line of path. An empty file is malformed.
func (r *Reader) FirstLine(path string) (string, error) {
	var (
		first string
		found bool
	)
	err := r.ScanLines(path, func(line string) error {
		first, found = line, true
		return io.EOF
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s is empty", ErrMalformed, path)
	}
	return first, nil
}

// Lookup scans path for the first line whose leading token equals key and returns the
// tokens that follow it.
func (r *Reader) Lookup(path, key string) ([]string, error) {
	var (
		value []string
		found bool
	)
	err := r.ScanLines(path, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == key {
			value, found = fields[1:], true
			return io.EOF
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q not found in %s", ErrUnavailable, key, path)
	}
	return value, nil
}
