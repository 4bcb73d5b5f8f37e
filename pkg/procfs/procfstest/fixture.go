// Package procfstest builds fake /proc trees for tests.
package procfstest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// Tree is a throwaway proc root plus os-release and passwd files.
type Tree struct {
	t    testing.TB
	Root string
	Etc  string
}

// New creates an empty tree under t.TempDir().
func New(t testing.TB) *Tree {
	t.Helper()
	dir := t.TempDir()
	tree := &Tree{
		t:    t,
		Root: filepath.Join(dir, "proc"),
		Etc:  filepath.Join(dir, "etc"),
	}
	require.NoError(t, os.MkdirAll(tree.Root, 0o755))
	require.NoError(t, os.MkdirAll(tree.Etc, 0o755))
	return tree
}

// Config points a procfs.Config at the tree.
func (tr *Tree) Config() procfs.Config {
	return procfs.Config{
		ProcRoot:      tr.Root,
		OSReleasePath: filepath.Join(tr.Etc, "os-release"),
		PasswdPath:    filepath.Join(tr.Etc, "passwd"),
	}
}

// Reader returns a procfs.Reader over the tree.
func (tr *Tree) Reader() *procfs.Reader {
	tr.t.Helper()
	r, err := procfs.New(tr.Config())
	require.NoError(tr.t, err)
	return r
}

// WriteProc writes content to a file relative to the proc root.
func (tr *Tree) WriteProc(rel, content string) {
	tr.t.Helper()
	tr.write(filepath.Join(tr.Root, rel), content)
}

// WritePID writes /proc/<pid>/<name>.
func (tr *Tree) WritePID(pid int, name, content string) {
	tr.t.Helper()
	tr.write(filepath.Join(tr.Root, strconv.Itoa(pid), name), content)
}

// WriteOSRelease writes the release-info file.
func (tr *Tree) WriteOSRelease(content string) {
	tr.t.Helper()
	tr.write(tr.Config().OSReleasePath, content)
}

// WritePasswd writes the account database.
func (tr *Tree) WritePasswd(content string) {
	tr.t.Helper()
	tr.write(tr.Config().PasswdPath, content)
}

// Mkdir creates an empty directory under the proc root.
func (tr *Tree) Mkdir(rel string) {
	tr.t.Helper()
	require.NoError(tr.t, os.MkdirAll(filepath.Join(tr.Root, rel), 0o755))
}

func (tr *Tree) write(path, content string) {
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tr.t, os.WriteFile(path, []byte(content), 0o644))
}

// StatLine formats a /proc/[pid]/stat line with the given CPU and start times.
func StatLine(pid int, comm string, utime, stime, cutime, cstime, starttime uint64) string {
	return fmt.Sprintf("%d (%s) S 1 %d %d 0 -1 4194560 1200 0 3 0 %d %d %d %d 20 0 1 0 %d 10485760 512 18446744073709551615\n",
		pid, comm, pid, pid, utime, stime, cutime, cstime, starttime)
}
