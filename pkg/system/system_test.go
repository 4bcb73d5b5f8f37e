package system_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/procfs/procfstest"
	"github.com/danpilch/sysmon/pkg/system"
)

const osRelease = `NAME="Ubuntu"
VERSION="22.04.4 LTS (Jammy Jellyfish)"
ID=ubuntu
PRETTY_NAME="Ubuntu 22.04.4 LTS"
VERSION_ID="22.04"
`

const statContent = `cpu  100 200 300 400 500 600 700 800 0 0
cpu0 50 100 150 200 250 300 350 400 0 0
intr 123456 0 0
ctxt 987654
btime 1700000000
processes 31337
procs_running 3
procs_blocked 0
`

func TestOperatingSystem(t *testing.T) {
	tree := procfstest.New(t)
	tree.WriteOSRelease(osRelease)
	s := system.New(tree.Reader())

	name, err := s.OperatingSystem()
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu 22.04.4 LTS", name)
}

func TestOperatingSystem_Missing(t *testing.T) {
	tree := procfstest.New(t)
	s := system.New(tree.Reader())

	name, err := s.OperatingSystem()
	assert.ErrorIs(t, err, procfs.ErrUnavailable)
	assert.Empty(t, name)

	tree.WriteOSRelease("NAME=\"Arch\"\nID=arch\n")
	name, err = s.OperatingSystem()
	assert.ErrorIs(t, err, procfs.ErrUnavailable)
	assert.Empty(t, name)
}

func TestKernel(t *testing.T) {
	tree := procfstest.New(t)
	tree.WriteProc("version", "Linux version 6.8.0-45-generic (buildd@lcy02-amd64-075) (gcc 13.2.0) #45-Ubuntu SMP\n")
	s := system.New(tree.Reader())

	kernel, err := s.Kernel()
	require.NoError(t, err)
	assert.Equal(t, "6.8.0-45-generic", kernel)

	tree.WriteProc("version", "Linux version\n")
	_, err = s.Kernel()
	assert.ErrorIs(t, err, procfs.ErrMalformed)
}

func TestUpTime(t *testing.T) {
	tree := procfstest.New(t)
	tree.WriteProc("uptime", "35735.91 139420.77\n")
	s := system.New(tree.Reader())

	up, err := s.UpTime()
	require.NoError(t, err)
	assert.Equal(t, int64(35735), up)

	tree.WriteProc("uptime", "soon 1.0\n")
	up, err = s.UpTime()
	assert.ErrorIs(t, err, procfs.ErrMalformed)
	assert.Zero(t, up)
}

func TestProcessCounters(t *testing.T) {
	tree := procfstest.New(t)
	tree.WriteProc("stat", statContent)
	s := system.New(tree.Reader())

	total, err := s.TotalProcesses()
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), total)

	running, err := s.RunningProcesses()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), running)
}

func TestMemoryUtilization(t *testing.T) {
	tests := []struct {
		name    string
		meminfo string
		want    float64
		wantErr error
	}{
		{
			name:    "exact ratio",
			meminfo: "MemTotal:       1000 kB\nMemFree:         400 kB\nMemAvailable:    700 kB\n",
			want:    0.6,
		},
		{
			name:    "all free",
			meminfo: "MemTotal:       1000 kB\nMemFree:        1000 kB\n",
			want:    0,
		},
		{
			name:    "zero total",
			meminfo: "MemTotal:          0 kB\nMemFree:           0 kB\n",
			wantErr: procfs.ErrUndefined,
		},
		{
			name:    "missing total",
			meminfo: "MemFree:         400 kB\n",
			wantErr: procfs.ErrUndefined,
		},
		{
			name:    "missing free",
			meminfo: "MemTotal:       1000 kB\nMemAvailable:    400 kB\n",
			wantErr: procfs.ErrMalformed,
		},
		{
			name:    "free exceeds total",
			meminfo: "MemTotal:        100 kB\nMemFree:         400 kB\n",
			wantErr: procfs.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := procfstest.New(t)
			tree.WriteProc("meminfo", tt.meminfo)
			s := system.New(tree.Reader())

			got, err := s.MemoryUtilization()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryUtilization_Unavailable(t *testing.T) {
	tree := procfstest.New(t)
	s := system.New(tree.Reader())

	_, err := s.MemoryUtilization()
	assert.ErrorIs(t, err, procfs.ErrUnavailable)
	assert.NotErrorIs(t, err, procfs.ErrUndefined)
}

func TestMemory_Idempotent(t *testing.T) {
	tree := procfstest.New(t)
	tree.WriteProc("meminfo", "MemTotal: 2048 kB\nMemFree: 512 kB\n")
	s := system.New(tree.Reader())

	a, err := s.Memory()
	require.NoError(t, err)
	b, err := s.Memory()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, system.MemorySample{TotalKB: 2048, FreeKB: 512}, a)
}
