package collectors_test

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/sysmon/pkg/collectors"
	"github.com/danpilch/sysmon/pkg/procfs/procfstest"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

func fixture(t *testing.T) *procfstest.Tree {
	t.Helper()
	tree := procfstest.New(t)
	tree.WriteOSRelease("NAME=\"Debian GNU/Linux\"\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n")
	tree.WriteProc("version", "Linux version 6.1.0-18-amd64 (debian-kernel@lists.debian.org) #1 SMP\n")
	tree.WriteProc("uptime", "5000.00 9000.00\n")
	tree.WriteProc("meminfo", "MemTotal:       1000 kB\nMemFree:         400 kB\n")
	tree.WriteProc("stat", "cpu  100 200 300 400 500 600 700 800\nprocesses 500\nprocs_running 2\n")
	tree.WritePasswd("root:x:0:0:root:/root:/bin/bash\n")
	tree.WritePID(1, "stat", procfstest.StatLine(1, "init", 10, 20, 30, 40, 100))
	tree.WritePID(1, "status", "Uid:\t0\t0\t0\t0\nVmSize:\t  4096 kB\n")
	tree.WritePID(1, "cmdline", "/sbin/init\x00")
	return tree
}

func byName(metrics []snapshot.Metric) map[string]snapshot.Metric {
	out := make(map[string]snapshot.Metric, len(metrics))
	for _, m := range metrics {
		out[m.Resource+"/"+m.Name] = m
	}
	return out
}

func TestDefaultRegistry(t *testing.T) {
	tree := fixture(t)
	logger, _ := test.NewNullLogger()
	reg := collectors.Default(tree.Reader(), logger)

	names := make([]string, 0)
	for _, c := range reg.Collectors() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"System", "Memory", "CPU", "Processes"}, names)
	assert.NotNil(t, reg.GetByName("CPU"))
	assert.Nil(t, reg.GetByName("GPU"))

	metrics := snapshot.NewRunner(logger).RunAll(reg.Collectors())
	got := byName(metrics)

	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", got["System/os"].Value)
	assert.Equal(t, "6.1.0-18-amd64", got["System/kernel"].Value)
	assert.Equal(t, 5000.0, got["System/uptime"].RawValue)
	assert.Equal(t, "500", got["System/processes"].Value)
	assert.Equal(t, "2", got["System/procs_running"].Value)

	assert.Equal(t, 0.6, got["Memory/utilization"].RawValue)
	assert.Equal(t, "60.0%", got["Memory/utilization"].Value)

	assert.Equal(t, "3600", got["CPU/jiffies"].Value)
	assert.Equal(t, "2700", got["CPU/active_jiffies"].Value)
	assert.Equal(t, "900", got["CPU/idle_jiffies"].Value)
	assert.Equal(t, "800", got["CPU/steal"].Value)

	assert.Equal(t, "1", got["Processes/live"].Value)
	assert.Equal(t, "100", got["Processes/active_jiffies"].Value)

	assert.Equal(t, 0, snapshot.ExitCode(metrics))
}

func TestMemoryCollector_ZeroTotal(t *testing.T) {
	tree := fixture(t)
	tree.WriteProc("meminfo", "MemTotal: 0 kB\nMemFree: 0 kB\n")
	reg := collectors.Default(tree.Reader(), nil)

	metrics, err := reg.GetByName("Memory").Collect()
	require.NoError(t, err)
	util := byName(metrics)["Memory/utilization"]
	assert.Equal(t, snapshot.StatusUndefined, util.Status)
	assert.Equal(t, "unknown", util.Value)
}

func TestCPUCollector_MissingStat(t *testing.T) {
	tree := procfstest.New(t)
	reg := collectors.Default(tree.Reader(), nil)

	metrics := snapshot.NewRunner(nil).RunOne(reg.GetByName("CPU"))
	require.Len(t, metrics, 1)
	assert.Equal(t, snapshot.StatusUnavailable, metrics[0].Status)
}

func TestProcessesCollector_RecordedNeverExceedsLive(t *testing.T) {
	tree := fixture(t)
	// listed but already exited
	tree.Mkdir("77")
	reg := collectors.Default(tree.Reader(), nil)

	metrics, err := reg.GetByName("Processes").Collect()
	require.NoError(t, err)
	got := byName(metrics)
	assert.Equal(t, "2", got["Processes/live"].Value)
	assert.Equal(t, "1", got["Processes/recorded"].Value)
}
