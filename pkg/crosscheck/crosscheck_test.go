package crosscheck_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/sysmon/pkg/crosscheck"
	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/procfs/procfstest"
	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

type fakeProbe struct {
	memKB   uint64
	uptime  int64
	release string
	err     error
}

func (p fakeProbe) Name() string                   { return "fake" }
func (p fakeProbe) MemTotalKB() (uint64, error)    { return p.memKB, p.err }
func (p fakeProbe) UpTime() (int64, error)         { return p.uptime, p.err }
func (p fakeProbe) KernelRelease() (string, error) { return p.release, p.err }

func newSystem(t *testing.T) *system.Stats {
	t.Helper()
	tree := procfstest.New(t)
	tree.WriteProc("meminfo", "MemTotal: 16000000 kB\nMemFree: 8000000 kB\n")
	tree.WriteProc("uptime", "1000.40 2000.00\n")
	tree.WriteProc("version", "Linux version 6.1.0-18-amd64 (gcc) #1 SMP\n")
	return system.New(tree.Reader())
}

func TestCrossCheck_Consensus(t *testing.T) {
	v := crosscheck.NewValidator()

	res := v.CrossCheck("m", []crosscheck.Source{{Name: "a", Value: 100}, {Name: "b", Value: 100.5}})
	assert.Equal(t, crosscheck.StatusValid, res.Status)
	assert.InDelta(t, 100.25, res.Consensus, 1e-9)

	res = v.CrossCheck("m", []crosscheck.Source{{Value: 100}, {Value: 104}})
	assert.Equal(t, crosscheck.StatusSuspect, res.Status)

	res = v.CrossCheck("m", []crosscheck.Source{{Value: 100}, {Value: 150}})
	assert.Equal(t, crosscheck.StatusConflict, res.Status)

	res = v.CrossCheck("m", []crosscheck.Source{{Value: 0}, {Value: 0}})
	assert.Equal(t, crosscheck.StatusValid, res.Status)

	res = v.CrossCheck("m", []crosscheck.Source{{Value: 7}})
	assert.Equal(t, crosscheck.StatusSkipped, res.Status)
	assert.Equal(t, 7.0, res.Consensus)
}

func TestCrossCheckText(t *testing.T) {
	v := crosscheck.NewValidator()

	res := v.CrossCheckText("k", []crosscheck.Source{{RawData: "6.1"}, {RawData: "6.1"}})
	assert.Equal(t, crosscheck.StatusValid, res.Status)

	res = v.CrossCheckText("k", []crosscheck.Source{{RawData: "6.1"}, {RawData: "5.4"}})
	assert.Equal(t, crosscheck.StatusConflict, res.Status)

	res = v.CrossCheckText("k", nil)
	assert.Equal(t, crosscheck.StatusSkipped, res.Status)
}

func TestRun_AgreeingProbe(t *testing.T) {
	sys := newSystem(t)
	probe := fakeProbe{memKB: 16000000, uptime: 1000, release: "6.1.0-18-amd64"}

	res := crosscheck.Run(sys, probe, nil, nil)
	require.Len(t, res.Validations, 3)
	for _, v := range res.Validations {
		assert.Equal(t, crosscheck.StatusValid, v.Status, v.Metric)
		assert.Len(t, v.Sources, 2, v.Metric)
	}
	assert.False(t, res.Failed())
}

func TestRun_ProbeUnavailable(t *testing.T) {
	sys := newSystem(t)
	res := crosscheck.Run(sys, fakeProbe{err: crosscheck.ErrUnsupported}, nil, nil)
	for _, v := range res.Validations {
		assert.Equal(t, crosscheck.StatusSkipped, v.Status, v.Metric)
	}
	assert.False(t, res.Failed())
}

func TestProbeFor(t *testing.T) {
	assert.Equal(t, crosscheck.NewSyscallProbe(), crosscheck.ProbeFor("/proc"))
	assert.Equal(t, crosscheck.NewSyscallProbe(), crosscheck.ProbeFor("/proc/"))

	foreign := crosscheck.ProbeFor("/srv/snapshot/proc")
	_, err := foreign.MemTotalKB()
	assert.ErrorIs(t, err, crosscheck.ErrForeignRoot)

	res := crosscheck.Run(newSystem(t), foreign, nil, nil)
	for _, v := range res.Validations {
		assert.Equal(t, crosscheck.StatusSkipped, v.Status, v.Metric)
		assert.Len(t, v.Sources, 1, v.Metric)
	}
	assert.False(t, res.Failed())
}

func TestRun_KernelMismatch(t *testing.T) {
	sys := newSystem(t)
	res := crosscheck.Run(sys, fakeProbe{memKB: 16000000, uptime: 1000, release: "5.4.0"}, nil, nil)
	assert.True(t, res.Failed())

	var buf bytes.Buffer
	crosscheck.Report(&buf, res)
	assert.Contains(t, buf.String(), "Kernel release")
	assert.Contains(t, buf.String(), "CONFLICT")
}

func TestRunSanityChecks(t *testing.T) {
	metrics := []snapshot.Metric{
		snapshot.NewMetric("Memory", "utilization", "/proc/meminfo", 0.5, "50.0%", nil),
		snapshot.Counter("CPU", "jiffies", "/proc/stat", 300, nil),
		snapshot.Counter("CPU", "active_jiffies", "/proc/stat", 200, nil),
		snapshot.Counter("CPU", "idle_jiffies", "/proc/stat", 100, nil),
		snapshot.NewMetric("System", "uptime", "/proc/uptime", 1000, "1000s", nil),
	}
	records := []process.Record{{PID: 1, UpTime: 999}, {PID: 2, UpTime: 1001}}

	results := crosscheck.RunSanityChecks(metrics, records)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Passed, r.Check)
	}

	records = append(records, process.Record{PID: 3, UpTime: 5000})
	results = crosscheck.RunSanityChecks(metrics, records)
	assert.False(t, results[2].Passed)
	assert.Contains(t, results[2].Details, "[3]")
}

func TestRunSanityChecks_SkipsUnread(t *testing.T) {
	metrics := []snapshot.Metric{
		snapshot.NewMetric("Memory", "utilization", "/proc/meminfo", 0, "", fmt.Errorf("%w: zero", procfs.ErrUndefined)),
		snapshot.Counter("CPU", "jiffies", "/proc/stat", 300, nil),
	}
	assert.Empty(t, crosscheck.RunSanityChecks(metrics, nil))
}

func TestReportJSON(t *testing.T) {
	res := crosscheck.Result{
		Sanity: []crosscheck.SanityResult{{Check: "c", Passed: false, Details: "d"}},
	}
	var buf bytes.Buffer
	require.NoError(t, crosscheck.ReportJSON(&buf, res))

	var decoded crosscheck.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res.Sanity, decoded.Sanity)
	assert.True(t, decoded.Failed())
}
