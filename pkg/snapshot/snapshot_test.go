package snapshot_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/snapshot"
)

type fakeCollector struct {
	name    string
	metrics []snapshot.Metric
	err     error
}

func (f fakeCollector) Name() string                       { return f.name }
func (f fakeCollector) Collect() ([]snapshot.Metric, error) { return f.metrics, f.err }

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want snapshot.Status
	}{
		{nil, snapshot.StatusOK},
		{fmt.Errorf("%w: gone", procfs.ErrUnavailable), snapshot.StatusUnavailable},
		{fmt.Errorf("%w: short", procfs.ErrMalformed), snapshot.StatusMalformed},
		{fmt.Errorf("%w: zero", procfs.ErrUndefined), snapshot.StatusUndefined},
		{errors.New("other"), snapshot.StatusError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snapshot.StatusFromError(tt.err))
	}
}

func TestNewMetric(t *testing.T) {
	ok := snapshot.NewMetric("Memory", "utilization", "/proc/meminfo", 0.6, "60.0%", nil)
	assert.Equal(t, snapshot.StatusOK, ok.Status)
	assert.Equal(t, "60.0%", ok.Value)
	assert.Equal(t, 0.6, ok.RawValue)

	bad := snapshot.NewMetric("Memory", "utilization", "/proc/meminfo", 0, "", fmt.Errorf("%w: MemTotal is 0", procfs.ErrUndefined))
	assert.Equal(t, snapshot.StatusUndefined, bad.Status)
	assert.Equal(t, "unknown", bad.Value)
	assert.Contains(t, bad.Description, "MemTotal is 0")

	c := snapshot.Counter("CPU", "jiffies", "/proc/stat", 3600, nil)
	assert.Equal(t, "3600", c.Value)
	assert.Equal(t, 3600.0, c.RawValue)
}

func TestRunner_RunAllKeepsOrder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	runner := snapshot.NewRunner(logger)

	collectors := []snapshot.Collector{
		fakeCollector{name: "a", metrics: []snapshot.Metric{{Name: "a1", Status: snapshot.StatusOK}, {Name: "a2", Status: snapshot.StatusOK}}},
		fakeCollector{name: "b", err: fmt.Errorf("%w: nope", procfs.ErrUnavailable)},
		fakeCollector{name: "c", metrics: []snapshot.Metric{{Name: "c1", Status: snapshot.StatusMalformed}}},
	}

	metrics := runner.RunAll(collectors)
	require.Len(t, metrics, 4)
	assert.Equal(t, "a1", metrics[0].Name)
	assert.Equal(t, "a2", metrics[1].Name)
	assert.Equal(t, "b", metrics[2].Resource)
	assert.Equal(t, snapshot.StatusUnavailable, metrics[2].Status)
	assert.Equal(t, "c1", metrics[3].Name)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["collector"] == "b" {
			warned = true
		}
	}
	assert.True(t, warned, "failed collector should be logged at warn level")
}

func TestSummarizeAndExitCode(t *testing.T) {
	all := []snapshot.Metric{{Status: snapshot.StatusOK}, {Status: snapshot.StatusOK}}
	assert.Equal(t, 0, snapshot.ExitCode(all))

	mixed := append(all, snapshot.Metric{Status: snapshot.StatusUndefined}, snapshot.Metric{Status: snapshot.StatusError})
	s := snapshot.Summarize(mixed)
	assert.Equal(t, snapshot.Summary{Total: 4, OK: 2, Undefined: 1, Errors: 1}, s)
	assert.Equal(t, 1, snapshot.ExitCode(mixed))

	none := []snapshot.Metric{{Status: snapshot.StatusUnavailable}}
	assert.Equal(t, 2, snapshot.ExitCode(none))
	assert.Equal(t, 0, snapshot.ExitCode(nil))
}
