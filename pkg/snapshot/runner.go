package snapshot

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Collector produces a group of metrics from one source family.
type Collector interface {
	Name() string
	Collect() ([]Metric, error)
}

// Runner executes collectors and aggregates their metrics.
type Runner struct {
	logger *logrus.Logger
}

// NewRunner creates a runner. A nil logger logs warnings to stderr.
func NewRunner(logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Runner{logger: logger}
}

// RunAll executes all collectors concurrently. Results keep the collectors' order. A
// collector that fails outright contributes a single error metric.
func (r *Runner) RunAll(collectors []Collector) []Metric {
	var (
		results = make([][]Metric, len(collectors))
		wg      sync.WaitGroup
	)

	for i, collector := range collectors {
		wg.Add(1)
		go func(i int, col Collector) {
			defer wg.Done()
			results[i] = r.run(col)
		}(i, collector)
	}
	wg.Wait()

	var all []Metric
	for _, metrics := range results {
		all = append(all, metrics...)
	}
	return all
}

// RunOne executes a single collector.
func (r *Runner) RunOne(collector Collector) []Metric {
	return r.run(collector)
}

func (r *Runner) run(col Collector) []Metric {
	r.logger.WithField("collector", col.Name()).Debug("Running collector")

	metrics, err := col.Collect()
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"collector": col.Name(),
			"error":     err,
		}).Warn("Collector failed")

		return []Metric{NewMetric(col.Name(), "collect", "", 0, "", err)}
	}

	for _, m := range metrics {
		if m.Status != StatusOK {
			r.logger.WithFields(logrus.Fields{
				"collector": col.Name(),
				"metric":    m.Name,
				"status":    m.Status,
			}).Debug(m.Description)
		}
	}
	return metrics
}
