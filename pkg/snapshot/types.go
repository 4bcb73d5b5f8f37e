// Package snapshot turns core accessor results into presentation-neutral metric records.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/danpilch/sysmon/pkg/procfs"
)

// Status tells a renderer whether a metric value can be trusted.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusMalformed   Status = "malformed"
	StatusUndefined   Status = "undefined"
	StatusError       Status = "error"
)

// StatusFromError maps the procfs error taxonomy onto a Status.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, procfs.ErrUndefined):
		return StatusUndefined
	case errors.Is(err, procfs.ErrMalformed):
		return StatusMalformed
	case errors.Is(err, procfs.ErrUnavailable):
		return StatusUnavailable
	default:
		return StatusError
	}
}

// Metric is a single named reading.
type Metric struct {
	Resource    string  `json:"resource" yaml:"resource"`
	Name        string  `json:"name" yaml:"name"`
	Value       string  `json:"value" yaml:"value"`
	RawValue    float64 `json:"raw_value" yaml:"raw_value"`
	Status      Status  `json:"status" yaml:"status"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string  `json:"source" yaml:"source"`
}

// NewMetric builds a Metric from an accessor result. On error the value is "unknown"
// and the error text becomes the description.
func NewMetric(resource, name, source string, raw float64, value string, err error) Metric {
	m := Metric{
		Resource: resource,
		Name:     name,
		Value:    value,
		RawValue: raw,
		Status:   StatusFromError(err),
		Source:   source,
	}
	if err != nil {
		m.Value = "unknown"
		m.RawValue = 0
		m.Description = err.Error()
	}
	return m
}

// Counter is shorthand for an integer-valued metric.
func Counter(resource, name, source string, v uint64, err error) Metric {
	return NewMetric(resource, name, source, float64(v), fmt.Sprintf("%d", v), err)
}

// Summary counts metrics by status.
type Summary struct {
	Total       int `json:"total" yaml:"total"`
	OK          int `json:"ok" yaml:"ok"`
	Unavailable int `json:"unavailable" yaml:"unavailable"`
	Malformed   int `json:"malformed" yaml:"malformed"`
	Undefined   int `json:"undefined" yaml:"undefined"`
	Errors      int `json:"errors" yaml:"errors"`
}

// Summarize calculates summary statistics from metrics.
func Summarize(metrics []Metric) Summary {
	s := Summary{Total: len(metrics)}
	for _, m := range metrics {
		switch m.Status {
		case StatusOK:
			s.OK++
		case StatusUnavailable:
			s.Unavailable++
		case StatusMalformed:
			s.Malformed++
		case StatusUndefined:
			s.Undefined++
		default:
			s.Errors++
		}
	}
	return s
}

// ExitCode returns 0 when every metric was read, 1 when some were not, and 2 when none were.
func ExitCode(metrics []Metric) int {
	s := Summarize(metrics)
	if s.Total > 0 && s.OK == 0 {
		return 2
	}
	if s.OK < s.Total {
		return 1
	}
	return 0
}
