// Package crosscheck compares procfs-derived values against independent kernel sources.
package crosscheck

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// ValidationStatus indicates the confidence level of a cross-checked metric.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusSuspect  ValidationStatus = "suspect"
	StatusConflict ValidationStatus = "conflict"
	// StatusSkipped means fewer than two sources could be read.
	StatusSkipped ValidationStatus = "skipped"
)

// Source represents a single metric reading from a specific source.
type Source struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	RawData string  `json:"raw,omitempty"`
}

// ValidationResult holds the cross-check outcome for a metric.
type ValidationResult struct {
	Metric       string           `json:"metric"`
	Sources      []Source         `json:"sources"`
	Consensus    float64          `json:"consensus"`
	MaxDeviation float64          `json:"max_deviation_pct"`
	Status       ValidationStatus `json:"status"`
}

// Validator cross-checks metrics from multiple sources.
type Validator struct {
	SuspectThreshold  float64 // deviation % to mark suspect (default 1%)
	ConflictThreshold float64 // deviation % to mark conflict (default 5%)
}

// NewValidator creates a validator with default thresholds. Both sources read
// the same kernel counters, so the bands are tighter than for sampled rates.
func NewValidator() *Validator {
	return &Validator{
		SuspectThreshold:  1.0,
		ConflictThreshold: 5.0,
	}
}

// CrossCheck compares numeric readings. The consensus is the median and the
// status is set by the largest relative deviation from it.
func (v *Validator) CrossCheck(metric string, sources []Source) ValidationResult {
	result := ValidationResult{
		Metric:  metric,
		Sources: sources,
		Status:  StatusSkipped,
	}

	switch len(sources) {
	case 0:
		return result
	case 1:
		result.Consensus = sources[0].Value
		return result
	}

	values := lo.Map(sources, func(s Source, _ int) float64 { return s.Value })
	slices.Sort(values)

	mid := len(values) / 2
	if len(values)%2 == 0 {
		result.Consensus = (values[mid-1] + values[mid]) / 2
	} else {
		result.Consensus = values[mid]
	}

	for _, val := range values {
		if result.Consensus == 0 {
			if val != 0 {
				result.MaxDeviation = 100.0
			}
			continue
		}
		dev := math.Abs(val-result.Consensus) / math.Abs(result.Consensus) * 100
		result.MaxDeviation = math.Max(result.MaxDeviation, dev)
	}

	switch {
	case result.MaxDeviation >= v.ConflictThreshold:
		result.Status = StatusConflict
	case result.MaxDeviation >= v.SuspectThreshold:
		result.Status = StatusSuspect
	default:
		result.Status = StatusValid
	}
	return result
}

// CrossCheckText compares the RawData of each source for exact equality.
func (v *Validator) CrossCheckText(metric string, sources []Source) ValidationResult {
	result := ValidationResult{
		Metric:  metric,
		Sources: sources,
		Status:  StatusSkipped,
	}
	if len(sources) < 2 {
		return result
	}

	distinct := lo.Uniq(lo.Map(sources, func(s Source, _ int) string { return s.RawData }))
	if len(distinct) == 1 {
		result.Status = StatusValid
	} else {
		result.Status = StatusConflict
		result.MaxDeviation = 100.0
	}
	return result
}
