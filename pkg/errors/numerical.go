package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WarnIfNonFinite raises an UndefinedMetricWarning when a metric evaluated to
// NaN or ±Inf. The value itself is returned unchanged so callers keep the raw
// result.
func WarnIfNonFinite(metric, condition string, value float64) float64 {
	if !IsFinite(value) {
		Warn(NewUndefinedMetricWarning(metric, condition, value))
	}
	return value
}
