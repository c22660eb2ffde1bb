package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/svm"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		y, pred  []float64
		expected float64
	}{
		{"two of three", []float64{1, 1, 2}, []float64{1, 2, 2}, 2.0 / 3.0},
		{"all correct", []float64{1, -1, 1}, []float64{1, -1, 1}, 1},
		{"none correct", []float64{1, 1}, []float64{-1, -1}, 0},
		{"rejected label never matches", []float64{3, 5}, []float64{-99999, 5}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.y, tt.pred)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestMSE(t *testing.T) {
	got, err := MSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = MSE([]float64{0, 0}, []float64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestSquaredCorrelation(t *testing.T) {
	got, err := SquaredCorrelation([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	// perfectly anti-correlated is still r² = 1
	got, err = SquaredCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	got, err = SquaredCorrelation([]float64{1, 2, 3, 4}, []float64{1, 3, 2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.64, got, 1e-12)
}

func TestSquaredCorrelationConstantLabels(t *testing.T) {
	var (
		mu       sync.Mutex
		warnings []error
	)
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, w)
	})
	defer errors.SetWarningHandler(func(error) {})

	got, err := SquaredCorrelation([]float64{2, 2, 2}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got), "0/0 is left unguarded, got %v", got)

	require.Len(t, warnings, 1)
	var warning *errors.UndefinedMetricWarning
	require.True(t, errors.As(warnings[0], &warning))
	assert.Equal(t, "squared_correlation_coefficient", warning.Metric)
}

func TestMetricInputErrors(t *testing.T) {
	_, err := Accuracy(nil, nil)
	var valueErr *errors.ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Equal(t, "Accuracy", valueErr.Op)

	_, err = MSE([]float64{1, 2}, []float64{1})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 1, dimErr.Got)

	_, err = EvaluateCrossValidation([]float64{1}, []float64{1, 2}, svm.CSVC)
	require.True(t, errors.As(err, &dimErr))
}

func TestFormatG(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{66.66666666666667, "66.6667"},
		{1e-7, "1e-07"},
		{123456789, "1.23457e+08"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
		{math.Copysign(math.NaN(), -1), "-nan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatG(tt.v), "%v", tt.v)
	}
}

func TestCrossValidationResultStringNonFinite(t *testing.T) {
	errors.SetWarningHandler(func(error) {})

	result, err := EvaluateCrossValidation([]float64{2, 2, 2}, []float64{1, 2, 3}, svm.EpsilonSVR)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^Cross Validation Squared correlation coefficient = -?nan$`, result.String())
}

func TestEvaluateCrossValidation(t *testing.T) {
	t.Run("classification", func(t *testing.T) {
		result, err := EvaluateCrossValidation([]float64{1, 1, 2}, []float64{1, 2, 2}, svm.CSVC)
		require.NoError(t, err)

		assert.False(t, result.IsRegression())
		assert.Equal(t, 3, result.Samples)
		assert.InDelta(t, 2.0/3.0, result.Accuracy, 1e-12)
		assert.Equal(t, "Cross Validation Accuracy = 66.6667%\n", result.String())
	})

	for _, typ := range []svm.Type{svm.EpsilonSVR, svm.NuSVR, svm.OpenSetOneClass} {
		t.Run("regression "+typ.String(), func(t *testing.T) {
			result, err := EvaluateCrossValidation([]float64{1, 2, 3}, []float64{1, 2, 3}, typ)
			require.NoError(t, err)

			assert.True(t, result.IsRegression())
			assert.Equal(t, 0.0, result.MSE)
			assert.InDelta(t, 1.0, result.SquaredCorrelation, 1e-12)
			assert.Equal(t,
				"Cross Validation Mean squared error = 0\n"+
					"Cross Validation Squared correlation coefficient = 1\n",
				result.String())
		})
	}

	t.Run("inputs are not mutated", func(t *testing.T) {
		y := []float64{1, 2, 3}
		pred := []float64{3, 1, 2}
		_, err := EvaluateCrossValidation(y, pred, svm.EpsilonSVR)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, y)
		assert.Equal(t, []float64{3, 1, 2}, pred)
	})
}
