package svm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/osvm/pkg/errors"
)

func TestNewParameterDefaults(t *testing.T) {
	p := NewParameter()

	assert.Equal(t, CSVC, p.Type)
	assert.Equal(t, RBF, p.Kernel)
	assert.Equal(t, 3, p.Degree)
	assert.True(t, p.GammaIsUnset())
	assert.Equal(t, 0.5, p.Nu)
	assert.Equal(t, 100.0, p.CacheSize)
	assert.Equal(t, 1.0, p.C)
	assert.Equal(t, 1e-3, p.Eps)
	assert.Equal(t, 0.1, p.P)
	assert.Equal(t, 1, p.Shrinking)
	assert.Equal(t, 0, p.Probability)
	assert.False(t, p.CrossValidation)
	assert.False(t, p.DoOpen)

	assert.Equal(t, 1.0, p.Beta)
	assert.Equal(t, DefaultRejectedLabel, p.RejectedLabel)
	assert.Equal(t, 0.001, p.OpenSetMinProbability)
	assert.Equal(t, OptimizeBalancedRisk, p.Optimize)
	assert.False(t, p.NegativeLabels)
	assert.False(t, p.ExhaustiveOpen)
	assert.Nil(t, p.OptimizationLog)
}

func TestTypeFamilies(t *testing.T) {
	tests := []struct {
		typ        Type
		openSet    bool
		regression bool
	}{
		{CSVC, false, false},
		{NuSVC, false, false},
		{OneClass, false, false},
		{EpsilonSVR, false, true},
		{NuSVR, false, true},
		{OpenSetOneClass, true, true},
		{OpenSetPairwise, true, false},
		{OpenSetBinary, true, false},
		{OpenSetWSVM, false, false},
		{BinaryPIESVM, true, false},
		{OneVsRestPIESVM, true, false},
		{PairwisePIESVM, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.True(t, tt.typ.Known())
			assert.Equal(t, tt.openSet, tt.typ.IsOpenSet())
			assert.Equal(t, tt.regression, tt.typ.IsRegression())
		})
	}

	assert.False(t, Type(42).Known())
	assert.Equal(t, "svm_type(42)", Type(42).String())
	assert.Equal(t, "kernel_type(9)", Kernel(9).String())
}

func TestDetectOpenSet(t *testing.T) {
	p := NewParameter()
	assert.False(t, p.DetectOpenSet())

	p.Type = OpenSetBinary
	assert.True(t, p.DetectOpenSet())
	assert.True(t, p.DoOpen)
}

func TestDefaultGamma(t *testing.T) {
	p := NewParameter()

	assert.False(t, p.DefaultGamma(0), "no features observed")
	assert.True(t, p.GammaIsUnset())

	assert.True(t, p.DefaultGamma(8))
	assert.Equal(t, 1.0/8, p.Gamma)

	assert.False(t, p.DefaultGamma(4), "explicit gamma must be kept")
	assert.Equal(t, 1.0/8, p.Gamma)
}

func TestSetCrossValidation(t *testing.T) {
	p := NewParameter()

	err := p.SetCrossValidation(1)
	require.Error(t, err)
	var vErr *errors.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.False(t, p.CrossValidation)

	require.NoError(t, p.SetCrossValidation(5))
	assert.True(t, p.CrossValidation)
	assert.Equal(t, 5, p.NrFold)
}

func TestParseWeight(t *testing.T) {
	label, weight, err := ParseWeight("1:2.5")
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Equal(t, 2.5, weight)

	label, weight, err = ParseWeight("-1:0.5")
	require.NoError(t, err)
	assert.Equal(t, -1, label)
	assert.Equal(t, 0.5, weight)

	for _, bad := range []string{"1", "a:2", "1:b"} {
		_, _, err := ParseWeight(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyProperties(t *testing.T) {
	props := properties.MustLoadString(`
# open-set binary run
svm_type = 7
kernel_type = 0
gamma = 0.25
cost = 10
nr_fold = 4
beta = 0.5
near_pressure = -1
far_pressure = 2
neg_labels = true
weight.1 = 3
weight.-1 = 0.5
`)

	p := NewParameter()
	require.NoError(t, ApplyProperties(props, p))

	assert.Equal(t, OpenSetBinary, p.Type)
	assert.Equal(t, Linear, p.Kernel)
	assert.Equal(t, 0.25, p.Gamma)
	assert.Equal(t, 10.0, p.C)
	assert.True(t, p.CrossValidation)
	assert.Equal(t, 4, p.NrFold)
	assert.Equal(t, 0.5, p.Beta)
	assert.Equal(t, -1.0, p.NearPressure)
	assert.Equal(t, 2.0, p.FarPressure)
	assert.True(t, p.NegativeLabels)
	assert.ElementsMatch(t, []int{1, -1}, p.WeightLabels)
	assert.Len(t, p.Weights, 2)
}

func TestApplyPropertiesRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "shrinkage = 1",
		"bad number":    "cost = lots",
		"bad fold":      "nr_fold = 1",
		"bad weight":    "weight.x = 1",
		"bad bool flag": "neg_labels = maybe",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			props := properties.MustLoadString(src)
			assert.Error(t, ApplyProperties(props, NewParameter()))
		})
	}
}

func TestLoadProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.properties")
	require.NoError(t, os.WriteFile(path, []byte("svm_type = 3\np = 0.2\n"), 0o644))

	p := NewParameter()
	require.NoError(t, LoadProperties(path, p))
	assert.Equal(t, EpsilonSVR, p.Type)
	assert.Equal(t, 0.2, p.P)

	err := LoadProperties(filepath.Join(dir, "missing.properties"), NewParameter())
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
