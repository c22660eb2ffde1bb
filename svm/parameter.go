// Package svm holds the solver-facing configuration of a training run: the
// model and kernel families, their numeric hyperparameters and the open-set
// extensions.
package svm

import (
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/osvm/pkg/errors"
)

// GammaUnset is the sentinel meaning "default gamma to 1/max feature index".
const GammaUnset = 0.0

// DefaultRejectedLabel is the label assigned to rejected (unknown) inputs.
const DefaultRejectedLabel = -99999

// Parameter is the configuration handed to the solver.
type Parameter struct {
	Type   Type
	Kernel Kernel
	Degree int     // for poly
	Gamma  float64 // for poly/rbf/sigmoid
	Coef0  float64 // for poly/sigmoid

	CacheSize    float64 // in MB
	Eps          float64 // stopping criterion
	C            float64 // for C-SVC, epsilon-SVR and nu-SVR
	Nu           float64 // for nu-SVC, one-class SVM and nu-SVR
	P            float64 // epsilon in the loss function of epsilon-SVR
	Shrinking    int
	Probability  int
	WeightLabels []int
	Weights      []float64

	CrossValidation bool
	NrFold          int

	// Open-set extensions.
	DoOpen                bool
	Beta                  float64 // F-measure beta for open-set training
	NearPressure          float64 // <0 specializes, >0 generalizes
	FarPressure           float64
	RejectedLabel         int
	OpenSetMinProbability float64
	NegativeLabels        bool // also build models for negative classes
	ExhaustiveOpen        bool // exhaustive instead of greedy open-set search
	Optimize              Optimize

	// OptimizationLog receives solver events when set. The orchestrator
	// owns and closes the underlying file.
	OptimizationLog io.Writer
}

// NewParameter returns the default configuration.
func NewParameter() *Parameter {
	return &Parameter{
		Type:        CSVC,
		Kernel:      RBF,
		Degree:      3,
		Gamma:       GammaUnset,
		Coef0:       0,
		CacheSize:   100,
		Eps:         1e-3,
		C:           1,
		Nu:          0.5,
		P:           0.1,
		Shrinking:   1,
		Probability: 0,

		Beta:                  1.0,
		NearPressure:          0,
		FarPressure:           0,
		RejectedLabel:         DefaultRejectedLabel,
		OpenSetMinProbability: 0.001,
		Optimize:              OptimizeBalancedRisk,
	}
}

// GammaIsUnset reports whether Gamma still holds the unset sentinel.
func (p *Parameter) GammaIsUnset() bool {
	return p.Gamma == GammaUnset
}

// DefaultGamma sets Gamma to 1/maxIndex when it is unset and at least one
// feature index was observed. It reports whether Gamma changed.
func (p *Parameter) DefaultGamma(maxIndex int) bool {
	if p.GammaIsUnset() && maxIndex > 0 {
		p.Gamma = 1.0 / float64(maxIndex)
		return true
	}
	return false
}

// DetectOpenSet enables open-set bookkeeping when the family requires it.
func (p *Parameter) DetectOpenSet() bool {
	if p.Type.IsOpenSet() {
		p.DoOpen = true
	}
	return p.DoOpen
}

// SetCrossValidation enables n-fold cross-validation; n must be at least 2.
func (p *Parameter) SetCrossValidation(n int) error {
	if n < 2 {
		return errors.NewValidationError("nr_fold", "n-fold cross validation: n must >= 2", n)
	}
	p.CrossValidation = true
	p.NrFold = n
	return nil
}

// AddWeight scales C of class label by weight.
func (p *Parameter) AddWeight(label int, weight float64) {
	p.WeightLabels = append(p.WeightLabels, label)
	p.Weights = append(p.Weights, weight)
}

// ParseWeight parses a "label:weight" pair.
func ParseWeight(s string) (int, float64, error) {
	labelStr, weightStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.NewValidationError("weight", "expected label:weight", s)
	}
	label, err := strconv.Atoi(strings.TrimSpace(labelStr))
	if err != nil {
		return 0, 0, errors.NewValidationError("weight", "label must be an integer", s)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
	if err != nil {
		return 0, 0, errors.NewValidationError("weight", "weight must be a number", s)
	}
	return label, weight, nil
}
