// Package solver defines the contract between the training orchestrator and
// the SVM solver that validates parameters, trains models and produces
// cross-validation predictions.
package solver

import (
	"github.com/YuminosukeSato/osvm/dataset"
	"github.com/YuminosukeSato/osvm/svm"
)

// Solver trains SVM models from a loaded Problem.
type Solver interface {
	// Validate checks param against prob. A ConfigError carries the
	// validator's message verbatim.
	Validate(prob *dataset.Problem, param *svm.Parameter) error

	// Train fits a model on the whole problem.
	Train(prob *dataset.Problem, param *svm.Parameter) (Model, error)

	// CrossValidate returns one prediction per example, each produced by a
	// model that did not see that example.
	CrossValidate(prob *dataset.Problem, param *svm.Parameter, nrFold int) ([]float64, error)
}

// Model is a trained model.
type Model interface {
	// Save writes the model to path.
	Save(path string) error
}
