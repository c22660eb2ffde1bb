// Package osvm trains support vector machines, including open-set
// recognition variants, from sparse-format training files.
//
// The module is organized as a pipeline:
//
//   - svm: the training configuration, its defaults and properties-file loading
//   - dataset: the two-pass loader that turns a sparse file into a Problem
//   - solver: the Solver contract and its libsvm-go implementation
//   - metrics: cross-validation accuracy, mean squared error and squared correlation
//   - report: scatter plots of cross-validation predictions
//   - trainer: the orchestrator that ties one run together
//
// # Input format
//
// One example per line:
//
//	<label> <index1>:<value1> <index2>:<value2> ...
//
// Indices are strictly increasing. Blank lines and lines starting with '#'
// are ignored. With a precomputed kernel every line starts with
// 0:<sample id>.
//
// # Quick Start
//
//	param := svm.NewParameter()
//	param.Kernel = svm.Linear
//
//	t := trainer.New(solver.NewLibSVM())
//	result, err := t.Run(trainer.Options{
//	    InputFile: "heart_scale",
//	    Param:     param,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ModelFile) // heart_scale.model
//
// The osvm-train command in cmd/osvm-train exposes the same run with
// svm-train compatible flags.
package osvm
