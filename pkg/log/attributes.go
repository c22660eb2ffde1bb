// Package log defines standard attribute keys for training runs.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "metrics.accuracy") so records from the loader, the solver adapter and the
// orchestrator can be filtered together.

package log

// Run and operation context.
const (
	// RunIDKey identifies one invocation of the trainer (a UUID).
	RunIDKey = "run.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "validate", "train", "cross_validate", "save"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the run.
	PhaseKey = "ml.phase"
)

// Problem shape.
const (
	// SamplesKey is the number of examples (l) in the problem.
	SamplesKey = "data.samples"

	// FeaturesKey is the maximum feature index observed in the problem.
	FeaturesKey = "data.features"

	// EntriesKey is the size of the shared feature-entry arena, sentinels included.
	EntriesKey = "data.entries"

	// ClassesKey is the number of distinct labels tracked in open-set mode.
	ClassesKey = "data.classes"

	// InputFileKey is the path of the training file.
	InputFileKey = "data.input"

	// LineKey is the 1-based line number in the input file.
	LineKey = "data.line"
)

// Solver configuration.
const (
	// SVMTypeKey is the model family.
	SVMTypeKey = "svm.type"

	// KernelKey is the kernel family.
	KernelKey = "svm.kernel"

	// CostKey is the C parameter.
	CostKey = "svm.c"

	// GammaKey is the effective kernel width.
	GammaKey = "svm.gamma"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "svm.folds"

	// OpenSetKey reports whether open-set bookkeeping is active.
	OpenSetKey = "svm.open_set"

	// ModelFileKey is the path the trained model is written to.
	ModelFileKey = "svm.model_file"
)

// Metrics and timing.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records cross-validation accuracy, in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// MSEKey records the cross-validation mean squared error.
	MSEKey = "metrics.mse"

	// SCCKey records the squared correlation coefficient.
	SCCKey = "metrics.scc"
)

// Error context.
const (
	// ErrorKey holds the error message.
	ErrorKey = "error"

	// ErrorTypeKey categorizes the error ("FormatError", "ConfigError", ...).
	ErrorTypeKey = "error.type"

	// StacktraceKey contains the stack trace recorded by cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationLoad          = "load"
	OperationValidate      = "validate"
	OperationTrain         = "train"
	OperationCrossValidate = "cross_validate"
	OperationSave          = "save"
	OperationPlot          = "plot"

	PhaseSizing     = "sizing"
	PhasePopulation = "population"
)
