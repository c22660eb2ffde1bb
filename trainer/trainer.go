// Package trainer runs one training job: it loads the problem, validates the
// configuration, and either cross-validates or trains and saves a model.
package trainer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/osvm/dataset"
	"github.com/YuminosukeSato/osvm/metrics"
	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/pkg/log"
	"github.com/YuminosukeSato/osvm/report"
	"github.com/YuminosukeSato/osvm/solver"
	"github.com/YuminosukeSato/osvm/svm"
)

// Mode is what a run ended up doing.
type Mode int

const (
	ModeTrain Mode = iota
	ModeCrossValidate
)

func (m Mode) String() string {
	if m == ModeCrossValidate {
		return "cross_validate"
	}
	return "train"
}

// Options describes one run.
type Options struct {
	InputFile string
	// ModelFile defaults to ModelFileName(InputFile).
	ModelFile string
	// Param is used as given; nil means svm.NewParameter().
	Param *svm.Parameter
	// PlotFile, when set, receives a scatter plot of the cross-validation
	// predictions.
	PlotFile string
	// OptimizationLogPath, when set, is created and handed to the solver
	// as Param.OptimizationLog for the duration of the run.
	OptimizationLogPath string
}

// Result summarizes a successful run.
type Result struct {
	RunID     string
	Mode      Mode
	Samples   int
	Classes   int
	ModelFile string // empty after cross-validation

	CrossValidation *metrics.CrossValidationResult
}

// Trainer owns the configuration and problem of a run and hands them to
// Solver phase by phase.
type Trainer struct {
	Solver solver.Solver
	Logger log.Logger
	// Out receives the cross-validation summary.
	Out io.Writer
}

// New returns a Trainer writing summaries to stdout.
func New(s solver.Solver) *Trainer {
	return &Trainer{Solver: s, Logger: log.GetLogger(), Out: os.Stdout}
}

// ModelFileName derives the default model path: the input's base name with
// ".model" appended, in the working directory.
func ModelFileName(input string) string {
	return filepath.Base(input) + ".model"
}

// Run executes the job described by opts. Every resource acquired by the
// run is released before Run returns, on success and on every error path.
func (t *Trainer) Run(opts Options) (*Result, error) {
	start := time.Now()
	param := opts.Param
	if param == nil {
		param = svm.NewParameter()
	}
	modelFile := opts.ModelFile
	if modelFile == "" {
		modelFile = ModelFileName(opts.InputFile)
	}

	runID := uuid.NewString()
	logger := t.logger().With(log.RunIDKey, runID)

	openSet := param.DetectOpenSet()
	logger.Info("Starting run",
		log.InputFileKey, opts.InputFile,
		log.SVMTypeKey, param.Type.String(),
		log.KernelKey, param.Kernel.String(),
		log.OpenSetKey, openSet,
	)

	if opts.OptimizationLogPath != "" {
		f, err := os.Create(opts.OptimizationLogPath)
		if err != nil {
			return nil, errors.NewIOError("open log file", opts.OptimizationLogPath, err)
		}
		defer f.Close()
		param.OptimizationLog = f
		defer func() { param.OptimizationLog = nil }()
	}

	prob, err := dataset.Load(opts.InputFile, param, dataset.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer prob.Release()

	logger.Debug("Validating parameters", log.OperationKey, log.OperationValidate)
	if err := t.Solver.Validate(prob, param); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:   runID,
		Samples: prob.Len(),
		Classes: prob.NumClasses(),
	}

	if param.CrossValidation {
		if !openSet {
			result.Mode = ModeCrossValidate
			result.CrossValidation, err = t.crossValidate(logger, prob, param, opts.PlotFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Run finished", log.DurationMsKey, time.Since(start).Milliseconds())
			return result, nil
		}
		logger.Info("Cross validation is not supported for open-set types, training instead",
			log.SVMTypeKey, param.Type.String())
	}

	result.Mode = ModeTrain
	if err := t.train(logger, prob, param, modelFile); err != nil {
		return nil, err
	}
	result.ModelFile = modelFile

	logger.Info("Run finished", log.DurationMsKey, time.Since(start).Milliseconds())
	return result, nil
}

func (t *Trainer) crossValidate(logger log.Logger, prob *dataset.Problem, param *svm.Parameter, plotFile string) (*metrics.CrossValidationResult, error) {
	start := time.Now()
	target, err := t.Solver.CrossValidate(prob, param, param.NrFold)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.NewSolverError(log.OperationCrossValidate, errors.New("no predictions returned"))
	}

	cv, err := metrics.EvaluateCrossValidation(prob.Y, target, param.Type)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprint(t.out(), cv.String()); err != nil {
		return nil, errors.Wrap(err, "write cross validation summary")
	}

	fields := []any{
		log.OperationKey, log.OperationCrossValidate,
		log.FoldsKey, param.NrFold,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if cv.IsRegression() {
		fields = append(fields, log.MSEKey, cv.MSE, log.SCCKey, cv.SquaredCorrelation)
	} else {
		fields = append(fields, log.AccuracyKey, cv.Accuracy)
	}
	logger.Info("Cross validation done", fields...)

	if plotFile != "" {
		title := fmt.Sprintf("%d-fold cross validation (%s)", param.NrFold, param.Type)
		if err := report.WriteScatter(plotFile, prob.Y, target, title); err != nil {
			return nil, err
		}
		logger.Debug("Cross validation plot written", log.OperationKey, log.OperationPlot, "plot.file", plotFile)
	}
	return cv, nil
}

func (t *Trainer) train(logger log.Logger, prob *dataset.Problem, param *svm.Parameter, modelFile string) error {
	start := time.Now()
	model, err := t.Solver.Train(prob, param)
	if err != nil {
		return err
	}
	if model == nil {
		return errors.NewSolverError(log.OperationTrain, errors.New("no model returned"))
	}
	logger.Info("Model trained",
		log.OperationKey, log.OperationTrain,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if err := model.Save(modelFile); err != nil {
		return errors.NewIOError("save model to file", modelFile, err)
	}
	logger.Info("Model saved", log.OperationKey, log.OperationSave, log.ModelFileKey, modelFile)
	return nil
}

func (t *Trainer) logger() log.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return log.GetLogger()
}

func (t *Trainer) out() io.Writer {
	if t.Out != nil {
		return t.Out
	}
	return os.Stdout
}
