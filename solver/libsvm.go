package solver

import (
	"math"
	"os"
	"runtime"
	"time"

	libSvm "github.com/ewalker544/libsvm-go"
	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/osvm/dataset"
	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/pkg/log"
	"github.com/YuminosukeSato/osvm/svm"
)

// LibSVM is a Solver backed by github.com/ewalker544/libsvm-go. It covers
// the closed-set families; open-set families are rejected by Validate.
type LibSVM struct {
	// TempDir holds the problem files handed to libsvm-go. Empty means
	// os.TempDir().
	TempDir string
	// NumCPU bounds the kernel evaluation workers. Zero means all CPUs.
	NumCPU int
	// Quiet suppresses libsvm-go's progress output.
	Quiet bool

	Logger log.Logger
}

// NewLibSVM returns a LibSVM using all CPUs and the global logger.
func NewLibSVM() *LibSVM {
	return &LibSVM{NumCPU: runtime.NumCPU(), Logger: log.GetLogger()}
}

var _ Solver = (*LibSVM)(nil)

var libsvmTypes = map[svm.Type]int{
	svm.CSVC:       libSvm.C_SVC,
	svm.NuSVC:      libSvm.NU_SVC,
	svm.OneClass:   libSvm.ONE_CLASS,
	svm.EpsilonSVR: libSvm.EPSILON_SVR,
	svm.NuSVR:      libSvm.NU_SVR,
}

var libsvmKernels = map[svm.Kernel]int{
	svm.Linear:      libSvm.LINEAR,
	svm.Poly:        libSvm.POLY,
	svm.RBF:         libSvm.RBF,
	svm.Sigmoid:     libSvm.SIGMOID,
	svm.Precomputed: libSvm.PRECOMPUTED,
}

// Validate runs CheckParameter and then rejects what this backend cannot
// train.
func (s *LibSVM) Validate(prob *dataset.Problem, param *svm.Parameter) error {
	if msg := CheckParameter(prob, param); msg != "" {
		return errors.NewConfigError(msg)
	}
	if param.Type.IsOpenSet() {
		return errors.NewConfigError("open-set svm type not supported by the libsvm solver")
	}
	if _, ok := libsvmTypes[param.Type]; !ok {
		return errors.NewConfigError("svm type not supported by the libsvm solver")
	}
	if prob.Len() == 0 {
		return errors.NewConfigError("empty problem")
	}
	return nil
}

// Train fits a libsvm-go model on prob.
func (s *LibSVM) Train(prob *dataset.Problem, param *svm.Parameter) (Model, error) {
	start := time.Now()
	lp := s.parameter(param)

	problem, err := s.materialize(prob, lp)
	if err != nil {
		return nil, errors.NewSolverError("train", err)
	}

	model := libSvm.NewModel(lp)
	err = errors.SafeExecute("libsvm.Train", func() error {
		return model.Train(problem)
	})
	if err != nil {
		return nil, errors.NewSolverError("train", err)
	}

	s.event(param, log.OperationTrain, prob, start).Msg("model trained")
	return &libsvmModel{model: model}, nil
}

// CrossValidate runs libsvm-go's n-fold cross-validation.
func (s *LibSVM) CrossValidate(prob *dataset.Problem, param *svm.Parameter, nrFold int) ([]float64, error) {
	start := time.Now()
	lp := s.parameter(param)

	problem, err := s.materialize(prob, lp)
	if err != nil {
		return nil, errors.NewSolverError("cross_validate", err)
	}

	var target []float64
	err = errors.SafeExecute("libsvm.CrossValidation", func() error {
		target = libSvm.CrossValidation(problem, lp, nrFold)
		return nil
	})
	if err != nil {
		return nil, errors.NewSolverError("cross_validate", err)
	}
	if len(target) != prob.Len() {
		return nil, errors.NewSolverError("cross_validate",
			errors.NewDimensionError("CrossValidate", prob.Len(), len(target)))
	}

	s.event(param, log.OperationCrossValidate, prob, start).Int(log.FoldsKey, nrFold).Msg("cross validation done")
	return target, nil
}

// parameter translates param into libsvm-go's configuration.
func (s *LibSVM) parameter(param *svm.Parameter) *libSvm.Parameter {
	lp := libSvm.NewParameter()
	lp.SvmType = libsvmTypes[param.Type]
	lp.KernelType = libsvmKernels[param.Kernel]
	lp.Degree = param.Degree
	lp.Gamma = param.Gamma
	lp.Coef0 = param.Coef0
	lp.Eps = param.Eps
	lp.C = param.C
	lp.Nu = param.Nu
	lp.P = param.P
	// libsvm-go sizes its cache in whole megabytes.
	lp.CacheSize = int(math.Ceil(param.CacheSize))
	lp.Probability = param.Probability == 1
	lp.NrWeight = len(param.WeightLabels)
	lp.WeightLabel = append([]int(nil), param.WeightLabels...)
	lp.Weight = append([]float64(nil), param.Weights...)
	lp.QuietMode = s.Quiet
	if s.NumCPU > 0 {
		lp.NumCPU = s.NumCPU
	} else {
		lp.NumCPU = runtime.NumCPU()
	}
	return lp
}

// materialize writes prob to a temporary file in the sparse text format and
// loads it with libsvm-go, which only reads problems from files.
func (s *LibSVM) materialize(prob *dataset.Problem, lp *libSvm.Parameter) (*libSvm.Problem, error) {
	f, err := os.CreateTemp(s.TempDir, "osvm-problem-*.txt")
	if err != nil {
		return nil, errors.NewIOError("create problem file", s.TempDir, err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := prob.WriteTo(f); err != nil {
		f.Close()
		return nil, errors.NewIOError("write problem file", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.NewIOError("write problem file", path, err)
	}

	var problem *libSvm.Problem
	err = errors.SafeExecute("libsvm.NewProblem", func() error {
		var err error
		problem, err = libSvm.NewProblem(path, lp)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load problem file %s", path)
	}

	if s.Logger != nil {
		s.Logger.Debug("problem materialized",
			log.ComponentKey, "solver",
			log.SamplesKey, prob.Len(),
			log.EntriesKey, prob.Entries(),
		)
	}
	return problem, nil
}

// event starts an optimization-log entry for op. Without a log writer the
// returned event is disabled and discards everything.
func (s *LibSVM) event(param *svm.Parameter, op string, prob *dataset.Problem, start time.Time) *zerolog.Event {
	if param.OptimizationLog == nil {
		nop := zerolog.Nop()
		return nop.Info()
	}
	logger := zerolog.New(param.OptimizationLog).With().Timestamp().Logger()
	return logger.Info().
		Str(log.OperationKey, op).
		Str(log.SVMTypeKey, param.Type.String()).
		Str(log.KernelKey, param.Kernel.String()).
		Float64(log.CostKey, param.C).
		Float64(log.GammaKey, param.Gamma).
		Int(log.SamplesKey, prob.Len()).
		Int64(log.DurationMsKey, time.Since(start).Milliseconds())
}

type libsvmModel struct {
	model *libSvm.Model
}

// Save dumps the model in libsvm's text format.
func (m *libsvmModel) Save(path string) error {
	return m.model.Dump(path)
}
