// Command osvm-train trains an SVM model, or runs n-fold cross-validation,
// from a training file in sparse format.
//
//	osvm-train [options] training_set_file [model_file]
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/pkg/log"
	"github.com/YuminosukeSato/osvm/solver"
	"github.com/YuminosukeSato/osvm/svm"
	"github.com/YuminosukeSato/osvm/trainer"
)

const version = "osvm-train 0.1.0"

// args mirrors svm-train's options. Pointer fields distinguish "not given"
// from a zero value so that flags only override what they name.
type args struct {
	TrainingSetFile string `arg:"positional,required" help:"training file in sparse format"`
	ModelFile       string `arg:"positional" help:"model output path (default: <training_set_file>.model)"`

	SVMType     *int     `arg:"-s,--svm-type" help:"0 C-SVC, 1 nu-SVC, 2 one-class, 3 epsilon-SVR, 4 nu-SVR, 5 open-set one-class, 6 open-set pair-wise, 7 open-set binary, 9 binary PIESVM, 10 one-vs-all PIESVM, 11 pair-wise PIESVM"`
	KernelType  *int     `arg:"-t,--kernel-type" help:"0 linear, 1 polynomial, 2 RBF, 3 sigmoid, 4 precomputed"`
	Degree      *int     `arg:"-d,--degree" help:"degree in kernel function (default 3)"`
	Gamma       *float64 `arg:"-g,--gamma" help:"gamma in kernel function (default 1/num_features)"`
	Coef0       *float64 `arg:"-r,--coef0" help:"coef0 in kernel function (default 0)"`
	Cost        *float64 `arg:"-c,--cost" help:"C of C-SVC, epsilon-SVR and nu-SVR (default 1)"`
	Nu          *float64 `arg:"-n,--nu" help:"nu of nu-SVC, one-class SVM and nu-SVR (default 0.5)"`
	Epsilon     *float64 `arg:"-p,--epsilon" help:"epsilon in loss function of epsilon-SVR (default 0.1)"`
	CacheSize   *float64 `arg:"-m,--cache-size" help:"cache memory size in MB (default 100)"`
	Tolerance   *float64 `arg:"-e,--tolerance" help:"tolerance of termination criterion (default 0.001)"`
	Shrinking   *int     `arg:"--shrinking" help:"whether to use the shrinking heuristics, 0 or 1 (default 1)"`
	Probability *int     `arg:"-b,--probability" help:"whether to train for probability estimates, 0 or 1 (default 0)"`
	Weights     []string `arg:"-w,--weight,separate" help:"label:weight, sets C of class label to weight*C"`
	Folds       *int     `arg:"-v,--folds" help:"n-fold cross validation mode"`

	Beta         *float64 `arg:"-B,--beta" help:"beta of the F-measure used in open-set training (default 1)"`
	OptLog       string   `arg:"-V,--opt-log" help:"log the open-set optimization process to this file"`
	NearPressure *float64 `arg:"--near-pressure" help:"open-set near pressure, <0 specializes, >0 generalizes"`
	FarPressure  *float64 `arg:"--far-pressure" help:"open-set far pressure, <0 specializes, >0 generalizes"`
	NegLabels    bool     `arg:"-N,--neg-labels" help:"also build models for negative classes"`
	Exhaustive   bool     `arg:"-E,--exhaustive" help:"exhaustive open-set search instead of greedy"`

	Config    string `arg:"--config" help:"properties file applied before the flags"`
	Plot      string `arg:"--plot" help:"write a cross-validation scatter plot to this file"`
	Quiet     bool   `arg:"-q,--quiet" help:"quiet mode (no outputs)"`
	LogLevel  string `arg:"--log-level" default:"info" help:"debug, info, warn or error"`
	LogFormat string `arg:"--log-format" default:"json" help:"json or console"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return `Train an SVM or open-set SVM model from a sparse training file.`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	var a args
	p, err := arg.NewParser(arg.Config{Program: "osvm-train"}, &a)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	switch err := p.Parse(argv); {
	case err == arg.ErrHelp:
		p.WriteHelp(stdout)
		return 0
	case err == arg.ErrVersion:
		fmt.Fprintln(stdout, version)
		return 0
	case err != nil:
		p.WriteUsage(stderr)
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if err := train(a, stdout, stderr); err != nil {
		return handleError(stderr, err)
	}
	return 0
}

func train(a args, stdout, stderr io.Writer) error {
	level := a.LogLevel
	if a.Quiet {
		level = "error"
	}
	logger, err := log.SetupLogger(stderr, level, a.LogFormat)
	if err != nil {
		return err
	}

	param, err := buildParameter(a)
	if err != nil {
		return err
	}

	s := solver.NewLibSVM()
	s.Quiet = a.Quiet
	s.Logger = logger

	t := trainer.New(s)
	t.Logger = logger
	t.Out = stdout

	_, err = t.Run(trainer.Options{
		InputFile:           a.TrainingSetFile,
		ModelFile:           a.ModelFile,
		Param:               param,
		PlotFile:            a.Plot,
		OptimizationLogPath: a.OptLog,
	})
	return err
}

// buildParameter layers the defaults, the optional properties file and the
// flags, in that order.
func buildParameter(a args) (*svm.Parameter, error) {
	param := svm.NewParameter()
	if a.Config != "" {
		if err := svm.LoadProperties(a.Config, param); err != nil {
			return nil, err
		}
	}

	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	if a.SVMType != nil {
		param.Type = svm.Type(*a.SVMType)
	}
	if a.KernelType != nil {
		param.Kernel = svm.Kernel(*a.KernelType)
	}
	setInt(&param.Degree, a.Degree)
	setFloat(&param.Gamma, a.Gamma)
	setFloat(&param.Coef0, a.Coef0)
	setFloat(&param.C, a.Cost)
	setFloat(&param.Nu, a.Nu)
	setFloat(&param.P, a.Epsilon)
	setFloat(&param.CacheSize, a.CacheSize)
	setFloat(&param.Eps, a.Tolerance)
	setInt(&param.Shrinking, a.Shrinking)
	setInt(&param.Probability, a.Probability)
	setFloat(&param.Beta, a.Beta)
	setFloat(&param.NearPressure, a.NearPressure)
	setFloat(&param.FarPressure, a.FarPressure)
	if a.NegLabels {
		param.NegativeLabels = true
	}
	if a.Exhaustive {
		param.ExhaustiveOpen = true
	}

	for _, w := range a.Weights {
		label, weight, err := svm.ParseWeight(w)
		if err != nil {
			return nil, err
		}
		param.AddWeight(label, weight)
	}

	if a.Folds != nil {
		if err := param.SetCrossValidation(*a.Folds); err != nil {
			return nil, err
		}
	}
	return param, nil
}

// handleError is the single place a failed run is reported.
func handleError(w io.Writer, err error) int {
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) {
		fmt.Fprintf(w, "Error: %s\n", configErr.Message)
	} else {
		fmt.Fprintln(w, err)
	}
	return 1
}
