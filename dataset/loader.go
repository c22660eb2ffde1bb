package dataset

import (
	"bufio"
	"io"
	"math"
	"os"
	"time"

	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/pkg/log"
	"github.com/YuminosukeSato/osvm/svm"
)

const (
	// initialLineBuffer is the starting size of the line buffer; it doubles
	// as needed for longer lines.
	initialLineBuffer = 10240
	maxLineLength     = math.MaxInt32
)

// LoadOption configures Load and LoadReader.
type LoadOption func(*loader)

// WithLogger sets the logger used to report load progress.
func WithLogger(l log.Logger) LoadOption {
	return func(ld *loader) {
		ld.logger = l
	}
}

type loader struct {
	param  *svm.Parameter
	logger log.Logger
}

// Load reads the training file at path.
//
// When param.DoOpen is set the distinct labels are tracked in
// first-appearance order. After loading, an unset param.Gamma defaults to
// 1/MaxIndex, and a precomputed kernel requires every example to start with
// 0:<sample id> where the id lies in [1, MaxIndex].
//
// On failure no Problem is returned and param is left untouched.
func Load(path string, param *svm.Parameter, opts ...LoadOption) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("open input file", path, err)
	}
	defer f.Close()

	return LoadReader(f, param, opts...)
}

// LoadReader is Load over an already opened input. r is read twice: once
// to size the arrays and once, after rewinding, to fill them.
func LoadReader(r io.ReadSeeker, param *svm.Parameter, opts ...LoadOption) (*Problem, error) {
	if param == nil {
		param = svm.NewParameter()
	}
	ld := &loader{param: param, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld.load(r)
}

// forEachRecord is the single parsing routine shared by both passes.
func forEachRecord(r io.Reader, fn func(lineNo int, rec Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)

	var scratch []Node
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if IsSkippable(line) {
			continue
		}

		rec, err := ParseRecord(line, lineNo, scratch)
		if err != nil {
			return err
		}
		if err := fn(lineNo, rec); err != nil {
			return err
		}
		scratch = rec.Features[:0]
	}
	return scanner.Err()
}

func (ld *loader) load(r io.ReadSeeker) (*Problem, error) {
	start := time.Now()
	logger := ld.logger.With(log.ComponentKey, "dataset", log.OperationKey, log.OperationLoad)

	// Pass 1: sizing.
	var (
		examples int
		entries  int
		tracker  LabelTracker
	)
	err := forEachRecord(r, func(_ int, rec Record) error {
		examples++
		entries += len(rec.Features) + 1
		if ld.param.DoOpen {
			tracker.Add(rec.Label)
		}
		return nil
	})
	if err != nil {
		logRejected(logger, err)
		return nil, err
	}
	logger.Debug("sizing pass done",
		log.PhaseKey, log.PhaseSizing,
		log.SamplesKey, examples,
		log.EntriesKey, entries,
		log.ClassesKey, tracker.Len(),
	)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind input")
	}

	prob := &Problem{
		Y:     make([]float64, examples),
		X:     make([][]Node, examples),
		arena: make([]Node, entries),
	}
	if ld.param.DoOpen {
		prob.Labels = tracker.Labels()
	}

	// Pass 2: population.
	i, j := 0, 0
	err = forEachRecord(r, func(lineNo int, rec Record) error {
		n := len(rec.Features)
		if i >= examples || j+n+1 > entries {
			return errors.NewFormatError(lineNo, errors.ErrInputChanged.Error())
		}

		prob.Y[i] = rec.Label
		copy(prob.arena[j:], rec.Features)
		prob.X[i] = prob.arena[j : j+n : j+n]
		if n > 0 && rec.Features[n-1].Index > prob.MaxIndex {
			prob.MaxIndex = rec.Features[n-1].Index
		}
		prob.arena[j+n] = Node{Index: SentinelIndex}

		i++
		j += n + 1
		return nil
	})
	if err != nil {
		logRejected(logger, err)
		return nil, err
	}
	if i != examples || j != entries {
		return nil, errors.WithStack(errors.ErrInputChanged)
	}

	if ld.param.Kernel == svm.Precomputed {
		if err := checkPrecomputed(prob); err != nil {
			return nil, err
		}
	}
	if ld.param.DefaultGamma(prob.MaxIndex) {
		logger.Debug("gamma defaulted from max feature index", log.GammaKey, ld.param.Gamma)
	}

	logger.Info("Problem loaded",
		log.PhaseKey, log.PhasePopulation,
		log.SamplesKey, prob.Len(),
		log.EntriesKey, prob.Entries(),
		log.FeaturesKey, prob.MaxIndex,
		log.ClassesKey, prob.NumClasses(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return prob, nil
}

// logRejected records the offending line of a malformed input. It logs at
// debug level; the caller decides how the error itself is reported.
func logRejected(logger log.Logger, err error) {
	var formatErr *errors.FormatError
	if !errors.As(err, &formatErr) {
		return
	}
	logger.Debug("Input rejected",
		log.LineKey, formatErr.Line,
		log.ErrorKey, err,
	)
}

// checkPrecomputed requires every example to start with 0:<sample id> and
// the id, truncated to an integer, to lie in [1, MaxIndex].
func checkPrecomputed(prob *Problem) error {
	for i, x := range prob.X {
		if len(x) == 0 || x[0].Index != 0 {
			return errors.NewPrecomputedKernelError(i+1, errors.ReasonFirstColumn)
		}
		id := math.Trunc(x[0].Value)
		if !(id > 0 && id <= float64(prob.MaxIndex)) {
			return errors.NewPrecomputedKernelError(i+1, errors.ReasonSerialNumber)
		}
	}
	return nil
}
