package svm

import "fmt"

// Type is the model family (svm_type).
type Type int

const (
	CSVC            Type = 0
	NuSVC           Type = 1
	OneClass        Type = 2
	EpsilonSVR      Type = 3
	NuSVR           Type = 4
	OpenSetOneClass Type = 5
	OpenSetPairwise Type = 6
	OpenSetBinary   Type = 7
	// OpenSetWSVM is reserved; it is not part of the open-set family set.
	OpenSetWSVM     Type = 8
	BinaryPIESVM    Type = 9
	OneVsRestPIESVM Type = 10
	PairwisePIESVM  Type = 11
)

var typeNames = map[Type]string{
	CSVC:            "C-SVC",
	NuSVC:           "nu-SVC",
	OneClass:        "one-class SVM",
	EpsilonSVR:      "epsilon-SVR",
	NuSVR:           "nu-SVR",
	OpenSetOneClass: "open-set one-class SVM",
	OpenSetPairwise: "open-set pair-wise SVM",
	OpenSetBinary:   "open-set binary SVM",
	OpenSetWSVM:     "open-set WSVM",
	BinaryPIESVM:    "binary PIESVM",
	OneVsRestPIESVM: "one-vs-all PIESVM",
	PairwisePIESVM:  "pair-wise PIESVM",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("svm_type(%d)", int(t))
}

// Known reports whether t is one of the enumerated families.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// IsOpenSet reports whether t needs open-set bookkeeping while loading.
func (t Type) IsOpenSet() bool {
	switch t {
	case OpenSetOneClass, OpenSetPairwise, OpenSetBinary,
		BinaryPIESVM, OneVsRestPIESVM, PairwisePIESVM:
		return true
	}
	return false
}

// IsRegression reports whether cross-validation of t is scored with
// mean squared error and squared correlation instead of accuracy.
func (t Type) IsRegression() bool {
	return t == EpsilonSVR || t == NuSVR || t == OpenSetOneClass
}

// Kernel is the kernel family (kernel_type).
type Kernel int

const (
	Linear      Kernel = 0
	Poly        Kernel = 1
	RBF         Kernel = 2
	Sigmoid     Kernel = 3
	Precomputed Kernel = 4
)

var kernelNames = map[Kernel]string{
	Linear:      "linear",
	Poly:        "polynomial",
	RBF:         "rbf",
	Sigmoid:     "sigmoid",
	Precomputed: "precomputed",
}

func (k Kernel) String() string {
	if name, ok := kernelNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kernel_type(%d)", int(k))
}

// Known reports whether k is one of the enumerated kernels.
func (k Kernel) Known() bool {
	_, ok := kernelNames[k]
	return ok
}

// Optimize selects the open-set threshold objective.
type Optimize int

const (
	OptimizeAccuracy Optimize = iota
	OptimizePrecision
	OptimizeRecall
	OptimizeFMeasure
	OptimizeHingeLoss
	OptimizeBalancedRisk
)
