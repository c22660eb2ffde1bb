package solver

import (
	"github.com/YuminosukeSato/osvm/dataset"
	"github.com/YuminosukeSato/osvm/svm"
)

// CheckParameter returns a description of the first problem found in param,
// or "" when param is usable for prob.
func CheckParameter(prob *dataset.Problem, param *svm.Parameter) string {
	t := param.Type
	if !t.Known() {
		return "unknown svm type"
	}
	if !param.Kernel.Known() {
		return "unknown kernel type"
	}

	if param.Gamma < 0 {
		return "gamma < 0"
	}
	if param.Degree < 0 {
		return "degree of polynomial kernel < 0"
	}

	if param.CacheSize <= 0 {
		return "cache_size <= 0"
	}
	if param.Eps <= 0 {
		return "eps <= 0"
	}

	if usesC(t) && param.C <= 0 {
		return "C <= 0"
	}
	if usesNu(t) && (param.Nu <= 0 || param.Nu > 1) {
		return "nu <= 0 or nu > 1"
	}
	if t == svm.EpsilonSVR && param.P < 0 {
		return "p < 0"
	}

	if param.Shrinking != 0 && param.Shrinking != 1 {
		return "shrinking != 0 and shrinking != 1"
	}
	if param.Probability != 0 && param.Probability != 1 {
		return "probability != 0 and probability != 1"
	}
	if param.Probability == 1 && (t == svm.OneClass || t == svm.OpenSetOneClass) {
		return "one-class SVM probability output not supported yet"
	}

	if len(param.WeightLabels) != len(param.Weights) {
		return "weight labels and weights differ in length"
	}

	if t == svm.NuSVC && !nuFeasible(prob.Y, param.Nu) {
		return "specified nu is infeasible"
	}
	return ""
}

func usesC(t svm.Type) bool {
	switch t {
	case svm.NuSVC, svm.OneClass, svm.OpenSetOneClass:
		return false
	}
	return true
}

func usesNu(t svm.Type) bool {
	switch t {
	case svm.NuSVC, svm.OneClass, svm.NuSVR, svm.OpenSetOneClass:
		return true
	}
	return false
}

// nuFeasible reports whether every pair of classes satisfies
// nu*(n1+n2)/2 <= min(n1, n2). Labels are grouped by their integer part.
func nuFeasible(y []float64, nu float64) bool {
	var (
		labels []int
		counts []int
	)
	for _, v := range y {
		label := int(v)
		j := 0
		for ; j < len(labels); j++ {
			if labels[j] == label {
				counts[j]++
				break
			}
		}
		if j == len(labels) {
			labels = append(labels, label)
			counts = append(counts, 1)
		}
	}

	for i := range counts {
		n1 := counts[i]
		for j := i + 1; j < len(counts); j++ {
			n2 := counts[j]
			if nu*float64(n1+n2)/2 > float64(min(n1, n2)) {
				return false
			}
		}
	}
	return true
}
