// Package metrics は交差検証の予測値を評価する指標を提供する。
package metrics

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/osvm/pkg/errors"
	"github.com/YuminosukeSato/osvm/svm"
)

// CrossValidationResult は交差検証の評価結果
type CrossValidationResult struct {
	Type    svm.Type
	Samples int

	// 分類の場合のみ有効
	Accuracy float64

	// 回帰および open-set one-class の場合のみ有効
	MSE                float64
	SquaredCorrelation float64
}

// IsRegression は結果がMSE/二乗相関係数で評価されたかどうかを返す
func (r *CrossValidationResult) IsRegression() bool {
	return r.Type.IsRegression()
}

// String は学習ドライバが標準出力に出す要約を返す
func (r *CrossValidationResult) String() string {
	var sb strings.Builder
	if r.IsRegression() {
		fmt.Fprintf(&sb, "Cross Validation Mean squared error = %s\n", formatG(r.MSE))
		fmt.Fprintf(&sb, "Cross Validation Squared correlation coefficient = %s\n", formatG(r.SquaredCorrelation))
	} else {
		fmt.Fprintf(&sb, "Cross Validation Accuracy = %s%%\n", formatG(100*r.Accuracy))
	}
	return sb.String()
}

// formatG はCの "%.6g" と同じ表記で値を整形する。
// 非有限値は nan, -nan, inf, -inf と表記される。
func formatG(v float64) string {
	switch {
	case math.IsNaN(v):
		if math.Signbit(v) {
			return "-nan"
		}
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.6g", v)
}

// EvaluateCrossValidation はモデル種別に応じて交差検証の予測値を評価する。
// 回帰系 (epsilon-SVR, nu-SVR, open-set one-class) はMSEと二乗相関係数、
// それ以外は正解率を計算する。入力は変更しない。
func EvaluateCrossValidation(y, pred []float64, t svm.Type) (*CrossValidationResult, error) {
	if err := checkInputs("EvaluateCrossValidation", y, pred); err != nil {
		return nil, err
	}

	result := &CrossValidationResult{Type: t, Samples: len(y)}
	if t.IsRegression() {
		result.MSE = mse(y, pred)
		result.SquaredCorrelation = squaredCorrelation(y, pred)
		return result, nil
	}

	result.Accuracy = accuracy(y, pred)
	return result, nil
}

// Accuracy は予測値がラベルと完全一致する割合を計算する
func Accuracy(y, pred []float64) (float64, error) {
	if err := checkInputs("Accuracy", y, pred); err != nil {
		return 0, err
	}
	return accuracy(y, pred), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(y, pred []float64) (float64, error) {
	if err := checkInputs("MSE", y, pred); err != nil {
		return 0, err
	}
	return mse(y, pred), nil
}

// SquaredCorrelation は予測値とラベルのピアソン相関係数の二乗を計算する。
//
// r² = (l·Σvy − Σv·Σy)² / ((l·Σv² − (Σv)²)·(l·Σy² − (Σy)²))
//
// ラベルまたは予測値が定数の場合は分母が0になり、NaNまたは±Infがそのまま返る。
// その際はUndefinedMetricWarningを発生させる。
func SquaredCorrelation(y, pred []float64) (float64, error) {
	if err := checkInputs("SquaredCorrelation", y, pred); err != nil {
		return 0, err
	}
	return squaredCorrelation(y, pred), nil
}

func checkInputs(op string, y, pred []float64) error {
	if len(y) == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if len(pred) != len(y) {
		return errors.NewDimensionError(op, len(y), len(pred))
	}
	return nil
}

func accuracy(y, pred []float64) float64 {
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

func mse(y, pred []float64) float64 {
	// MSE = (1/l) * Σ(v - y)²
	var sum float64
	for i := range y {
		diff := pred[i] - y[i]
		sum += diff * diff
	}
	return sum / float64(len(y))
}

func squaredCorrelation(y, pred []float64) float64 {
	l := float64(len(y))
	sumV := floats.Sum(pred)
	sumY := floats.Sum(y)
	sumVV := floats.Dot(pred, pred)
	sumYY := floats.Dot(y, y)
	sumVY := floats.Dot(pred, y)

	num := l*sumVY - sumV*sumY
	den := (l*sumVV - sumV*sumV) * (l*sumYY - sumY*sumY)

	// 分母0はガードしない
	return errors.WarnIfNonFinite("squared_correlation_coefficient",
		"zero variance in labels or predictions", num*num/den)
}
