// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 入力ファイルの書式エラー、I/Oエラー、設定エラー、ソルバーの失敗を構造化された型で表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("osvm-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が有限値にならない場合に発生する警告です。
// 例えば、ラベルまたは予測値の分散が0で二乗相関係数の分母が0になる場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %g due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	入力ファイルのエラー型
//
// ===========================================================================

// FormatError は入力ファイルの1行が疎ベクトル形式として解釈できない場合のエラーです。
// Line はファイル先頭からの1始まりの行番号です。
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Wrong input format at line %d (%s)", e.Line, e.Reason)
	}
	return fmt.Sprintf("Wrong input format at line %d", e.Line)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("line", e.Line).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError は新しいFormatErrorを作成し、スタックトレースを付与します。
func NewFormatError(line int, reason string) error {
	return errors.WithStack(&FormatError{Line: line, Reason: reason})
}

// PrecomputedKernelError は事前計算カーネルの先頭列 (0:sample_serial_number) が不正な場合のエラーです。
// Example は1始まりのサンプル番号です。
type PrecomputedKernelError struct {
	Example int
	Reason  string
}

// 事前計算カーネル検証の理由
const (
	ReasonFirstColumn  = "first column must be 0:sample_serial_number"
	ReasonSerialNumber = "sample_serial_number out of range"
)

func (e *PrecomputedKernelError) Error() string {
	return fmt.Sprintf("Wrong input format: %s (example %d)", e.Reason, e.Example)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PrecomputedKernelError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("example", e.Example).
		Str("reason", e.Reason).
		Str("type", "PrecomputedKernelError")
}

// NewPrecomputedKernelError は新しいPrecomputedKernelErrorを作成し、スタックトレースを付与します。
func NewPrecomputedKernelError(example int, reason string) error {
	return errors.WithStack(&PrecomputedKernelError{Example: example, Reason: reason})
}

// IOError はファイルのオープンや書き込みに失敗した場合のエラーです。
type IOError struct {
	Op   string // "open input file", "save model to file" など
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("can't %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("can't %s %s", e.Op, e.Path)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IOError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		Str("type", "IOError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewIOError は新しいIOErrorを作成し、スタックトレースを付与します。
func NewIOError(op, path string, err error) error {
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// ===========================================================================
//
//	設定・ソルバーのエラー型
//
// ===========================================================================

// ConfigError はソルバーのパラメータ検証が失敗した場合のエラーです。
// Message は検証器が返したメッセージそのものです。
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("message", e.Message).
		Str("type", "ConfigError")
}

// NewConfigError は新しいConfigErrorを作成し、スタックトレースを付与します。
func NewConfigError(message string) error {
	return errors.WithStack(&ConfigError{Message: message})
}

// SolverError は学習や交差検証がモデル・予測値を返せなかった場合のエラーです。
type SolverError struct {
	Op  string // "train", "cross_validate"
	Err error
}

func (e *SolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("solver: %s failed", e.Op)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}

// NewSolverError は新しいSolverErrorを作成し、スタックトレースを付与します。
func NewSolverError(op string, err error) error {
	return errors.WithStack(&SolverError{Op: op, Err: err})
}

// ===========================================================================
//
//	引数検証のエラー型
//
// ===========================================================================

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("osvm: %s: length mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("osvm: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("osvm: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrInputChanged は2パス読み込みの間に入力ファイルが変化した場合のエラーです。
	ErrInputChanged = New("input changed between sizing and population passes")
)
