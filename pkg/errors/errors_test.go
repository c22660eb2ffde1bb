package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		reason  string
		wantMsg string
	}{
		{
			name:    "without reason",
			line:    3,
			wantMsg: "Wrong input format at line 3",
		},
		{
			name:    "with reason",
			line:    12,
			reason:  "feature indices must be strictly increasing",
			wantMsg: "Wrong input format at line 12 (feature indices must be strictly increasing)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFormatError(tt.line, tt.reason)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var formatErr *FormatError
			if !As(err, &formatErr) {
				t.Fatal("Error should be castable to *FormatError")
			}
			if formatErr.Line != tt.line {
				t.Errorf("Line = %d, want %d", formatErr.Line, tt.line)
			}
		})
	}
}

func TestPrecomputedKernelError(t *testing.T) {
	err := NewPrecomputedKernelError(4, ReasonSerialNumber)

	want := "Wrong input format: sample_serial_number out of range (example 4)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var pkErr *PrecomputedKernelError
	if !As(err, &pkErr) {
		t.Fatal("Error should be castable to *PrecomputedKernelError")
	}

	// FormatErrorとは区別される
	var formatErr *FormatError
	if As(err, &formatErr) {
		t.Error("PrecomputedKernelError must not be a *FormatError")
	}
}

func TestIOError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := NewIOError("open input file", "heart_scale", cause)

	if !strings.HasPrefix(err.Error(), "can't open input file heart_scale") {
		t.Errorf("unexpected message %q", err.Error())
	}

	if !Is(err, cause) {
		t.Error("IOError should unwrap to its cause")
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("C <= 0")

	if err.Error() != "C <= 0" {
		t.Errorf("ConfigError must keep the validator message verbatim, got %q", err.Error())
	}

	var cfgErr *ConfigError
	if !As(err, &cfgErr) {
		t.Error("Error should be castable to *ConfigError")
	}
}

func TestSolverError(t *testing.T) {
	cause := New("no support vectors")
	err := NewSolverError("train", cause)

	if err.Error() != "solver: train failed: no support vectors" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !Is(err, cause) {
		t.Error("SolverError should unwrap to its cause")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("EvaluateCrossValidation", 10, 9)

	want := "osvm: EvaluateCrossValidation: length mismatch. Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("nr_fold", "n-fold cross validation: n must >= 2", 1)

	want := "osvm: validation failed for parameter 'nr_fold': n-fold cross validation: n must >= 2 (got: 1)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Error().Object("err", &FormatError{Line: 7, Reason: "bad label"}).Msg("load failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	obj, ok := entry["err"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured err object, got %v", entry["err"])
	}
	if obj["line"] != 7.0 || obj["type"] != "FormatError" {
		t.Errorf("unexpected structured fields: %v", obj)
	}
}

func TestWarnIfNonFinite(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	if v := WarnIfNonFinite("r2", "zero variance", 0.5); v != 0.5 {
		t.Errorf("finite value must pass through, got %v", v)
	}
	if len(got) != 0 {
		t.Fatalf("finite value must not warn, got %v", got)
	}

	v := WarnIfNonFinite("r2", "zero variance", math.NaN())
	if !math.IsNaN(v) {
		t.Errorf("NaN must pass through, got %v", v)
	}
	if len(got) != 1 {
		t.Fatalf("expected one warning, got %d", len(got))
	}

	var w *UndefinedMetricWarning
	if !As(got[0], &w) || w.Metric != "r2" {
		t.Errorf("unexpected warning %v", got[0])
	}
}
