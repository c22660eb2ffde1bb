package dataset

import (
	"errors"
	"strconv"
	"strings"

	osvmerrors "github.com/YuminosukeSato/osvm/pkg/errors"
)

// commentMarker starts a comment line when it prefixes the first token.
const commentMarker = '#'

// Record is one parsed example line.
type Record struct {
	Label    float64
	Features []Node
}

// tokenizer yields whitespace-delimited tokens of a line without allocating.
type tokenizer struct {
	s string
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (t *tokenizer) next() (string, bool) {
	i := 0
	for i < len(t.s) && isSpace(t.s[i]) {
		i++
	}
	if i == len(t.s) {
		t.s = ""
		return "", false
	}
	j := i
	for j < len(t.s) && !isSpace(t.s[j]) {
		j++
	}
	tok := t.s[i:j]
	t.s = t.s[j:]
	return tok, true
}

// IsSkippable reports whether line is blank or a comment.
func IsSkippable(line string) bool {
	tok := tokenizer{s: line}
	first, ok := tok.next()
	return !ok || first[0] == commentMarker
}

// ParseRecord parses one non-skippable line. Features are appended to
// dst[:0], so callers can reuse a scratch buffer across lines. lineNo is the
// 1-based line number reported in a FormatError.
//
// Indices must be integers strictly greater than the previous index of the
// same record; the first may be 0 (precomputed kernels).
func ParseRecord(line string, lineNo int, dst []Node) (Record, error) {
	tok := tokenizer{s: line}

	labelTok, ok := tok.next()
	if !ok {
		return Record{}, osvmerrors.NewFormatError(lineNo, "missing label")
	}
	label, err := parseLabel(labelTok)
	if err != nil {
		return Record{}, osvmerrors.NewFormatError(lineNo, "label is not a number")
	}

	features := dst[:0]
	prev := SentinelIndex
	for {
		field, ok := tok.next()
		if !ok {
			break
		}

		idxTok, valTok, found := strings.Cut(field, ":")
		if !found {
			return Record{}, osvmerrors.NewFormatError(lineNo, "feature "+strconv.Quote(field)+" is not index:value")
		}

		idx, err := strconv.ParseInt(idxTok, 10, 32)
		if err != nil {
			return Record{}, osvmerrors.NewFormatError(lineNo, "feature index "+strconv.Quote(idxTok)+" is not an integer")
		}
		if int(idx) <= prev {
			return Record{}, osvmerrors.NewFormatError(lineNo, "feature indices must be strictly increasing")
		}

		val, err := parseValue(valTok)
		if err != nil {
			return Record{}, osvmerrors.NewFormatError(lineNo, "feature value "+strconv.Quote(valTok)+" is not a number")
		}

		features = append(features, Node{Index: int(idx), Value: val})
		prev = int(idx)
	}

	return Record{Label: label, Features: features}, nil
}

// parseValue parses a feature value. Values that overflow, or underflow to
// zero from a nonzero mantissa, are rejected like any malformed number.
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v == 0 && nonzeroMantissa(s) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrRange}
	}
	return v, nil
}

// nonzeroMantissa reports whether the significand of a number ParseFloat
// accepted has a nonzero digit.
func nonzeroMantissa(s string) bool {
	s = strings.TrimLeft(s, "+-")
	hex := len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	if hex {
		s = s[2:]
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'p' || c == 'P':
			return false
		case !hex && (c == 'e' || c == 'E'):
			return false
		case c >= '1' && c <= '9':
			return true
		case hex && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
			return true
		}
	}
	return false
}

// parseLabel accepts any real number. Out-of-range labels saturate to ±Inf
// instead of failing; only feature values are range checked.
func parseLabel(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, err
	}
	return v, nil
}
