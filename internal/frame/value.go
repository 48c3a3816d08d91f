package frame

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the type held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindFloat
	KindTime
)

// TimeLayout is the layout used when a time cell is rendered as text
const TimeLayout = "2006-01-02 15:04:05"

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	f    float64
	t    time.Time
}

// Null returns the no-value marker
func Null() Value { return Value{} }

// String returns a text cell
func String(s string) Value { return Value{kind: KindString, s: s} }

// Float returns a numeric cell. NaN and ±Inf are stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindFloat, f: f}
}

// Time returns a timestamp cell
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the text of a string cell
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Num returns the number of a float cell
func (v Value) Num() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Timestamp returns the time of a time cell
func (v Value) Timestamp() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Text renders the cell for delimited output. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindTime:
		return v.t.Format(TimeLayout)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same kind and content.
// Null is never equal to anything, including another null.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.kind == KindNull {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindFloat:
		return v.f == o.f
	default:
		return v.t.Equal(o.t)
	}
}

// missingTokens are read as null in any column, matching the usual CSV
// conventions for absent values
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingToken reports whether raw text denotes an absent value
func IsMissingToken(raw string) bool {
	_, ok := missingTokens[raw]
	return ok
}

// ParseNumber reads a numeric value from a cell. Float cells are returned
// as is; string cells are parsed. Anything else, including text that does
// not parse to a finite number, reports false.
func ParseNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindString:
		s := strings.TrimSpace(v.s)
		if IsMissingToken(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// key is the hashable identity used by joins and distinct counts.
type key struct {
	kind Kind
	s    string
	f    float64
	t    int64
}

func (v Value) key() key {
	k := key{kind: v.kind, s: v.s, f: v.f}
	if v.kind == KindTime {
		k.t = v.t.UnixNano()
	}
	return k
}
