package frame

import (
	"errors"
	"fmt"
)

// ErrKeyTypeMismatch is returned when join key columns hold different kinds
var ErrKeyTypeMismatch = errors.New("join key type mismatch")

// Suffixes applied to non-key columns present on both sides of a join
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// InnerJoin joins left and right on the column named on. Only rows with an
// equal, non-null key on both sides are kept; a left row matching N right rows
// yields N output rows. Output columns are the left columns followed by the
// right columns without the key. Output order follows the left rows, then the
// right rows within each key.
func InnerJoin(left, right *Frame, on string) (*Frame, error) {
	lk, ok := left.index[on]
	if !ok {
		return nil, fmt.Errorf("left side: %w: %s", ErrColumnNotFound, on)
	}
	rk, ok := right.index[on]
	if !ok {
		return nil, fmt.Errorf("right side: %w: %s", ErrColumnNotFound, on)
	}

	leftKind, _ := left.ColumnKind(on)
	rightKind, _ := right.ColumnKind(on)
	if leftKind != KindNull && rightKind != KindNull && leftKind != rightKind {
		return nil, fmt.Errorf("%w on %q: %s vs %s", ErrKeyTypeMismatch, on, leftKind, rightKind)
	}

	overlap := make(map[string]bool)
	for _, c := range right.columns {
		if c != on && left.HasColumn(c) {
			overlap[c] = true
		}
	}

	columns := make([]string, 0, len(left.columns)+len(right.columns)-1)
	for _, c := range left.columns {
		if overlap[c] {
			c += LeftSuffix
		}
		columns = append(columns, c)
	}
	rightCols := make([]int, 0, len(right.columns)-1)
	for i, c := range right.columns {
		if i == rk {
			continue
		}
		if overlap[c] {
			c += RightSuffix
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	out := New(columns...)
	if len(out.columns) != len(columns) {
		return nil, fmt.Errorf("%w in join output", ErrDuplicateColumn)
	}

	buckets := make(map[key][]int, right.Len())
	for i, row := range right.rows {
		if row[rk].IsNull() {
			continue
		}
		k := row[rk].key()
		buckets[k] = append(buckets[k], i)
	}

	for _, lrow := range left.rows {
		if lrow[lk].IsNull() {
			continue
		}
		for _, ri := range buckets[lrow[lk].key()] {
			rrow := right.rows[ri]
			joined := make([]Value, 0, len(columns))
			joined = append(joined, lrow...)
			for _, c := range rightCols {
				joined = append(joined, rrow[c])
			}
			out.rows = append(out.rows, joined)
		}
	}
	return out, nil
}
