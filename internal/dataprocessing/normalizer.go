package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ecomkpi/internal/frame"
)

// dateLayouts are tried in order when parsing a timestamp cell
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses raw text with the accepted date layouts. Values with
// a UTC offset are converted to UTC; values without one are taken as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Normalizer converts date-valued columns to timestamps
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// ParseDates converts each named column of f in place. Cells that do not
// parse become null. Columns absent from f are skipped with a warning and
// returned so the caller can report schema drift.
func (n *Normalizer) ParseDates(ctx context.Context, f *frame.Frame, dataset string, columns ...string) []string {
	var absent []string
	for _, col := range columns {
		if !f.HasColumn(col) {
			n.logger.WarnContext(ctx, "Date column not found, skipping",
				slog.String("dataset", dataset),
				slog.String("column", col))
			absent = append(absent, col)
			continue
		}

		coerced := 0
		_ = f.MapColumn(col, func(v frame.Value) frame.Value {
			out := toTimestamp(v)
			if out.IsNull() && !v.IsNull() {
				coerced++
			}
			return out
		})

		if coerced > 0 {
			n.logger.InfoContext(ctx, "Unparseable dates coerced to null",
				slog.String("dataset", dataset),
				slog.String("column", col),
				slog.Int("count", coerced))
		}
	}

	n.logger.DebugContext(ctx, "Date columns converted",
		slog.String("dataset", dataset),
		slog.Int("requested", len(columns)),
		slog.Int("absent", len(absent)))
	return absent
}

func toTimestamp(v frame.Value) frame.Value {
	if _, ok := v.Timestamp(); ok {
		return v
	}
	s, ok := v.Str()
	if !ok {
		return frame.Null()
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return frame.Null()
	}
	return frame.Time(t)
}
