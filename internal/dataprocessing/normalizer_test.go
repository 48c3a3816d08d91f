package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{"2017-10-02 10:56:33", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02T10:56:33", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02", time.Date(2017, 10, 2, 0, 0, 0, 0, time.UTC), true},
		{" 2017-10-02 10:56:33 ", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02 10:56:33+00:00", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02 12:56:33+02:00", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02 07:56:33.250-03:00", time.Date(2017, 10, 2, 10, 56, 33, 250000000, time.UTC), true},
		{"2017-10-02 10:56:33+0000", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-02T12:56:33+02:00", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-13-45 99:00:00", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got))
			if ok {
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestNormalizer_ParseDates(t *testing.T) {
	f := frame.New(domain.ColOrderID, domain.ColOrderApprovedAt)
	require.NoError(t, f.AppendRow(frame.String("o1"), frame.String("2017-10-02 11:07:15")))
	require.NoError(t, f.AppendRow(frame.String("o2"), frame.String("garbage")))
	require.NoError(t, f.AppendRow(frame.String("o3"), frame.Null()))

	absent := NewNormalizer(nil).ParseDates(context.Background(), f, "orders",
		domain.ColOrderApprovedAt, domain.ColOrderDeliveredCarrierDate)

	assert.Equal(t, []string{domain.ColOrderDeliveredCarrierDate}, absent)

	v, err := f.Get(0, domain.ColOrderApprovedAt)
	require.NoError(t, err)
	ts, ok := v.Timestamp()
	require.True(t, ok)
	assert.Equal(t, 2017, ts.Year())

	for _, row := range []int{1, 2} {
		v, err := f.Get(row, domain.ColOrderApprovedAt)
		require.NoError(t, err)
		assert.True(t, v.IsNull(), "row %d", row)
	}
}

func TestNormalizer_NumericCellsBecomeNull(t *testing.T) {
	f := frame.New(domain.ColShippingLimitDate)
	require.NoError(t, f.AppendRow(frame.Float(20171006)))

	absent := NewNormalizer(nil).ParseDates(context.Background(), f, "fact", domain.ColShippingLimitDate)
	assert.Empty(t, absent)

	v, err := f.Get(0, domain.ColShippingLimitDate)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestNormalizer_Idempotent(t *testing.T) {
	f := frame.New("d")
	require.NoError(t, f.AppendRow(frame.String("2018-01-01 00:00:00")))

	n := NewNormalizer(nil)
	n.ParseDates(context.Background(), f, "x", "d")
	n.ParseDates(context.Background(), f, "x", "d")

	v, err := f.Get(0, "d")
	require.NoError(t, err)
	assert.Equal(t, "2018-01-01 00:00:00", v.Text())
}
