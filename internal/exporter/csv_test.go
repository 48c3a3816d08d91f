package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
	"ecomkpi/internal/testutil"
	"ecomkpi/pkg/contracts/domain"
)

func buildFact(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New(domain.ColOrderID, domain.ColOrderPurchaseTimestamp, domain.ColPrice, domain.ColItemRevenue)
	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	require.NoError(t, f.AppendRow(frame.String("O1"), frame.Time(ts), frame.Float(10), frame.Float(11)))
	require.NoError(t, f.AppendRow(frame.String("O1"), frame.Null(), frame.Float(20.5), frame.Float(22.75)))
	require.NoError(t, f.AppendRow(frame.String("O, quoted"), frame.Null(), frame.Null(), frame.Null()))
	return f
}

func TestCSVWriter_WriteFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "processed.csv")
	fact := buildFact(t)

	require.NoError(t, NewCSVWriter(nil).WriteFrame(context.Background(), path, fact))

	records := testutil.ReadCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, fact.Columns(), records[0], "header has no index column")
	assert.Equal(t, []string{"O1", "2017-10-02 10:56:33", "10", "11"}, records[1])
	assert.Equal(t, []string{"O1", "", "20.5", "22.75"}, records[2])
	assert.Equal(t, []string{"O, quoted", "", "", ""}, records[3])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
}

func TestCSVWriter_WriteFrame_RevenueRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.csv")
	fact := buildFact(t)

	require.NoError(t, NewCSVWriter(nil).WriteFrame(context.Background(), path, fact))

	want, err := fact.Sum(domain.ColItemRevenue)
	require.NoError(t, err)

	records := testutil.ReadCSV(t, path)
	col := -1
	for i, name := range records[0] {
		if name == domain.ColItemRevenue {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0)

	var got float64
	for _, rec := range records[1:] {
		if rec[col] == "" {
			continue
		}
		v, err := strconv.ParseFloat(rec[col], 64)
		require.NoError(t, err)
		got += v
	}
	assert.InDelta(t, want, got, 1e-9)
}

func TestCSVWriter_WriteFrame_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	path := filepath.Join(blocker, "processed.csv")

	err := NewCSVWriter(nil).WriteFrame(context.Background(), path, buildFact(t))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeExport))

	exportErrs := errors.All(err, errors.ErrTypeExport)
	require.Len(t, exportErrs, 1)
	assert.Equal(t, path, exportErrs[0].Context["path"])
	assert.False(t, exportErrs[0].Fatal())
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name:    "headers and records",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "2"}}},
			want:    "a,b\n1,2\n",
		},
		{
			name:    "with BOM",
			options: WriteOptions{Headers: []string{"a"}, BOMPrefix: true},
			want:    "\ufeffa\n",
		},
		{
			name:    "no headers",
			options: WriteOptions{Records: [][]string{{"x"}}},
			want:    "x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table.csv")
			require.NoError(t, NewCSVWriter(nil).WriteCSV(path, tt.options))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestCSVWriter_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteCSV(path, WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}, {"2"}, {"3"}}}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{Headers: []string{"a"}, Records: [][]string{{"9"}}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n9\n", string(content))
}
