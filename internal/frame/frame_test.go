package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_InfersColumnKinds(t *testing.T) {
	f, err := FromRecords(
		[]string{"id", "price", "note", "zip"},
		[][]string{
			{"a1", "10.5", "x", "01310"},
			{"a2", "", "12", "22041"},
			{"a3", "3", "", "NaN"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())

	kind, err := f.ColumnKind("price")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, kind)

	kind, err = f.ColumnKind("note")
	require.NoError(t, err)
	assert.Equal(t, KindString, kind, "mixed text and numbers stays text")

	v, err := f.Get(1, "price")
	require.NoError(t, err)
	assert.True(t, v.IsNull(), "empty cell becomes null")

	v, err = f.Get(1, "note")
	require.NoError(t, err)
	s, ok := v.Str()
	assert.True(t, ok)
	assert.Equal(t, "12", s)

	v, err = f.Get(0, "zip")
	require.NoError(t, err)
	n, ok := v.Num()
	assert.True(t, ok)
	assert.Equal(t, 1310.0, n)

	v, err = f.Get(2, "zip")
	require.NoError(t, err)
	assert.True(t, v.IsNull(), "NaN becomes null")
}

func TestFromRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		records [][]string
		wantErr error
	}{
		{
			name:    "duplicate header",
			header:  []string{"a", "a"},
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "short row",
			header:  []string{"a", "b"},
			records: [][]string{{"1", "2"}, {"1"}},
			wantErr: ErrRowWidth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecords(tt.header, tt.records)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValue_Text(t *testing.T) {
	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null(), ""},
		{"string", String("delivered"), "delivered"},
		{"integral float", Float(14409), "14409"},
		{"fraction", Float(58.9), "58.9"},
		{"time", Time(ts), "2017-10-02 10:56:33"},
		{"nan is null", Float(math.NaN()), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Text())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("1").Equal(Float(1)), "no coercion across kinds")
	assert.False(t, Null().Equal(Null()), "null never matches")
	assert.True(t, Float(1.5).Equal(Float(1.5)))
}

func TestFrame_FilterAndAddColumn(t *testing.T) {
	f := New("id", "status")
	require.NoError(t, f.AppendRow(String("o1"), String("delivered")))
	require.NoError(t, f.AppendRow(String("o2"), String("shipped")))
	require.NoError(t, f.AppendRow(String("o3"), String("Delivered")))

	kept := f.Filter(func(r Row) bool {
		s, _ := r.Get("status").Str()
		return s == "delivered"
	})
	require.Equal(t, 1, kept.Len())
	assert.Equal(t, 3, f.Len(), "source frame is untouched")

	require.NoError(t, kept.AddColumn("flag", func(Row) Value { return Float(1) }))
	assert.Equal(t, []string{"id", "status", "flag"}, kept.Columns())
	assert.Equal(t, []string{"id", "status"}, f.Columns())
	assert.Len(t, f.Records()[0], 2, "shared rows are not widened")

	err := kept.AddColumn("flag", func(Row) Value { return Null() })
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestFrame_MapColumn(t *testing.T) {
	f := New("d")
	require.NoError(t, f.AppendRow(String("x")))

	require.NoError(t, f.MapColumn("d", func(Value) Value { return Null() }))
	v, err := f.Get(0, "d")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	assert.ErrorIs(t, f.MapColumn("missing", func(v Value) Value { return v }), ErrColumnNotFound)
}

func TestFrame_DistinctAndSum(t *testing.T) {
	f := New("id", "amount")
	require.NoError(t, f.AppendRow(String("a"), Float(1.25)))
	require.NoError(t, f.AppendRow(String("a"), Null()))
	require.NoError(t, f.AppendRow(String("b"), Float(2.5)))
	require.NoError(t, f.AppendRow(Null(), Float(1)))

	n, err := f.Distinct("id")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := f.Sum("amount")
	require.NoError(t, err)
	assert.InDelta(t, 4.75, total, 1e-9)

	_, err = f.Sum("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFrame_Describe(t *testing.T) {
	f := New("a", "b")
	require.NoError(t, f.AppendRow(String("x"), Null()))
	require.NoError(t, f.AppendRow(String("y"), Float(2)))

	info := f.Describe()
	assert.Equal(t, []ColumnInfo{
		{Name: "a", Kind: KindString, NonNull: 2},
		{Name: "b", Kind: KindFloat, NonNull: 1},
	}, info)
}

func TestFrame_AppendRowWidth(t *testing.T) {
	f := New("a", "b")
	assert.ErrorIs(t, f.AppendRow(String("x")), ErrRowWidth)
}

func TestFromRecords_MissingTokensKeepColumnNumeric(t *testing.T) {
	f, err := FromRecords(
		[]string{"price", "freight"},
		[][]string{
			{"10.00", "1.00"},
			{"n/a", "NA"},
			{"20.00", "null"},
			{"<NA>", "2.00"},
		},
	)
	require.NoError(t, err)

	for _, col := range []string{"price", "freight"} {
		kind, err := f.ColumnKind(col)
		require.NoError(t, err)
		assert.Equal(t, KindFloat, kind, col)
	}

	sum, err := f.Sum("price")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, sum, 1e-9)

	v, err := f.Get(1, "price")
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestFromRecords_InfinityIsNull(t *testing.T) {
	f, err := FromRecords([]string{"price"}, [][]string{{"inf"}, {"-Infinity"}, {"5"}})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		v, err := f.Get(i, "price")
		require.NoError(t, err)
		assert.True(t, v.IsNull(), "row %d", i)
	}
	sum, err := f.Sum("price")
	require.NoError(t, err)
	assert.Equal(t, 5.0, sum)
}

func TestFloat_NonFiniteIsNull(t *testing.T) {
	assert.True(t, Float(math.Inf(1)).IsNull())
	assert.True(t, Float(math.Inf(-1)).IsNull())
	assert.True(t, Float(math.NaN()).IsNull())
	assert.False(t, Float(0).IsNull())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     Value
		want   float64
		wantOK bool
	}{
		{"float cell", Float(2.5), 2.5, true},
		{"numeric text", String(" 19.90 "), 19.9, true},
		{"garbage text", String("abc"), 0, false},
		{"missing token", String("N/A"), 0, false},
		{"infinite text", String("inf"), 0, false},
		{"null", Null(), 0, false},
		{"time", Time(time.Now()), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
