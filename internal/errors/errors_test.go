package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewMissingSourceError("orders", "/data/orders.csv"),
			want: `[MISSING_SOURCE] source "orders" not found at /data/orders.csv`,
		},
		{
			name: "with cause",
			err:  NewExportError("/ro/out.csv", fs.ErrPermission),
			want: "[EXPORT] failed to write /ro/out.csv: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewLoadError("customers", "/data/c.csv", fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrPermission)

	wrapped := fmt.Errorf("load stage: %w", err)
	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, "customers", appErr.Context["dataset"])
	assert.Equal(t, "/data/c.csv", appErr.Context["path"])
}

func TestAppError_Fatal(t *testing.T) {
	assert.True(t, NewMissingSourceError("orders", "x").Fatal())
	assert.True(t, NewLoadError("orders", "x", nil).Fatal())
	assert.True(t, NewJoinError("order_id", nil).Fatal())
	assert.False(t, NewExportError("x", nil).Fatal())
	assert.True(t, NewTransformError("total revenue", nil).Fatal())
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "export error", err: NewExportError("/out.csv", fs.ErrPermission), want: false},
		{
			name: "joined export errors",
			err:  stderrors.Join(NewExportError("/a.csv", nil), NewExportError("/b.xlsx", nil)),
			want: false,
		},
		{name: "wrapped export error", err: fmt.Errorf("export: %w", NewExportError("/a.csv", nil)), want: false},
		{name: "transform error", err: NewTransformError("total revenue", nil), want: true},
		{name: "config error", err: NewConfigError("bad base dir", nil), want: true},
		{
			name: "export joined with load",
			err:  stderrors.Join(NewExportError("/a.csv", nil), NewLoadError("orders", "/o.csv", nil)),
			want: true,
		},
		{name: "plain error", err: stderrors.New("boom"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestLeaves(t *testing.T) {
	a := NewExportError("/a.csv", nil)
	b := NewExportError("/b.xlsx", nil)

	leaves := Leaves(fmt.Errorf("export: %w", stderrors.Join(a, b)))
	require.Len(t, leaves, 2)
	assert.Same(t, a, leaves[0])
	assert.Same(t, b, leaves[1])
	assert.Empty(t, Leaves(nil))
}

func TestIsTypeAndAll_JoinedErrors(t *testing.T) {
	joined := stderrors.Join(
		NewMissingSourceError("orders", "/a"),
		NewMissingSourceError("customers", "/c"),
	)
	wrapped := fmt.Errorf("load: %w", joined)

	assert.True(t, IsType(wrapped, ErrTypeMissingSource))
	assert.False(t, IsType(wrapped, ErrTypeLoad))
	assert.False(t, IsType(nil, ErrTypeLoad))

	missing := All(wrapped, ErrTypeMissingSource)
	require.Len(t, missing, 2)
	assert.Equal(t, "orders", missing[0].Context["dataset"])
	assert.Equal(t, "customers", missing[1].Context["dataset"])
}
