package xctx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Trace 操作测试
// =============================================================================

func TestTraceID(t *testing.T) {
	if got := xctx.TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(empty) = %q, want empty", got)
	}

	ctx, err := xctx.WithTraceID(context.Background(), "trace-123")
	if err != nil {
		t.Fatalf("WithTraceID() error = %v", err)
	}
	if got := xctx.TraceID(ctx); got != "trace-123" {
		t.Errorf("TraceID() = %q, want %q", got, "trace-123")
	}

	ctx, err = xctx.WithTraceID(ctx, "new-trace")
	if err != nil {
		t.Fatalf("WithTraceID() error = %v", err)
	}
	if got := xctx.TraceID(ctx); got != "new-trace" {
		t.Errorf("TraceID(overwrite) = %q, want %q", got, "new-trace")
	}

	var nilCtx context.Context
	if got := xctx.TraceID(nilCtx); got != "" {
		t.Errorf("TraceID(nil) = %q, want empty", got)
	}

	_, err = xctx.WithTraceID(nilCtx, "trace-123")
	if !errors.Is(err, xctx.ErrNilContext) {
		t.Errorf("WithTraceID(nil) error = %v, want %v", err, xctx.ErrNilContext)
	}
}

func TestSpanIDAndFlags(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		setter func(context.Context, string) (context.Context, error)
		getter func(context.Context) string
	}{
		{"SpanID", "span-456", xctx.WithSpanID, xctx.SpanID},
		{"TraceFlags", "01", xctx.WithTraceFlags, xctx.TraceFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, tt.getter(context.Background()))

			ctx, err := tt.setter(context.Background(), tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.value, tt.getter(ctx))

			var nilCtx context.Context
			_, err = tt.setter(nilCtx, tt.value)
			assert.ErrorIs(t, err, xctx.ErrNilContext)
		})
	}
}

func TestRequireTrace(t *testing.T) {
	_, err := xctx.RequireTraceID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingTraceID)
	_, err = xctx.RequireSpanID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingSpanID)

	var nilCtx context.Context
	_, err = xctx.RequireTraceID(nilCtx)
	assert.ErrorIs(t, err, xctx.ErrNilContext)

	ctx, _ := xctx.WithTraceID(context.Background(), "t")
	ctx, _ = xctx.WithSpanID(ctx, "s")
	tid, err := xctx.RequireTraceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", tid)
	sid, err := xctx.RequireSpanID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s", sid)
}
