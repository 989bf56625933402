package xctx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
	"github.com/stretchr/testify/assert"
)

func attrMap(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestAppendTraceAttrs(t *testing.T) {
	assert.Empty(t, xctx.AppendTraceAttrs(nil, context.Background()))

	var nilCtx context.Context
	assert.Empty(t, xctx.AppendTraceAttrs(nil, nilCtx))

	ctx, _ := xctx.WithTraceID(context.Background(), "t1")
	ctx, _ = xctx.WithTraceFlags(ctx, "01")
	got := attrMap(xctx.AppendTraceAttrs(nil, ctx))
	assert.Equal(t, map[string]string{xctx.KeyTraceID: "t1", xctx.KeyTraceFlags: "01"}, got)
}

func TestAppendRxAttrs(t *testing.T) {
	ctx, _ := xctx.WithRx(context.Background(), xctx.Rx{
		PassID:   "p",
		CallSite: "Repo.List",
		Kind:     "Flowable",
		Event:    "onComplete",
	})
	attrs := xctx.AppendRxAttrs(nil, ctx)
	assert.Len(t, attrs, 4)
	assert.Equal(t, map[string]string{
		xctx.KeyPassID:   "p",
		xctx.KeyCallSite: "Repo.List",
		xctx.KeyKind:     "Flowable",
		xctx.KeyEvent:    "onComplete",
	}, attrMap(attrs))
}

func TestLogAttrs(t *testing.T) {
	assert.Nil(t, xctx.LogAttrs(context.Background()))

	var nilCtx context.Context
	assert.Nil(t, xctx.LogAttrs(nilCtx))

	ctx, _ := xctx.WithSpanID(context.Background(), "s1")
	ctx, _ = xctx.WithEvent(ctx, "onError")
	attrs := xctx.LogAttrs(ctx)
	if assert.Len(t, attrs, 2) {
		// 追踪字段在前
		assert.Equal(t, xctx.KeySpanID, attrs[0].Key)
		assert.Equal(t, xctx.KeyEvent, attrs[1].Key)
	}
	assert.LessOrEqual(t, len(attrs), xctx.MaxLogAttrs)
}
