package xmetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nilSpanObserver struct{}

func (nilSpanObserver) Start(context.Context, SpanOptions) (context.Context, Span) {
	return nil, nil
}

func TestStart(t *testing.T) {
	t.Run("nil observer", func(t *testing.T) {
		var nilCtx context.Context
		ctx, span := Start(nilCtx, nil, SpanOptions{CallSite: "Repo.Get"})
		assert.NotNil(t, ctx)
		assert.Equal(t, NoopSpan{}, span)
	})

	t.Run("noop observer", func(t *testing.T) {
		base := context.Background()
		ctx, span := Start(base, NoopObserver{}, SpanOptions{})
		assert.Equal(t, base, ctx)
		assert.NotPanics(t, func() {
			span.End(Result{})
			span.End(Result{Err: errors.New("x")})
		})
	})

	t.Run("observer returning nils", func(t *testing.T) {
		base := context.Background()
		ctx, span := Start(base, nilSpanObserver{}, SpanOptions{})
		assert.Equal(t, base, ctx)
		assert.Equal(t, NoopSpan{}, span)
	})
}

func TestNoopObserverNilContext(t *testing.T) {
	var nilCtx context.Context
	ctx, span := NoopObserver{}.Start(nilCtx, SpanOptions{})
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}

func TestResolveOutcome(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		result Result
		want   Outcome
	}{
		{"empty", Result{}, OutcomeCompleted},
		{"error", Result{Err: boom}, OutcomeFailed},
		{"explicit disposed", Result{Outcome: OutcomeDisposed}, OutcomeDisposed},
		{"explicit wins over error", Result{Outcome: OutcomeDisposed, Err: boom}, OutcomeDisposed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveOutcome(tt.result))
		})
	}
}

func TestSubscriptionAttrs(t *testing.T) {
	assert.Equal(t, []Attr{
		{Key: AttrPassID, Value: "p-1"},
		{Key: AttrSubscription, Value: int64(2)},
	}, SubscriptionAttrs("p-1", 2, nil))

	attrs := SubscriptionAttrs("p-1", 1, []string{"int", "string"})
	assert.Equal(t, Attr{Key: AttrTypeArgs, Value: "int,string"}, attrs[2])
}

func TestFinalAttrs(t *testing.T) {
	assert.Equal(t, []Attr{
		{Key: AttrSubscribeOn, Value: "main"},
		{Key: AttrObserveOn, Value: "io"},
		{Key: AttrElapsed, Value: 5 * time.Millisecond},
	}, FinalAttrs("main", "io", 5*time.Millisecond))

	assert.Equal(t, []Attr{{Key: AttrElapsed, Value: time.Duration(0)}}, FinalAttrs("", "", 0))
}
