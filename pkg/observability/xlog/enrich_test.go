package xlog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/omeyang/xrxtrace/pkg/context/xctx"
	"github.com/omeyang/xrxtrace/pkg/observability/xlog"
)

func TestEnrichHandler(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func(context.Context) context.Context
		want     []string
		notWant  []string
	}{
		{
			name: "trace fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx, _ = xctx.WithTraceID(ctx, "trace-123")
				ctx, _ = xctx.WithSpanID(ctx, "span-456")
				return ctx
			},
			want: []string{`"trace_id":"trace-123"`, `"span_id":"span-456"`},
		},
		{
			name: "rx fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx, _ = xctx.WithRx(ctx, xctx.Rx{PassID: "p1", CallSite: "Repo.List", Kind: "Flowable", Event: "onNext"})
				return ctx
			},
			want: []string{`"rx_pass_id":"p1"`, `"rx_call_site":"Repo.List"`, `"rx_kind":"Flowable"`, `"rx_event":"onNext"`},
		},
		{
			name:     "empty context",
			setupCtx: func(ctx context.Context) context.Context { return ctx },
			want:     []string{"test message"},
			notWant:  []string{"trace_id", "rx_pass_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler, err := xlog.NewEnrichHandler(slog.NewJSONHandler(&buf, nil))
			if err != nil {
				t.Fatalf("NewEnrichHandler() error: %v", err)
			}
			slog.New(handler).InfoContext(tt.setupCtx(context.Background()), "test message")

			output := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(output, w) {
					t.Errorf("output missing %s\noutput: %s", w, output)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(output, nw) {
					t.Errorf("output should not contain %s\noutput: %s", nw, output)
				}
			}
		})
	}
}

func TestEnrichHandler_NilBase(t *testing.T) {
	_, err := xlog.NewEnrichHandler(nil)
	if !errors.Is(err, xlog.ErrNilHandler) {
		t.Errorf("NewEnrichHandler(nil) error = %v, want ErrNilHandler", err)
	}
}

func TestEnrichHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	handler, err := xlog.NewEnrichHandler(slog.NewJSONHandler(&buf, nil))
	if err != nil {
		t.Fatal(err)
	}
	h := handler.WithAttrs([]slog.Attr{slog.String("svc", "rx")})
	if _, ok := h.(*xlog.EnrichHandler); !ok {
		t.Fatalf("WithAttrs() type = %T, want *EnrichHandler", h)
	}
	if _, ok := h.WithGroup("g").(*xlog.EnrichHandler); !ok {
		t.Fatal("WithGroup() should keep EnrichHandler")
	}

	ctx, _ := xctx.WithEvent(context.Background(), "onSubscribe")
	slog.New(h).InfoContext(ctx, "m")
	if !strings.Contains(buf.String(), `"svc":"rx"`) || !strings.Contains(buf.String(), `"rx_event":"onSubscribe"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestLogger_EnrichDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetEnrich(false).Build()
	if err != nil {
		t.Fatal(err)
	}
	testCleanup(t, cleanup)

	ctx, _ := xctx.WithPassID(context.Background(), "p1")
	logger.Info(ctx, "plain")
	if strings.Contains(buf.String(), "rx_pass_id") {
		t.Errorf("enrich disabled but output = %s", buf.String())
	}
}
