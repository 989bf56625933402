package main

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// demoMetrics 进程内收集埋点指标，每轮结束后打印累计值。
type demoMetrics struct {
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
}

// installMetrics 安装全局 MeterProvider，需在 xrxlog.Build 之前调用。
func installMetrics() *demoMetrics {
	reader := sdkmetric.NewManualReader()
	m := &demoMetrics{
		reader: reader,
		mp:     sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
	otel.SetMeterProvider(m.mp)
	return m
}

// print 输出 lifecycle 与 items 两个计数器的累计值。
func (m *demoMetrics) print(ctx context.Context, w io.Writer) error {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	var total, items int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var n int64
			for _, dp := range sum.DataPoints {
				n += dp.Value
			}
			switch md.Name {
			case "xrx.lifecycle.total":
				total += n
			case "xrx.items.emitted":
				items += n
			}
		}
	}
	_, err := fmt.Fprintf(w, "metrics: subscriptions=%d items=%d\n", total, items)
	return err
}

func (m *demoMetrics) shutdown(ctx context.Context) error {
	return m.mp.Shutdown(ctx)
}
