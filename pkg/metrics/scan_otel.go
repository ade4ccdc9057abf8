package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 扫卡相关指标
	ScanTotal            metric.Int64Counter
	ScanDebouncedTotal   metric.Int64Counter
	ScanDuration         metric.Float64Histogram
	MirrorUpsertFailures metric.Int64Counter

	// 后台任务指标
	SyncRowsTotal    metric.Int64Counter
	SyncRowFailures  metric.Int64Counter
	ResetRowsCleared metric.Int64Counter
}

var (
	metrics *OTelMetrics
	meter   = otel.Meter("taptrack")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.ScanTotal, err = meter.Int64Counter(
		"scan_total",
		metric.WithDescription("Total number of accepted badge taps by action"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		return err
	}

	metrics.ScanDebouncedTotal, err = meter.Int64Counter(
		"scan_debounced_total",
		metric.WithDescription("Total number of taps rejected by the cooldown window"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		return err
	}

	metrics.ScanDuration, err = meter.Float64Histogram(
		"scan_duration_seconds",
		metric.WithDescription("Time spent handling a badge tap"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.MirrorUpsertFailures, err = meter.Int64Counter(
		"mirror_upsert_failures_total",
		metric.WithDescription("Total number of failed best-effort mirror writes"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	metrics.SyncRowsTotal, err = meter.Int64Counter(
		"sheet_sync_rows_total",
		metric.WithDescription("Total number of mirror rows folded back into the database"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	metrics.SyncRowFailures, err = meter.Int64Counter(
		"sheet_sync_row_failures_total",
		metric.WithDescription("Total number of mirror rows that failed to upsert"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	metrics.ResetRowsCleared, err = meter.Int64Counter(
		"sheet_reset_rows_cleared_total",
		metric.WithDescription("Total number of data rows wiped by the reset job"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordScan 记录一次被接受的扫卡及其动作
func RecordScan(ctx context.Context, action string, seconds float64) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("action", action))
	metrics.ScanTotal.Add(ctx, 1, attrs)
	metrics.ScanDuration.Record(ctx, seconds, attrs)
}

// RecordDebounced 记录一次被冷却窗口拒绝的扫卡
func RecordDebounced(ctx context.Context) {
	if metrics == nil {
		return
	}
	metrics.ScanDebouncedTotal.Add(ctx, 1)
}

// RecordMirrorUpsertFailure 记录一次镜像表写入失败
func RecordMirrorUpsertFailure(ctx context.Context) {
	if metrics == nil {
		return
	}
	metrics.MirrorUpsertFailures.Add(ctx, 1)
}

// RecordSyncRow 记录一次同步回写结果
func RecordSyncRow(ctx context.Context, ok bool) {
	if metrics == nil {
		return
	}
	if ok {
		metrics.SyncRowsTotal.Add(ctx, 1)
	} else {
		metrics.SyncRowFailures.Add(ctx, 1)
	}
}

// RecordResetCleared 记录一次清理掉的数据行数
func RecordResetCleared(ctx context.Context, rows int64) {
	if metrics == nil {
		return
	}
	metrics.ResetRowsCleared.Add(ctx, rows)
}
