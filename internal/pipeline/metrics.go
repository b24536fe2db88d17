package pipeline

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tphakala/mediaflow/internal/logging"
	"github.com/tphakala/mediaflow/internal/observability/metrics"
)

// MetricsCollector provides metrics collection for pipeline orchestration.
// The zero value is a no-op collector.
type MetricsCollector struct {
	metrics *metrics.PipelineMetrics
	enabled bool
}

// globalMetrics is a package-level metrics instance
var (
	globalMetrics     atomic.Pointer[MetricsCollector]
	globalMetricsOnce sync.Once
	metricsLogger     *slog.Logger
)

// InitMetrics initializes the global metrics collector. Passing nil leaves
// metrics disabled.
func InitMetrics(metricsInstance *metrics.PipelineMetrics) {
	globalMetricsOnce.Do(func() {
		metricsLogger = logging.ForService("pipeline")
		if metricsLogger == nil {
			metricsLogger = slog.Default()
		}
		metricsLogger = metricsLogger.With("component", "metrics")

		mc := &MetricsCollector{
			metrics: metricsInstance,
			enabled: metricsInstance != nil,
		}
		globalMetrics.Store(mc)

		if metricsInstance != nil {
			metricsLogger.Info("metrics collector initialized")
		} else {
			metricsLogger.Debug("metrics collector disabled")
		}
	})
}

// GetMetrics returns the global metrics collector
func GetMetrics() *MetricsCollector {
	mc := globalMetrics.Load()
	if mc == nil {
		// No-op collector if metrics not initialized
		return &MetricsCollector{enabled: false}
	}
	return mc
}

// RecordStageRegistered records a stage registration of the given kind
// (source, transform, sink, task).
func (mc *MetricsCollector) RecordStageRegistered(pipelineID, kind string) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordStageRegistered(pipelineID, kind)
}

// RecordLaunchFailure records a failed readiness handshake
func (mc *MetricsCollector) RecordLaunchFailure(pipelineID, stage, reason string) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordLaunchFailure(pipelineID, stage, reason)
}

// RecordReadinessDuration records how long a stage took to signal readiness
func (mc *MetricsCollector) RecordReadinessDuration(pipelineID, stage string, d time.Duration) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordReadinessDuration(pipelineID, stage, d.Seconds())
}

// UpdateStagesRunning sets the number of live stage goroutines
func (mc *MetricsCollector) UpdateStagesRunning(pipelineID string, count int) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.UpdateStagesRunning(pipelineID, count)
}

// RecordStageCompletion records a stage termination by outcome
// (success, failure, panic).
func (mc *MetricsCollector) RecordStageCompletion(pipelineID, stage, outcome string) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordStageCompletion(pipelineID, stage, outcome)
}

// RecordPipelineOutcome records the pipeline-level result (success, failure)
func (mc *MetricsCollector) RecordPipelineOutcome(pipelineID, outcome string) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordPipelineOutcome(pipelineID, outcome)
}

// RecordControlCommand records a delivered control command
func (mc *MetricsCollector) RecordControlCommand(pipelineID, command string) {
	if !mc.enabled || mc.metrics == nil {
		return
	}
	mc.metrics.RecordControlCommand(pipelineID, command)
}
