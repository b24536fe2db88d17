// Package metrics provides pipeline metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for pipeline orchestration
type PipelineMetrics struct {
	registry *prometheus.Registry

	// Builder metrics
	stagesRegistered  *prometheus.CounterVec
	launchFailures    *prometheus.CounterVec
	readinessDuration *prometheus.HistogramVec

	// Runtime metrics
	stagesRunning    *prometheus.GaugeVec
	stageCompletions *prometheus.CounterVec
	pipelineOutcomes *prometheus.CounterVec
	controlCommands  *prometheus.CounterVec

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewPipelineMetrics creates and registers new pipeline metrics
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *PipelineMetrics) initMetrics() error {
	m.stagesRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stages_registered_total",
			Help: "Number of stages registered on pipeline builders",
		},
		[]string{"pipeline_id", "kind"},
	)

	m.launchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_launch_failures_total",
			Help: "Number of stages that failed the readiness handshake",
		},
		[]string{"pipeline_id", "stage", "reason"},
	)

	m.readinessDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_readiness_seconds",
			Help:    "Time stages took to signal readiness",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"pipeline_id", "stage"},
	)

	m.stagesRunning = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_stages_running",
			Help: "Number of stage goroutines currently running",
		},
		[]string{"pipeline_id"},
	)

	m.stageCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_completions_total",
			Help: "Stage terminations by outcome",
		},
		[]string{"pipeline_id", "stage", "outcome"},
	)

	m.pipelineOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_outcomes_total",
			Help: "Pipeline-level outcomes decided by the completion race",
		},
		[]string{"pipeline_id", "outcome"},
	)

	m.controlCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_control_commands_total",
			Help: "Control commands delivered to stage listeners",
		},
		[]string{"pipeline_id", "command"},
	)

	m.collectors = []prometheus.Collector{
		m.stagesRegistered,
		m.launchFailures,
		m.readinessDuration,
		m.stagesRunning,
		m.stageCompletions,
		m.pipelineOutcomes,
		m.controlCommands,
	}

	return nil
}

// Describe implements prometheus.Collector
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordStageRegistered increments the registered-stage counter
func (m *PipelineMetrics) RecordStageRegistered(pipelineID, kind string) {
	m.stagesRegistered.WithLabelValues(pipelineID, kind).Inc()
}

// RecordLaunchFailure records a failed readiness handshake
func (m *PipelineMetrics) RecordLaunchFailure(pipelineID, stage, reason string) {
	m.launchFailures.WithLabelValues(pipelineID, stage, reason).Inc()
}

// RecordReadinessDuration records how long a stage took to signal readiness
func (m *PipelineMetrics) RecordReadinessDuration(pipelineID, stage string, seconds float64) {
	m.readinessDuration.WithLabelValues(pipelineID, stage).Observe(seconds)
}

// UpdateStagesRunning sets the number of live stage goroutines
func (m *PipelineMetrics) UpdateStagesRunning(pipelineID string, count int) {
	m.stagesRunning.WithLabelValues(pipelineID).Set(float64(count))
}

// RecordStageCompletion records a stage termination by outcome
func (m *PipelineMetrics) RecordStageCompletion(pipelineID, stage, outcome string) {
	m.stageCompletions.WithLabelValues(pipelineID, stage, outcome).Inc()
}

// RecordPipelineOutcome records the pipeline-level result
func (m *PipelineMetrics) RecordPipelineOutcome(pipelineID, outcome string) {
	m.pipelineOutcomes.WithLabelValues(pipelineID, outcome).Inc()
}

// RecordControlCommand records a delivered control command
func (m *PipelineMetrics) RecordControlCommand(pipelineID, command string) {
	m.controlCommands.WithLabelValues(pipelineID, command).Inc()
}
