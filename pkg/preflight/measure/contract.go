package measure

import "time"

// Measure stores one metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric records how long a step took.
type Metric interface {
	AddDuration(elapsed time.Duration)
	Duration() time.Duration
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
