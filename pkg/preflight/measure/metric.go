package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu          sync.Mutex
	EndDuration time.Duration
	stepElapsed time.Duration
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stepElapsed += elapsed
}

func (mt *DefaultMetric) Duration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return Round(mt.stepElapsed)
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

// Round trims a duration to a precision that stays readable in a report.
func Round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Minute:
		d = d.Round(time.Second)
	case d > time.Second:
		d = d.Round(10 * time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
