// ABOUTME: Fixed heading source with a scripted availability and sample list
// ABOUTME: Backs one-off "--heading" checks and session tests

package heading

import (
	"context"
	"time"
)

// StaticSource reports a fixed availability and replays a fixed list of samples.
type StaticSource struct {
	availability Availability
	reason       string
	samples      []float64
	interval     time.Duration
}

// NewStaticSource returns a granted source that emits samples in order.
func NewStaticSource(samples ...float64) *StaticSource {
	return &StaticSource{availability: Granted, samples: samples}
}

// NewUnavailableSource returns a source whose check always fails with a.
func NewUnavailableSource(a Availability, reason string) *StaticSource {
	return &StaticSource{availability: a, reason: reason}
}

// WithPacing sets the delay between samples.
func (s *StaticSource) WithPacing(d time.Duration) *StaticSource {
	s.interval = d
	return s
}

// Name implements Source.
func (s *StaticSource) Name() string {
	return "static"
}

// Check implements Source.
func (s *StaticSource) Check(_ context.Context) Availability {
	return s.availability
}

// Diagnose implements Diagnoser.
func (s *StaticSource) Diagnose(_ context.Context) (Availability, string) {
	return s.availability, s.reason
}

// Subscribe implements Source.
func (s *StaticSource) Subscribe(ctx context.Context, onSample func(float64)) (func(), error) {
	if s.availability != Granted {
		return nil, &UnavailableError{Availability: s.availability, Reason: s.reason}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(onSample, cancel, nil)

	go func() {
		for _, raw := range s.samples {
			v, err := normalizeSample(raw)
			if err != nil {
				continue
			}
			if !sub.deliver(v) {
				return
			}
			if s.interval > 0 {
				timer := time.NewTimer(s.interval)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C:
				}
			}
		}
	}()

	return sub.stop, nil
}
