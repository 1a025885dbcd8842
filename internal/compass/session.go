// ABOUTME: Compass session binding observer location, heading source, and tracker
// ABOUTME: Owns the subscription lifecycle and marshals samples to a single consumer

package compass

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/salah/internal/alignment"
	"github.com/harper/salah/internal/heading"
	"github.com/harper/salah/internal/qibla"
)

// ErrNoLocation is returned when no observer location is known.
var ErrNoLocation = errors.New("no location set")

// Options configures the tracker used by a session.
type Options struct {
	Threshold     float64
	ExitThreshold float64
}

// Session is one compass view: a bearing, a heading source, and feedback.
type Session struct {
	observer qibla.Coordinate
	bearing  qibla.Bearing
	source   heading.Source
	feedback Feedback
	tracker  *alignment.Tracker
}

// NewSession computes the qibla bearing for observer and prepares a tracker.
// A nil observer yields ErrNoLocation; an invalid one yields qibla.ErrInvalidInput.
func NewSession(observer *qibla.Coordinate, src heading.Source, fb Feedback, opts Options) (*Session, error) {
	if observer == nil {
		return nil, ErrNoLocation
	}
	if src == nil {
		return nil, errors.New("heading source is required")
	}
	if fb == nil {
		fb = NopFeedback{}
	}

	b, err := qibla.QiblaBearing(*observer)
	if err != nil {
		return nil, err
	}

	var trackerOpts []alignment.Option
	if opts.Threshold > 0 {
		trackerOpts = append(trackerOpts, alignment.WithThreshold(opts.Threshold))
	}
	if opts.ExitThreshold > 0 {
		trackerOpts = append(trackerOpts, alignment.WithExitThreshold(opts.ExitThreshold))
	}

	return &Session{
		observer: *observer,
		bearing:  b,
		source:   src,
		feedback: fb,
		tracker:  alignment.NewTracker(b, trackerOpts...),
	}, nil
}

// Bearing returns the qibla bearing for the session's observer.
func (s *Session) Bearing() qibla.Bearing {
	return s.bearing
}

// Observer returns the session's observer location.
func (s *Session) Observer() qibla.Coordinate {
	return s.observer
}

// Run negotiates sensor access, subscribes, and feeds samples through the
// tracker until ctx is done. Access is checked once and never retried; the
// subscription is always torn down before Run returns.
func (s *Session) Run(ctx context.Context) error {
	if err := heading.CheckSource(ctx, s.source); err != nil {
		log.Warn("heading source unavailable", "source", s.source.Name(), "err", err)
		s.feedback.Unavailable(err)
		return err
	}

	// Single-slot mailbox: a newer sample replaces one not yet consumed.
	mailbox := make(chan float64, 1)
	onSample := func(v float64) {
		for {
			select {
			case mailbox <- v:
				return
			default:
			}
			select {
			case <-mailbox:
				log.Debug("dropping stale heading sample")
			default:
			}
		}
	}

	unsubscribe, err := s.source.Subscribe(ctx, onSample)
	if err != nil {
		var ue *heading.UnavailableError
		if errors.As(err, &ue) {
			s.feedback.Unavailable(ue)
		}
		return fmt.Errorf("subscribe to %s: %w", s.source.Name(), err)
	}
	defer unsubscribe()

	enter, exit := s.tracker.Thresholds()
	log.Debug("compass session started", "source", s.source.Name(), "bearing", float64(s.bearing), "enter", enter, "exit", exit)
	s.feedback.State(s.bearing, s.tracker.Update(nil))

	for {
		select {
		case <-ctx.Done():
			log.Debug("compass session stopped", "source", s.source.Name())
			return nil
		case v := <-mailbox:
			s.apply(v)
		}
	}
}

func (s *Session) apply(v float64) {
	state := s.tracker.UpdateValue(v)
	s.feedback.State(s.bearing, state)
	if state.JustAligned {
		s.feedback.Aligned(s.bearing, state)
	}
}

// Evaluate computes the qibla bearing for observer and the alignment state for
// a single heading reading, without a live source. A nil heading yields the
// neutral state.
func Evaluate(observer qibla.Coordinate, headingDeg *float64, opts Options) (qibla.Bearing, alignment.State, error) {
	s, err := NewSession(&observer, heading.NewStaticSource(), nil, opts)
	if err != nil {
		return 0, alignment.State{}, err
	}
	return s.bearing, s.tracker.Update(headingDeg), nil
}
