// ABOUTME: Line-oriented heading sources over stdin, files, or any io.Reader
// ABOUTME: Used for piping sensor output and replaying recorded compass sessions

package heading

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// ReaderSource reads one heading per line from a stream.
type ReaderSource struct {
	name     string
	open     func() (io.ReadCloser, error)
	check    func() (Availability, string)
	interval time.Duration
}

// ReaderOption configures a ReaderSource.
type ReaderOption func(*ReaderSource)

// DefaultReplayInterval paces file replays when no interval is configured.
const DefaultReplayInterval = 100 * time.Millisecond

// WithInterval paces delivery, one sample per interval. Used for replays.
func WithInterval(d time.Duration) ReaderOption {
	return func(s *ReaderSource) {
		s.interval = d
	}
}

// NewReaderSource wraps an already-open reader. It is always available.
func NewReaderSource(name string, r io.Reader, opts ...ReaderOption) *ReaderSource {
	s := &ReaderSource{
		name: name,
		// Unsubscribing cannot unblock a pending read on r; the scan goroutine
		// stays parked until the next line arrives or the process exits.
		open:  func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
		check: func() (Availability, string) { return Granted, "" },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStdinSource reads headings piped into the process.
func NewStdinSource(opts ...ReaderOption) *ReaderSource {
	return NewReaderSource("stdin", os.Stdin, opts...)
}

// NewFileSource replays headings recorded in a file, one per
// DefaultReplayInterval unless WithInterval says otherwise.
func NewFileSource(path string, opts ...ReaderOption) *ReaderSource {
	s := &ReaderSource{
		name:     "file:" + path,
		interval: DefaultReplayInterval,
		open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // path is chosen by the user
		},
		check: func() (Availability, string) {
			f, err := os.Open(path) //nolint:gosec // path is chosen by the user
			if err != nil {
				return availabilityFromError(err), err.Error()
			}
			_ = f.Close()
			return Granted, ""
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *ReaderSource) Name() string {
	return s.name
}

// Check implements Source.
func (s *ReaderSource) Check(ctx context.Context) Availability {
	a, _ := s.Diagnose(ctx)
	return a
}

// Diagnose implements Diagnoser.
func (s *ReaderSource) Diagnose(_ context.Context) (Availability, string) {
	return s.check()
}

// Subscribe implements Source.
func (s *ReaderSource) Subscribe(ctx context.Context, onSample func(float64)) (func(), error) {
	if a, reason := s.check(); a != Granted {
		return nil, &UnavailableError{Availability: a, Reason: reason}
	}

	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(onSample, cancel, rc)

	go func() {
		defer sub.stop()
		scanLines(ctx, s.name, rc, sub, s.interval)
	}()

	go func() {
		<-ctx.Done()
		sub.stop()
	}()

	return sub.stop, nil
}

// scanLines parses each line and forwards valid headings until EOF or cancellation.
func scanLines(ctx context.Context, name string, r io.Reader, sub *subscription, interval time.Duration) {
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		if ctx.Err() != nil {
			return
		}

		v, err := ParseSample(scan.Text())
		if err != nil {
			if !errors.Is(err, ErrNoHeading) {
				log.Debug("dropping heading line", "source", name, "err", err)
			}
			continue
		}

		if !sub.deliver(v) {
			return
		}

		if interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
	if err := scan.Err(); err != nil && ctx.Err() == nil {
		log.Warn("heading stream ended", "source", name, "err", err)
	}
}

// availabilityFromError maps open errors onto the tri-state.
func availabilityFromError(err error) Availability {
	if errors.Is(err, fs.ErrPermission) {
		return Denied
	}
	return Unsupported
}
