// ABOUTME: Shared subscription bookkeeping for heading sources
// ABOUTME: Guarantees no sample is delivered after unsubscribe returns

package heading

import (
	"context"
	"io"
	"sync"
)

// subscription guards delivery so that once stop returns, onSample is never
// called again. onSample must not call the unsubscribe func itself.
type subscription struct {
	mu       sync.Mutex
	stopped  bool
	onSample func(float64)
	cancel   context.CancelFunc
	closer   io.Closer
	once     sync.Once
}

func newSubscription(onSample func(float64), cancel context.CancelFunc, closer io.Closer) *subscription {
	return &subscription{onSample: onSample, cancel: cancel, closer: closer}
}

// deliver forwards v unless the subscription has been stopped.
func (s *subscription) deliver(v float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.onSample(v)
	return true
}

// stop is idempotent.
func (s *subscription) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		if s.cancel != nil {
			s.cancel()
		}
		if s.closer != nil {
			_ = s.closer.Close()
		}
	})
}
