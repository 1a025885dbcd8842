// ABOUTME: Live alignment tracker reconciling a target bearing with heading samples
// ABOUTME: Derives signed error, needle rotation, and a one-shot aligned signal

package alignment

import (
	"math"

	"github.com/harper/salah/internal/qibla"
)

// DefaultThreshold is the half-width of the aligned band in degrees.
const DefaultThreshold = 5.0

// State is the result of reconciling one heading sample against the bearing.
type State struct {
	// AngularError is the signed difference bearing-heading in (-180, 180].
	AngularError float64 `json:"angular_error"`
	// Rotation is the raw bearing-heading difference for rendering a needle.
	Rotation float64 `json:"rotation"`
	// Aligned reports whether the heading is inside the aligned band.
	Aligned bool `json:"aligned"`
	// JustAligned is true only on the sample that moved the tracker into the aligned state.
	JustAligned bool `json:"just_aligned"`
}

// Tracker holds the two-state (not aligned / aligned) machine for one compass session.
// It is not safe for concurrent use; one goroutine should own it.
type Tracker struct {
	bearing qibla.Bearing
	enter   float64
	exit    float64
	aligned bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithThreshold sets the entry band in degrees. Non-positive values are ignored.
func WithThreshold(deg float64) Option {
	return func(t *Tracker) {
		if deg > 0 && deg < 180 {
			t.enter = deg
		}
	}
}

// WithExitThreshold sets the band the heading must leave before the tracker
// drops out of the aligned state. Values below the entry band are clamped to it.
func WithExitThreshold(deg float64) Option {
	return func(t *Tracker) {
		if deg > 0 && deg < 180 {
			t.exit = deg
		}
	}
}

// NewTracker creates a tracker for the given target bearing, starting not aligned.
func NewTracker(b qibla.Bearing, opts ...Option) *Tracker {
	t := &Tracker{bearing: b, enter: DefaultThreshold}
	for _, opt := range opts {
		opt(t)
	}
	if t.exit < t.enter {
		t.exit = t.enter
	}
	return t
}

// Bearing returns the target bearing.
func (t *Tracker) Bearing() qibla.Bearing {
	return t.bearing
}

// Thresholds returns the entry and exit bands in degrees.
func (t *Tracker) Thresholds() (enter, exit float64) {
	return t.enter, t.exit
}

// Aligned reports the current machine state.
func (t *Tracker) Aligned() bool {
	return t.aligned
}

// Reset returns the tracker to the not-aligned state.
func (t *Tracker) Reset() {
	t.aligned = false
}

// Update reconciles a heading sample. A nil or non-finite heading is treated
// as "no sensor reading" and yields the neutral zero State.
func (t *Tracker) Update(heading *float64) State {
	if heading == nil || math.IsNaN(*heading) || math.IsInf(*heading, 0) {
		t.aligned = false
		return State{}
	}

	raw := float64(t.bearing) - *heading
	normalized := math.Mod(math.Mod(raw, 360)+360, 360)

	angularError := normalized
	if normalized > 180 {
		angularError = normalized - 360
	}

	band := t.enter
	if t.aligned {
		band = t.exit
	}
	aligned := normalized < band || normalized > 360-band

	state := State{
		AngularError: angularError,
		Rotation:     raw,
		Aligned:      aligned,
		JustAligned:  aligned && !t.aligned,
	}
	t.aligned = aligned
	return state
}

// UpdateValue is Update for a heading that is known to be present.
func (t *Tracker) UpdateValue(heading float64) State {
	return t.Update(&heading)
}
