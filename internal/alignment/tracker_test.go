// ABOUTME: Tests for the alignment tracker state machine
// ABOUTME: Covers wrap-around, one-shot alignment events, hysteresis, and missing samples

package alignment

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/harper/salah/internal/qibla"
)

func ptr(f float64) *float64 {
	return &f
}

func TestUpdate_HeadingEqualsBearing(t *testing.T) {
	tr := NewTracker(118.987)
	got := tr.UpdateValue(118.987)

	if got.AngularError != 0 {
		t.Errorf("expected zero error, got %f", got.AngularError)
	}
	if !got.Aligned {
		t.Error("expected aligned")
	}
	if !got.JustAligned {
		t.Error("first aligned sample should be just-aligned")
	}
}

func TestUpdate_OppositeSide(t *testing.T) {
	tr := NewTracker(10)
	got := tr.UpdateValue(10 + 179)

	if got.Aligned {
		t.Error("expected not aligned")
	}
	if math.Abs(got.AngularError-(-179)) > 1e-9 {
		t.Errorf("expected error -179, got %f", got.AngularError)
	}
	if got.AngularError <= -180 || got.AngularError > 180 {
		t.Errorf("error %f outside (-180, 180]", got.AngularError)
	}
}

func TestUpdate_WrapAround(t *testing.T) {
	tr := NewTracker(2)
	got := tr.UpdateValue(358)

	if math.Abs(got.AngularError-4) > 1e-9 {
		t.Errorf("expected error 4, got %f", got.AngularError)
	}
	if !got.Aligned {
		t.Error("expected aligned across the 0/360 boundary")
	}
	if got.Rotation != -356 {
		t.Errorf("expected raw rotation -356, got %f", got.Rotation)
	}
}

func TestUpdate_HalfTurnIsPositive(t *testing.T) {
	tr := NewTracker(180)
	got := tr.UpdateValue(0)
	if got.AngularError != 180 {
		t.Errorf("expected +180, got %f", got.AngularError)
	}
}

func TestUpdate_ThresholdIsExclusive(t *testing.T) {
	tr := NewTracker(0)
	if tr.UpdateValue(5).Aligned {
		t.Error("exactly 5 degrees off should not be aligned")
	}
	if tr.UpdateValue(355).Aligned {
		t.Error("exactly -5 degrees off should not be aligned")
	}
	if !tr.UpdateValue(4.999).Aligned {
		t.Error("4.999 degrees off should be aligned")
	}
}

func TestUpdate_JustAlignedFiresOnce(t *testing.T) {
	tr := NewTracker(0)

	var got []State
	for _, h := range []float64{10, 6, 4, 3, 2} {
		got = append(got, tr.UpdateValue(h))
	}

	want := []State{
		{AngularError: -10, Rotation: -10},
		{AngularError: -6, Rotation: -6},
		{AngularError: -4, Rotation: -4, Aligned: true, JustAligned: true},
		{AngularError: -3, Rotation: -3, Aligned: true},
		{AngularError: -2, Rotation: -2, Aligned: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("state sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_ReentryFiresAgain(t *testing.T) {
	tr := NewTracker(90)

	var fired []float64
	for _, h := range []float64{80, 88, 89, 100, 92, 91, 120, 90} {
		if tr.UpdateValue(h).JustAligned {
			fired = append(fired, h)
		}
	}

	want := []float64{88, 92, 90}
	if diff := cmp.Diff(want, fired); diff != "" {
		t.Errorf("just-aligned headings mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_MissingHeading(t *testing.T) {
	tr := NewTracker(45)
	tr.UpdateValue(45)

	for _, h := range []*float64{nil, ptr(math.NaN()), ptr(math.Inf(1)), ptr(math.Inf(-1))} {
		got := tr.Update(h)
		if diff := cmp.Diff(State{}, got); diff != "" {
			t.Errorf("expected neutral state (-want +got):\n%s", diff)
		}
	}

	if tr.Aligned() {
		t.Error("missing heading should drop the tracker out of alignment")
	}
	if !tr.UpdateValue(45).JustAligned {
		t.Error("aligned sample after a gap should fire again")
	}
}

func TestUpdate_Hysteresis(t *testing.T) {
	tr := NewTracker(0, WithThreshold(5), WithExitThreshold(7))

	steps := []struct {
		heading     float64
		aligned     bool
		justAligned bool
	}{
		{10, false, false},
		{4, true, true},
		{6, true, false},   // inside exit band
		{354, true, false}, // -6, still inside exit band
		{8, false, false},  // left exit band
		{6, false, false},  // outside entry band again
		{3, true, true},
	}

	for i, s := range steps {
		got := tr.UpdateValue(s.heading)
		if got.Aligned != s.aligned || got.JustAligned != s.justAligned {
			t.Errorf("step %d heading %v: expected aligned=%v just=%v, got aligned=%v just=%v",
				i, s.heading, s.aligned, s.justAligned, got.Aligned, got.JustAligned)
		}
	}
}

func TestNewTracker_Options(t *testing.T) {
	tr := NewTracker(qibla.Bearing(12))
	enter, exit := tr.Thresholds()
	if enter != DefaultThreshold || exit != DefaultThreshold {
		t.Errorf("expected default thresholds, got %v/%v", enter, exit)
	}

	tr = NewTracker(12, WithThreshold(3), WithExitThreshold(1))
	enter, exit = tr.Thresholds()
	if enter != 3 || exit != 3 {
		t.Errorf("exit below entry should clamp to entry, got %v/%v", enter, exit)
	}

	tr = NewTracker(12, WithThreshold(-1), WithExitThreshold(400))
	enter, exit = tr.Thresholds()
	if enter != DefaultThreshold || exit != DefaultThreshold {
		t.Errorf("invalid thresholds should be ignored, got %v/%v", enter, exit)
	}

	if tr.Bearing() != 12 {
		t.Errorf("expected bearing 12, got %v", tr.Bearing())
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker(0)
	tr.UpdateValue(0)
	tr.Reset()
	if tr.Aligned() {
		t.Error("expected not aligned after Reset")
	}
	if !tr.UpdateValue(1).JustAligned {
		t.Error("expected just-aligned after Reset")
	}
}
