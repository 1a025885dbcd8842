// ABOUTME: Feedback sinks for compass sessions (terminal needle, bell, fan-out)
// ABOUTME: Maps alignment states onto user-visible and audible signals

package compass

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/alignment"
	"github.com/harper/salah/internal/heading"
	"github.com/harper/salah/internal/qibla"
)

// Feedback receives the outward signals of a compass session.
type Feedback interface {
	// State is called for every tracker update.
	State(b qibla.Bearing, s alignment.State)
	// Aligned is called once per entry into the aligned band (haptic/audio hook).
	Aligned(b qibla.Bearing, s alignment.State)
	// Unavailable is called once when the heading sensor cannot be used.
	Unavailable(err *heading.UnavailableError)
}

// NopFeedback discards everything.
type NopFeedback struct{}

func (NopFeedback) State(qibla.Bearing, alignment.State)   {}
func (NopFeedback) Aligned(qibla.Bearing, alignment.State) {}
func (NopFeedback) Unavailable(*heading.UnavailableError)  {}

// MultiFeedback fans out to several sinks in order.
type MultiFeedback []Feedback

func (m MultiFeedback) State(b qibla.Bearing, s alignment.State) {
	for _, f := range m {
		f.State(b, s)
	}
}

func (m MultiFeedback) Aligned(b qibla.Bearing, s alignment.State) {
	for _, f := range m {
		f.Aligned(b, s)
	}
}

func (m MultiFeedback) Unavailable(err *heading.UnavailableError) {
	for _, f := range m {
		f.Unavailable(err)
	}
}

// TerminalFeedback redraws a one-line needle and rings the bell on alignment.
type TerminalFeedback struct {
	mu   sync.Mutex
	out  io.Writer
	bell bool
}

// NewTerminalFeedback writes to out; bell controls the audible cue.
func NewTerminalFeedback(out io.Writer, bell bool) *TerminalFeedback {
	return &TerminalFeedback{out: out, bell: bell}
}

// State implements Feedback.
func (t *TerminalFeedback) State(b qibla.Bearing, s alignment.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, "\r\033[K%s", FormatState(b, s))
}

// Aligned implements Feedback.
func (t *TerminalFeedback) Aligned(_ qibla.Bearing, _ alignment.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bell {
		_, _ = io.WriteString(t.out, "\a")
	}
}

// Unavailable implements Feedback.
func (t *TerminalFeedback) Unavailable(err *heading.UnavailableError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, "%s %s\n", color.YellowString("⚠"), err.Message())
	if err.Reason != "" {
		_, _ = fmt.Fprintf(t.out, "  (%s)\n", err.Reason)
	}
}

// needleWidth is the number of cells either side of centre.
const needleWidth = 15

// FormatState renders a needle gauge: the marker sits left of centre when the
// qibla is to the left of the current heading.
func FormatState(b qibla.Bearing, s alignment.State) string {
	// Each cell covers 6 degrees; anything beyond 90 degrees pins to the edge.
	offset := int(s.AngularError / 6)
	if offset > needleWidth {
		offset = needleWidth
	}
	if offset < -needleWidth {
		offset = -needleWidth
	}

	cells := []rune(strings.Repeat("·", 2*needleWidth+1))
	cells[needleWidth] = '|'
	cells[needleWidth+offset] = '▲'
	gauge := string(cells)

	status := fmt.Sprintf("turn %s %.0f°", turnDirection(s.AngularError), abs(s.AngularError))
	if s.Aligned {
		gauge = color.GreenString(gauge)
		status = color.GreenString("facing the qibla")
	} else {
		gauge = color.YellowString(gauge)
	}

	return fmt.Sprintf("[%s] qibla %.1f° %s  %s", gauge, float64(b), b.Cardinal(), status)
}

func turnDirection(errDeg float64) string {
	if errDeg < 0 {
		return "left"
	}
	return "right"
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
