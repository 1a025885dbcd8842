// ABOUTME: Heading source capability interface and availability negotiation
// ABOUTME: Separates "sensor unavailable" from "no sample yet" for compass callers

package heading

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSensorUnavailable is returned when the heading capability is absent or denied.
var ErrSensorUnavailable = errors.New("heading sensor unavailable")

// Availability is the outcome of a capability/permission check.
type Availability int

const (
	// Granted means samples can be subscribed to.
	Granted Availability = iota
	// Denied means the platform refused access (permissions).
	Denied
	// Unsupported means there is no heading capability at all.
	Unsupported
)

func (a Availability) String() string {
	switch a {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("availability(%d)", int(a))
	}
}

// UnavailableError carries the availability state and a human-readable reason.
type UnavailableError struct {
	Availability Availability
	Reason       string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("heading sensor %s", e.Availability)
	}
	return fmt.Sprintf("heading sensor %s: %s", e.Availability, e.Reason)
}

// Unwrap lets callers match ErrSensorUnavailable with errors.Is.
func (e *UnavailableError) Unwrap() error {
	return ErrSensorUnavailable
}

// Message returns the text shown to the user for this condition.
func (e *UnavailableError) Message() string {
	switch e.Availability {
	case Denied:
		return "Compass access was denied. Grant permission and run the command again."
	case Unsupported:
		return "No compass sensor is available on this device."
	default:
		return e.Error()
	}
}

// Source is a push-style heading capability.
type Source interface {
	// Check negotiates access to the sensor. It is called once per session.
	Check(ctx context.Context) Availability
	// Subscribe delivers samples in degrees [0, 360) to onSample until the
	// returned unsubscribe func is called or ctx is cancelled. Unsubscribe is
	// idempotent.
	Subscribe(ctx context.Context, onSample func(float64)) (unsubscribe func(), err error)
	// Name identifies the source in logs.
	Name() string
}

// Diagnoser is implemented by sources that can say why access was not granted.
type Diagnoser interface {
	Diagnose(ctx context.Context) (Availability, string)
}

// CheckSource runs the capability check once. It returns nil when access is
// granted, otherwise an UnavailableError carrying the source's reason if known.
func CheckSource(ctx context.Context, src Source) *UnavailableError {
	var (
		a      Availability
		reason string
	)
	if p, ok := src.(Diagnoser); ok {
		a, reason = p.Diagnose(ctx)
	} else {
		a = src.Check(ctx)
	}
	if a == Granted {
		return nil
	}
	return &UnavailableError{Availability: a, Reason: reason}
}

// Open builds a Source from "stdin", "file:<path>" or "serial:<port>".
// readerOpts apply to stdin and file sources; file replays are paced at
// DefaultReplayInterval unless an option overrides it.
func Open(source string, opts PortOptions, readerOpts ...ReaderOption) (Source, error) {
	kind, arg, _ := strings.Cut(source, ":")
	switch kind {
	case "", "stdin":
		return NewStdinSource(readerOpts...), nil
	case "file":
		if arg == "" {
			return nil, fmt.Errorf("file source requires a path (file:<path>)")
		}
		return NewFileSource(arg, readerOpts...), nil
	case "serial":
		if arg == "" {
			return nil, fmt.Errorf("serial source requires a port (serial:<port>)")
		}
		return NewSerialSource(arg, opts), nil
	default:
		return nil, fmt.Errorf("unknown heading source: %q", source)
	}
}
