// ABOUTME: Serial-attached compass module heading source
// ABOUTME: Opens the port with go.bug.st/serial and streams NMEA heading sentences

package heading

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.bug.st/serial"
)

// PortOptions describes the serial connection parameters for a compass module.
type PortOptions struct {
	BaudRate int    `json:"baud_rate,omitempty"`
	DataBits int    `json:"data_bits,omitempty"`
	StopBits int    `json:"stop_bits,omitempty"`
	Parity   string `json:"parity,omitempty"`
}

// DefaultBaudRate is the NMEA 0183 standard rate.
const DefaultBaudRate = 4800

// Normalize validates the options and applies defaults for any unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	opts.Parity = parity
	return opts, nil
}

// SerialMode converts the options into the structure go.bug.st/serial expects.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
	}

	switch opts.StopBits {
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}

	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	default:
		mode.Parity = serial.NoParity
	}

	return mode, nil
}

// SerialSource streams headings from a compass on a serial port.
type SerialSource struct {
	path     string
	opts     PortOptions
	openPort func(path string, mode *serial.Mode) (io.ReadCloser, error)
}

// NewSerialSource creates a source for the port at path.
func NewSerialSource(path string, opts PortOptions) *SerialSource {
	return &SerialSource{
		path: path,
		opts: opts,
		openPort: func(path string, mode *serial.Mode) (io.ReadCloser, error) {
			return serial.Open(path, mode)
		},
	}
}

// Name implements Source.
func (s *SerialSource) Name() string {
	return "serial:" + s.path
}

// Check implements Source by opening the port briefly.
func (s *SerialSource) Check(ctx context.Context) Availability {
	a, _ := s.Diagnose(ctx)
	return a
}

// Diagnose implements Diagnoser. The port is opened and closed again.
func (s *SerialSource) Diagnose(_ context.Context) (Availability, string) {
	if _, err := os.Stat(s.path); err != nil {
		return availabilityFromError(err), err.Error()
	}

	mode, err := s.opts.SerialMode()
	if err != nil {
		return Unsupported, err.Error()
	}

	port, err := s.openPort(s.path, mode)
	if err != nil {
		return serialAvailability(err), err.Error()
	}
	_ = port.Close()
	return Granted, ""
}

// Subscribe implements Source.
func (s *SerialSource) Subscribe(ctx context.Context, onSample func(float64)) (func(), error) {
	mode, err := s.opts.SerialMode()
	if err != nil {
		return nil, &UnavailableError{Availability: Unsupported, Reason: err.Error()}
	}

	port, err := s.openPort(s.path, mode)
	if err != nil {
		return nil, &UnavailableError{Availability: serialAvailability(err), Reason: err.Error()}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(onSample, cancel, port)

	go func() {
		defer sub.stop()
		scanLines(ctx, s.Name(), port, sub, 0)
	}()

	// Closing the port is the only way to unblock a pending read.
	go func() {
		<-ctx.Done()
		sub.stop()
	}()

	return sub.stop, nil
}

// ListPorts returns the serial ports present on this machine.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

func serialAvailability(err error) Availability {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PermissionDenied:
			return Denied
		case serial.PortNotFound:
			return Unsupported
		}
	}
	return availabilityFromError(err)
}
