// ABOUTME: Tests for heading parsing, sources, and availability reporting
// ABOUTME: Uses in-memory readers and temp files in place of real sensors

package heading

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestParseSample(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{"bare", "237.5", 237.5},
		{"bare_whitespace", "  12\r\n", 12},
		{"bare_negative", "-10", 350},
		{"bare_wraps", "725", 5},
		{"bare_full_turn", "360", 0},
		{"hdg", "$HCHDG,98.3,0.0,E,12.6,W*57", 98.3},
		{"hdt", "$HEHDT,274.07,T*19", 274.07},
		{"hdm", "$HCHDM,98.3,M*1B", 98.3},
		{"hdt_no_checksum", "$HEHDT,10.5,T", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSample(tt.line)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseSample_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		noHeading bool
	}{
		{"empty", "", true},
		{"other_sentence", "$GPGGA,123519,4807.038,N*27", true},
		{"empty_heading_field", "$HCHDG,,,,,*6C", true},
		{"bad_checksum", "$HCHDG,98.3,0.0,E,12.6,W*00", false},
		{"garbage_checksum", "$HEHDT,10,T*ZZ", false},
		{"short_id", "$HDG,10", false},
		{"text", "north-ish", false},
		{"nan", "NaN", false},
		{"inf", "+Inf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSample(tt.line)
			require.Error(t, err)
			assert.Equal(t, tt.noHeading, errors.Is(err, ErrNoHeading))
		})
	}
}

// collector records samples delivered to a subscription.
type collector struct {
	mu      sync.Mutex
	samples []float64
}

func (c *collector) add(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, v)
}

func (c *collector) get() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.samples...)
}

func TestReaderSource_DeliversParsedLines(t *testing.T) {
	input := strings.Join([]string{
		"10",
		"garbage",
		"$HEHDT,274.07,T*19",
		"$GPGGA,123519,4807.038,N*27",
		"-5",
	}, "\n")

	src := NewReaderSource("test", strings.NewReader(input))
	assert.Equal(t, Granted, src.Check(context.Background()))

	c := &collector{}
	unsubscribe, err := src.Subscribe(context.Background(), c.add)
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return len(c.get()) == 3 }, time.Second, 5*time.Millisecond)
	assert.InDeltaSlice(t, []float64{10, 274.07, 355}, c.get(), 1e-9)
}

func TestReaderSource_UnsubscribeStopsDelivery(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	src := NewReaderSource("pipe", pr)
	c := &collector{}
	unsubscribe, err := src.Subscribe(context.Background(), c.add)
	require.NoError(t, err)

	_, err = io.WriteString(pw, "1\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(c.get()) == 1 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	unsubscribe() // idempotent

	// Writes after unsubscribe either fail (pipe closed) or are never delivered.
	_, _ = io.WriteString(pw, "2\n")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []float64{1}, c.get())
}

func TestReaderSource_ContextCancelStops(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	src := NewReaderSource("pipe", pr)
	c := &collector{}
	_, err := src.Subscribe(ctx, c.add)
	require.NoError(t, err)

	cancel()
	time.Sleep(20 * time.Millisecond)
	_, _ = io.WriteString(pw, "2\n")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, c.get())
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")
	require.NoError(t, os.WriteFile(path, []byte("90\n91\n92\n"), 0600))

	src := NewFileSource(path, WithInterval(time.Millisecond))
	assert.Equal(t, "file:"+path, src.Name())
	assert.Equal(t, Granted, src.Check(context.Background()))

	c := &collector{}
	unsubscribe, err := src.Subscribe(context.Background(), c.add)
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return len(c.get()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []float64{90, 91, 92}, c.get())
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.log"))
	assert.Equal(t, Unsupported, src.Check(context.Background()))

	_, err := src.Subscribe(context.Background(), func(float64) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSensorUnavailable)

	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, Unsupported, ue.Availability)
}

func TestCheckSource(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, CheckSource(ctx, NewStaticSource()))

	err := CheckSource(ctx, NewUnavailableSource(Denied, "user said no"))
	require.NotNil(t, err)
	assert.Equal(t, Denied, err.Availability)
	assert.Equal(t, "user said no", err.Reason)

	missing := filepath.Join(t.TempDir(), "nope.log")
	err = CheckSource(ctx, NewFileSource(missing))
	require.NotNil(t, err)
	assert.Equal(t, Unsupported, err.Availability)
	assert.Contains(t, err.Reason, "nope.log")

	// Sources without Diagnose still report availability.
	err = CheckSource(ctx, checkOnly{Denied})
	require.NotNil(t, err)
	assert.Equal(t, Denied, err.Availability)
	assert.Empty(t, err.Reason)
}

type checkOnly struct{ a Availability }

func (c checkOnly) Check(context.Context) Availability { return c.a }
func (c checkOnly) Name() string                       { return "check-only" }
func (c checkOnly) Subscribe(context.Context, func(float64)) (func(), error) {
	return func() {}, nil
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(1, 2, 370)
	c := &collector{}
	unsubscribe, err := src.Subscribe(context.Background(), c.add)
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return len(c.get()) == 3 }, time.Second, 5*time.Millisecond)
	assert.InDeltaSlice(t, []float64{1, 2, 10}, c.get(), 1e-9)
}

func TestUnavailableSource(t *testing.T) {
	src := NewUnavailableSource(Denied, "user said no")
	assert.Equal(t, Denied, src.Check(context.Background()))

	_, err := src.Subscribe(context.Background(), func(float64) {})
	assert.ErrorIs(t, err, ErrSensorUnavailable)
	assert.Contains(t, err.Error(), "denied")
	assert.Contains(t, err.Error(), "user said no")
}

func TestUnavailableError_Message(t *testing.T) {
	denied := &UnavailableError{Availability: Denied}
	assert.Contains(t, denied.Message(), "denied")

	unsupported := &UnavailableError{Availability: Unsupported}
	assert.Contains(t, unsupported.Message(), "No compass")

	assert.Equal(t, "heading sensor unsupported", unsupported.Error())
}

func TestAvailability_String(t *testing.T) {
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "unsupported", Unsupported.String())
	assert.Equal(t, "availability(9)", Availability(9).String())
}

func TestAvailabilityFromError(t *testing.T) {
	assert.Equal(t, Denied, availabilityFromError(os.ErrPermission))
	assert.Equal(t, Unsupported, availabilityFromError(os.ErrNotExist))
	assert.Equal(t, Unsupported, availabilityFromError(errors.New("boom")))
}

func TestPortOptions_Normalize(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 4800, DataBits: 8, StopBits: 1, Parity: "N"}, opts)

	opts, err = PortOptions{BaudRate: 9600, Parity: "even", StopBits: 2}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "E", opts.Parity)
	assert.Equal(t, 9600, opts.BaudRate)

	_, err = PortOptions{DataBits: 9}.Normalize()
	assert.Error(t, err)
	_, err = PortOptions{StopBits: 3}.Normalize()
	assert.Error(t, err)
	_, err = PortOptions{Parity: "mark"}.Normalize()
	assert.Error(t, err)
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{Parity: "O", StopBits: 2}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaudRate, mode.BaudRate)
	assert.Equal(t, serial.OddParity, mode.Parity)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
}

func TestSerialSource_MissingPort(t *testing.T) {
	src := NewSerialSource(filepath.Join(t.TempDir(), "ttyNOPE"), PortOptions{})
	assert.Equal(t, "serial:"+src.path, src.Name())
	assert.Equal(t, Unsupported, src.Check(context.Background()))
}

func TestSerialSource_StreamsFromPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ttyFAKE")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	pr, pw := io.Pipe()
	src := NewSerialSource(path, PortOptions{})
	src.openPort = func(string, *serial.Mode) (io.ReadCloser, error) {
		return pr, nil
	}

	c := &collector{}
	unsubscribe, err := src.Subscribe(context.Background(), c.add)
	require.NoError(t, err)

	go func() {
		_, _ = io.WriteString(pw, "$HCHDG,98.3,0.0,E,12.6,W*57\n$HEHDT,274.07,T*19\n")
	}()

	require.Eventually(t, func() bool { return len(c.get()) == 2 }, time.Second, 5*time.Millisecond)
	unsubscribe()

	// The port is closed on unsubscribe, so further writes fail.
	_, err = io.WriteString(pw, "1\n")
	assert.Error(t, err)
}

func TestSerialSource_OpenPermissionDenied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ttyLOCKED")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	src := NewSerialSource(path, PortOptions{})
	src.openPort = func(string, *serial.Mode) (io.ReadCloser, error) {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
	}

	assert.Equal(t, Denied, src.Check(context.Background()))
	_, err := src.Subscribe(context.Background(), func(float64) {})
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, Denied, ue.Availability)
}

func TestOpen(t *testing.T) {
	src, err := Open("stdin", PortOptions{})
	require.NoError(t, err)
	assert.Equal(t, "stdin", src.Name())

	src, err = Open("", PortOptions{})
	require.NoError(t, err)
	assert.Equal(t, "stdin", src.Name())

	src, err = Open("file:/tmp/x.log", PortOptions{})
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/x.log", src.Name())
	assert.Equal(t, DefaultReplayInterval, src.(*ReaderSource).interval)

	src, err = Open("file:/tmp/x.log", PortOptions{}, WithInterval(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, src.(*ReaderSource).interval)

	src, err = Open("stdin", PortOptions{}, WithInterval(0))
	require.NoError(t, err)
	assert.Zero(t, src.(*ReaderSource).interval)

	src, err = Open("serial:/dev/ttyUSB0", PortOptions{})
	require.NoError(t, err)
	assert.Equal(t, "serial:/dev/ttyUSB0", src.Name())

	for _, bad := range []string{"file:", "serial:", "bluetooth:xx"} {
		_, err := Open(bad, PortOptions{})
		assert.Error(t, err, bad)
	}
}
