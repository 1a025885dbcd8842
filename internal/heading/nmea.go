// ABOUTME: Heading sample parsing for NMEA 0183 sentences and bare degree values
// ABOUTME: Verifies checksums and normalizes headings into [0, 360)

package heading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoHeading is returned for lines that do not carry a heading.
var ErrNoHeading = errors.New("line carries no heading")

// ParseSample extracts a heading in degrees from one line of sensor output.
//
// Supported forms:
//
//	$HCHDG,98.3,0.0,E,12.6,W*57   magnetic heading (deviation/variation ignored)
//	$HEHDT,274.07,T*19            true heading
//	$HCHDM,98.3,M*1B              magnetic heading
//	237.5                         bare degrees
func ParseSample(line string) (float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, ErrNoHeading
	}

	if line[0] != '$' {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("parse heading %q: %w", line, err)
		}
		return normalizeSample(v)
	}

	body, err := verifyChecksum(line[1:])
	if err != nil {
		return 0, err
	}

	fields := strings.Split(body, ",")
	if len(fields[0]) != 5 {
		return 0, fmt.Errorf("malformed sentence id %q", fields[0])
	}

	switch fields[0][2:] {
	case "HDG", "HDT", "HDM":
	default:
		return 0, ErrNoHeading
	}

	if len(fields) < 2 || fields[1] == "" {
		return 0, ErrNoHeading
	}

	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse heading field %q: %w", fields[1], err)
	}
	return normalizeSample(v)
}

// verifyChecksum strips and checks the optional *HH suffix.
func verifyChecksum(s string) (string, error) {
	body, sum, found := strings.Cut(s, "*")
	if !found {
		return body, nil
	}

	want, err := strconv.ParseUint(strings.TrimSpace(sum), 16, 8)
	if err != nil {
		return "", fmt.Errorf("malformed checksum %q", sum)
	}

	var got byte
	for i := 0; i < len(body); i++ {
		got ^= body[i]
	}
	if got != byte(want) {
		return "", fmt.Errorf("checksum mismatch: got %02X, want %02X", got, want)
	}
	return body, nil
}

func normalizeSample(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite heading %v", v)
	}
	d := math.Mod(math.Mod(v, 360)+360, 360)
	if d >= 360 {
		d = 0
	}
	return d, nil
}
