package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrOutOfRange is returned when an index falls outside [0, size).
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidChannel is returned for a channel selector outside the
	// TS..WZ enumeration.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrParse is the sentinel every ingestion ParseError unwraps to.
	ErrParse = errors.New("parse failure")
)

// Channel selects one field of a Sample
type Channel int

const (
	TS Channel = iota
	AX
	AY
	AZ
	WX
	WY
	WZ
)

// NumChannels is the number of fields carried by a Sample
const NumChannels = 7

var channelNames = [NumChannels]string{"ts", "ax", "ay", "az", "wx", "wy", "wz"}

var channelLongNames = [NumChannels]string{
	"timestamp",
	"accel_x", "accel_y", "accel_z",
	"gyro_x", "gyro_y", "gyro_z",
}

// Valid reports whether c names one of the seven sample fields
func (c Channel) Valid() bool {
	return c >= TS && c <= WZ
}

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel resolves a short name ("ax"), a long name ("accel_x") or a
// column number ("1") to a Channel.
func ParseChannel(name string) (Channel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := 0; i < NumChannels; i++ {
		if name == channelNames[i] || name == channelLongNames[i] {
			return Channel(i), nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && Channel(n).Valid() {
		return Channel(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
}

// Sample is a single timestamped accelerometer + gyroscope reading
type Sample struct {
	Timestamp int64   `json:"ts"`
	AccelX    float64 `json:"ax"`
	AccelY    float64 `json:"ay"`
	AccelZ    float64 `json:"az"`
	GyroX     float64 `json:"wx"`
	GyroY     float64 `json:"wy"`
	GyroZ     float64 `json:"wz"`
}

// Value projects the field selected by c. The second result is false when c
// is not a valid channel.
func (s Sample) Value(c Channel) (float64, bool) {
	switch c {
	case TS:
		return float64(s.Timestamp), true
	case AX:
		return s.AccelX, true
	case AY:
		return s.AccelY, true
	case AZ:
		return s.AccelZ, true
	case WX:
		return s.GyroX, true
	case WY:
		return s.GyroY, true
	case WZ:
		return s.GyroZ, true
	}
	return 0, false
}

// String renders all fields in ts, ax, ay, az, wx, wy, wz order
func (s Sample) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(s.Timestamp, 10))
	for _, v := range [...]float64{s.AccelX, s.AccelY, s.AccelZ, s.GyroX, s.GyroY, s.GyroZ} {
		b.WriteString(", ")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// IndexPair is an inclusive [Start, End] range of sample indices
type IndexPair struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewIndexPair returns a pair in the not-yet-started state (-1, -1)
func NewIndexPair() IndexPair {
	return IndexPair{Start: -1, End: -1}
}

// Started reports whether Start has been set
func (p IndexPair) Started() bool {
	return p.Start >= 0
}

// Len returns the number of samples covered by the pair
func (p IndexPair) Len() int {
	if p.Start < 0 || p.End < p.Start {
		return 0
	}
	return p.End - p.Start + 1
}

func (p IndexPair) String() string {
	return "(" + strconv.Itoa(p.Start) + "," + strconv.Itoa(p.End) + ")"
}

// ParseError describes an ingestion row that could not be parsed
type ParseError struct {
	Line  int
	Field int // -1 when the row has the wrong number of fields
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, field %d (%s): %v", e.Line, e.Field, Channel(e.Field), e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
