package store

import (
	"fmt"

	"github.com/vjranagit/imurun/pkg/types"
)

// DefaultCapacity is the number of samples preallocated by New
const DefaultCapacity = 1500

// Option configures a SampleStore
type Option func(*SampleStore)

// WithCapacity sets the initial capacity of the backing slice
func WithCapacity(n int) Option {
	return func(s *SampleStore) {
		if n > 0 {
			s.samples = make([]types.Sample, 0, n)
		}
	}
}

// WithTimestampFallback makes ChannelValue answer an unknown channel with the
// timestamp field instead of ErrInvalidChannel. Off by default.
func WithTimestampFallback(enabled bool) Option {
	return func(s *SampleStore) {
		s.tsFallback = enabled
	}
}

// SampleStore is an append-only sequence of samples in arrival order.
//
// It does no locking: appends must not run concurrently with reads. Once
// ingestion is done the store may be read from any number of goroutines.
type SampleStore struct {
	samples    []types.Sample
	tsFallback bool
}

// New creates an empty store
func New(opts ...Option) *SampleStore {
	s := &SampleStore{}
	for _, opt := range opts {
		opt(s)
	}
	if s.samples == nil {
		s.samples = make([]types.Sample, 0, DefaultCapacity)
	}
	return s
}

// NewFromFile creates a store and loads it from path with LoadFile
func NewFromFile(path string, opts ...Option) (*SampleStore, error) {
	s := New(opts...)
	if _, err := LoadFile(s, path); err != nil {
		return s, err
	}
	return s, nil
}

// Append adds a sample to the end of the store
func (s *SampleStore) Append(sample types.Sample) {
	s.samples = append(s.samples, sample)
}

// AppendValues builds a sample from raw fields and appends it
func (s *SampleStore) AppendValues(ts int64, ax, ay, az, wx, wy, wz float64) {
	s.Append(types.Sample{
		Timestamp: ts,
		AccelX:    ax,
		AccelY:    ay,
		AccelZ:    az,
		GyroX:     wx,
		GyroY:     wy,
		GyroZ:     wz,
	})
}

// Size returns the number of stored samples
func (s *SampleStore) Size() int {
	return len(s.samples)
}

// At returns the sample at index
func (s *SampleStore) At(index int) (types.Sample, error) {
	if index < 0 || index >= len(s.samples) {
		return types.Sample{}, fmt.Errorf("%w: %d not in [0, %d)", types.ErrOutOfRange, index, len(s.samples))
	}
	return s.samples[index], nil
}

// ChannelValue returns one field of the sample at index
func (s *SampleStore) ChannelValue(index int, ch types.Channel) (float64, error) {
	sample, err := s.At(index)
	if err != nil {
		return 0, err
	}
	if v, ok := sample.Value(ch); ok {
		return v, nil
	}
	if s.tsFallback {
		return float64(sample.Timestamp), nil
	}
	return 0, fmt.Errorf("%w: %d", types.ErrInvalidChannel, int(ch))
}

// Format renders the sample at index as "ts, ax, ay, az, wx, wy, wz"
func (s *SampleStore) Format(index int) (string, error) {
	sample, err := s.At(index)
	if err != nil {
		return "", err
	}
	return sample.String(), nil
}
