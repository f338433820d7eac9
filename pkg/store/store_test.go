package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vjranagit/imurun/pkg/types"
)

func TestSampleStoreAppendAndRead(t *testing.T) {
	s := New(WithCapacity(2))

	// Append past the initial capacity to force growth
	want := make([]types.Sample, 100)
	for i := range want {
		want[i] = types.Sample{
			Timestamp: int64(i * 10),
			AccelX:    float64(i) * 0.5,
			AccelY:    -float64(i),
			AccelZ:    9.81,
			GyroX:     float64(i) / 3,
			GyroY:     0,
			GyroZ:     -1,
		}
		s.Append(want[i])
	}

	require.Equal(t, len(want), s.Size())
	for i, w := range want {
		got, err := s.At(i)
		require.NoError(t, err)
		assert.Equal(t, w, got, "sample %d", i)
	}
}

func TestSampleStoreAppendValues(t *testing.T) {
	s := New()
	s.AppendValues(42, 1, 2, 3, 4, 5, 6)

	got, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, types.Sample{Timestamp: 42, AccelX: 1, AccelY: 2, AccelZ: 3, GyroX: 4, GyroY: 5, GyroZ: 6}, got)
}

func TestSampleStoreOutOfRange(t *testing.T) {
	s := New()
	s.AppendValues(1, 0, 0, 0, 0, 0, 0)

	for _, idx := range []int{-1, 1, 100} {
		_, err := s.At(idx)
		assert.ErrorIs(t, err, types.ErrOutOfRange, "At(%d)", idx)

		_, err = s.ChannelValue(idx, types.AX)
		assert.ErrorIs(t, err, types.ErrOutOfRange, "ChannelValue(%d)", idx)

		str, err := s.Format(idx)
		assert.ErrorIs(t, err, types.ErrOutOfRange, "Format(%d)", idx)
		assert.Empty(t, str)
	}

	empty := New()
	_, err := empty.At(0)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestSampleStoreChannelValue(t *testing.T) {
	s := New()
	s.AppendValues(1000, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6)

	want := map[types.Channel]float64{
		types.TS: 1000,
		types.AX: 0.1,
		types.AY: 0.2,
		types.AZ: 0.3,
		types.WX: 0.4,
		types.WY: 0.5,
		types.WZ: 0.6,
	}
	for ch, w := range want {
		v, err := s.ChannelValue(0, ch)
		require.NoError(t, err)
		assert.Equal(t, w, v, ch.String())
	}
}

func TestSampleStoreInvalidChannel(t *testing.T) {
	strict := New()
	strict.AppendValues(1000, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6)

	_, err := strict.ChannelValue(0, types.Channel(7))
	assert.ErrorIs(t, err, types.ErrInvalidChannel)
	_, err = strict.ChannelValue(0, types.Channel(-3))
	assert.ErrorIs(t, err, types.ErrInvalidChannel)

	// Range is checked before the channel
	_, err = strict.ChannelValue(5, types.Channel(7))
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	lenient := New(WithTimestampFallback(true))
	lenient.AppendValues(1000, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6)

	v, err := lenient.ChannelValue(0, types.Channel(9))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, v)
}

func TestSampleStoreFormat(t *testing.T) {
	s := New()
	s.AppendValues(1249, 0.95, 0.5, 9.8001, 0.0101, -0.1729, -0.01)

	str, err := s.Format(0)
	require.NoError(t, err)
	assert.Equal(t, "1249, 0.95, 0.5, 9.8001, 0.0101, -0.1729, -0.01", str)
}
