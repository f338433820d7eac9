// Package search finds runs of consecutive samples whose channel values
// satisfy a threshold predicate.
//
// Every operation validates its index range first. A range that is empty,
// reversed for the scan direction, or outside [0, Size()) is not an error: the
// operation returns NotFound (or a nil slice for MultiWithinRange). The same
// holds for a window length below 1. The error result only reports failures
// from the Series itself, such as types.ErrInvalidChannel.
package search

import (
	"github.com/vjranagit/imurun/pkg/types"
)

// NotFound is returned when no qualifying run exists or the query is malformed
const NotFound = -1

// Series is an indexable sequence of samples.
// *store.SampleStore satisfies it.
type Series interface {
	Size() int
	ChannelValue(index int, ch types.Channel) (float64, error)
}

// run counts consecutive qualifying samples
type run struct {
	count int
}

// step feeds one sample into the counter and reports whether it just reached
// win. It reports true once per run.
func (r *run) step(hit bool, win int) bool {
	if !hit {
		r.count = 0
		return false
	}
	r.count++
	return r.count == win
}

func inBounds(s Series, i int) bool {
	return i >= 0 && i < s.Size()
}

func validForward(s Series, begin, end, win int) bool {
	return win >= 1 && begin < end && inBounds(s, begin) && inBounds(s, end)
}

// AboveValue scans [begin, end] forward and returns the index of the first
// sample of the earliest run of win consecutive samples whose value on ch is
// greater than threshold.
func AboveValue(s Series, ch types.Channel, begin, end int, threshold float64, win int) (int, error) {
	if !validForward(s, begin, end, win) {
		return NotFound, nil
	}

	var r run
	for i := begin; i <= end; i++ {
		v, err := s.ChannelValue(i, ch)
		if err != nil {
			return NotFound, err
		}
		if r.step(v > threshold, win) {
			return i - win + 1, nil
		}
	}
	return NotFound, nil
}

// BackWithinRange scans from begin down to end (begin > end) and returns the
// index at which win consecutive samples with lo < value < hi have been seen.
// That index is the lowest of the run, i.e. the last one scanned.
func BackWithinRange(s Series, ch types.Channel, begin, end int, lo, hi float64, win int) (int, error) {
	if win < 1 || begin <= end || !inBounds(s, begin) || !inBounds(s, end) {
		return NotFound, nil
	}

	var r run
	for i := begin; i >= end; i-- {
		v, err := s.ChannelValue(i, ch)
		if err != nil {
			return NotFound, err
		}
		if r.step(v > lo && v < hi, win) {
			return i, nil
		}
	}
	return NotFound, nil
}

// AboveValueTwoSignals scans [begin, end] forward and returns the start of the
// earliest window of win samples in which ch1 stays above threshold1 and ch2
// stays above threshold2.
func AboveValueTwoSignals(s Series, ch1, ch2 types.Channel, begin, end int, threshold1, threshold2 float64, win int) (int, error) {
	if !validForward(s, begin, end, win) {
		return NotFound, nil
	}

	// Counters saturate at win; a match needs both at win on the same index.
	var n1, n2 int
	for i := begin; i <= end; i++ {
		v1, err := s.ChannelValue(i, ch1)
		if err != nil {
			return NotFound, err
		}
		v2, err := s.ChannelValue(i, ch2)
		if err != nil {
			return NotFound, err
		}

		n1 = advance(n1, v1 > threshold1, win)
		n2 = advance(n2, v2 > threshold2, win)
		if n1 == win && n2 == win {
			return i - win + 1, nil
		}
	}
	return NotFound, nil
}

func advance(n int, hit bool, win int) int {
	if !hit {
		return 0
	}
	if n < win {
		n++
	}
	return n
}

// MultiWithinRange scans [begin, end] forward and returns every maximal run of
// at least win samples with lo < value < hi, in ascending order.
//
// The result is nil only for a malformed query; a valid query that finds
// nothing returns an empty, non-nil slice.
func MultiWithinRange(s Series, ch types.Channel, begin, end int, lo, hi float64, win int) ([]types.IndexPair, error) {
	if !validForward(s, begin, end, win) {
		return nil, nil
	}

	pairs := []types.IndexPair{}
	pair := types.NewIndexPair()

	for i := begin; i <= end; i++ {
		v, err := s.ChannelValue(i, ch)
		if err != nil {
			return nil, err
		}

		if v > lo && v < hi {
			if !pair.Started() {
				pair.Start = i
			}
			continue
		}

		if pair.Started() {
			pair.End = i - 1
			if pair.Len() >= win {
				pairs = append(pairs, pair)
			}
			pair = types.NewIndexPair()
		}
	}

	// Range exhausted inside a run
	if pair.Started() {
		pair.End = end
		if pair.Len() >= win {
			pairs = append(pairs, pair)
		}
	}

	return pairs, nil
}
