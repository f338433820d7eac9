package search

import (
	"fmt"

	"github.com/vjranagit/imurun/pkg/types"
)

// Kind names one of the search operations
type Kind string

const (
	KindAbove Kind = "above"
	KindBack  Kind = "back"
	KindTwo   Kind = "two"
	KindMulti Kind = "multi"
)

// ParseKind validates a kind name
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindAbove, KindBack, KindTwo, KindMulti:
		return k, nil
	}
	return "", fmt.Errorf("unknown search kind %q", name)
}

// Query describes a single search. Fields not used by Kind are ignored:
//
//	above: Channel, Begin, End, Threshold, Win
//	back:  Channel, Begin, End, Lo, Hi, Win
//	two:   Channel, Channel2, Begin, End, Threshold, Threshold2, Win
//	multi: Channel, Begin, End, Lo, Hi, Win
type Query struct {
	Kind       Kind
	Channel    types.Channel
	Channel2   types.Channel
	Begin      int
	End        int
	Threshold  float64
	Threshold2 float64
	Lo         float64
	Hi         float64
	Win        int
}

// Result holds the outcome of a Query. Index is set for single-index kinds,
// Pairs for KindMulti.
type Result struct {
	Index int               `json:"index"`
	Pairs []types.IndexPair `json:"pairs"`
}

// Found reports whether the search produced a match
func (r *Result) Found() bool {
	return r.Index != NotFound || len(r.Pairs) > 0
}

// Run executes q against s
func Run(s Series, q Query) (*Result, error) {
	var (
		res = &Result{Index: NotFound}
		err error
	)

	switch q.Kind {
	case KindAbove:
		res.Index, err = AboveValue(s, q.Channel, q.Begin, q.End, q.Threshold, q.Win)
	case KindBack:
		res.Index, err = BackWithinRange(s, q.Channel, q.Begin, q.End, q.Lo, q.Hi, q.Win)
	case KindTwo:
		res.Index, err = AboveValueTwoSignals(s, q.Channel, q.Channel2, q.Begin, q.End, q.Threshold, q.Threshold2, q.Win)
	case KindMulti:
		res.Pairs, err = MultiWithinRange(s, q.Channel, q.Begin, q.End, q.Lo, q.Hi, q.Win)
	default:
		return nil, fmt.Errorf("unknown search kind %q", q.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", q.Kind, err)
	}
	return res, nil
}
