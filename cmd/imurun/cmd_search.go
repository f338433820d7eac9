package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vjranagit/imurun/pkg/search"
	"github.com/vjranagit/imurun/pkg/types"
)

// searchFlags holds the raw flag values for every search kind
type searchFlags struct {
	channel    string
	channel2   string
	begin      int
	end        int
	threshold  float64
	threshold2 float64
	lo         float64
	hi         float64
	win        int
}

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a windowed run search over the sample file",
	}

	cmd.AddCommand(
		newSearchKindCmd(a, search.KindAbove,
			"First run of --win samples above --threshold, scanning --begin to --end"),
		newSearchKindCmd(a, search.KindBack,
			"First run of --win samples inside (--lo, --hi), scanning backward from --begin down to --end"),
		newSearchKindCmd(a, search.KindTwo,
			"First window where --channel > --threshold and --channel2 > --threshold2 for --win samples"),
		newSearchKindCmd(a, search.KindMulti,
			"Every run of at least --win samples inside (--lo, --hi)"),
	)
	return cmd
}

func newSearchKindCmd(a *app, kind search.Kind, short string) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query(kind)
			if err != nil {
				return err
			}

			s, err := a.loadStore()
			if err != nil {
				return err
			}

			res, err := search.Run(s, q)
			if err != nil {
				return err
			}

			a.logger.Debug("search done", "kind", kind, "found", res.Found())
			fmt.Fprintln(cmd.OutOrStdout(), formatResult(kind, res))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.channel, "channel", "c", "ts", "channel: ts, ax, ay, az, wx, wy, wz")
	flags.IntVar(&f.begin, "begin", 0, "first index scanned")
	flags.IntVar(&f.end, "end", 0, "last index scanned")
	flags.IntVarP(&f.win, "win", "w", 1, "minimum run length")

	switch kind {
	case search.KindAbove:
		flags.Float64VarP(&f.threshold, "threshold", "t", 0, "value must be greater than this")
	case search.KindTwo:
		flags.StringVar(&f.channel2, "channel2", "ax", "second channel")
		flags.Float64VarP(&f.threshold, "threshold", "t", 0, "first channel must be greater than this")
		flags.Float64Var(&f.threshold2, "threshold2", 0, "second channel must be greater than this")
	case search.KindBack, search.KindMulti:
		flags.Float64Var(&f.lo, "lo", 0, "value must be greater than this")
		flags.Float64Var(&f.hi, "hi", 0, "value must be less than this")
	}
	return cmd
}

func (f *searchFlags) query(kind search.Kind) (search.Query, error) {
	q := search.Query{
		Kind:       kind,
		Begin:      f.begin,
		End:        f.end,
		Threshold:  f.threshold,
		Threshold2: f.threshold2,
		Lo:         f.lo,
		Hi:         f.hi,
		Win:        f.win,
	}

	var err error
	if q.Channel, err = types.ParseChannel(f.channel); err != nil {
		return q, err
	}
	if kind == search.KindTwo {
		if q.Channel2, err = types.ParseChannel(f.channel2); err != nil {
			return q, err
		}
	}
	return q, nil
}

// formatResult renders an index, or the pair list as "(l,r),(l,r)".
// An empty multi result prints "none".
func formatResult(kind search.Kind, res *search.Result) string {
	if kind != search.KindMulti {
		return fmt.Sprint(res.Index)
	}
	if len(res.Pairs) == 0 {
		return "none"
	}

	parts := make([]string, len(res.Pairs))
	for i, p := range res.Pairs {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
