package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show INDEX...",
		Short: "Print samples by index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadStore()
			if err != nil {
				return err
			}

			for _, arg := range args {
				index, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid index %q", arg)
				}
				line, err := s.Format(index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", index, line)
			}
			return nil
		},
	}
}
