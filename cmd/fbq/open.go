package main

import (
	"fmt"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <kind> [run-id]",
		Short: "Open the archive file that produced a kind in $EDITOR",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			kind, ok := activity.ParseLabel(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q", args[0])
			}

			db, run, err := loadRun(cmd.Context(), cfg, args[1:])
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenKind(cmd.Context(), db, run, kind)
		},
	}
}
