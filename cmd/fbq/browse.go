package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/export"
	"github.com/Zuo-Peng/fb-quantifier/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func browseCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "browse [run-id]",
		Short: "Browse a stored run's date x kind table",
		Long:  `Opens a TUI listing every day of the run with its counts. Type to filter by date prefix, tab to focus a kind, Enter to copy the day as CSV. When stdout is not a terminal the table is written as CSV instead.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			var focus activity.Kind
			if kind != "" {
				k, ok := activity.ParseLabel(kind)
				if !ok {
					return fmt.Errorf("unknown kind %q", kind)
				}
				focus = k
			}

			db, run, err := loadRun(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := db.LoadTable(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			// Interactive TUI when stdout is a terminal; CSV for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(t, tui.Options{Title: shortID(run.ID), Focus: focus})
			}
			return export.WriteCSV(os.Stdout, t)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Start focused on this kind (label such as poked)")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
