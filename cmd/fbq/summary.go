package main

import (
	"os"

	"github.com/Zuo-Peng/fb-quantifier/internal/render"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary [run-id]",
		Short: "Show per-kind totals of a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
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
			return render.WriteSummary(os.Stdout, runSummary(run, t), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json/yaml)")

	return cmd
}
