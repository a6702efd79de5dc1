package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/fb-quantifier/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Write a stored run's table as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
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

			if out == "-" {
				return export.WriteCSV(os.Stdout, t)
			}
			if out == "" {
				out = filepath.Join(cfg.OutputDir, export.FileName(run.User))
			}
			if err := export.WriteTo(out, t); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV path, - for stdout (default: <output_dir>/facebook_data_<user>.csv)")

	return cmd
}
