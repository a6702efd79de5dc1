package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/fb-quantifier/internal/index"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	var remove string
	var keep int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if remove != "" {
				run, err := db.GetRun(ctx, remove)
				if err != nil {
					return err
				}
				if err := db.DeleteRun(ctx, run.ID); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Deleted run %s\n", run.ID)
			}
			if keep > 0 {
				n, err := db.Prune(ctx, keep)
				if err != nil {
					return fmt.Errorf("prune: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Pruned %d runs\n", n)
			}

			runs, err := db.ListRuns(ctx)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(os.Stderr, "No stored runs.")
				return nil
			}
			for _, r := range runs {
				flag := ""
				if r.Ambiguous {
					flag = " (ambiguous messages)"
				}
				fmt.Printf("%s\t%s\t%6d files\t%8d events\t%s\t%s%s\n",
					r.ID,
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Files,
					r.Events,
					r.User,
					r.ArchiveRoot,
					flag,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "rm", "", "Delete the run with this id (or unique prefix)")
	cmd.Flags().IntVar(&keep, "keep", 0, "Delete all but the newest N runs")

	return cmd
}
