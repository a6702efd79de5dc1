package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/engine"
	"github.com/Zuo-Peng/fb-quantifier/internal/export"
	"github.com/Zuo-Peng/fb-quantifier/internal/index"
	"github.com/Zuo-Peng/fb-quantifier/internal/metrics"
	"github.com/Zuo-Peng/fb-quantifier/internal/render"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var folder, user, out, format, metricsFile string
	var workers int
	var noStore bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count every dated activity in an archive and write the CSV table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if folder == "" {
				folder = cfg.ArchiveRoot
			}
			if folder == "" {
				return fmt.Errorf("no archive folder: pass --folder or set archive_root in the config")
			}
			if user == "" {
				user = cfg.User
			}
			if user == "" {
				warnNoUser(log)
			}
			if workers == 0 {
				workers = cfg.Workers
			}
			if metricsFile == "" {
				metricsFile = cfg.MetricsFile
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			root, err := filepath.Abs(folder)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Scanning %s...\n", root)
			res, err := engine.Run(cmd.Context(), engine.Options{
				Root:     root,
				User:     user,
				Workers:  workers,
				Location: loc,
				Logger:   log,
			})
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			var csvPath string
			if out != "" {
				csvPath = out
				err = export.WriteTo(out, res.Table)
			} else {
				csvPath, err = export.WriteFile(cfg.OutputDir, user, res.Table)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", csvPath)

			run := &index.Run{
				ArchiveRoot: root,
				User:        user,
				StartedAt:   res.Started,
				FinishedAt:  res.Finished,
				Ambiguous:   res.Ambiguous,
				Files:       res.Stats.Recognized,
				Events:      res.Stats.Events,
			}
			if !noStore {
				db, err := index.OpenDB(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open db: %w", err)
				}
				defer db.Close()
				if err := db.SaveRun(cmd.Context(), run, res.Table, fileRows(res.Files)); err != nil {
					return fmt.Errorf("store run: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Stored run %s\n", run.ID)
			}

			if metricsFile != "" {
				if err := metrics.WriteTextfile(metricsFile); err != nil {
					log.Warn("write metrics", "path", metricsFile, "err", err)
				}
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", res.Stats)
			return render.WriteSummary(os.Stdout, runSummary(run, res.Table), f)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Unpacked archive folder (default: archive_root from config)")
	cmd.Flags().StringVar(&user, "user", "", "Display name of the archive owner, used to tell sent from received messages")
	cmd.Flags().StringVarP(&out, "out", "o", "", "CSV output path (default: <output_dir>/facebook_data_<user>.csv)")
	cmd.Flags().StringVar(&format, "format", "text", "Summary format (text/json/yaml)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel file workers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record the run in the database")

	return cmd
}

func fileRows(files []engine.FileReport) []index.FileRow {
	rows := make([]index.FileRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, index.FileRow{RelPath: f.Rel, Route: f.Route, Events: f.Events})
	}
	return rows
}

// warnNoUser notes that without a user name no message can be told apart as
// sent, so conversations land in the combined kind.
func warnNoUser(log *slog.Logger) {
	log.Warn("no user name given; messages cannot be attributed and are reported as "+
		activity.MessageSentOrReceived.Label(), "hint", "pass --user or set user in the config")
}
