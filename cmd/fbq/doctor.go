package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/config"
	"github.com/Zuo-Peng/fb-quantifier/internal/index"
	"github.com/Zuo-Peng/fb-quantifier/internal/scan"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: show how an archive's files are classified and the DB state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if folder == "" {
				folder = cfg.ArchiveRoot
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  User:     %q\n", cfg.User)
			if loc, err := cfg.Location(); err == nil {
				fmt.Printf("  Timezone: %s\n", loc)
			}
			checkDir("Archive", folder)

			if folder != "" {
				if err := reportArchive(folder); err != nil {
					fmt.Printf("  scan error: %v\n", err)
				}
			}

			return reportDB(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Archive folder to check (default: archive_root from config)")

	return cmd
}

func reportArchive(folder string) error {
	fmt.Println("\n=== Archive Files ===")
	files, err := scan.Walk(folder)
	if err != nil {
		return err
	}

	perRoute := map[string]int{}
	var routes []archive.Route
	unrecognized := 0
	for _, f := range files {
		r, ok := archive.Classify(f.Rel)
		if !ok {
			unrecognized++
			if verbose {
				fmt.Printf("  skip %s\n", f.Rel)
			}
			continue
		}
		perRoute[r.Name()]++
		routes = append(routes, r)
	}

	names := make([]string, 0, len(perRoute))
	for n := range perRoute {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-30s %d\n", n, perRoute[n])
	}
	fmt.Printf("  JSON files: %d (unrecognized %d)\n", len(files), unrecognized)

	if missing := uncoveredKinds(routes); len(missing) > 0 {
		fmt.Println("\n=== Kinds With No Source File ===")
		for _, k := range missing {
			fmt.Printf("  %s\n", k.Label())
		}
	}
	return nil
}

// uncoveredKinds lists the known kinds that none of routes can produce.
func uncoveredKinds(routes []archive.Route) []activity.Kind {
	covered := map[activity.Kind]bool{}
	for _, r := range routes {
		for _, k := range r.Kinds() {
			covered[k] = true
		}
	}
	var out []activity.Kind
	for _, k := range activity.All() {
		if !covered[k] {
			out = append(out, k)
		}
	}
	return out
}

func reportDB(cmd *cobra.Command, cfg *config.Config) error {
	fmt.Println("\n=== Database ===")
	fmt.Printf("  Path: %s\n", cfg.DBPath)
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		fmt.Println("  Status: NOT FOUND (run 'fbq run' first)")
		return nil
	}

	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if ver, err := db.SchemaVersion(); err == nil {
		fmt.Printf("  Schema: v%s\n", ver)
	}
	n, err := db.RunCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}
	fmt.Printf("  Runs:   %d\n", n)

	if info, err := os.Stat(cfg.DBPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
	}
	return nil
}

func checkDir(name, path string) {
	if path == "" {
		fmt.Printf("  %s: (not set)\n", name)
	} else if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
