package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// SaveRun stores a run with its count table and file list in one
// transaction. An empty run ID is filled with a new UUID.
func (d *DB) SaveRun(ctx context.Context, run *Run, t *tally.Table, files []FileRow) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ArchiveRoot,
		run.User,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		boolInt(run.Ambiguous),
		run.Files,
		run.Events,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	counts, err := tx.PrepareContext(ctx, "INSERT INTO counts (run_id, kind, day, n) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer counts.Close()

	for _, c := range t.Cells() {
		if _, err := counts.ExecContext(ctx, run.ID, string(c.Kind), c.Day.String(), c.Count); err != nil {
			return fmt.Errorf("insert count %s %s: %w", c.Kind, c.Day, err)
		}
	}

	fileStmt, err := tx.PrepareContext(ctx, "INSERT INTO files (run_id, rel_path, route, events) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer fileStmt.Close()

	for _, f := range files {
		if _, err := fileStmt.ExecContext(ctx, run.ID, f.RelPath, f.Route, f.Events); err != nil {
			return fmt.Errorf("insert file %s: %w", f.RelPath, err)
		}
	}

	return tx.Commit()
}

// DeleteRun removes a run and everything stored with it.
func (d *DB) DeleteRun(ctx context.Context, runID string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM counts WHERE run_id = ?",
		"DELETE FROM files WHERE run_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, runID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return tx.Commit()
}

// Prune keeps the newest keep runs and deletes the rest. It returns the
// number of runs deleted.
func (d *DB) Prune(ctx context.Context, keep int) (int, error) {
	runs, err := d.ListRuns(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	pruned := 0
	for i := keep; i < len(runs); i++ {
		if err := d.DeleteRun(ctx, runs[i].ID); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
