package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS runs (
    run_id       TEXT PRIMARY KEY,
    archive_root TEXT NOT NULL,
    user_name    TEXT NOT NULL DEFAULT '',
    started_at   TEXT NOT NULL,
    finished_at  TEXT NOT NULL,
    ambiguous    INTEGER NOT NULL DEFAULT 0,
    files        INTEGER NOT NULL DEFAULT 0,
    events       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS counts (
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    kind   TEXT NOT NULL,
    day    TEXT NOT NULL,
    n      INTEGER NOT NULL,
    PRIMARY KEY (run_id, kind, day)
);

CREATE TABLE IF NOT EXISTS files (
    run_id   TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    rel_path TEXT NOT NULL,
    route    TEXT NOT NULL,
    events   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, rel_path)
);

CREATE INDEX IF NOT EXISTS runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion should be bumped whenever the stored layout changes.
const schemaVersion = "1"

var (
	ErrNotFound  = errors.New("run not found")
	ErrAmbiguous = errors.New("run id prefix matches several runs")
)

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// foreign_keys is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case ver > schemaVersion:
		return fmt.Errorf("database schema version %s is newer than supported %s", ver, schemaVersion)
	}
	if ver != schemaVersion {
		if _, err := d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}

func (d *DB) SchemaVersion() (string, error) {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	return ver, err
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Run is one stored quantifier run.
type Run struct {
	ID          string
	ArchiveRoot string
	User        string
	StartedAt   time.Time
	FinishedAt  time.Time
	Ambiguous   bool
	Files       int
	Events      int
}

// FileRow is one recognized file's contribution to a run.
type FileRow struct {
	RelPath string
	Route   string
	Events  int
}

const runColumns = "run_id, archive_root, user_name, started_at, finished_at, ambiguous, files, events"

// timeLayout keeps stored times fixed-width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r                 Run
		started, finished string
		ambiguous         int
	)
	if err := s.Scan(&r.ID, &r.ArchiveRoot, &r.User, &started, &finished, &ambiguous, &r.Files, &r.Events); err != nil {
		return nil, err
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("run %s started_at: %w", r.ID, err)
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("run %s finished_at: %w", r.ID, err)
	}
	r.Ambiguous = ambiguous != 0
	return &r, nil
}

// ListRuns returns stored runs, most recent first.
func (d *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, run_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently started run, or ErrNotFound.
func (d *DB) LatestRun(ctx context.Context) (*Run, error) {
	r, err := scanRun(d.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, run_id LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// GetRun looks a run up by its id or by a unique id prefix.
func (d *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := d.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE substr(run_id, 1, ?) = ? LIMIT 2", len(id), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// Resolve returns the run named by id, or the latest run when id is empty.
func (d *DB) Resolve(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return d.LatestRun(ctx)
	}
	return d.GetRun(ctx, id)
}

// LoadTable rebuilds the count table stored for a run.
func (d *DB) LoadTable(ctx context.Context, runID string) (*tally.Table, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT kind, day, n FROM counts WHERE run_id = ?", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := tally.New()
	for rows.Next() {
		var (
			kind, day string
			n         int
		)
		if err := rows.Scan(&kind, &day, &n); err != nil {
			return nil, err
		}
		date, err := activity.ParseDay(day)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		t.AddN(activity.Kind(kind), date, n)
	}
	return t, rows.Err()
}

// RunFiles returns the files recorded for a run ordered by path.
func (d *DB) RunFiles(ctx context.Context, runID string) ([]FileRow, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT rel_path, route, events FROM files WHERE run_id = ? ORDER BY rel_path", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.RelPath, &f.Route, &f.Events); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (d *DB) RunCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}
