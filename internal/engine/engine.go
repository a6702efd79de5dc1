package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/extract"
	"github.com/Zuo-Peng/fb-quantifier/internal/metrics"
	"github.com/Zuo-Peng/fb-quantifier/internal/scan"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

type Options struct {
	Root     string
	User     string
	Workers  int
	Location *time.Location
	Logger   *slog.Logger
}

type Stats struct {
	Scanned    int
	Recognized int
	Skipped    int
	Empty      int
	Events     int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d recognized=%d skipped=%d empty=%d events=%d",
		s.Scanned, s.Recognized, s.Skipped, s.Empty, s.Events)
}

// FileReport records what one recognized file contributed to the run.
type FileReport struct {
	Rel    string
	Route  string
	Events int
	Empty  bool
}

type Result struct {
	Table     *tally.Table
	Stats     Stats
	Ambiguous bool
	Files     []FileReport
	Started   time.Time
	Finished  time.Time
}

// Run walks opts.Root and counts every recognized file.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := scan.Walk(opts.Root)
	if err != nil {
		return nil, err
	}
	return RunFiles(ctx, files, opts)
}

// RunFiles counts the given files. The resulting table does not depend on the
// order of files or on the number of workers.
func RunFiles(ctx context.Context, files []scan.File, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	proc := NewProcessor(opts.User, opts.Location, log)

	res := &Result{Table: tally.New(), Started: time.Now()}
	res.Stats.Scanned = len(files)

	var jobs []fileJob
	for _, f := range files {
		r, ok := archive.Classify(f.Rel)
		if !ok {
			res.Stats.Skipped++
			metrics.FilesScanned.WithLabelValues("unrecognized").Inc()
			log.Debug("skip", "path", f.Rel)
			continue
		}
		metrics.FilesScanned.WithLabelValues(r.Name()).Inc()
		jobs = append(jobs, fileJob{file: f, route: r})
	}
	res.Stats.Recognized = len(jobs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := newWorkerPool(ctx, workers, workers*2, func(ctx context.Context, j fileJob) (fileOutcome, error) {
		if err := ctx.Err(); err != nil {
			return fileOutcome{}, err
		}
		start := time.Now()
		out, err := proc.handle(j)
		metrics.FileProcessingDuration.Observe(time.Since(start).Seconds())
		return out, err
	})

	go func() {
		for _, j := range jobs {
			if !pool.Submit(ctx, j) {
				break
			}
		}
		pool.Drain()
	}()

	var firstErr error
	for r := range pool.Results() {
		if firstErr != nil {
			continue
		}
		if r.err != nil {
			firstErr = r.err
			cancel()
			continue
		}
		res.Table.Merge(r.value.table)
		res.Stats.Events += r.value.events
		if r.value.empty {
			res.Stats.Empty++
			metrics.FilesWithoutTimestamps.Inc()
		}
		res.Files = append(res.Files, FileReport{
			Rel:    r.payload.file.Rel,
			Route:  r.payload.route.Name(),
			Events: r.value.events,
			Empty:  r.value.empty,
		})
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		metrics.Runs.WithLabelValues("failed").Inc()
		return nil, firstErr
	}

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Rel < res.Files[j].Rel })

	res.Ambiguous = extract.ResolveAttribution(res.Table)
	if res.Ambiguous {
		log.Warn("no messages were attributed to the user; received messages are reported as message_received_or_sent",
			"user", opts.User)
	}
	for _, k := range res.Table.Kinds() {
		metrics.EventsExtracted.WithLabelValues(k.Label()).Add(float64(res.Table.Total(k)))
	}
	res.Finished = time.Now()
	metrics.Runs.WithLabelValues("ok").Inc()
	log.Debug("run complete", "stats", res.Stats.String())
	return res, nil
}
