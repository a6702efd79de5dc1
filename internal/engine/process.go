package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/extract"
	"github.com/Zuo-Peng/fb-quantifier/internal/scan"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// Processor turns one classified archive file into events.
type Processor struct {
	attributor *extract.Attributor
	loc        *time.Location
	log        *slog.Logger
}

func NewProcessor(user string, loc *time.Location, log *slog.Logger) *Processor {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{attributor: extract.NewAttributor(user), loc: loc, log: log}
}

// ProcessFile dispatches decoded content to the extractor the route names.
func (p *Processor) ProcessFile(r archive.Route, content any) ([]activity.Event, error) {
	switch r.Split {
	case archive.SplitNone:
		dates, err := extract.Timestamps(content, r.Dialect, p.loc)
		if err != nil {
			return nil, err
		}
		return activity.Events(r.Kind, dates), nil
	case archive.SplitOwnPosts:
		return extract.OwnPosts(content, p.loc)
	case archive.SplitViewed:
		return extract.Viewed(content, p.loc)
	case archive.SplitVisited:
		return extract.Visited(content, p.loc)
	case archive.SplitMessages:
		return p.attributor.Attribute(content, r.Dialect, p.loc)
	default:
		return nil, fmt.Errorf("unknown splitter %d", r.Split)
	}
}

type fileJob struct {
	file  scan.File
	route archive.Route
}

type fileOutcome struct {
	table  *tally.Table
	events int
	empty  bool
}

// handle reads and decodes one file and counts its events into a fresh table.
// Files with nothing to count are logged and reported empty, not failed.
func (p *Processor) handle(job fileJob) (fileOutcome, error) {
	data, err := os.ReadFile(job.file.Path)
	if err != nil {
		return fileOutcome{}, fmt.Errorf("read %s: %w", job.file.Rel, err)
	}
	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return fileOutcome{}, fmt.Errorf("parse %s: %w", job.file.Rel, err)
	}

	evs, err := p.ProcessFile(job.route, content)
	switch {
	case errors.Is(err, extract.ErrNoTimestamps), errors.Is(err, extract.ErrNoMessages):
		p.log.Info("no timestamps found", "path", job.file.Rel, "field", fieldOf(job.route), "reason", err)
		return fileOutcome{table: tally.New(), empty: true}, nil
	case err != nil:
		return fileOutcome{}, fmt.Errorf("%s: %w", job.file.Rel, err)
	}

	t := tally.New()
	t.AddAll(evs)
	return fileOutcome{table: t, events: len(evs), empty: len(evs) == 0}, nil
}

func fieldOf(r archive.Route) string {
	if r.Dialect.Field != "" {
		return r.Dialect.Field
	}
	return archive.DefaultTimestampField
}
