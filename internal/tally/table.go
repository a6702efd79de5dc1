package tally

import (
	"sort"
	"sync"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
)

type key struct {
	kind activity.Kind
	day  activity.Date
}

// Table counts events per kind per day. The zero value is not usable; use New.
// All methods are safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	counts map[key]int
}

func New() *Table {
	return &Table{counts: make(map[key]int)}
}

// Add counts one event.
func (t *Table) Add(ev activity.Event) {
	t.AddN(ev.Kind, ev.On, 1)
}

// AddAll counts every event in evs.
func (t *Table) AddAll(evs []activity.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ev := range evs {
		t.counts[key{ev.Kind, ev.On}]++
	}
}

// AddN adds n occurrences of kind on day. Non-positive n is ignored so a kind
// never appears with a zero count.
func (t *Table) AddN(kind activity.Kind, day activity.Date, n int) {
	if n <= 0 {
		return
	}
	t.mu.Lock()
	t.counts[key{kind, day}] += n
	t.mu.Unlock()
}

// Merge folds other into t. Merging is commutative and associative.
func (t *Table) Merge(other *Table) {
	if other == nil || other == t {
		return
	}
	other.mu.RLock()
	snapshot := make(map[key]int, len(other.counts))
	for k, n := range other.counts {
		snapshot[k] = n
	}
	other.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for k, n := range snapshot {
		t.counts[k] += n
	}
}

// Rename moves every count of from onto to.
func (t *Table) Rename(from, to activity.Kind) {
	if from == to {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, n := range t.counts {
		if k.kind != from {
			continue
		}
		delete(t.counts, k)
		t.counts[key{to, k.day}] += n
	}
}

// Count returns the number of events of kind on day.
func (t *Table) Count(kind activity.Kind, day activity.Date) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[key{kind, day}]
}

// Total returns the number of events of kind across all days.
func (t *Table) Total(kind activity.Kind) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := 0
	for k, n := range t.counts {
		if k.kind == kind {
			total += n
		}
	}
	return total
}

// Size returns the number of events counted.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Has reports whether any event of kind was counted.
func (t *Table) Has(kind activity.Kind) bool {
	return t.Total(kind) > 0
}

// Kinds returns the kinds present, in display order.
func (t *Table) Kinds() []activity.Kind {
	t.mu.RLock()
	seen := make(map[activity.Kind]struct{})
	for k := range t.counts {
		seen[k.kind] = struct{}{}
	}
	t.mu.RUnlock()

	out := make([]activity.Kind, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return activity.Less(out[i], out[j]) })
	return out
}

// Dates returns every day with at least one event, ascending.
func (t *Table) Dates() []activity.Date {
	t.mu.RLock()
	seen := make(map[activity.Date]struct{})
	for k := range t.counts {
		seen[k.day] = struct{}{}
	}
	t.mu.RUnlock()

	out := make([]activity.Date, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Cell is one non-zero (kind, day) count.
type Cell struct {
	Kind  activity.Kind
	Day   activity.Date
	Count int
}

// Cells returns every non-zero count ordered by day, then kind.
func (t *Table) Cells() []Cell {
	t.mu.RLock()
	out := make([]Cell, 0, len(t.counts))
	for k, n := range t.counts {
		out = append(out, Cell{Kind: k.kind, Day: k.day, Count: n})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day.Before(out[j].Day)
		}
		return activity.Less(out[i].Kind, out[j].Kind)
	})
	return out
}

// Row is one day of the table with a count per present kind.
type Row struct {
	Day    activity.Date
	Counts map[activity.Kind]int
}

// Rows pivots the table into one row per day, ascending.
func (t *Table) Rows() []Row {
	var rows []Row
	for _, c := range t.Cells() {
		if len(rows) == 0 || rows[len(rows)-1].Day != c.Day {
			rows = append(rows, Row{Day: c.Day, Counts: make(map[activity.Kind]int)})
		}
		rows[len(rows)-1].Counts[c.Kind] = c.Count
	}
	return rows
}
