package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
)

// ErrNoTimestamps means a recognized file held nothing to count. It is a
// notice, not a failure: the file contributes zero events.
var ErrNoTimestamps = errors.New("no timestamps found")

// FormatError reports content whose structure matches no known dialect.
type FormatError struct {
	Want []string // keys that were expected at the top level
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported layout: expected top-level key %s", strings.Join(e.Want, " or "))
}

// Timestamps collects the dates stored under d.Field in content.
//
// Most files are a mapping of event lists, {"key": [{...}, ...]}. Some nest one
// level deeper, {"key": {"inner": [{...}]}}. The shallow form is tried first
// and the nested form only when it finds nothing, since the archive gives no
// other signal for its nesting depth.
func Timestamps(content any, d archive.Dialect, loc *time.Location) ([]activity.Date, error) {
	field := d.Field
	if field == "" {
		field = archive.DefaultTimestampField
	}

	top, ok := content.(map[string]any)
	if !ok {
		return nil, ErrNoTimestamps
	}

	dates := scanLists(top, field, d.Millis, loc)
	if len(dates) == 0 {
		for _, k := range sortedKeys(top) {
			inner, ok := top[k].(map[string]any)
			if !ok {
				continue
			}
			dates = append(dates, scanLists(inner, field, d.Millis, loc)...)
		}
	}

	if len(dates) == 0 {
		return nil, ErrNoTimestamps
	}
	return dates, nil
}

// scanLists reads field from every mapping in every list value of m.
func scanLists(m map[string]any, field string, millis bool, loc *time.Location) []activity.Date {
	var dates []activity.Date
	for _, k := range sortedKeys(m) {
		items, ok := m[k].([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			ev, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if d, ok := epochDate(ev[field], millis, loc); ok {
				dates = append(dates, d)
			}
		}
	}
	return dates
}

// epochDate converts a decoded JSON number to a calendar date.
func epochDate(v any, millis bool, loc *time.Location) (activity.Date, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return activity.Date{}, false
		}
		f = parsed
	default:
		return activity.Date{}, false
	}
	if millis {
		return activity.FromEpochMillis(f, loc), true
	}
	return activity.FromEpoch(f, loc), true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
