package extract

import (
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
)

// OwnPosts splits the user's own timeline posts. Every post counts once as
// PostAny and once as exactly one of PostMedia, PostLink or PostTextOnly.
// Posts without a timestamp are skipped.
func OwnPosts(content any, loc *time.Location) ([]activity.Event, error) {
	entries, err := postEntries(content)
	if err != nil {
		return nil, err
	}

	var events []activity.Event
	for _, e := range entries {
		day, ok := epochDate(e["timestamp"], false, loc)
		if !ok {
			continue
		}
		events = append(events,
			activity.Event{Kind: activity.PostAny, On: day},
			activity.Event{Kind: PostCategory(FlattenValues(e)), On: day},
		)
	}
	if len(events) == 0 {
		return nil, ErrNoTimestamps
	}
	return events, nil
}

// postEntries accepts the list form used by most archives as well as a
// mapping of lists.
func postEntries(content any) ([]map[string]any, error) {
	var raw []any
	switch c := content.(type) {
	case []any:
		raw = c
	case map[string]any:
		for _, k := range sortedKeys(c) {
			if list, ok := c[k].([]any); ok {
				raw = append(raw, list...)
			}
		}
	default:
		return nil, ErrNoTimestamps
	}

	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}
