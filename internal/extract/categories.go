package extract

import (
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
)

// MarketplaceVisitLayout is the date format of marketplace visit entries,
// e.g. "Sep 20, 2014".
const MarketplaceVisitLayout = "Jan 2, 2006"

// CategoryRule maps one named node of a viewed/visited tree to a kind.
type CategoryRule struct {
	Name string // exact category name
	Kind activity.Kind

	// Children lists child names to read entries from, by preference. Empty
	// means the node's own entries are read.
	Children []string
	// FirstChild falls back to the node's first child when no name matches.
	FirstChild bool

	// DateLayout, when set, reads a formatted date string instead of an
	// epoch timestamp.
	DateLayout string
}

// CategoryDialect describes one family of category-tree files.
type CategoryDialect struct {
	Keys  []string // top-level keys holding the tree, tried in order
	Rules []CategoryRule
}

var ViewedDialect = CategoryDialect{
	Keys: []string{"viewed_things", "recently_viewed"},
	Rules: []CategoryRule{
		{Name: "Facebook Watch Videos and Shows", Kind: activity.ViewedVideo, Children: []string{"Time Viewed"}},
		{Name: "Articles", Kind: activity.ViewedArticle},
		{Name: "Marketplace", Kind: activity.ViewedMarketplaceItem, Children: []string{"Marketplace Items"}, FirstChild: true},
	},
}

var VisitedDialect = CategoryDialect{
	Keys: []string{"visited_things", "visited_things_v2"},
	Rules: []CategoryRule{
		{Name: "Profile visits", Kind: activity.VisitedProfile},
		{Name: "Page visits", Kind: activity.VisitedPage},
		{Name: "Events visited", Kind: activity.VisitedEventPage},
		{Name: "Groups visited", Kind: activity.VisitedGroupPage},
		{Name: "Marketplace Visits", Kind: activity.VisitedMarketplace, DateLayout: MarketplaceVisitLayout},
	},
}

// Viewed splits a viewed-things file into video, article and marketplace kinds.
func Viewed(content any, loc *time.Location) ([]activity.Event, error) {
	return SplitCategories(content, ViewedDialect, loc)
}

// Visited splits a visited-things file into profile, page, event, group and
// marketplace visit kinds.
func Visited(content any, loc *time.Location) ([]activity.Event, error) {
	return SplitCategories(content, VisitedDialect, loc)
}

// SplitCategories walks the category tree of content according to d.
// Unknown categories are ignored and absent ones emit nothing. A file with
// none of d.Keys is a *FormatError.
func SplitCategories(content any, d CategoryDialect, loc *time.Location) ([]activity.Event, error) {
	top, ok := content.(map[string]any)
	if !ok {
		return nil, &FormatError{Want: d.Keys}
	}

	var tree any
	found := false
	for _, k := range d.Keys {
		if v, ok := top[k]; ok {
			tree, found = v, true
			break
		}
	}
	if !found {
		return nil, &FormatError{Want: d.Keys}
	}

	rules := make(map[string]CategoryRule, len(d.Rules))
	for _, r := range d.Rules {
		rules[r.Name] = r
	}

	var events []activity.Event
	for _, node := range nodes(tree) {
		name, _ := node["name"].(string)
		rule, ok := rules[name]
		if !ok {
			continue
		}
		target := node
		if len(rule.Children) > 0 {
			target = pickChild(node, rule)
			if target == nil {
				continue
			}
		}
		for _, entry := range nodes(target["entries"]) {
			day, ok := entryDate(entry, rule, loc)
			if !ok {
				continue
			}
			events = append(events, activity.Event{Kind: rule.Kind, On: day})
		}
	}

	if len(events) == 0 {
		return nil, ErrNoTimestamps
	}
	return events, nil
}

func pickChild(node map[string]any, rule CategoryRule) map[string]any {
	children := nodes(node["children"])
	for _, want := range rule.Children {
		for _, c := range children {
			if name, _ := c["name"].(string); name == want {
				return c
			}
		}
	}
	if rule.FirstChild && len(children) > 0 {
		return children[0]
	}
	return nil
}

func entryDate(entry map[string]any, rule CategoryRule, loc *time.Location) (activity.Date, bool) {
	if rule.DateLayout == "" {
		return epochDate(entry["timestamp"], false, loc)
	}

	s, ok := dateString(entry)
	if !ok {
		return activity.Date{}, false
	}
	d, err := activity.ParseDate(rule.DateLayout, s)
	if err != nil {
		return activity.Date{}, false
	}
	return d, true
}

// dateString finds a formatted date in entry.data.value or entry.timestamp.
func dateString(entry map[string]any) (string, bool) {
	if data, ok := entry["data"].(map[string]any); ok {
		if s, ok := data["value"].(string); ok {
			return s, true
		}
	}
	s, ok := entry["timestamp"].(string)
	return s, ok
}

// nodes returns the mappings in v, which may be a list or a single mapping.
func nodes(v any) []map[string]any {
	switch x := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(x))
		for _, it := range x {
			if m, ok := it.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{x}
	default:
		return nil
	}
}
