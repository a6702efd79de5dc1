package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
)

// Marker substrings that decide a post's category. Post metadata nests
// attachments to arbitrary depth with no stable schema, so the category is
// decided by searching a flat rendering of the post instead of walking fields.
// The match is case-sensitive substring search, so "multimedia" or a post
// text containing "media" also counts as media.
const (
	MediaMarker = "media"
	LinkMarker  = "external_context"
)

// FlattenValues renders every value of entry, recursively, as one string.
// Nested keys are included; the entry's own top-level keys are not, so a
// top-level "media" key alone does not mark a post.
func FlattenValues(entry map[string]any) string {
	var b strings.Builder
	for _, k := range sortedKeys(entry) {
		writeFlat(&b, entry[k])
		b.WriteByte(' ')
	}
	return b.String()
}

func writeFlat(b *strings.Builder, v any) {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for _, k := range keys {
			b.WriteString(k)
			b.WriteString(": ")
			writeFlat(b, x[k])
			b.WriteString(", ")
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for _, it := range x {
			writeFlat(b, it)
			b.WriteString(", ")
		}
		b.WriteByte(']')
	case string:
		b.WriteString(x)
	case float64:
		b.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case nil:
		b.WriteString("null")
	default:
		fmt.Fprint(b, x)
	}
}

// PostCategory picks exactly one of media, link or text-only for a flattened
// post. Media wins over link.
func PostCategory(flat string) activity.Kind {
	switch {
	case strings.Contains(flat, MediaMarker):
		return activity.PostMedia
	case strings.Contains(flat, LinkMarker):
		return activity.PostLink
	default:
		return activity.PostTextOnly
	}
}
