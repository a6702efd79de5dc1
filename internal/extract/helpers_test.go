package extract

import (
	"encoding/json"
	"testing"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/stretchr/testify/require"
)

// decode parses a JSON fixture the same way the engine does.
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func days(dates []activity.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// countByKind folds events into kind -> day -> n.
func countByKind(evs []activity.Event) map[activity.Kind]map[string]int {
	out := map[activity.Kind]map[string]int{}
	for _, e := range evs {
		if out[e.Kind] == nil {
			out[e.Kind] = map[string]int{}
		}
		out[e.Kind][e.On.String()]++
	}
	return out
}
