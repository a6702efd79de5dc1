package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/extract"
	"github.com/Zuo-Peng/fb-quantifier/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1577880000 is 2020-01-01 12:00 UTC, 1577966400 is 2020-01-02 12:00 UTC.
var fixture = map[string]string{
	"friends_and_followers/friends.json": `{"friends_v2": [
		{"name": "A", "timestamp": 1577880000},
		{"name": "B", "timestamp": 1577880000},
		{"name": "C", "timestamp": 1577966400}
	]}`,
	"apps_and_websites_off_of_facebook/apps_and_websites.json": `{"installed_apps_v2": [
		{"name": "Game", "added_timestamp": 1577966400}
	]}`,
	"posts/your_posts_1.json": `[
		{"timestamp": 1577880000, "attachments": [{"data": [{"media": {"uri": "a.jpg"}}]}]},
		{"timestamp": 1577966400, "data": [{"post": "words"}]}
	]`,
	"messages/inbox/alice_1/message_1.json": `{"participants": [{"name": "Alice"}, {"name": "Jane Doe"}], "messages": [
		{"sender_name": "Jane Doe", "timestamp_ms": 1577880000000},
		{"sender_name": "Alice", "timestamp_ms": 1577880000000},
		{"sender_name": "Alice", "timestamp_ms": 1577966400000}
	]}`,
	"messages/autofill_information.json": `{"autofill_information_v2": {}}`,
	"search/your_search_history.json":    `{"searches_v2": []}`,
	"misc/unknown.json":                  `{"x": [{"timestamp": 1577880000}]}`,
	"photos/readme.txt":                  `not json`,
}

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func opts(root string) Options {
	return Options{Root: root, User: "Jane Doe", Workers: 4, Location: time.UTC}
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), opts(writeArchive(t, fixture)))
	require.NoError(t, err)

	d1, d2 := activity.MustParse("2020-01-01"), activity.MustParse("2020-01-02")
	tb := res.Table
	assert.Equal(t, 2, tb.Count(activity.FriendAdded, d1))
	assert.Equal(t, 1, tb.Count(activity.FriendAdded, d2))
	assert.Equal(t, 1, tb.Count(activity.AppInstalled, d2))
	assert.Equal(t, 1, tb.Count(activity.PostAny, d1))
	assert.Equal(t, 1, tb.Count(activity.PostMedia, d1))
	assert.Equal(t, 1, tb.Count(activity.PostTextOnly, d2))
	assert.Equal(t, 1, tb.Count(activity.MessageSent, d1))
	assert.Equal(t, 1, tb.Count(activity.MessageReceived, d1))
	assert.Equal(t, 1, tb.Count(activity.MessageReceived, d2))
	assert.False(t, tb.Has(activity.Poked))
	assert.False(t, tb.Has(activity.Searched))
	assert.False(t, res.Ambiguous)

	assert.Equal(t, 7, res.Stats.Scanned)
	assert.Equal(t, 5, res.Stats.Recognized)
	assert.Equal(t, 2, res.Stats.Skipped)
	assert.Equal(t, 1, res.Stats.Empty)
	assert.Equal(t, 3+1+4+3, res.Stats.Events)

	require.Len(t, res.Files, 5)
	assert.Equal(t, "apps_and_websites_off_of_facebook/apps_and_websites.json", res.Files[0].Rel)
	assert.Equal(t, "messages", res.Files[2].Route)
	assert.False(t, res.Finished.Before(res.Started))
}

func TestRunOrderIndependent(t *testing.T) {
	root := writeArchive(t, fixture)
	files, err := scan.Walk(root)
	require.NoError(t, err)

	base, err := RunFiles(context.Background(), files, opts(root))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]scan.File(nil), files...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		o := opts(root)
		o.Workers = i + 1
		got, err := RunFiles(context.Background(), shuffled, o)
		require.NoError(t, err)
		assert.Equal(t, base.Table.Cells(), got.Table.Cells(), "run %d differs", i)
	}
}

func TestRunAmbiguousAttribution(t *testing.T) {
	root := writeArchive(t, fixture)
	o := opts(root)
	o.User = "Somebody Else"

	res, err := Run(context.Background(), o)
	require.NoError(t, err)
	assert.True(t, res.Ambiguous)
	assert.False(t, res.Table.Has(activity.MessageSent))
	assert.False(t, res.Table.Has(activity.MessageReceived))
	assert.Equal(t, 3, res.Table.Total(activity.MessageSentOrReceived))
}

func TestRunMalformedJSON(t *testing.T) {
	files := map[string]string{
		"friends_and_followers/friends.json": `{"friends_v2": [}`,
		"pokes.json":                         `{"pokes_v2": [{"timestamp": 1577880000}]}`,
	}
	_, err := Run(context.Background(), opts(writeArchive(t, files)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse friends_and_followers/friends.json")
}

func TestRunUnsupportedLayout(t *testing.T) {
	files := map[string]string{
		"your_activity_across_facebook/viewed.json": `{"something_else": []}`,
	}
	_, err := Run(context.Background(), opts(writeArchive(t, files)))
	require.Error(t, err)

	var fe *extract.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "viewed.json")
}

func TestRunMissingRoot(t *testing.T) {
	_, err := Run(context.Background(), opts(filepath.Join(t.TempDir(), "nope")))
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, opts(writeArchive(t, fixture)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessFile(t *testing.T) {
	p := NewProcessor("", time.UTC, nil)
	r, ok := archive.Classify("pokes.json")
	require.True(t, ok)

	evs, err := p.ProcessFile(r, map[string]any{"pokes_v2": []any{
		map[string]any{"timestamp": float64(1577880000)},
	}})
	require.NoError(t, err)
	assert.Equal(t, []activity.Event{{Kind: activity.Poked, On: activity.MustParse("2020-01-01")}}, evs)

	_, err = p.ProcessFile(r, map[string]any{"pokes_v2": []any{}})
	assert.ErrorIs(t, err, extract.ErrNoTimestamps)
}

func TestRunLogsFilesWithoutTimestamps(t *testing.T) {
	files := map[string]string{
		"messages/inbox/a/message_1.json": `{"messages": []}`,
		"pokes.json":                      `{"pokes_v2": []}`,
		"polls_you_voted_on.json":         `{"poll_votes_v2": [{"timestamp": 1577880000}]}`,
	}
	var buf bytes.Buffer
	o := opts(writeArchive(t, files))
	o.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	res, err := Run(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.Empty)
	assert.Equal(t, 1, res.Stats.Events)

	logs := buf.String()
	assert.Contains(t, logs, "path=messages/inbox/a/message_1.json")
	assert.Contains(t, logs, "field=timestamp_ms")
	assert.Contains(t, logs, "path=pokes.json")
	assert.NotContains(t, logs, "polls_you_voted_on.json")
}
