package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "fbq.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTable() *tally.Table {
	tb := tally.New()
	tb.AddN(activity.FriendAdded, activity.MustParse("2020-01-01"), 2)
	tb.AddN(activity.FriendAdded, activity.MustParse("2020-01-02"), 1)
	tb.AddN(activity.MessageSent, activity.MustParse("2019-12-31"), 5)
	return tb
}

func saveAt(t *testing.T, db *DB, started time.Time) *Run {
	t.Helper()
	run := &Run{
		ArchiveRoot: "/archives/jane",
		User:        "Jane Doe",
		StartedAt:   started,
		FinishedAt:  started.Add(2 * time.Second),
		Files:       2,
		Events:      8,
	}
	files := []FileRow{
		{RelPath: "messages/inbox/a/message_1.json", Route: "messages", Events: 5},
		{RelPath: "friends/friends.json", Route: "friend-added", Events: 3},
	}
	require.NoError(t, db.SaveRun(context.Background(), run, sampleTable(), files))
	return run
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	run := saveAt(t, db, started)
	require.Len(t, run.ID, 36)

	got, err := db.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "/archives/jane", got.ArchiveRoot)
	assert.Equal(t, "Jane Doe", got.User)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, 2*time.Second, got.FinishedAt.Sub(got.StartedAt))
	assert.False(t, got.Ambiguous)
	assert.Equal(t, 8, got.Events)

	tb, err := db.LoadTable(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, sampleTable().Cells(), tb.Cells())

	files, err := db.RunFiles(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "friends/friends.json", files[0].RelPath)
	assert.Equal(t, 5, files[1].Events)
}

func TestGetRunByPrefix(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	run := saveAt(t, db, time.Now())

	got, err := db.GetRun(ctx, run.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = db.GetRun(ctx, "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	for _, id := range []string{"abc-1", "abc-2"} {
		require.NoError(t, db.SaveRun(ctx, &Run{ID: id, StartedAt: time.Now(), FinishedAt: time.Now()}, tally.New(), nil))
	}
	_, err := db.GetRun(ctx, "abc")
	assert.ErrorIs(t, err, ErrAmbiguous)

	got, err := db.GetRun(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got.ID)
}

func TestListAndLatest(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := saveAt(t, db, base)
	newest := saveAt(t, db, base.Add(48*time.Hour))
	mid := saveAt(t, db, base.Add(24*time.Hour))

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{newest.ID, mid.ID, old.ID}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	latest, err := db.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, newest.ID, latest.ID)
}

func TestListRunsSubSecond(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	base := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	whole := saveAt(t, db, base)
	later := saveAt(t, db, base.Add(500*time.Millisecond))

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{later.ID, whole.ID}, []string{runs[0].ID, runs[1].ID})
	assert.True(t, runs[0].StartedAt.Equal(later.StartedAt))

	latest, err := db.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, later.ID, latest.ID)
}

func TestDeleteAndPrune(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, saveAt(t, db, base.Add(time.Duration(i)*time.Hour)).ID)
	}

	require.NoError(t, db.DeleteRun(ctx, ids[0]))
	assert.ErrorIs(t, db.DeleteRun(ctx, ids[0]), ErrNotFound)

	tb, err := db.LoadTable(ctx, ids[0])
	require.NoError(t, err)
	assert.Zero(t, tb.Size())

	pruned, err := db.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	n, err := db.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = db.GetRun(ctx, ids[3])
	assert.NoError(t, err)
}

func TestSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fbq.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	ver, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, ver)

	_, err = db.db.Exec("UPDATE meta SET value = '9' WHERE key = 'schema_version'")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenDB(path)
	assert.ErrorContains(t, err, "newer than supported")
}
