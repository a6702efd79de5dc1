package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "facebook_data_jane.csv", FileName("jane"))
	assert.Equal(t, "facebook_data_janedoe.csv", FileName(" Jane  Doe "))
	assert.Equal(t, "facebook_data_janedoe.csv", FileName("JaneDoe"))
}

func TestWriteCSV(t *testing.T) {
	tb := tally.New()
	tb.AddN(activity.Poked, activity.MustParse("2020-01-02"), 3)
	tb.AddN(activity.FriendAdded, activity.MustParse("2020-01-01"), 2)
	tb.AddN(activity.FriendAdded, activity.MustParse("2020-01-02"), 1)
	tb.AddN(activity.MessageSent, activity.MustParse("2019-12-31"), 4)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tb))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"date", "added_friend", "poked", "message_sent"},
		{"2019-12-31", "", "", "4"},
		{"2020-01-01", "2", "", ""},
		{"2020-01-02", "1", "3", ""},
	}, records)
}

func TestHeaderMatchesRecord(t *testing.T) {
	kinds := []activity.Kind{activity.Voted, activity.Poked}
	row := tally.Row{Day: activity.MustParse("2021-07-04"), Counts: map[activity.Kind]int{activity.Poked: 2}}
	assert.Equal(t, []string{"date", "voted", "poked"}, Header(kinds))
	assert.Equal(t, []string{"2021-07-04", "", "2"}, Record(row, kinds))
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tally.New()))
	assert.Equal(t, "date\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	tb := tally.New()
	tb.AddN(activity.Searched, activity.MustParse("2020-01-01"), 1)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := WriteFile(dir, "jane", tb)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "facebook_data_jane.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,searched\n2020-01-01,1\n", string(data))
}
