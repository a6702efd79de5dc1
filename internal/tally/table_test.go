package tally

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan1 = activity.MustParse("2020-01-01")
	jan2 = activity.MustParse("2020-01-02")
)

func TestAddAndCount(t *testing.T) {
	tb := New()
	tb.Add(activity.Event{Kind: activity.Poked, On: jan1})
	tb.Add(activity.Event{Kind: activity.Poked, On: jan1})
	tb.Add(activity.Event{Kind: activity.Voted, On: jan2})

	assert.Equal(t, 2, tb.Count(activity.Poked, jan1))
	assert.Equal(t, 0, tb.Count(activity.Poked, jan2))
	assert.Equal(t, 2, tb.Total(activity.Poked))
	assert.Equal(t, 3, tb.Size())
	assert.Equal(t, []activity.Kind{activity.Poked, activity.Voted}, tb.Kinds())
	assert.Equal(t, []activity.Date{jan1, jan2}, tb.Dates())
}

func TestAddNIgnoresZero(t *testing.T) {
	tb := New()
	tb.AddN(activity.Poked, jan1, 0)
	assert.False(t, tb.Has(activity.Poked))
	assert.Empty(t, tb.Kinds())
}

func TestMergeIsOrderIndependent(t *testing.T) {
	var evs []activity.Event
	for i := 0; i < 200; i++ {
		k := activity.All()[i%5]
		d := jan1
		if i%3 == 0 {
			d = jan2
		}
		evs = append(evs, activity.Event{Kind: k, On: d})
	}

	build := func(seed int64) *Table {
		shuffled := append([]activity.Event(nil), evs...)
		rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		out := New()
		for i := 0; i < len(shuffled); i += 17 {
			end := i + 17
			if end > len(shuffled) {
				end = len(shuffled)
			}
			part := New()
			part.AddAll(shuffled[i:end])
			out.Merge(part)
		}
		return out
	}

	a, b := build(1), build(2)
	assert.Equal(t, a.Cells(), b.Cells())
	assert.Equal(t, 200, a.Size())
}

func TestConcurrentMerge(t *testing.T) {
	tb := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			part := New()
			for j := 0; j < 100; j++ {
				part.Add(activity.Event{Kind: activity.CommentMade, On: jan1})
			}
			tb.Merge(part)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1600, tb.Count(activity.CommentMade, jan1))
}

func TestRename(t *testing.T) {
	tb := New()
	tb.AddN(activity.MessageReceived, jan1, 3)
	tb.AddN(activity.MessageReceived, jan2, 2)
	tb.AddN(activity.Poked, jan2, 1)

	tb.Rename(activity.MessageReceived, activity.MessageSentOrReceived)

	assert.False(t, tb.Has(activity.MessageReceived))
	assert.Equal(t, 3, tb.Count(activity.MessageSentOrReceived, jan1))
	assert.Equal(t, 5, tb.Total(activity.MessageSentOrReceived))
	assert.Equal(t, 1, tb.Total(activity.Poked))
}

func TestRows(t *testing.T) {
	tb := New()
	tb.AddN(activity.Voted, jan2, 4)
	tb.AddN(activity.Poked, jan1, 1)
	tb.AddN(activity.Poked, jan2, 2)

	rows := tb.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, jan1, rows[0].Day)
	assert.Equal(t, map[activity.Kind]int{activity.Poked: 1}, rows[0].Counts)
	assert.Equal(t, map[activity.Kind]int{activity.Poked: 2, activity.Voted: 4}, rows[1].Counts)
}
