package lox_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bikeship/pkg/lox"
)

func TestTally(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		adds    []lox.Entry[string, int]
		wantMax string
		wantMin string
		wantOK  bool
	}{
		{
			name:   "Empty",
			wantOK: false,
		},
		{
			name: "Single key",
			adds: []lox.Entry[string, int]{
				{Key: "DHL", Total: 1},
			},
			wantMax: "DHL",
			wantMin: "DHL",
			wantOK:  true,
		},
		{
			name: "Accumulates per key",
			adds: []lox.Entry[string, int]{
				{Key: "TNT", Total: 1},
				{Key: "DHL", Total: 1},
				{Key: "DHL", Total: 1},
				{Key: "UPS", Total: 1},
			},
			wantMax: "DHL",
			wantMin: "TNT",
			wantOK:  true,
		},
		{
			name: "Ties resolve to first seen",
			adds: []lox.Entry[string, int]{
				{Key: "UPS", Total: 2},
				{Key: "TNT", Total: 2},
				{Key: "SDA", Total: 2},
			},
			wantMax: "UPS",
			wantMin: "UPS",
			wantOK:  true,
		},
		{
			name: "Negative totals",
			adds: []lox.Entry[string, int]{
				{Key: "a", Total: -5},
				{Key: "b", Total: 3},
				{Key: "a", Total: 1},
			},
			wantMax: "b",
			wantMin: "a",
			wantOK:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			tally := lox.NewTally[string, int]()
			for _, a := range tc.adds {
				tally.Add(a.Key, a.Total)
			}

			maxKey, _, ok := tally.Max()
			rq.Equal(tc.wantOK, ok)
			rq.Equal(tc.wantMax, maxKey)

			minKey, _, ok := tally.Min()
			rq.Equal(tc.wantOK, ok)
			rq.Equal(tc.wantMin, minKey)
		})
	}
}

func TestTallyEntriesKeepFirstSeenOrder(t *testing.T) {
	rq := require.New(t)

	tally := lox.NewTally[string, int]()
	tally.Add("b", 1)
	tally.Add("a", 1)
	tally.Add("b", 1)

	rq.Equal([]lox.Entry[string, int]{
		{Key: "b", Total: 2},
		{Key: "a", Total: 1},
	}, tally.Entries())
	rq.Equal(2, tally.Len())

	total, ok := tally.Get("b")
	rq.True(ok)
	rq.Equal(2, total)
}

func TestTake(t *testing.T) {
	rq := require.New(t)

	items := []int{1, 2, 3}

	rq.Equal([]int{1, 2}, lox.Take(items, 2))
	rq.Equal([]int{1, 2, 3}, lox.Take(items, 10))
	rq.Empty(lox.Take(items, -1))
}
