package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadGame(t *testing.T) {
	store := openTestStore(t)

	rec := GameRecord{
		Event:  "Test Match",
		Round:  1,
		White:  "EngineA",
		Black:  "EngineB",
		Result: "1-0",
		Date:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		PGN:    "[Event \"Test Match\"]\n\n1. e4 1-0\n",
	}

	seq, err := store.SaveGame(rec)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	loaded, err := store.LoadGame(seq)
	require.NoError(t, err)
	assert.Equal(t, rec, *loaded)

	// Sequence numbers advance.
	seq2, err := store.SaveGame(rec)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq2)
}

func TestLoadStatsEmpty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.GamesPlayed)
	assert.Equal(t, 0.0, stats.Score())
}

func TestRecordResult(t *testing.T) {
	store := openTestStore(t)

	games := []struct {
		result string
		color  string
	}{
		{"1-0", "white"},     // win as white
		{"0-1", "white"},     // loss as white
		{"1/2-1/2", "black"}, // draw as black
		{"0-1", "black"},     // win as black
	}

	for i, g := range games {
		err := store.RecordResult(GameRecord{
			Event:  "Test",
			Round:  i + 1,
			Result: g.result,
		}, g.color)
		require.NoError(t, err)
	}

	stats, err := store.LoadStats()
	require.NoError(t, err)

	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.WinsByColor["white"])
	assert.Equal(t, 1, stats.WinsByColor["black"])
	assert.Equal(t, 2.5, stats.Score())
}
