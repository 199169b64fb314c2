package selfplay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxrevelli/maxchess/internal/board"
	"github.com/maxrevelli/maxchess/internal/engine"
	"github.com/maxrevelli/maxchess/internal/pgn"
)

func TestPlayGameFinishes(t *testing.T) {
	if testing.Short() {
		t.Skip("full game in short mode")
	}

	cfg := DefaultConfig()
	cfg.DepthWhite = 1
	cfg.DepthBlack = 1
	cfg.Annotate = false

	driver := New(engine.NewEngine(), cfg, nil)

	game, err := driver.PlayGame(1)
	require.NoError(t, err)

	assert.NotEqual(t, pgn.ResultOngoing, game.Result, "a played game has a definite result")
	assert.Contains(t, []string{
		pgn.ResultWhiteWin, pgn.ResultBlackWin, pgn.ResultDraw,
	}, game.Result)
	assert.Contains(t, game.White, "depth 1")
}

func TestRunWritesAnnotatedPGN(t *testing.T) {
	if testing.Short() {
		t.Skip("full game in short mode")
	}

	cfg := DefaultConfig()
	cfg.Games = 1
	cfg.DepthWhite = 1
	cfg.DepthBlack = 1
	cfg.Annotate = true
	cfg.PGNPath = filepath.Join(t.TempDir(), "selfplay.pgn")

	driver := New(engine.NewEngine(), cfg, nil)
	require.NoError(t, driver.Run())

	data, err := os.ReadFile(cfg.PGNPath)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `[Event "Self-play"]`)
	assert.Contains(t, content, `[Result "`)
	assert.Contains(t, content, "{eval ", "moves carry eval annotations")
}

func TestResultHelpers(t *testing.T) {
	mated, err := board.ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, pgn.ResultWhiteWin, resultFromPosition(mated))

	stale, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, pgn.ResultDraw, resultFromPosition(stale))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, engine.DefaultDepth, cfg.DepthWhite)
	assert.Equal(t, engine.DefaultDepth, cfg.DepthBlack)
	assert.True(t, cfg.Annotate)
	assert.True(t, strings.HasSuffix(cfg.PGNPath, ".pgn"))
}
