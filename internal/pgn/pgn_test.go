package pgn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGame() *Game {
	now := time.Date(2025, 6, 12, 14, 30, 5, 0, time.UTC)
	return NewGame("Test Match", "Local", 3, "EngineA", "EngineB", now)
}

func TestHeaders(t *testing.T) {
	g := testGame()
	g.Result = ResultWhiteWin
	g.Termination = "abandoned"

	out := g.String()
	lines := strings.Split(out, "\n")

	want := []string{
		`[Event "Test Match"]`,
		`[Site "Local"]`,
		`[Date "2025.06.12"]`,
		`[Round "3"]`,
		`[White "EngineA"]`,
		`[Black "EngineB"]`,
		`[Result "1-0"]`,
		`[Time "14:30:05"]`,
		`[Termination "abandoned"]`,
	}
	require.GreaterOrEqual(t, len(lines), len(want))
	for i, w := range want {
		assert.Equal(t, w, lines[i])
	}
	assert.Equal(t, "", lines[len(want)], "blank line between tags and movetext")
}

func TestMovetextNumbersAndComments(t *testing.T) {
	g := testGame()
	g.AddMove("e4", EvalComment(30))
	g.AddMove("e5", EvalComment(-12))
	g.AddMove("Nf3", "")
	g.AddMove("Nc6", "")
	g.Result = ResultDraw

	text := g.String()
	assert.Contains(t, text, "1. e4 {eval +30 cp} 1... e5 {eval -12 cp} 2. Nf3 Nc6 1/2-1/2")
}

func TestMovetextOngoingGame(t *testing.T) {
	g := testGame()
	g.AddMove("d4", "")

	assert.True(t, strings.HasSuffix(strings.TrimSpace(g.String()), "1. d4 *"))
}

func TestMovetextWraps(t *testing.T) {
	g := testGame()
	for i := 0; i < 60; i++ {
		g.AddMove("Nf3", "")
		g.AddMove("Nc6", "")
	}
	g.Result = ResultDraw

	for _, line := range strings.Split(g.String(), "\n") {
		assert.LessOrEqual(t, len(line), 81, "movetext lines stay near 80 columns")
	}
}

func TestEvalComment(t *testing.T) {
	assert.Equal(t, "eval +42 cp", EvalComment(42))
	assert.Equal(t, "eval -7 cp", EvalComment(-7))
	assert.Equal(t, "eval +0 cp", EvalComment(0))
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")

	g1 := testGame()
	g1.AddMove("e4", "")
	g1.Result = ResultWhiteWin
	require.NoError(t, g1.AppendFile(path))

	g2 := testGame()
	g2.AddMove("d4", "")
	g2.Result = ResultBlackWin
	require.NoError(t, g2.AppendFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Equal(t, 2, strings.Count(content, `[Event "Test Match"]`))
	assert.Contains(t, content, "1. e4 1-0")
	assert.Contains(t, content, "1. d4 0-1")
}
