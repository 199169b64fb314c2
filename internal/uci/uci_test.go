package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxrevelli/maxchess/internal/engine"
)

// runScript feeds the commands through a fresh UCI handler and returns
// the output lines.
func runScript(t *testing.T, commands ...string) []string {
	t.Helper()

	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	var out bytes.Buffer

	NewWithIO(engine.NewEngine(), in, &out).Run()

	var lines []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestUCIHandshake(t *testing.T) {
	lines := runScript(t, "uci", "isready", "quit")

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "id name "+EngineName, lines[0])
	assert.Equal(t, "id author "+EngineAuthor, lines[1])
	assert.Equal(t, "uciok", lines[2])
	assert.Equal(t, "readyok", lines[3])
}

func TestUCIGoDefaultDepth(t *testing.T) {
	lines := runScript(t, "position startpos", "go", "quit")

	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	require.True(t, strings.HasPrefix(last, "bestmove "), "got %q", last)
	assert.NotEqual(t, "bestmove 0000", last)
}

func TestUCIPositionWithMoves(t *testing.T) {
	lines := runScript(t,
		"position startpos moves e2e4 e7e5",
		"go depth 1",
		"quit")

	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "bestmove "), "got %q", last)
}

func TestUCIFenPosition(t *testing.T) {
	// Stalemate: no legal moves, engine must answer with the null move.
	lines := runScript(t,
		"position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"go depth 3",
		"quit")

	require.NotEmpty(t, lines)
	assert.Equal(t, "bestmove 0000", lines[len(lines)-1])
}

func TestUCIMateInOne(t *testing.T) {
	lines := runScript(t,
		"position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		"go depth 3",
		"quit")

	require.NotEmpty(t, lines)
	assert.Equal(t, "bestmove a1a8", lines[len(lines)-1])
}

func TestUCIIgnoresUnknownCommands(t *testing.T) {
	lines := runScript(t, "xyzzy", "banana split", "isready", "quit")

	require.Len(t, lines, 1)
	assert.Equal(t, "readyok", lines[0])
}

func TestUCIInvalidMoveLeavesPositionUsable(t *testing.T) {
	// The bogus move is rejected; the position keeps the applied prefix
	// untouched and the next search still works.
	lines := runScript(t,
		"position startpos moves e2e4 e2e4",
		"go depth 1",
		"quit")

	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "bestmove "))
}

func TestUCINewGameClearsCaches(t *testing.T) {
	eng := engine.NewEngine()
	in := strings.NewReader("position startpos\ngo depth 2\nucinewgame\nquit\n")
	var out bytes.Buffer

	NewWithIO(eng, in, &out).Run()

	assert.Equal(t, 0, eng.TTLen(), "ucinewgame clears the transposition table")
}
