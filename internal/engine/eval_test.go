package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxrevelli/maxchess/internal/board"
)

func mustParse(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	require.NoError(t, err)
	return pos
}

// mirrorFEN swaps colors, mirrors the board vertically, and flips the
// side to move, castling rights, and en passant rank.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	require.GreaterOrEqual(t, len(fields), 4)

	ranks := strings.Split(fields[0], "/")
	require.Len(t, ranks, 8)
	mirrored := make([]string, 8)
	for i, rank := range ranks {
		mirrored[7-i] = swapCase(rank)
	}
	fields[0] = strings.Join(mirrored, "/")

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}

	if fields[2] != "-" {
		fields[2] = swapCase(fields[2])
	}

	if fields[3] != "-" {
		file := fields[3][0]
		rank := fields[3][1]
		fields[3] = string([]byte{file, '1' + ('8' - rank)})
	}

	return strings.Join(fields, " ")
}

func swapCase(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			sb.WriteRune(c - 32)
		case c >= 'A' && c <= 'Z':
			sb.WriteRune(c + 32)
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

func TestEvaluateStartPosition(t *testing.T) {
	pos := board.NewPosition()
	assert.Equal(t, 0, Evaluate(pos), "the start position is balanced")
	assert.Equal(t, TempoBonus, EvalToPlay(pos))
}

func TestEvaluateColorSymmetry(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"6k1/5ppp/8/8/2P5/1P6/P4PPP/R5K1 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		mirror := mustParse(t, mirrorFEN(t, fen))
		assert.Equal(t, Evaluate(pos), -Evaluate(mirror), "fen %s", fen)
	}
}

func TestEvalToPlayPerspective(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"6k1/5ppp/8/8/2P5/1P6/P4PPP/R5K1 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		want := Evaluate(pos)
		if pos.SideToMove == board.Black {
			want = -want
		}
		assert.Equal(t, want+TempoBonus, EvalToPlay(pos))
	}
}

func TestEvaluateTerminal(t *testing.T) {
	// Back-rank mate, black to move and mated: White wins the full value.
	mated := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	assert.Equal(t, MateValue, Evaluate(mated))

	// Mirror image: White mated.
	whiteMated := mustParse(t, "k7/8/8/8/8/8/6PP/r6K w - - 0 1")
	assert.Equal(t, -MateValue, Evaluate(whiteMated))

	// Stalemate and bare kings score zero.
	assert.Equal(t, 0, Evaluate(mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")))
	assert.Equal(t, 0, Evaluate(mustParse(t, "8/8/4k3/8/8/3K4/8/8 w - - 0 1")))
}

func TestBishopPair(t *testing.T) {
	// Two bishops against one, everything else symmetric.
	pair := mustParse(t, "2b1kb2/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	single := mustParse(t, "4kb2/8/8/8/8/8/8/2B1KB2 w - - 0 1")

	assert.Equal(t, 0, Evaluate(pair))
	// White keeps the pair bonus, plus the missing bishop's material
	// and square value.
	diff := Evaluate(single) - Evaluate(pair)
	assert.Equal(t, bishopPairBonus+BishopValue+bishopPST[board.C8.Mirror()], diff)
}

func TestRookCoordination(t *testing.T) {
	// Two white rooks doubled on the open a-file: shared file + two open
	// file bonuses; the rank bonus does not apply.
	pos := mustParse(t, "4k3/8/8/8/8/8/R7/R3K3 w - - 0 1")
	base := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")

	got := rookCoordinationTerm(pos, board.White)
	assert.Equal(t, rookSharedFileBonus+2*rookOpenFileBonus, got)

	assert.Equal(t, rookOpenFileBonus, rookCoordinationTerm(base, board.White))

	// Rooks side by side on the first rank share a rank, not a file.
	rankPair := mustParse(t, "4k3/8/8/8/8/8/8/RR2K3 w - - 0 1")
	assert.Equal(t, rookSharedRankBonus+2*rookOpenFileBonus, rookCoordinationTerm(rankPair, board.White))

	// A rook behind its own pawn earns nothing; behind only an enemy
	// pawn it gets the semi-open bonus.
	ownPawn := mustParse(t, "4k3/8/8/8/8/P7/8/R3K3 w - - 0 1")
	assert.Equal(t, 0, rookCoordinationTerm(ownPawn, board.White))

	enemyPawn := mustParse(t, "4k3/p7/8/8/8/8/8/R3K3 w - - 0 1")
	assert.Equal(t, rookSemiOpenBonus, rookCoordinationTerm(enemyPawn, board.White))
}

func TestPawnStructure(t *testing.T) {
	// Tripled, isolated pawns on the c-file: 2x doubled penalty and 3x
	// isolated penalty; all three are passed (advances 2, 3, 4).
	pos := mustParse(t, "4k3/8/8/2P5/2P5/2P5/8/4K3 w - - 0 1")
	want := -2*doubledPawnPenalty - 3*isolatedPawnPenalty +
		passedPawnBonus[2] + passedPawnBonus[3] + passedPawnBonus[4]
	assert.Equal(t, want, pawnStructureTerm(pos, board.White))

	// A lone pawn blocked by an enemy pawn ahead on an adjacent file is
	// not passed, but is isolated.
	blocked := mustParse(t, "4k3/8/3p4/8/2P5/8/8/4K3 w - - 0 1")
	assert.Equal(t, -isolatedPawnPenalty, pawnStructureTerm(blocked, board.White))

	// Same file, enemy pawn behind: passed.
	passed := mustParse(t, "4k3/8/8/8/2P5/8/2p5/4K3 w - - 0 1")
	assert.Equal(t, -isolatedPawnPenalty+passedPawnBonus[3], pawnStructureTerm(passed, board.White))
}
