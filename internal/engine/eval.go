// Package engine implements the search and evaluation core.
package engine

import (
	"github.com/maxrevelli/maxchess/internal/board"
)

// Evaluation constants, in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900

	MateValue = 99999

	// TempoBonus is credited to the side to move by EvalToPlay.
	TempoBonus = 10

	bishopPairBonus = 30

	rookSharedFileBonus = 12
	rookSharedRankBonus = 12
	rookOpenFileBonus   = 20
	rookSemiOpenBonus   = 10

	doubledPawnPenalty  = 10 // per extra pawn on a file
	isolatedPawnPenalty = 8
)

var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

// passedPawnBonus is indexed by how far the pawn has advanced (rank from
// its own side's perspective).
var passedPawnBonus = [8]int{0, 5, 10, 20, 35, 60, 100, 0}

// Piece-square tables. Indexed directly by square for White (row 1 of
// each literal is rank 1) and through the vertical mirror for Black.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var psts = [6]*[64]int{&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingPST}

// Evaluate returns the static evaluation of the position in centipawns
// from White's perspective. Terminal positions short-circuit: a mated
// side to move scores the full mate value, drawn positions score zero.
func Evaluate(pos *board.Position) int {
	if pos.IsCheckmate() {
		if pos.SideToMove == board.White {
			return -MateValue
		}
		return MateValue
	}
	if pos.IsStalemate() || pos.IsInsufficientMaterial() || pos.CanClaimThreefold() {
		return 0
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				pstSq := sq
				if c == board.Black {
					pstSq = sq.Mirror()
				}
				score += sign * (pieceValues[pt] + psts[pt][pstSq])
			}
		}

		score += sign * bishopPairTerm(pos, c)
		score += sign * rookCoordinationTerm(pos, c)
		score += sign * pawnStructureTerm(pos, c)
	}

	return score
}

// EvalToPlay returns the evaluation from the side to move's perspective
// with the tempo bonus applied.
func EvalToPlay(pos *board.Position) int {
	score := Evaluate(pos)
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score + TempoBonus
}

func bishopPairTerm(pos *board.Position, c board.Color) int {
	if pos.Pieces[c][board.Bishop].PopCount() >= 2 {
		return bishopPairBonus
	}
	return 0
}

func rookCoordinationTerm(pos *board.Position, c board.Color) int {
	rooks := pos.Pieces[c][board.Rook]
	score := 0

	if rooks.PopCount() >= 2 {
		// The shared-file and shared-rank bonuses are independent and
		// each awarded at most once.
		for f := 0; f < 8; f++ {
			if (rooks & board.FileMask[f]).PopCount() >= 2 {
				score += rookSharedFileBonus
				break
			}
		}
		for r := 0; r < 8; r++ {
			if (rooks & board.RankMask[r]).PopCount() >= 2 {
				score += rookSharedRankBonus
				break
			}
		}
	}

	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[c.Other()][board.Pawn]
	for bb := rooks; bb != 0; {
		f := bb.PopLSB().File()
		file := board.FileMask[f]
		switch {
		case (ownPawns|enemyPawns)&file == 0:
			score += rookOpenFileBonus
		case ownPawns&file == 0 && enemyPawns&file != 0:
			score += rookSemiOpenBonus
		}
	}

	return score
}

func pawnStructureTerm(pos *board.Position, c board.Color) int {
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[c.Other()][board.Pawn]
	score := 0

	for f := 0; f < 8; f++ {
		if n := (ownPawns & board.FileMask[f]).PopCount(); n > 1 {
			score -= doubledPawnPenalty * (n - 1)
		}
	}

	for bb := ownPawns; bb != 0; {
		sq := bb.PopLSB()
		f, r := sq.File(), sq.Rank()

		neighbors := board.Bitboard(0)
		if f > 0 {
			neighbors |= board.FileMask[f-1]
		}
		if f < 7 {
			neighbors |= board.FileMask[f+1]
		}
		if ownPawns&neighbors == 0 {
			score -= isolatedPawnPenalty
		}

		if isPassedPawn(enemyPawns, f, r, c) {
			advance := r
			if c == board.Black {
				advance = 7 - r
			}
			score += passedPawnBonus[advance]
		}
	}

	return score
}

// isPassedPawn reports whether a pawn of color c on (f, r) has no enemy
// pawn on its own or adjacent files on any rank strictly ahead of it.
func isPassedPawn(enemyPawns board.Bitboard, f, r int, c board.Color) bool {
	span := board.FileMask[f]
	if f > 0 {
		span |= board.FileMask[f-1]
	}
	if f < 7 {
		span |= board.FileMask[f+1]
	}

	ahead := board.Bitboard(0)
	if c == board.White {
		for rr := r + 1; rr <= 7; rr++ {
			ahead |= board.RankMask[rr]
		}
	} else {
		for rr := r - 1; rr >= 0; rr-- {
			ahead |= board.RankMask[rr]
		}
	}

	return enemyPawns&span&ahead == 0
}
