package engine

import (
	"sort"

	"github.com/maxrevelli/maxchess/internal/board"
)

// Move ordering score components.
const (
	captureBase    = 10000
	promotionBase  = 5000
	ttMoveBonus    = 5000
	givesCheckBonus = 50
)

// MoveOrderer ranks legal moves for the search. It reads the
// transposition table to prioritize the cached best move but never
// writes to it, and it leaves the position unmodified on return (the
// check probe mutates and restores the board).
type MoveOrderer struct {
	tt *TranspositionTable
}

// NewMoveOrderer creates a move orderer backed by tt.
func NewMoveOrderer(tt *TranspositionTable) *MoveOrderer {
	return &MoveOrderer{tt: tt}
}

// OrderedMoves returns the legal moves of pos sorted by descending
// heuristic score, ties keeping generation order. Non-capturing,
// non-promoting checks that would leave the moved piece hanging are
// dropped entirely.
func (mo *MoveOrderer) OrderedMoves(pos *board.Position) []board.Move {
	return mo.ordered(pos, true)
}

// OrderedReplies is OrderedMoves without the hanging-check filter. The
// quiescence search uses it while in check, where every legal reply must
// be considered.
func (mo *MoveOrderer) OrderedReplies(pos *board.Position) []board.Move {
	return mo.ordered(pos, false)
}

type scoredMove struct {
	move  board.Move
	score int
}

func (mo *MoveOrderer) ordered(pos *board.Position, filterHangingChecks bool) []board.Move {
	legal := pos.GenerateLegalMoves()

	var ttMove board.Move
	if entry, ok := mo.tt.Lookup(pos.Hash); ok {
		ttMove = entry.BestMove
	}

	scored := make([]scoredMove, 0, legal.Len())

	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		score := 0

		isCapture := m.IsCapture(pos)
		if isCapture {
			victim := board.Pawn // en passant victims have an empty target square
			if !m.IsEnPassant() {
				victim = pos.PieceAt(m.To()).Type()
			}
			attacker := pos.PieceAt(m.From()).Type()
			score += captureBase + board.PieceValue[victim] - board.PieceValue[attacker]
		}

		if m.IsPromotion() {
			score += promotionBase + board.PieceValue[m.Promotion()]
		}

		if m == ttMove {
			score += ttMoveBonus
		}

		speculative := filterHangingChecks && !isCapture && !m.IsPromotion()
		givesCheck, hangs := checkProbe(pos, m, speculative)
		if givesCheck {
			if speculative && hangs {
				// A quiet check that parks the piece on a square the
				// opponent attacks and we do not defend is never worth
				// searching.
				continue
			}
			score += givesCheckBonus
		}

		scored = append(scored, scoredMove{move: m, score: score})
	}

	// Stable sort keeps generation order between equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	moves := make([]board.Move, len(scored))
	for i, sm := range scored {
		moves[i] = sm.move
	}
	return moves
}

// checkProbe makes the move, reports whether it gives check, and (when
// probeHanging is set) whether the moved piece lands on a square the
// opponent attacks and the mover does not defend. The position is
// restored before returning.
func checkProbe(pos *board.Position, m board.Move, probeHanging bool) (givesCheck, hangs bool) {
	undo := pos.MakeMove(m)
	givesCheck = pos.InCheck()

	if givesCheck && probeHanging {
		to := m.To()
		opponent := pos.SideToMove // it is the opponent's turn after the move
		mover := opponent.Other()
		attacked := pos.AttackersByColor(to, opponent, pos.AllOccupied) != 0
		defended := pos.AttackersByColor(to, mover, pos.AllOccupied) != 0
		hangs = attacked && !defended
	}

	pos.UnmakeMove(m, undo)
	return givesCheck, hangs
}
