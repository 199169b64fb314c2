package engine

import (
	"github.com/maxrevelli/maxchess/internal/board"
)

// Infinity is the initial alpha/beta window bound. It must dominate any
// reachable score, mate values included.
const Infinity = 1_000_000

// Searcher runs the fixed-depth negamax search. It borrows the caller's
// position mutably and restores it on every return path via the
// make/unmake discipline; the transposition table it writes through is
// shared engine state. Single-threaded by design.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer
	nodes   uint64
}

// NewSearcher creates a searcher using the given transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(tt),
	}
}

// Nodes returns the node count since the last reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// ResetNodes zeroes the node counter.
func (s *Searcher) ResetNodes() {
	s.nodes = 0
}

// BestMove searches pos to the given depth and returns the best root
// move with its score from the side to move's perspective. Every root
// move is searched with no beta cutoff, so root scores stay comparable.
// When the side to move has no legal moves the null move is returned
// with the terminal score.
func (s *Searcher) BestMove(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos

	moves := s.orderer.OrderedMoves(pos)
	if len(moves) == 0 {
		switch {
		case pos.IsCheckmate():
			return board.NoMove, -MateValue
		case pos.HasLegalMoves():
			// Every legal move was filtered as a hanging check.
			return board.NoMove, EvalToPlay(pos)
		default:
			return board.NoMove, 0
		}
	}

	alpha, beta := -Infinity, Infinity
	best := board.NoMove
	bestScore := -Infinity

	for _, m := range moves {
		undo := pos.MakeMove(m)
		score := -s.search(depth-1, -beta, -alpha)
		pos.UnmakeMove(m, undo)

		if score > bestScore {
			bestScore = score
			best = m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	return best, bestScore
}

// search is the negamax alpha-beta recursion. Scores are from the side
// to move's perspective.
func (s *Searcher) search(depth, alpha, beta int) int {
	s.nodes++

	if depth == 0 || s.pos.IsGameOver() {
		return s.qsearch(alpha, beta)
	}

	if score, ok := s.tt.Probe(s.pos.Hash, depth, alpha, beta); ok {
		return score
	}

	alpha0 := alpha
	best := -Infinity
	bestMove := board.NoMove

	for _, m := range s.orderer.OrderedMoves(s.pos) {
		undo := s.pos.MakeMove(m)
		score := -s.search(depth-1, -beta, -alpha)
		s.pos.UnmakeMove(m, undo)

		if score > best {
			best = score
			bestMove = m
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if best == -Infinity {
		// The orderer filtered every move as a hanging speculative
		// check; fall back to the static evaluation.
		best = EvalToPlay(s.pos)
	}

	s.tt.Store(s.pos.Hash, depth, best, alpha0, beta, bestMove)
	return best
}

// qsearch resolves non-quiet positions by extending along captures and
// promotions, and along every reply while in check. Scores are from the
// side to move's perspective.
func (s *Searcher) qsearch(alpha, beta int) int {
	s.nodes++

	if s.pos.IsCheckmate() {
		return -MateValue
	}
	if s.pos.IsStalemate() || s.pos.IsInsufficientMaterial() || s.pos.CanClaimThreefold() {
		return 0
	}

	if s.pos.InCheck() {
		// No stand-pat while in check: every legal reply is searched.
		best := -Infinity
		for _, m := range s.orderer.OrderedReplies(s.pos) {
			undo := s.pos.MakeMove(m)
			score := -s.qsearch(-beta, -alpha)
			s.pos.UnmakeMove(m, undo)

			if score >= beta {
				return beta
			}
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
		}
		return best
	}

	standPat := EvalToPlay(s.pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range s.orderer.OrderedMoves(s.pos) {
		if !m.IsCapture(s.pos) && !m.IsPromotion() {
			continue
		}

		undo := s.pos.MakeMove(m)
		score := -s.qsearch(-beta, -alpha)
		s.pos.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// Search runs a plain fixed-depth search on pos with a full window and
// returns the score from the side to move's perspective.
func (s *Searcher) Search(pos *board.Position, depth int) int {
	s.pos = pos
	return s.search(depth, -Infinity, Infinity)
}

// WhiteEvalAfterMove scores pos from White's perspective, choosing the
// search depth by the side to move. The self-play driver uses it to
// annotate PGN moves with the engine's view of the resulting position.
func (s *Searcher) WhiteEvalAfterMove(pos *board.Position, depthWhite, depthBlack int) int {
	depth := depthBlack
	if pos.SideToMove == board.White {
		depth = depthWhite
	}

	score := s.Search(pos, depth)
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}
