package engine

import (
	"github.com/maxrevelli/maxchess/internal/board"
)

// DefaultDepth is the search depth used when the GUI gives none.
const DefaultDepth = 3

// Engine bundles the searcher with the caches it owns. The UCI loop and
// the self-play driver hold a single instance; the transposition table
// lives for a whole game so shallower searches seed deeper ones, and is
// cleared between games.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher
}

// NewEngine creates an engine with fresh caches.
func NewEngine() *Engine {
	tt := NewTranspositionTable()
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
	}
}

// BestMove searches pos to the given depth.
func (e *Engine) BestMove(pos *board.Position, depth int) (board.Move, int) {
	return e.searcher.BestMove(pos, depth)
}

// Evaluate returns the static evaluation of pos from White's perspective.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// WhiteEvalAfterMove scores pos from White's perspective at the depth of
// the side to move.
func (e *Engine) WhiteEvalAfterMove(pos *board.Position, depthWhite, depthBlack int) int {
	return e.searcher.WhiteEvalAfterMove(pos, depthWhite, depthBlack)
}

// Clear resets the engine caches. Called on ucinewgame and before every
// self-play game.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ResetNodes()
}

// TTLen returns the number of live transposition table entries.
func (e *Engine) TTLen() int {
	return e.tt.Len()
}

// Perft counts leaf nodes of the move generation tree; used to verify
// the board model against known node counts.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}
