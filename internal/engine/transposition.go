package engine

import (
	"github.com/maxrevelli/maxchess/internal/board"
)

// TTFlag classifies the bound a stored score represents.
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound // failed high: score is a lower bound (>= beta at store time)
	TTUpperBound // failed low: score is an upper bound (<= alpha at store time)
)

// MaxTTSize bounds the number of transposition table entries.
const MaxTTSize = 200_000

// TTEntry is a cached search result.
type TTEntry struct {
	Score    int
	Depth    int
	Flag     TTFlag
	BestMove board.Move
}

// TranspositionTable maps Zobrist hashes to search results. Replacement
// is depth-preferred per key; when the table is full a new key evicts the
// oldest inserted key (FIFO). The table is process-scoped state owned by
// the Engine and survives across searches within a game; it is not safe
// for concurrent use.
type TranspositionTable struct {
	entries map[uint64]TTEntry

	// Keys in insertion order. head indexes the oldest live key; the
	// prefix before head has already been evicted.
	order []uint64
	head  int
}

// NewTranspositionTable creates an empty table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{
		entries: make(map[uint64]TTEntry, MaxTTSize),
	}
}

// Lookup returns the raw entry for hash, without any depth or bound
// gating. Used by move ordering to fetch the cached best move.
func (tt *TranspositionTable) Lookup(hash uint64) (TTEntry, bool) {
	entry, ok := tt.entries[hash]
	return entry, ok
}

// Probe returns a usable cached score for the position, or ok=false.
// An entry is usable when it was searched at least as deep as required
// and its bound actually cuts the current window:
// exact scores always hit, lower bounds hit at or above beta, upper
// bounds hit at or below alpha.
func (tt *TranspositionTable) Probe(hash uint64, depth, alpha, beta int) (int, bool) {
	entry, ok := tt.entries[hash]
	if !ok || entry.Depth < depth {
		return 0, false
	}

	switch entry.Flag {
	case TTExact:
		return entry.Score, true
	case TTLowerBound:
		if entry.Score >= beta {
			return entry.Score, true
		}
	case TTUpperBound:
		if entry.Score <= alpha {
			return entry.Score, true
		}
	}

	return 0, false
}

// Store records a search result. alpha0 must be the alpha bound on entry
// to the node, so the flag reflects whether score failed low, failed
// high, or is exact.
func (tt *TranspositionTable) Store(hash uint64, depth, score, alpha0, beta int, bestMove board.Move) {
	flag := TTExact
	switch {
	case score <= alpha0:
		flag = TTUpperBound
	case score >= beta:
		flag = TTLowerBound
	}

	if prior, ok := tt.entries[hash]; ok {
		if depth >= prior.Depth {
			tt.entries[hash] = TTEntry{Score: score, Depth: depth, Flag: flag, BestMove: bestMove}
		}
		return
	}

	if len(tt.entries) >= MaxTTSize {
		tt.evictOldest()
	}

	tt.entries[hash] = TTEntry{Score: score, Depth: depth, Flag: flag, BestMove: bestMove}
	tt.order = append(tt.order, hash)
}

func (tt *TranspositionTable) evictOldest() {
	delete(tt.entries, tt.order[tt.head])
	tt.head++

	// Reclaim the evicted prefix once it dominates the slice.
	if tt.head*2 > len(tt.order) {
		tt.order = append(tt.order[:0], tt.order[tt.head:]...)
		tt.head = 0
	}
}

// Len returns the number of live entries.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// Clear empties the table. Called on ucinewgame and at the start of
// every self-play game.
func (tt *TranspositionTable) Clear() {
	tt.entries = make(map[uint64]TTEntry, MaxTTSize)
	tt.order = tt.order[:0]
	tt.head = 0
}
