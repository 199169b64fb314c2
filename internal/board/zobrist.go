package board

// Zobrist keys for position hashing, generated from a fixed-seed PRNG so
// hashes are reproducible across runs.
var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64 // one per file
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	initZobrist()
}

// xorshift64* generator; good enough spread for hash keys and has no
// dependencies.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := prng{state: 0xD1CEB06FCA55ADE5}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ComputeHash computes the Zobrist hash of the position from scratch.
// MakeMove maintains the hash incrementally; this is the reference value.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}
