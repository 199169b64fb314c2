package board

import "testing"

// perft counts leaf nodes of the legal move tree; the standard check
// that move generation, make, and unmake agree with the rules.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name     string
		fen      string
		depth    int
		expected int64
	}{
		{"startpos d1", StartFEN, 1, 20},
		{"startpos d2", StartFEN, 2, 400},
		{"startpos d3", StartFEN, 3, 8902},
		{"startpos d4", StartFEN, 4, 197281},
		{"kiwipete d1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 1, 48},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 2, 2039},
		{"kiwipete d3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", 3, 97862},
		{"endgame d1", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 1, 14},
		{"endgame d2", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 2, 191},
		{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 3, 2812},
		{"endgame d4", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", 4, 43238},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			if got := perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// The horizontal en passant pin: capturing en passant would expose the
// black king on a4 to the rook on h4, so the capture must not be
// generated.
func TestEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).IsEnPassant() {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", moves.Get(i))
		}
	}

	if got := perft(pos, 1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
	if got := perft(pos, 2); got != 94 {
		t.Errorf("perft(2) = %d, want 94", got)
	}
}
