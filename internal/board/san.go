package board

import "strings"

// ToSAN renders the move in Standard Algebraic Notation for the given
// position (which must be the position the move is played from).
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return m.String() // fall back to UCI form
	}

	if m.IsCastling() {
		var sb strings.Builder
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
		writeCheckSuffix(&sb, pos, m)
		return sb.String()
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(disambiguation(pos, m, pt))
	}

	if m.IsCapture(pos) {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[m.Promotion()])
	}

	writeCheckSuffix(&sb, pos, m)
	return sb.String()
}

func writeCheckSuffix(sb *strings.Builder, pos *Position, m Move) {
	undo := pos.MakeMove(m)
	if pos.IsCheckmate() {
		sb.WriteByte('#')
	} else if pos.InCheck() {
		sb.WriteByte('+')
	}
	pos.UnmakeMove(m, undo)
}

// disambiguation returns the file/rank qualifier required when another
// piece of the same type can reach the same destination.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()
	pieces := pos.Pieces[pos.SideToMove][pt]

	var candidates []Square
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		other := moves.Get(i)
		if other.To() != to || other.From() == from {
			continue
		}
		if pieces.IsSet(other.From()) {
			candidates = append(candidates, other.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string('a' + byte(from.File()))
	case !sameRank:
		return string('1' + byte(from.Rank()))
	default:
		return from.String()
	}
}
