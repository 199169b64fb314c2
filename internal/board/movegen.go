package board

// GenerateLegalMoves returns every legal move in the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves returns moves that may leave the king in check.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generateAllMoves(ml)
	return ml
}

func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	enemies := p.Occupied[us.Other()]

	p.generatePawnMoves(ml, us, enemies, occupied)

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := KnightAttacks(from) & ^p.Occupied[us]
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := BishopAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := RookAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := QueenAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	from := p.KingSquare[us]
	attacks := KingAttacks(from) & ^p.Occupied[us]
	for attacks != 0 {
		ml.Add(NewMove(from, attacks.PopLSB()))
	}

	p.generateCastlingMoves(ml, us)
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}

	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to)
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			ml.Add(NewEnPassant(epAttackers.PopLSB(), p.EnPassant))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

	if us == White {
		if p.CastlingRights&WhiteKingSideCastle != 0 &&
			p.AllOccupied&((1<<F1)|(1<<G1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
			ml.Add(NewCastling(E1, G1))
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 &&
			p.AllOccupied&((1<<B1)|(1<<C1)|(1<<D1)) == 0 &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
			ml.Add(NewCastling(E1, C1))
		}
		return
	}

	if p.CastlingRights&BlackKingSideCastle != 0 &&
		p.AllOccupied&((1<<F8)|(1<<G8)) == 0 &&
		!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
		ml.Add(NewCastling(E8, G8))
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 &&
		p.AllOccupied&((1<<B8)|(1<<C8)|(1<<D8)) == 0 &&
		!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
		ml.Add(NewCastling(E8, C8))
	}
}

func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := &MoveList{}
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			result.Add(ml.Get(i))
		}
	}
	return result
}

// IsLegal reports whether the pseudo-legal move leaves our king safe.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq {
		if m.IsCastling() {
			return true // validated during generation
		}
		// King moves: drop the king from the occupancy so it cannot
		// shadow a sliding attacker through its own square.
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}

	undo := p.MakeMove(m)
	attacked := p.IsSquareAttacked(ksq, them)
	p.UnmakeMove(m, undo)

	return !attacked
}

// GivesCheck reports whether the move checks the opponent.
func (p *Position) GivesCheck(m Move) bool {
	undo := p.MakeMove(m)
	check := p.InCheck()
	p.UnmakeMove(m, undo)
	return check
}

// MakeMove applies a move and returns the information needed to undo it.
// The pre-move hash is pushed on the repetition history.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	pt := p.PieceAt(from).Type()

	p.history = append(p.history, p.Hash)

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		capturedSq := to - 8
		if us == Black {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	// Rook moves or rook captures revoke the matching right.
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	return undo
}

// UnmakeMove undoes a move made with MakeMove.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.SideToMove = us
	p.history = p.history[:len(p.history)-1]

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		p.Pieces[us][m.Promotion()] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		capturedSq := to
		if m.IsEnPassant() {
			capturedSq = to - 8
			if us == Black {
				capturedSq = to + 8
			}
		}
		p.setPiece(undo.CapturedPiece, capturedSq)
	}
}

// castlingRookSquares maps the king movement of a castling move to the
// rook's from/to squares.
func castlingRookSquares(kingFrom, kingTo Square) (Square, Square) {
	if kingTo > kingFrom {
		return NewSquare(7, kingFrom.Rank()), NewSquare(5, kingFrom.Rank())
	}
	return NewSquare(0, kingFrom.Rank()), NewSquare(3, kingFrom.Rank())
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial reports whether neither side can deliver mate
// (bare kings, or king plus a single minor piece against a bare king).
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop]).PopCount()
	bMinors := (p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).PopCount()

	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}

	return false
}

// IsGameOver reports whether the game has ended: no legal moves
// (checkmate or stalemate), insufficient material, or a claimable draw
// (threefold repetition, fifty-move rule).
func (p *Position) IsGameOver() bool {
	if p.IsInsufficientMaterial() || p.CanClaimThreefold() || p.CanClaimFiftyMoves() {
		return true
	}
	return !p.HasLegalMoves()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
