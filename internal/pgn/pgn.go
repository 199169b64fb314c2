// Package pgn renders games in Portable Game Notation.
package pgn

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Results in PGN notation.
const (
	ResultOngoing  = "*"
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

// Game is a single game: the seven standard tags plus the optional Time
// and Termination tags the match drivers set, and the movetext in SAN.
type Game struct {
	Event       string
	Site        string
	Date        string
	Round       string
	White       string
	Black       string
	Result      string
	Time        string
	Termination string

	moves []moveText
}

type moveText struct {
	san     string
	comment string
}

// NewGame creates a game with the date/time tags stamped from now and an
// ongoing result.
func NewGame(event, site string, round int, white, black string, now time.Time) *Game {
	return &Game{
		Event:  event,
		Site:   site,
		Date:   now.Format("2006.01.02"),
		Round:  fmt.Sprintf("%d", round),
		White:  white,
		Black:  black,
		Result: ResultOngoing,
		Time:   now.Format("15:04:05"),
	}
}

// AddMove appends a SAN move, optionally annotated with a comment
// (written as "{comment}" after the move).
func (g *Game) AddMove(san, comment string) {
	g.moves = append(g.moves, moveText{san: san, comment: comment})
}

// EvalComment formats a search score from White's perspective as the
// standard "{eval +NN cp}" annotation.
func EvalComment(score int) string {
	return fmt.Sprintf("eval %+d cp", score)
}

// String renders the full PGN export format: tag section, blank line,
// wrapped movetext ending with the result token.
func (g *Game) String() string {
	var sb strings.Builder

	tag := func(name, value string) {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", name, value)
	}

	tag("Event", g.Event)
	tag("Site", g.Site)
	tag("Date", g.Date)
	tag("Round", g.Round)
	tag("White", g.White)
	tag("Black", g.Black)
	tag("Result", g.Result)
	if g.Time != "" {
		tag("Time", g.Time)
	}
	if g.Termination != "" {
		tag("Termination", g.Termination)
	}
	sb.WriteByte('\n')

	sb.WriteString(g.movetext())
	sb.WriteByte('\n')
	return sb.String()
}

// movetext renders the numbered SAN sequence wrapped near 80 columns.
// After a comment interrupts the flow, a continuation number ("4...") is
// emitted before the following black move.
func (g *Game) movetext() string {
	var tokens []string

	for i, mt := range g.moves {
		number := i/2 + 1
		whiteToMove := i%2 == 0

		switch {
		case whiteToMove:
			tokens = append(tokens, fmt.Sprintf("%d.", number))
		case i > 0 && g.moves[i-1].comment != "":
			tokens = append(tokens, fmt.Sprintf("%d...", number))
		}

		tokens = append(tokens, mt.san)
		if mt.comment != "" {
			tokens = append(tokens, "{"+mt.comment+"}")
		}
	}

	tokens = append(tokens, g.Result)

	var sb strings.Builder
	lineLen := 0
	for i, tok := range tokens {
		if i > 0 {
			if lineLen+1+len(tok) > 80 {
				sb.WriteByte('\n')
				lineLen = 0
			} else {
				sb.WriteByte(' ')
				lineLen++
			}
		}
		sb.WriteString(tok)
		lineLen += len(tok)
	}

	return sb.String()
}

// AppendFile appends the game to the PGN file at path, creating it if
// needed. Games are separated by a blank line.
func (g *Game) AppendFile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open pgn file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(g.String() + "\n"); err != nil {
		return fmt.Errorf("write pgn: %w", err)
	}
	return nil
}

// WriteFile writes the game alone to path, replacing any existing file.
func (g *Game) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(g.String()), 0o644); err != nil {
		return fmt.Errorf("write pgn: %w", err)
	}
	return nil
}
