// Package uci implements the Universal Chess Interface protocol loop.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/maxrevelli/maxchess/internal/board"
	"github.com/maxrevelli/maxchess/internal/engine"
)

// Engine identification reported on "uci".
const (
	EngineName   = "MaxChess"
	EngineAuthor = "Massimo Revelli"
)

// UCI drives the engine from a line-oriented command stream. Commands
// are read one per line; a search runs to completion before the next
// command is read, so no input arrives mid-search.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
}

// New creates a UCI handler on stdin/stdout.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// NewWithIO creates a UCI handler on the given streams; used by tests
// and by drivers that embed the loop.
func NewWithIO(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	u := New(eng)
	u.in = in
	u.out = out
	return u
}

// Run processes commands until "quit" or end of input. Unknown commands
// are ignored silently.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.send("id name %s", EngineName)
			u.send("id author %s", EngineAuthor)
			u.send("uciok")
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "quit":
			return
		// Debug helpers, not part of the protocol.
		case "d":
			fmt.Fprintln(u.out, u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

// send writes one response line and flushes it.
func (u *UCI) send(format string, args ...any) {
	fmt.Fprintf(u.out, format+"\n", args...)
	if f, ok := u.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses "position startpos [moves ...]" and
// "position fen <fen> [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		u.position = pos
		moveStart = fenEnd
	default:
		return
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, moveStr := range args[moveStart+1:] {
			move := u.matchLegalMove(moveStr)
			if move == board.NoMove {
				fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", moveStr)
				return
			}
			u.position.MakeMove(move)
		}
	}
}

// matchLegalMove resolves a UCI move string against the current legal
// moves, so castling and en passant acquire their flags and illegal
// input never mutates the position.
func (u *UCI) matchLegalMove(moveStr string) board.Move {
	parsed, err := board.ParseMove(moveStr, u.position)
	if err != nil {
		return board.NoMove
	}

	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != parsed.From() || m.To() != parsed.To() {
			continue
		}
		if parsed.IsPromotion() {
			if m.IsPromotion() && m.Promotion() == parsed.Promotion() {
				return m
			}
		} else if !m.IsPromotion() {
			return m
		}
	}
	return board.NoMove
}

// handleGo runs a fixed-depth search and reports the best move. There is
// no clock and no mid-search stop; "go depth D" runs to depth D.
func (u *UCI) handleGo(args []string) {
	depth := engine.DefaultDepth
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
				depth = d
			}
			i++
		}
	}

	move, score := u.engine.BestMove(u.position, depth)
	if move == board.NoMove {
		u.send("bestmove 0000")
		return
	}

	u.send("info depth %d score cp %d", depth, score)
	u.send("bestmove %s", move.String())
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}
	u.send("perft %d: %d", depth, u.engine.Perft(u.position, depth))
}
