package match

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/op/go-logging"

	"github.com/maxrevelli/maxchess/internal/board"
	"github.com/maxrevelli/maxchess/internal/pgn"
	"github.com/maxrevelli/maxchess/internal/storage"
)

var log = logging.MustGetLogger("match")

// EngineConfig describes one side of the match.
type EngineConfig struct {
	Name    string   `toml:"name"`
	Command []string `toml:"command"`
	Depth   int      `toml:"depth"`
}

// Config controls a match run. EngineA is "our" engine for the summary
// and the stored statistics.
type Config struct {
	Games   int          `toml:"games"`
	EngineA EngineConfig `toml:"engine_a"`
	EngineB EngineConfig `toml:"engine_b"`
	PGNDir  string       `toml:"pgn_dir"`
	Event   string       `toml:"event"`
	Site    string       `toml:"site"`
}

// Tally tracks engine A's results split by the color it played.
type Tally struct {
	WhiteWins, WhiteDraws, WhiteLosses int
	BlackWins, BlackDraws, BlackLosses int
}

// Record folds one game result into the tally.
func (t *Tally) Record(result string, aPlayedWhite bool) {
	switch result {
	case pgn.ResultDraw:
		if aPlayedWhite {
			t.WhiteDraws++
		} else {
			t.BlackDraws++
		}
	case pgn.ResultWhiteWin:
		if aPlayedWhite {
			t.WhiteWins++
		} else {
			t.BlackLosses++
		}
	case pgn.ResultBlackWin:
		if aPlayedWhite {
			t.WhiteLosses++
		} else {
			t.BlackWins++
		}
	}
}

// Wins returns engine A's total wins.
func (t *Tally) Wins() int { return t.WhiteWins + t.BlackWins }

// Draws returns engine A's total draws.
func (t *Tally) Draws() int { return t.WhiteDraws + t.BlackDraws }

// Losses returns engine A's total losses.
func (t *Tally) Losses() int { return t.WhiteLosses + t.BlackLosses }

// Score returns the match score: a win counts 1, a draw half.
func (t *Tally) Score() float64 {
	return float64(t.Wins()) + 0.5*float64(t.Draws())
}

// Runner plays the configured match.
type Runner struct {
	cfg   Config
	store *storage.Store
}

// NewRunner creates a match runner; store may be nil.
func NewRunner(cfg Config, store *storage.Store) *Runner {
	return &Runner{cfg: cfg, store: store}
}

// Run starts both engines, plays the games with alternating colors, and
// prints the summary. One PGN file is written per game.
func (r *Runner) Run() (*Tally, error) {
	engA, err := StartEngine(r.cfg.EngineA.Command)
	if err != nil {
		return nil, fmt.Errorf("engine A: %w", err)
	}
	defer engA.Quit()
	if err := engA.Handshake(); err != nil {
		return nil, fmt.Errorf("engine A handshake: %w", err)
	}

	engB, err := StartEngine(r.cfg.EngineB.Command)
	if err != nil {
		return nil, fmt.Errorf("engine B: %w", err)
	}
	defer engB.Quit()
	if err := engB.Handshake(); err != nil {
		return nil, fmt.Errorf("engine B handshake: %w", err)
	}

	if r.cfg.EngineA.Name == "" {
		r.cfg.EngineA.Name = engA.Name
	}
	if r.cfg.EngineB.Name == "" {
		r.cfg.EngineB.Name = engB.Name
	}

	if r.cfg.PGNDir != "" {
		if err := os.MkdirAll(r.cfg.PGNDir, 0o755); err != nil {
			return nil, err
		}
	}

	tally := &Tally{}
	for i := 0; i < r.cfg.Games; i++ {
		// Alternate colors: engine B takes White in odd rounds, as the
		// reference harness did with its test opponent.
		aPlaysWhite := i%2 == 1

		game, err := r.playGame(engA, engB, i+1, aPlaysWhite)
		if err != nil {
			return tally, err
		}

		tally.Record(game.Result, aPlaysWhite)
		log.Infof("game %d of %d: %s vs %s -> %s", i+1, r.cfg.Games, game.White, game.Black, game.Result)

		if r.cfg.PGNDir != "" {
			path := filepath.Join(r.cfg.PGNDir, fmt.Sprintf("game_%d.pgn", i+1))
			if err := game.WriteFile(path); err != nil {
				return tally, err
			}
		}

		if r.store != nil {
			ourColor := "black"
			if aPlaysWhite {
				ourColor = "white"
			}
			rec := storage.GameRecord{
				Event:       game.Event,
				Round:       i + 1,
				White:       game.White,
				Black:       game.Black,
				Result:      game.Result,
				Termination: game.Termination,
				Date:        time.Now().UTC(),
				PGN:         game.String(),
			}
			if err := r.store.RecordResult(rec, ourColor); err != nil {
				return tally, err
			}
		}
	}

	r.printSummary(tally)
	return tally, nil
}

// playGame plays one game, tracking the position locally so game over,
// SAN, and legality do not depend on either engine's honesty.
func (r *Runner) playGame(engA, engB *Proc, round int, aPlaysWhite bool) (*pgn.Game, error) {
	whiteCfg, blackCfg := r.cfg.EngineB, r.cfg.EngineA
	whiteProc, blackProc := engB, engA
	if aPlaysWhite {
		whiteCfg, blackCfg = r.cfg.EngineA, r.cfg.EngineB
		whiteProc, blackProc = engA, engB
	}

	if err := whiteProc.NewGame(); err != nil {
		return nil, err
	}
	if err := blackProc.NewGame(); err != nil {
		return nil, err
	}

	game := pgn.NewGame(r.cfg.Event, r.cfg.Site, round, whiteCfg.Name, blackCfg.Name, time.Now().UTC())

	pos := board.NewPosition()
	var uciMoves []string

	for !pos.IsGameOver() {
		proc, depth := whiteProc, whiteCfg.Depth
		if pos.SideToMove == board.Black {
			proc, depth = blackProc, blackCfg.Depth
		}

		moveStr, err := proc.BestMove(uciMoves, depth)
		if errors.Is(err, ErrEngineTerminated) {
			// Crash forfeits the side whose turn it is.
			game.Result = winnerAgainst(pos.SideToMove)
			game.Termination = "abandoned"
			log.Warningf("engine crash: %s forfeits game %d", pos.SideToMove, round)
			return game, nil
		}
		if err != nil {
			return nil, err
		}

		if moveStr == "0000" {
			game.Result = winnerAgainst(pos.SideToMove)
			game.Termination = "resignation"
			return game, nil
		}

		move := legalMove(pos, moveStr)
		if move == board.NoMove {
			game.Result = winnerAgainst(pos.SideToMove)
			game.Termination = "illegal move"
			log.Warningf("illegal move %q from %s in game %d", moveStr, pos.SideToMove, round)
			return game, nil
		}

		game.AddMove(move.ToSAN(pos), "")
		pos.MakeMove(move)
		uciMoves = append(uciMoves, move.String())
	}

	game.Result = resultFromPosition(pos)
	return game, nil
}

func legalMove(pos *board.Position, moveStr string) board.Move {
	parsed, err := board.ParseMove(moveStr, pos)
	if err != nil {
		return board.NoMove
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != parsed.From() || m.To() != parsed.To() {
			continue
		}
		if parsed.IsPromotion() != m.IsPromotion() {
			continue
		}
		if m.IsPromotion() && m.Promotion() != parsed.Promotion() {
			continue
		}
		return m
	}
	return board.NoMove
}

func resultFromPosition(pos *board.Position) string {
	if pos.IsCheckmate() {
		return winnerAgainst(pos.SideToMove)
	}
	return pgn.ResultDraw
}

func winnerAgainst(loser board.Color) string {
	if loser == board.White {
		return pgn.ResultBlackWin
	}
	return pgn.ResultWhiteWin
}

// printSummary prints the W-D-L breakdown for engine A.
func (r *Runner) printSummary(t *Tally) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	bold.Println("\n=== Final summary ===")
	fmt.Printf("Games: %d\n", r.cfg.Games)
	fmt.Printf("W-D-L for %s: %d - %d - %d\n", r.cfg.EngineA.Name, t.Wins(), t.Draws(), t.Losses())
	green.Printf("%s: score %.1f / %d\n", r.cfg.EngineA.Name, t.Score(), r.cfg.Games)
	fmt.Printf("%s: score %.1f / %d\n", r.cfg.EngineB.Name, float64(r.cfg.Games)-t.Score(), r.cfg.Games)

	bold.Printf("\n=== Per-color performance (%s) ===\n", r.cfg.EngineA.Name)
	if games := t.WhiteWins + t.WhiteDraws + t.WhiteLosses; games > 0 {
		fmt.Printf("White: W-D-L = %d-%d-%d over %d games\n", t.WhiteWins, t.WhiteDraws, t.WhiteLosses, games)
	}
	if games := t.BlackWins + t.BlackDraws + t.BlackLosses; games > 0 {
		fmt.Printf("Black: W-D-L = %d-%d-%d over %d games\n", t.BlackWins, t.BlackDraws, t.BlackLosses, games)
	}
}
