// Package selfplay plays the engine against itself and records the games.
package selfplay

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/maxrevelli/maxchess/internal/board"
	"github.com/maxrevelli/maxchess/internal/engine"
	"github.com/maxrevelli/maxchess/internal/pgn"
	"github.com/maxrevelli/maxchess/internal/storage"
)

var log = logging.MustGetLogger("selfplay")

const engineName = "MaxChess"

// Config controls a self-play run.
type Config struct {
	Games      int    `toml:"games"`
	DepthWhite int    `toml:"depth_white"`
	DepthBlack int    `toml:"depth_black"`
	PGNPath    string `toml:"pgn_path"`
	Event      string `toml:"event"`
	Site       string `toml:"site"`
	Annotate   bool   `toml:"annotate"`
}

// DefaultConfig returns the depths and paths used when no config file is
// given.
func DefaultConfig() Config {
	return Config{
		Games:      1,
		DepthWhite: engine.DefaultDepth,
		DepthBlack: engine.DefaultDepth,
		PGNPath:    "selfplay.pgn",
		Event:      "Self-play",
		Site:       "Local",
		Annotate:   true,
	}
}

// Driver runs self-play games on a single engine instance. The store is
// optional; when present every finished game is recorded.
type Driver struct {
	eng   *engine.Engine
	cfg   Config
	store *storage.Store
}

// New creates a self-play driver.
func New(eng *engine.Engine, cfg Config, store *storage.Store) *Driver {
	return &Driver{eng: eng, cfg: cfg, store: store}
}

// Run plays the configured number of games, appending each to the PGN
// file as it finishes.
func (d *Driver) Run() error {
	for round := 1; round <= d.cfg.Games; round++ {
		game, err := d.PlayGame(round)
		if err != nil {
			return err
		}

		if err := game.AppendFile(d.cfg.PGNPath); err != nil {
			return err
		}
		log.Infof("game %d/%d finished: %s", round, d.cfg.Games, game.Result)

		if d.store != nil {
			rec := storage.GameRecord{
				Event:       game.Event,
				Round:       round,
				White:       game.White,
				Black:       game.Black,
				Result:      game.Result,
				Termination: game.Termination,
				Date:        time.Now().UTC(),
				PGN:         game.String(),
			}
			// Self-play has no opponent: record from White's seat so the
			// per-color tallies stay meaningful.
			if err := d.store.RecordResult(rec, "white"); err != nil {
				return fmt.Errorf("record game %d: %w", round, err)
			}
		}
	}
	return nil
}

// PlayGame plays one game to the end and returns it. The transposition
// table is cleared first so games do not bleed into each other.
func (d *Driver) PlayGame(round int) (*pgn.Game, error) {
	d.eng.Clear()

	white := fmt.Sprintf("%s (depth %d)", engineName, d.cfg.DepthWhite)
	black := fmt.Sprintf("%s (depth %d)", engineName, d.cfg.DepthBlack)
	game := pgn.NewGame(d.cfg.Event, d.cfg.Site, round, white, black, time.Now().UTC())

	pos := board.NewPosition()
	for !pos.IsGameOver() {
		depth := d.cfg.DepthBlack
		if pos.SideToMove == board.White {
			depth = d.cfg.DepthWhite
		}

		move, _ := d.eng.BestMove(pos, depth)
		if move == board.NoMove {
			// The engine gives up the game it cannot move in.
			game.Result = winnerAgainst(pos.SideToMove)
			game.Termination = "resignation"
			break
		}

		san := move.ToSAN(pos)
		pos.MakeMove(move)

		comment := ""
		if d.cfg.Annotate {
			score := d.eng.WhiteEvalAfterMove(pos, d.cfg.DepthWhite, d.cfg.DepthBlack)
			comment = pgn.EvalComment(score)
		}
		game.AddMove(san, comment)
	}

	if game.Result == pgn.ResultOngoing {
		game.Result = resultFromPosition(pos)
	}
	return game, nil
}

// resultFromPosition adjudicates a finished position.
func resultFromPosition(pos *board.Position) string {
	if pos.IsCheckmate() {
		return winnerAgainst(pos.SideToMove)
	}
	return pgn.ResultDraw
}

// winnerAgainst returns the result where the given side loses.
func winnerAgainst(loser board.Color) string {
	if loser == board.White {
		return pgn.ResultBlackWin
	}
	return pgn.ResultWhiteWin
}
