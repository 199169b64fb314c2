// The maxchess-selfplay binary plays the engine against itself at fixed
// depths and appends the games, with eval annotations, to a PGN file.
package main

import (
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/op/go-logging"

	"github.com/maxrevelli/maxchess/internal/engine"
	"github.com/maxrevelli/maxchess/internal/selfplay"
	"github.com/maxrevelli/maxchess/internal/storage"
)

var log = logging.MustGetLogger("maxchess-selfplay")

var (
	configPath = flag.String("config", "", "TOML config file")
	games      = flag.Int("games", 0, "number of games (overrides config)")
	depthWhite = flag.Int("depth-white", 0, "White's search depth (overrides config)")
	depthBlack = flag.Int("depth-black", 0, "Black's search depth (overrides config)")
	pgnPath    = flag.String("pgn", "", "PGN output file (overrides config)")
	record     = flag.Bool("record", false, "record results in the local game store")
)

func main() {
	flag.Parse()
	setupLogging()

	cfg := selfplay.DefaultConfig()
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *depthWhite > 0 {
		cfg.DepthWhite = *depthWhite
	}
	if *depthBlack > 0 {
		cfg.DepthBlack = *depthBlack
	}
	if *pgnPath != "" {
		cfg.PGNPath = *pgnPath
	}

	var store *storage.Store
	if *record {
		var err error
		store, err = storage.OpenDefault()
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer store.Close()
	}

	log.Infof("self-play: %d game(s), depth %d vs %d, PGN -> %s",
		cfg.Games, cfg.DepthWhite, cfg.DepthBlack, cfg.PGNPath)

	driver := selfplay.New(engine.NewEngine(), cfg, store)
	if err := driver.Run(); err != nil {
		log.Fatalf("self-play: %v", err)
	}
}

func setupLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05} %{level:.4s} %{module} %{message}`)
	logging.SetBackend(logging.NewBackendFormatter(backend, format))
}
