// The maxchess-match binary plays two UCI engines against each other and
// writes one PGN file per game.
package main

import (
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/op/go-logging"

	"github.com/maxrevelli/maxchess/internal/match"
	"github.com/maxrevelli/maxchess/internal/storage"
)

var log = logging.MustGetLogger("maxchess-match")

var (
	configPath = flag.String("config", "match.toml", "TOML config file")
	games      = flag.Int("games", 0, "number of games (overrides config)")
	record     = flag.Bool("record", false, "record results in the local game store")
)

func main() {
	flag.Parse()
	setupLogging()

	cfg := match.Config{
		Games: 24,
		Event: "Engine match",
		Site:  "Local",
	}
	if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if len(cfg.EngineA.Command) == 0 || len(cfg.EngineB.Command) == 0 {
		log.Fatalf("config must set engine_a.command and engine_b.command")
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

	runner := match.NewRunner(cfg, store)
	if _, err := runner.Run(); err != nil {
		log.Fatalf("match: %v", err)
	}
}

func setupLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05} %{level:.4s} %{module} %{message}`)
	logging.SetBackend(logging.NewBackendFormatter(backend, format))
}
