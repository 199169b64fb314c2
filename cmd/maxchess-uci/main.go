// The maxchess-uci binary speaks UCI on stdin/stdout.
package main

import (
	"flag"

	"github.com/pkg/profile"

	"github.com/maxrevelli/maxchess/internal/engine"
	"github.com/maxrevelli/maxchess/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write a CPU profile to the given directory")

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile)).Stop()
	}

	eng := engine.NewEngine()
	uci.New(eng).Run()
}
