package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/okian/quali/internal/fixtures"
	"github.com/okian/quali/pkg/logger"
)

// Default configuration constants.
const (
	defaultEvents   = 22
	defaultTeams    = 10
	defaultSwapRate = 0.3
	defaultMissing  = 0.05
	defaultWetRate  = 0.15
)

func main() {
	var (
		dir      = flag.String("dir", "data/results_data", "Directory to write the extracts to")
		years    = flag.String("years", "2022,2023,2024", "Comma separated seasons to generate")
		events   = flag.Int("events", defaultEvents, "Events per season")
		teams    = flag.Int("teams", defaultTeams, "Teams per season, two drivers each")
		seed     = flag.Uint64("seed", 1, "PRNG seed")
		swapRate = flag.Float64("swap-rate", defaultSwapRate, "Chance of a mid-season seat swap per season")
		missing  = flag.Float64("missing-rate", defaultMissing, "Chance of a blank session time")
		wetRate  = flag.Float64("wet-rate", defaultWetRate, "Chance of a wet session per event")
		tsv      = flag.Bool("tsv", false, "Write tab separated files")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ys []int
	for _, y := range strings.Split(*years, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			log.Error(ctx, "invalid year", logger.String("year", y))
			stop()
			os.Exit(2)
		}
		ys = append(ys, n)
	}

	stats, err := fixtures.Generate(ctx, &fixtures.Config{
		Dir:         *dir,
		Years:       ys,
		Events:      *events,
		Teams:       *teams,
		Seed:        *seed,
		SwapRate:    *swapRate,
		MissingRate: *missing,
		WetRate:     *wetRate,
		TSV:         *tsv,
	}, log)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
	log.Info(ctx, "fixtures written",
		logger.String("dir", *dir),
		logger.Int("files", stats.Files),
		logger.Int("rows", stats.Rows),
		logger.Int("swaps", stats.Swaps),
	)
}
