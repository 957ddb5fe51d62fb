package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bd-election-analysis/config"
	"bd-election-analysis/metrics"
	"bd-election-analysis/models"
	"bd-election-analysis/scraper/somoy"
	"bd-election-analysis/services"
	"bd-election-analysis/storage"
	"bd-election-analysis/utils"
)

func main() {
	os.Exit(run())
}

// run executes one analysis and returns the process exit code. Deferred
// cleanup such as closing the result store runs before the exit.
func run() int {
	configPath := flag.String("config", "", "YAML config file (overrides ELECTION_CONFIG)")
	forceScrape := flag.Bool("scrape", false, "scrape even when raw data exists")
	force := flag.Bool("force", false, "rebuild the seat-wise dataset from raw data")
	flag.Parse()

	if *configPath != "" {
		_ = os.Setenv("ELECTION_CONFIG", *configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ================== Bootstrap ====================
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	cfg.ForceScrape = cfg.ForceScrape || *forceScrape
	cfg.ForceProcess = cfg.ForceProcess || *force

	level, _ := utils.ParseLevel(cfg.LogLevel)
	logger := utils.NewLogger(level)
	rec := metrics.New()

	logger.Info("Bangladesh Election Analysis")
	logger.Info("Seats: %d | Concurrency: %d | Rate delay: %dms | Retries: %d",
		cfg.TotalSeats, cfg.MaxConcurrency, cfg.RateLimitDelayMS, cfg.MaxRetries)

	// =============== Economic reference ==============
	ref := config.DefaultEconomicReference()
	if cfg.EconomyFile != "" {
		ref, err = storage.NewCSVReader(logger).ReadEconomicReference(cfg.EconomyFile)
		if err != nil {
			logger.Error("Cannot load economic reference: %v", err)
			return 1
		}
		for _, div := range config.Divisions() {
			if _, ok := ref.Lookup(div); !ok {
				logger.Warn("Economic reference %s has no row for %s", cfg.EconomyFile, div)
			}
		}
	}

	// =================== SQL Setup ===================
	var results storage.ResultStorage
	if cfg.DBDriver != "" {
		store, err := storage.NewSQLStore(ctx, cfg.DBDriver, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Cannot connect to %s: %v", cfg.DBDriver, err)
			return 1
		}
		defer store.Close()

		if err := store.CreateTables(ctx); err != nil {
			logger.Error("Failed to create DB tables: %v", err)
			return 1
		}
		results = store
	}

	// =============== Pipeline ========================
	scraper := somoy.NewSomoyScraper(cfg, logger, rec)
	pipeline := services.NewPipeline(cfg, logger, rec, scraper, results, ref)

	summary, err := pipeline.Run(ctx)
	if err != nil {
		var artifact *services.ArtifactError
		switch {
		case errors.As(err, &artifact):
			logger.Error("Missing input for stage %s: %s", artifact.Stage, artifact.Path)
		case errors.Is(err, services.ErrMissingReferenceData):
			logger.Error("%v", err)
			logger.Error("Provide an economy_file covering every division")
		default:
			logger.Error("Pipeline failed: %v", err)
		}
		return 1
	}

	fmt.Println(" Done! Seat data →", cfg.SeatFile)
	fmt.Println(" Division analysis →", cfg.DivisionFile)
	if len(summary.Charts) > 0 {
		fmt.Println(" Charts →", cfg.ImagesDir)
	}
	if results != nil {
		fmt.Println(" Results stored under run id:", summary.RunID)
	}
	printPrincipalWinners(summary.Seats)
	return 0
}

// printPrincipalWinners prints the seat tally of the two principal alliances
func printPrincipalWinners(seats *models.SeatTable) {
	counts := make(map[models.AllianceCode]int)
	for _, seat := range seats.Seats {
		counts[seat.WinnerAlliance]++
	}
	for _, code := range models.PrincipalAlliances {
		fmt.Printf(" %s seats: %d\n", code, counts[code])
	}
}
