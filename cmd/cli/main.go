package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/rhyrak/campus-schedule/internal/csvio"
	"github.com/rhyrak/campus-schedule/internal/scheduler"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

// cli assigns students for a range of seeds without a campus map and keeps
// the valid assignment with the fewest overlapping students.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := scheduler.NewDefaultConfiguration()
	var configPath string
	var attempts int
	var verbose bool
	flagSet := pflag.NewFlagSet("cli", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML configuration")
	flagSet.IntVar(&attempts, "attempts", 20, "number of seeds to try")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every attempt")
	seed := flagSet.Int64("seed", cfg.Seed, "first seed")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if configPath != "" {
		loaded, err := scheduler.LoadConfiguration(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flagSet.Changed("seed") {
		cfg.Seed = *seed
	}
	if attempts < 1 {
		return fmt.Errorf("--attempts must be positive, got %d", attempts)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Println("Loading...")

	start := time.Now()
	var best *model.Population
	var bestStats scheduler.Stats
	var bestSeed int64
	var source *csvio.Source
	for i := 0; i < attempts; i++ {
		attemptSeed := cfg.Seed + int64(i)
		// assignment fills rosters, so every attempt starts from a fresh load
		src, err := csvio.LoadSessions(cfg, ',', logger)
		if err != nil {
			return err
		}
		pop, err := scheduler.Assign(src.Sessions, cfg, rand.New(rand.NewSource(attemptSeed)), logger.With("seed", attemptSeed))
		if err != nil {
			return err
		}
		if valid, _ := scheduler.Validate(pop, cfg); !valid {
			logger.Warn("assignment failed validation", "seed", attemptSeed)
			continue
		}
		stats := scheduler.ComputeStats(pop)
		if best == nil || better(stats, bestStats) {
			best, bestStats, bestSeed, source = pop, stats, attemptSeed, src
		}
	}
	elapsed := time.Since(start)
	if best == nil {
		return fmt.Errorf("no valid assignment in %d attempts", attempts)
	}

	outPath, err := csvio.ExportStudents(best, cfg.ExportFile)
	if err != nil {
		return err
	}
	_, msg := scheduler.Validate(best, cfg)
	fmt.Println("Passed all tests")
	fmt.Print(msg)
	printSummary(os.Stdout, source, bestSeed, bestStats)
	fmt.Printf("Attempts: %d\n", attempts)
	fmt.Printf("Timer: %f ms\n", float64(elapsed.Nanoseconds())/1000000.0)
	fmt.Println("Exported output to: " + outPath)
	return nil
}

// better prefers fewer overlapping students, then fewer students overall.
func better(a, b scheduler.Stats) bool {
	if a.OverlappingStudents != b.OverlappingStudents {
		return a.OverlappingStudents < b.OverlappingStudents
	}
	return a.Students < b.Students
}

func printSummary(w io.Writer, source *csvio.Source, seed int64, stats scheduler.Stats) {
	fmt.Fprintf(w, "Schedule: %s (%s)\n", source.Path, source.Digest)
	fmt.Fprintf(w, "Sessions: %d\n", len(source.Sessions))
	fmt.Fprintf(w, "Seed: %d\n", seed)
	fmt.Fprintf(w, "Students: %d\n", stats.Students)
	fmt.Fprintf(w, "Classes per student: min %d, max %d, mean %1.2f\n", stats.MinSchedule, stats.MaxSchedule, stats.MeanSchedule)
	fmt.Fprintf(w, "Overlapping students: %d\n", stats.OverlappingStudents)
}
