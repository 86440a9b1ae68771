package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/rhyrak/campus-schedule/internal/campusmap"
	"github.com/rhyrak/campus-schedule/internal/csvio"
	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/internal/scheduler"
	"github.com/rhyrak/campus-schedule/internal/sim"
	"github.com/rhyrak/campus-schedule/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var logLevel string
	var assignOnly bool
	cfg := scheduler.NewDefaultConfiguration()

	flagSet := pflag.NewFlagSet("campussim", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML configuration (defaults are used when empty)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.BoolVar(&assignOnly, "assign-only", false, "stop after assigning and exporting schedules")
	seed := flagSet.Int64("seed", cfg.Seed, "random seed")
	endTime := flagSet.Int64("end-time", cfg.EndTime, "simulated seconds to run")
	exportFile := flagSet.String("export", cfg.ExportFile, "student schedule CSV output")
	reportFile := flagSet.String("report", cfg.ReportFile, "state report CSV output")
	snapshotFile := flagSet.String("snapshot", cfg.SnapshotFile, "population snapshot output")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "Usage:\n  campussim [flags]\n\nFlags:\n")
		flagSet.SetOutput(os.Stderr)
		flagSet.PrintDefaults()
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if configPath != "" {
		loaded, err := scheduler.LoadConfiguration(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// explicit flags win over the file
	if flagSet.Changed("seed") {
		cfg.Seed = *seed
	}
	if flagSet.Changed("end-time") {
		cfg.EndTime = *endTime
	}
	if flagSet.Changed("export") {
		cfg.ExportFile = *exportFile
	}
	if flagSet.Changed("report") {
		cfg.ReportFile = *reportFile
	}
	if flagSet.Changed("snapshot") {
		cfg.SnapshotFile = *snapshotFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs, err := loadInputs(cfg, logger)
	if err != nil {
		return err
	}
	runCtx, err := sim.NewRun(cfg, inputs, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	pop, err := runCtx.Population()
	if err != nil {
		return err
	}
	valid, msg := scheduler.Validate(pop, cfg)
	if !valid {
		fmt.Println("Invalid assignment:")
	} else {
		fmt.Println("Passed all tests")
	}
	fmt.Print(msg)
	logger.Info("assignment done", "elapsed", time.Since(start))

	if cfg.ExportFile != "" {
		outPath, err := csvio.ExportStudents(pop, cfg.ExportFile)
		if err != nil {
			return err
		}
		logger.Info("exported students", "path", outPath)
	}
	if cfg.SnapshotFile != "" {
		snap := snapshot.FromPopulation(pop, runCtx.RunID, inputs.Source.Digest, cfg.Seed)
		if err := snapshot.Write(cfg.SnapshotFile, snap); err != nil {
			return err
		}
		logger.Info("wrote snapshot", "path", cfg.SnapshotFile)
	}
	if assignOnly {
		return nil
	}

	world, err := sim.NewWorld(runCtx)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := world.Run(ctx); err != nil {
		return err
	}
	if cfg.ReportFile != "" {
		outPath, err := csvio.ExportReport(world.Rows(), cfg.ReportFile)
		if err != nil {
			return err
		}
		logger.Info("exported state report", "path", outPath)
	}
	return nil
}

func loadInputs(cfg *scheduler.Configuration, logger *slog.Logger) (sim.Inputs, error) {
	source, err := csvio.LoadSessions(cfg, ',', logger)
	if err != nil {
		return sim.Inputs{}, err
	}
	campus, err := campusmap.LoadMap(cfg.MapFile)
	if err != nil {
		return sim.Inputs{}, err
	}
	var places movement.Places
	if places.Starts, err = campusmap.LoadPoints(cfg.StartPointsFile); err != nil {
		return sim.Inputs{}, err
	}
	if places.Classrooms, err = campusmap.LoadPoints(cfg.ClassroomPointsFile); err != nil {
		return sim.Inputs{}, err
	}
	if places.Waypoints, err = campusmap.LoadPoints(cfg.WaypointPointsFile); err != nil {
		return sim.Inputs{}, err
	}
	if cfg.ExitPointsFile != "" {
		if places.Exits, err = campusmap.LoadPoints(cfg.ExitPointsFile); err != nil {
			return sim.Inputs{}, err
		}
	}
	return sim.Inputs{Source: source, Map: campus, Places: places}, nil
}
