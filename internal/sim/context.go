// Package sim wires the schedule, the map and the movement controllers into
// a single time-stepped run.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/rhyrak/campus-schedule/internal/campusmap"
	"github.com/rhyrak/campus-schedule/internal/csvio"
	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/internal/scheduler"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

var ErrPOIOutOfRange = errors.New("session point of interest outside classroom points")

// Inputs are the already loaded data sources of a run.
type Inputs struct {
	Source *csvio.Source
	Map    *campusmap.Map
	Places movement.Places
}

// Context holds everything shared by the agents of one run. It is built
// once at setup and read-only afterwards; a new run is a new Context.
type Context struct {
	RunID     string
	Config    *scheduler.Configuration
	Source    *csvio.Source
	Map       *campusmap.Map
	Places    movement.Places
	Clock     *Clock
	Logger    *slog.Logger
	Rand      *rand.Rand
	Scheduler *scheduler.Scheduler
}

// NewRun validates the inputs and prepares a run. Assignment happens
// lazily on the first call to Population.
func NewRun(cfg *scheduler.Configuration, in Inputs, logger *slog.Logger) (*Context, error) {
	if err := in.Map.CheckBounds(in.Places.Starts); err != nil {
		return nil, fmt.Errorf("start points: %w", err)
	}
	if err := in.Map.CheckBounds(in.Places.Classrooms); err != nil {
		return nil, fmt.Errorf("classroom points: %w", err)
	}
	if err := in.Map.CheckBounds(in.Places.Waypoints); err != nil {
		return nil, fmt.Errorf("waypoint points: %w", err)
	}
	if err := in.Map.CheckBounds(in.Places.Exits); err != nil {
		return nil, fmt.Errorf("exit points: %w", err)
	}
	if len(in.Places.Starts) == 0 {
		return nil, fmt.Errorf("start points: %w", campusmap.ErrEmptyPointSet)
	}
	for _, session := range in.Source.Sessions {
		if session.POI < 0 || session.POI >= len(in.Places.Classrooms) {
			return nil, fmt.Errorf("%w: session %d (%s) references %d, have %d", ErrPOIOutOfRange, session.ID, session.Course, session.POI, len(in.Places.Classrooms))
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	runID := uuid.NewString()
	logger = logger.With("run", runID)
	logger.Info("prepared run",
		"schedule", in.Source.Path,
		"digest", in.Source.Digest,
		"sessions", len(in.Source.Sessions),
		"nodes", in.Map.Len(),
		"seed", cfg.Seed,
	)
	return &Context{
		RunID:     runID,
		Config:    cfg,
		Source:    in.Source,
		Map:       in.Map,
		Places:    in.Places,
		Clock:     &Clock{},
		Logger:    logger,
		Rand:      rng,
		Scheduler: scheduler.New(in.Source.Sessions, cfg, rng, logger),
	}, nil
}

// Population returns the assigned students of this run.
func (c *Context) Population() (*model.Population, error) {
	return c.Scheduler.Students()
}

// Settings returns the movement tunables of the run.
func (c *Context) Settings() movement.Settings {
	return movement.Settings{
		MinWait:  c.Config.MinWait,
		MaxWait:  c.Config.MaxWait,
		MinSpeed: c.Config.MinSpeed,
		MaxSpeed: c.Config.MaxSpeed,
	}
}
