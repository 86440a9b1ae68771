package sim

import (
	"context"
	"fmt"

	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

// World steps every host of a run on the shared clock.
type World struct {
	ctx    *Context
	Hosts  []*Host
	Report *StateReport
}

// NewWorld creates one host per assigned student.
func NewWorld(ctx *Context) (*World, error) {
	pop, err := ctx.Population()
	if err != nil {
		return nil, err
	}
	w := &World{
		ctx:    ctx,
		Report: NewStateReport(ctx.Config.SampleInterval, ctx.Config.ReportInterval),
	}
	for i, student := range pop.Students {
		h, err := newHost(i, student, ctx)
		if err != nil {
			return nil, fmt.Errorf("creating host %d: %w", i, err)
		}
		w.Hosts = append(w.Hosts, h)
	}
	ctx.Logger.Info("created hosts", "hosts", len(w.Hosts))
	return w, nil
}

// Step runs a single tick and advances the clock.
func (w *World) Step() {
	now := w.ctx.Clock.Now()
	dt := w.ctx.Config.UpdateInterval
	for _, h := range w.Hosts {
		h.update(now, dt)
	}
	w.Report.Observe(now, w.Hosts)
	w.ctx.Clock.Advance(dt)
}

// Run steps until the configured end time or until ctx is done.
func (w *World) Run(ctx context.Context) error {
	for w.ctx.Clock.Now() < w.ctx.Config.EndTime {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		w.Step()
	}
	w.Report.Flush()
	counts := w.States()
	w.ctx.Logger.Info("simulation finished",
		"time", w.ctx.Clock.Now(),
		"ready", counts[movement.Ready],
		"class", counts[movement.Class],
		"non_lecture", counts[movement.NonLecture],
		"done", counts[movement.Done],
	)
	return nil
}

// States counts hosts per movement state.
func (w *World) States() map[movement.State]int {
	return countStates(w.Hosts)
}

// Rows returns the state report rows collected so far.
func (w *World) Rows() []*model.StateReportCSVRow {
	return w.Report.Rows()
}

func countStates(hosts []*Host) map[movement.State]int {
	counts := make(map[movement.State]int, 4)
	for _, h := range hosts {
		counts[h.Controller.State()]++
	}
	return counts
}
