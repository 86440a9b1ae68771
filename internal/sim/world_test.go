package sim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rhyrak/campus-schedule/internal/campusmap"
	"github.com/rhyrak/campus-schedule/internal/csvio"
	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/internal/scheduler"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

var (
	gate      = model.Coord{X: 0, Y: 0}
	corridor  = model.Coord{X: 50, Y: 0}
	classroom = model.Coord{X: 100, Y: 0}
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testInputs(t *testing.T, poi int) Inputs {
	t.Helper()
	m := campusmap.New()
	m.Connect(gate, corridor)
	m.Connect(corridor, classroom)

	rs, err := model.NewRoomSession(0, "MI HS1", "Analysis", 600, 1200, 2, poi)
	if err != nil {
		t.Fatalf("NewRoomSession: %v", err)
	}
	return Inputs{
		Source: &csvio.Source{Path: "test.csv", Digest: "d", Sessions: []*model.RoomSession{rs}},
		Map:    m,
		Places: movement.Places{
			Starts:     []model.Coord{gate},
			Classrooms: []model.Coord{classroom},
			Waypoints:  []model.Coord{corridor},
		},
	}
}

func testConfig() *scheduler.Configuration {
	cfg := scheduler.NewDefaultConfiguration()
	cfg.EndTime = 3000
	return cfg
}

func TestWorld_RunsToEndOfDay(t *testing.T) {
	ctx, err := NewRun(testConfig(), testInputs(t, 0), discard())
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if ctx.RunID == "" {
		t.Error("run id not set")
	}
	w, err := NewWorld(ctx)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if len(w.Hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(w.Hosts))
	}
	if counts := w.States(); counts[movement.Ready] != 2 {
		t.Fatalf("hosts should start READY, got %v", counts)
	}

	for ctx.Clock.Now() <= 600 {
		w.Step()
	}
	if counts := w.States(); counts[movement.Class] != 2 {
		t.Fatalf("hosts should head to class at 600, got %v", counts)
	}

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Clock.Now() != 3000 {
		t.Errorf("clock stopped at %d", ctx.Clock.Now())
	}
	if counts := w.States(); counts[movement.Done] != 2 {
		t.Errorf("hosts should be DONE, got %v", counts)
	}
	for _, h := range w.Hosts {
		if h.Moving() || h.Location != gate {
			t.Errorf("host %d should rest at the gate, at %v moving=%v", h.ID, h.Location, h.Moving())
		}
		if id, ok := h.Student.Host(); !ok || id != h.ID {
			t.Errorf("student %d bound to host %d, want %d", h.Student.ID, id, h.ID)
		}
	}

	rows := w.Rows()
	if len(rows) != 5 {
		t.Fatalf("expected 5 report rows, got %d", len(rows))
	}
	if rows[0].Time != 600 || rows[0].Samples != 11 || rows[0].Ready <= 0 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if last := rows[len(rows)-1]; last.Done != 2 {
		t.Errorf("unexpected last row %+v", last)
	}
}

func TestWorld_HostsAttachOnce(t *testing.T) {
	ctx, err := NewRun(testConfig(), testInputs(t, 0), discard())
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if _, err := NewWorld(ctx); err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if _, err := NewWorld(ctx); !errors.Is(err, model.ErrHostAlreadyAttached) {
		t.Fatalf("expected ErrHostAlreadyAttached, got %v", err)
	}
}

func TestWorld_RunStopsOnCancel(t *testing.T) {
	ctx, err := NewRun(testConfig(), testInputs(t, 0), discard())
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	w, err := NewWorld(ctx)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRun_RejectsBadInputs(t *testing.T) {
	if _, err := NewRun(testConfig(), testInputs(t, 1), discard()); !errors.Is(err, ErrPOIOutOfRange) {
		t.Errorf("expected ErrPOIOutOfRange, got %v", err)
	}

	in := testInputs(t, 0)
	in.Places.Waypoints = append(in.Places.Waypoints, model.Coord{X: 500, Y: 0})
	if _, err := NewRun(testConfig(), in, discard()); !errors.Is(err, campusmap.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	in = testInputs(t, 0)
	in.Places.Starts = nil
	if _, err := NewRun(testConfig(), in, discard()); !errors.Is(err, campusmap.ErrEmptyPointSet) {
		t.Errorf("expected ErrEmptyPointSet, got %v", err)
	}
}

func TestStateReport_AveragesSamples(t *testing.T) {
	r := NewStateReport(10, 20)
	ready := &Host{Controller: movement.NewController(model.NewStudent(0, 1), nil, &Clock{}, movement.Places{}, movement.Settings{}, nil)}

	r.Observe(0, []*Host{ready, ready})
	r.Observe(5, []*Host{ready})
	r.Observe(10, []*Host{ready})
	r.Observe(20, []*Host{ready, ready, ready})
	r.Flush()

	rows := r.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Time != 20 || rows[0].Samples != 3 || rows[0].Ready != 2 {
		t.Errorf("unexpected row %+v", rows[0])
	}
}
