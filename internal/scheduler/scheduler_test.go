package scheduler

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessions(t *testing.T, windows ...[3]int64) []*model.RoomSession {
	t.Helper()
	var out []*model.RoomSession
	for i, w := range windows {
		s, err := model.NewRoomSession(model.SessionID(i), "room", "course", w[0], w[1], int(w[2]), 0)
		if err != nil {
			t.Fatalf("NewRoomSession: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func TestAssign_SingleSessionCreatesStudents(t *testing.T) {
	cfg := NewDefaultConfiguration()
	in := sessions(t, [3]int64{0, 100, 2})

	pop, err := Assign(in, cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(pop.Students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(pop.Students))
	}
	for _, s := range pop.Students {
		schedule := s.Schedule()
		if len(schedule) != 1 || schedule[0] != in[0] {
			t.Errorf("student %d should hold exactly the one session, got %v", s.ID, schedule)
		}
	}
	if in[0].RosterSize() != 2 {
		t.Errorf("roster size = %d, want 2", in[0].RosterSize())
	}
}

func TestAssign_NoOverlapWhenProbabilityZero(t *testing.T) {
	cfg := NewDefaultConfiguration()
	cfg.OverlapProbability = 0
	in := sessions(t, [3]int64{100, 200, 5}, [3]int64{150, 250, 5})

	pop, err := Assign(in, cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	for _, s := range pop.Students {
		if len(s.Schedule()) > 1 {
			t.Errorf("student %d admitted to both overlapping sessions", s.ID)
		}
		if s.HasOverlappingCourses() {
			t.Errorf("student %d flagged as overlapping", s.ID)
		}
	}
	if len(pop.Students) != 10 {
		t.Errorf("expected 10 students, got %d", len(pop.Students))
	}
}

func TestAssign_ReusesStudentsForDisjointSessions(t *testing.T) {
	cfg := NewDefaultConfiguration()
	cfg.OverlapProbability = 0
	in := sessions(t, [3]int64{0, 100, 3}, [3]int64{200, 300, 3}, [3]int64{400, 500, 3})

	pop, err := Assign(in, cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(pop.Students) != 3 {
		t.Fatalf("expected the 3 students to be shared, got %d", len(pop.Students))
	}
	for _, s := range pop.Students {
		if len(s.Schedule()) != 3 {
			t.Errorf("student %d holds %d sessions, want 3", s.ID, len(s.Schedule()))
		}
	}
}

func TestAssign_VisitsSessionsInReverseOrder(t *testing.T) {
	cfg := NewDefaultConfiguration()
	cfg.OverlapProbability = 0
	in := sessions(t, [3]int64{0, 100, 1}, [3]int64{200, 300, 2})

	pop, err := Assign(in, cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	// the last session is filled first, so its students come first
	first := pop.Students[0].Schedule()
	if first[0] != in[1] {
		t.Errorf("first student should start with the last loaded session, got session %d", first[0].ID)
	}
	if len(pop.Students) != 2 {
		t.Errorf("expected 2 students, got %d", len(pop.Students))
	}
}

func TestAssign_RespectsCapacityAndCap(t *testing.T) {
	cfg := NewDefaultConfiguration()
	rng := rand.New(rand.NewSource(42))
	var windows [][3]int64
	for i := 0; i < 60; i++ {
		start := int64(rng.Intn(10)) * 1800
		windows = append(windows, [3]int64{start, start + 5400, int64(rng.Intn(40))})
	}
	in := sessions(t, windows...)

	pop, err := Assign(in, cfg, rng, discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	for _, session := range pop.Sessions {
		if session.RosterSize() != session.Capacity {
			t.Errorf("session %d roster %d != capacity %d", session.ID, session.RosterSize(), session.Capacity)
		}
	}
	for _, s := range pop.Students {
		if len(s.Schedule()) > cfg.MaxClassesPerStudent {
			t.Errorf("student %d holds %d sessions", s.ID, len(s.Schedule()))
		}
	}
	if valid, msg := Validate(pop, cfg); !valid {
		t.Errorf("validation failed:\n%s", msg)
	}
}

func TestAssign_OverlapAlwaysAllowed(t *testing.T) {
	cfg := NewDefaultConfiguration()
	cfg.OverlapProbability = 1
	in := sessions(t, [3]int64{100, 200, 2}, [3]int64{150, 250, 2})

	pop, err := Assign(in, cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(pop.Students) != 2 {
		t.Fatalf("expected students to be shared, got %d", len(pop.Students))
	}
	for _, s := range pop.Students {
		if !s.HasOverlappingCourses() {
			t.Errorf("student %d should be flagged as overlapping", s.ID)
		}
	}
}

func TestScheduler_StudentsIsIdempotent(t *testing.T) {
	cfg := NewDefaultConfiguration()
	s := New(sessions(t, [3]int64{0, 100, 4}), cfg, rand.New(rand.NewSource(1)), discardLogger())

	first, err := s.Students()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Students()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the identical population on repeated calls")
	}
	if len(second.Students) != 4 {
		t.Errorf("second call must not assign again, got %d students", len(second.Students))
	}
}

func TestComputeStats(t *testing.T) {
	cfg := NewDefaultConfiguration()
	cfg.OverlapProbability = 0
	pop, err := Assign(sessions(t, [3]int64{0, 100, 2}, [3]int64{200, 300, 1}), cfg, rand.New(rand.NewSource(1)), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	stats := ComputeStats(pop)
	if stats.Students != 2 || stats.MinSchedule != 1 || stats.MaxSchedule != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.MeanSchedule != 1.5 {
		t.Errorf("mean schedule = %v, want 1.5", stats.MeanSchedule)
	}
}

func TestValidate_ReportsShortRoster(t *testing.T) {
	cfg := NewDefaultConfiguration()
	pop := &model.Population{Sessions: sessions(t, [3]int64{0, 100, 3})}
	s := pop.NewStudent(cfg.MaxClassesPerStudent)
	if err := pop.Enroll(s, pop.Sessions[0]); err != nil {
		t.Fatal(err)
	}

	valid, msg := Validate(pop, cfg)
	if valid {
		t.Fatal("expected validation to fail for a short roster")
	}
	if !strings.Contains(msg, "[FAIL]: Session capacity check.") {
		t.Errorf("missing capacity failure in:\n%s", msg)
	}
	if !strings.Contains(msg, "[  OK]: Roster link check.") {
		t.Errorf("links should be consistent:\n%s", msg)
	}
}
