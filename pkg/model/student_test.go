package model

import (
	"errors"
	"math/rand"
	"testing"
)

func TestStudent_AddCourse_WhenFull_ReturnsError(t *testing.T) {
	s := NewStudent(0, 2)
	for i := 0; i < 2; i++ {
		if err := s.AddCourse(mustSession(t, SessionID(i), int64(i)*1000, int64(i)*1000+500, 1)); err != nil {
			t.Fatalf("unexpected error adding course %d: %v", i, err)
		}
	}
	if !s.IsFullyBooked() {
		t.Fatal("student with 2 of 2 courses should be fully booked")
	}

	err := s.AddCourse(mustSession(t, 9, 9000, 9500, 1))
	if !errors.Is(err, ErrStudentFullyBooked) {
		t.Fatalf("expected ErrStudentFullyBooked, got %v", err)
	}
	if len(s.Schedule()) != 2 {
		t.Errorf("schedule must not grow past the cap, got %d", len(s.Schedule()))
	}
}

func TestNewStudent_DefaultCap(t *testing.T) {
	if got := NewStudent(0, 0).MaxClasses(); got != DefaultMaxClassesPerStudent {
		t.Errorf("expected default cap %d, got %d", DefaultMaxClassesPerStudent, got)
	}
}

func TestStudent_OverlapFlagIsSticky(t *testing.T) {
	s := NewStudent(0, 3)
	if err := s.AddCourse(mustSession(t, 0, 100, 200, 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddCourse(mustSession(t, 1, 150, 250, 1)); err != nil {
		t.Fatal(err)
	}
	if !s.HasOverlappingCourses() {
		t.Fatal("overlapping course must set the flag")
	}
	if err := s.AddCourse(mustSession(t, 2, 1000, 1100, 1)); err != nil {
		t.Fatal(err)
	}
	if !s.HasOverlappingCourses() {
		t.Error("flag must stay set after adding a non-overlapping course")
	}
}

func TestStudent_LectureBounds(t *testing.T) {
	s := NewStudent(0, 3)
	if s.FirstLectureStart() != 0 || s.LastLectureEnd() != 0 {
		t.Fatal("empty schedule should report zero bounds")
	}
	for i, w := range [][2]int64{{3600, 7200}, {600, 1200}, {9000, 9900}} {
		if err := s.AddCourse(mustSession(t, SessionID(i), w[0], w[1], 1)); err != nil {
			t.Fatal(err)
		}
	}
	if s.FirstLectureStart() != 600 {
		t.Errorf("first lecture start = %d, want 600", s.FirstLectureStart())
	}
	if s.LastLectureEnd() != 9900 {
		t.Errorf("last lecture end = %d, want 9900", s.LastLectureEnd())
	}
}

func TestStudent_NextClass(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewStudent(0, 3)
	morning := mustSession(t, 0, 1000, 2000, 1)
	afternoon := mustSession(t, 1, 5000, 6000, 1)
	_ = s.AddCourse(morning)
	_ = s.AddCourse(afternoon)

	if got := s.NextClass(1000, rng); got != morning {
		t.Errorf("at exact start expected morning session, got %v", got)
	}
	if got := s.NextClass(1000-NextClassTolerance, rng); got != morning {
		t.Errorf("at tolerance edge expected morning session, got %v", got)
	}
	if got := s.NextClass(1000+NextClassTolerance+1, rng); got != nil {
		t.Errorf("outside tolerance expected nil, got %v", got)
	}
	if got := s.NextClass(3000, rng); got != nil {
		t.Errorf("between sessions expected nil, got %v", got)
	}
}

func TestStudent_NextClass_PicksAmongOverlapping(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStudent(0, 3)
	a := mustSession(t, 0, 1000, 2000, 1)
	b := mustSession(t, 1, 1100, 2100, 1)
	_ = s.AddCourse(a)
	_ = s.AddCourse(b)

	seen := map[SessionID]bool{}
	for i := 0; i < 100; i++ {
		got := s.NextClass(1050, rng)
		if got == nil {
			t.Fatal("expected a session")
		}
		seen[got.ID] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("expected both overlapping sessions to be picked, saw %v", seen)
	}
}

func TestStudent_UpcomingClass(t *testing.T) {
	s := NewStudent(0, 3)
	early := mustSession(t, 0, 1000, 2000, 1)
	late := mustSession(t, 1, 5000, 6000, 1)
	mid := mustSession(t, 2, 3000, 4000, 1)
	_ = s.AddCourse(late)
	_ = s.AddCourse(early)
	_ = s.AddCourse(mid)

	tests := []struct {
		now  int64
		want *RoomSession
	}{
		{0, early},
		{1000, early},
		{1000 + UpcomingGrace, early},
		{1000 + UpcomingGrace + 1, mid},
		{3500, late},
		{5011, nil},
	}
	for _, tt := range tests {
		if got := s.UpcomingClass(tt.now); got != tt.want {
			t.Errorf("UpcomingClass(%d) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestStudent_AttachHost_Once(t *testing.T) {
	s := NewStudent(3, 3)
	if _, ok := s.Host(); ok {
		t.Fatal("fresh student must not have a host")
	}
	if err := s.AttachHost(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AttachHost(4); !errors.Is(err, ErrHostAlreadyAttached) {
		t.Fatalf("expected ErrHostAlreadyAttached, got %v", err)
	}
	if id, _ := s.Host(); id != 3 {
		t.Errorf("host changed to %d", id)
	}
}
