package model

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

type StudentID int

const (
	// DefaultMaxClassesPerStudent caps the sessions a single student attends.
	DefaultMaxClassesPerStudent = 3
	// NextClassTolerance is how far, in seconds, a session start may be from
	// now for the session to count as the next class.
	NextClassTolerance int64 = 300
	// UpcomingGrace lets a session that started moments ago still count as upcoming.
	UpcomingGrace int64 = 10
)

const noHost = -1

// Student holds the schedule of one simulated agent.
type Student struct {
	ID                    StudentID
	maxClasses            int
	schedule              []*RoomSession
	hasOverlappingCourses bool
	firstStart            int64
	lastEnd               int64
	host                  int
}

// NewStudent creates a student with an empty schedule. A non-positive
// maxClasses falls back to DefaultMaxClassesPerStudent.
func NewStudent(id StudentID, maxClasses int) *Student {
	if maxClasses <= 0 {
		maxClasses = DefaultMaxClassesPerStudent
	}
	return &Student{
		ID:         id,
		maxClasses: maxClasses,
		firstStart: math.MaxInt64,
		lastEnd:    math.MinInt64,
		host:       noHost,
	}
}

// AddCourse appends a session to the schedule.
// Returns ErrStudentFullyBooked if the schedule is already full.
func (s *Student) AddCourse(session *RoomSession) error {
	if s.IsFullyBooked() {
		return fmt.Errorf("%w: student %d holds %d sessions", ErrStudentFullyBooked, s.ID, len(s.schedule))
	}
	if s.IsOverlappingForStudent(session) {
		s.hasOverlappingCourses = true
	}
	s.schedule = append(s.schedule, session)
	s.firstStart = min(s.firstStart, session.Start)
	s.lastEnd = max(s.lastEnd, session.End)
	return nil
}

// IsOverlappingForStudent reports whether any held session overlaps the candidate.
func (s *Student) IsOverlappingForStudent(session *RoomSession) bool {
	for _, held := range s.schedule {
		if held.IsOverlapping(session) {
			return true
		}
	}
	return false
}

// IsFullyBooked reports whether the schedule reached the maximum size.
func (s *Student) IsFullyBooked() bool {
	return len(s.schedule) >= s.maxClasses
}

// HasOverlappingCourses is sticky: once an overlapping course was added it stays true.
func (s *Student) HasOverlappingCourses() bool {
	return s.hasOverlappingCourses
}

// Schedule returns the held sessions in insertion order.
func (s *Student) Schedule() []*RoomSession {
	out := make([]*RoomSession, len(s.schedule))
	copy(out, s.schedule)
	return out
}

// MaxClasses returns the schedule cap of this student.
func (s *Student) MaxClasses() int {
	return s.maxClasses
}

// NextClass returns a held session starting within NextClassTolerance of now.
// Overlapping candidates are picked uniformly with rng. Returns nil if none qualify.
func (s *Student) NextClass(now int64, rng *rand.Rand) *RoomSession {
	var candidates []*RoomSession
	for _, session := range s.schedule {
		delta := session.Start - now
		if delta < 0 {
			delta = -delta
		}
		if delta <= NextClassTolerance {
			candidates = append(candidates, session)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}

// UpcomingClass returns the earliest session that starts no earlier than
// now minus UpcomingGrace, or nil.
// TODO: switch to a heap ordered by start once schedules grow past a handful of sessions.
func (s *Student) UpcomingClass(now int64) *RoomSession {
	var upcoming *RoomSession
	for _, session := range s.schedule {
		if session.Start < now-UpcomingGrace {
			continue
		}
		if upcoming == nil || session.Start < upcoming.Start {
			upcoming = session
		}
	}
	return upcoming
}

// FirstLectureStart returns the earliest start across the schedule.
func (s *Student) FirstLectureStart() int64 {
	if len(s.schedule) == 0 {
		return 0
	}
	return s.firstStart
}

// LastLectureEnd returns the latest end across the schedule.
func (s *Student) LastLectureEnd() int64 {
	if len(s.schedule) == 0 {
		return 0
	}
	return s.lastEnd
}

// AttachHost binds the student to its agent. It can only happen once.
func (s *Student) AttachHost(hostID int) error {
	if s.host != noHost {
		return fmt.Errorf("%w: student %d is bound to host %d", ErrHostAlreadyAttached, s.ID, s.host)
	}
	s.host = hostID
	return nil
}

// Host returns the bound host, if any.
func (s *Student) Host() (int, bool) {
	return s.host, s.host != noHost
}

func (s *Student) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Student %d: ", s.ID)
	for _, rs := range s.schedule {
		sb.WriteString("\n\t" + rs.String())
	}
	return sb.String()
}
