package model

import (
	"cmp"
	"fmt"
	"slices"
)

type SessionID int

// RoomSession is one scheduled occurrence of a course in a room.
// Times are seconds since the simulation epoch.
type RoomSession struct {
	ID       SessionID
	RoomRef  string
	Course   string
	Start    int64
	End      int64
	Capacity int
	POI      int
	roster   []StudentID
}

// NewRoomSession creates a session with an empty roster.
func NewRoomSession(id SessionID, roomRef string, course string, start int64, end int64, capacity int, poi int) (*RoomSession, error) {
	if start >= end {
		return nil, fmt.Errorf("%w: %s %s [%d, %d)", ErrInvalidWindow, roomRef, course, start, end)
	}
	if capacity < 0 {
		capacity = 0
	}
	return &RoomSession{
		ID:       id,
		RoomRef:  roomRef,
		Course:   course,
		Start:    start,
		End:      end,
		Capacity: capacity,
		POI:      poi,
	}, nil
}

// HasMoreSlots reports whether the roster is still below capacity.
func (s *RoomSession) HasMoreSlots() bool {
	return len(s.roster) < s.Capacity
}

// RemainingSlots returns the number of students the session can still take.
func (s *RoomSession) RemainingSlots() int {
	return s.Capacity - len(s.roster)
}

// IsOverlapping checks if both time windows intersect with non-zero duration.
//
// The second clause only matches when the boundaries touch in both
// directions at once, which in practice means a zero-length pairing of a
// session with itself. It is kept so the predicate matches historic
// schedules; the interval intersection is the rule that matters.
func (s *RoomSession) IsOverlapping(other *RoomSession) bool {
	return other.Start < s.End && other.End > s.Start ||
		other.Start == s.End && other.End == s.Start
}

// AddStudent appends a student to the roster. Capacity is the caller's concern.
func (s *RoomSession) AddStudent(id StudentID) {
	s.roster = append(s.roster, id)
}

// Roster returns the assigned students in admission order.
func (s *RoomSession) Roster() []StudentID {
	return slices.Clone(s.roster)
}

// RosterSize returns the number of assigned students.
func (s *RoomSession) RosterSize() int {
	return len(s.roster)
}

// Duration returns the session length in seconds.
func (s *RoomSession) Duration() int64 {
	return s.End - s.Start
}

func (s *RoomSession) String() string {
	return fmt.Sprintf("Room schedule for room %s with %d participants. From %d to %d", s.RoomRef, s.Capacity, s.Start, s.End)
}

// CompareSessions orders sessions by start time only.
func CompareSessions(a, b *RoomSession) int {
	return cmp.Compare(a.Start, b.Start)
}

// SortSessions sorts by start time, keeping insertion order for ties.
func SortSessions(sessions []*RoomSession) {
	slices.SortStableFunc(sessions, CompareSessions)
}
