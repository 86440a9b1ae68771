package model

// Population is the arena owning every session and student of a run.
// Sessions and students refer to each other through their IDs, which are
// indexes into these slices.
type Population struct {
	Sessions []*RoomSession
	Students []*Student
}

// Session looks a session up by handle.
func (p *Population) Session(id SessionID) (*RoomSession, bool) {
	if int(id) < 0 || int(id) >= len(p.Sessions) {
		return nil, false
	}
	return p.Sessions[id], true
}

// Student looks a student up by handle.
func (p *Population) Student(id StudentID) (*Student, bool) {
	if int(id) < 0 || int(id) >= len(p.Students) {
		return nil, false
	}
	return p.Students[id], true
}

// NewStudent appends a fresh student to the arena.
func (p *Population) NewStudent(maxClasses int) *Student {
	s := NewStudent(StudentID(len(p.Students)), maxClasses)
	p.Students = append(p.Students, s)
	return s
}

// Enroll adds the session to the student's schedule and the student to the
// session's roster, keeping both sides consistent.
func (p *Population) Enroll(s *Student, session *RoomSession) error {
	if err := s.AddCourse(session); err != nil {
		return err
	}
	session.AddStudent(s.ID)
	return nil
}
