package scheduler

import (
	"fmt"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

// Validate checks a population for capacity, schedule size, link
// consistency and overlap flag problems.
// Returns false and a message for invalid populations.
func Validate(pop *model.Population, cfg *Configuration) (bool, string) {
	var message string
	var hasCapacityMismatch bool = false
	var hasOversizedSchedule bool = false
	var hasBrokenLink bool = false
	var hasWrongOverlapFlag bool = false

	for _, session := range pop.Sessions {
		if session.RosterSize() != session.Capacity {
			hasCapacityMismatch = true
			message += fmt.Sprintf("- Session %d (%s %s) holds %d of %d students\n", session.ID, session.RoomRef, session.Course, session.RosterSize(), session.Capacity)
		}
		for _, id := range session.Roster() {
			s, ok := pop.Student(id)
			if !ok || !holds(s, session) {
				hasBrokenLink = true
				message += fmt.Sprintf("- Session %d lists student %d which does not hold it\n", session.ID, id)
			}
		}
	}

	for _, s := range pop.Students {
		schedule := s.Schedule()
		if len(schedule) > cfg.MaxClassesPerStudent {
			hasOversizedSchedule = true
			message += fmt.Sprintf("- Student %d holds %d sessions\n", s.ID, len(schedule))
		}
		overlapping := false
		for i, a := range schedule {
			if !contains(a.Roster(), s.ID) {
				hasBrokenLink = true
				message += fmt.Sprintf("- Student %d holds session %d without being on its roster\n", s.ID, a.ID)
			}
			for _, b := range schedule[i+1:] {
				if a.IsOverlapping(b) {
					overlapping = true
				}
			}
		}
		if overlapping != s.HasOverlappingCourses() {
			hasWrongOverlapFlag = true
			message += fmt.Sprintf("- Student %d overlap flag is %v, schedule says %v\n", s.ID, s.HasOverlappingCourses(), overlapping)
		}
	}

	if hasWrongOverlapFlag {
		message = "[FAIL]: Overlap flag check.\n" + message
	} else {
		message = "[  OK]: Overlap flag check.\n" + message
	}
	if hasBrokenLink {
		message = "[FAIL]: Roster link check.\n" + message
	} else {
		message = "[  OK]: Roster link check.\n" + message
	}
	if hasOversizedSchedule {
		message = "[FAIL]: Schedule size check.\n" + message
	} else {
		message = "[  OK]: Schedule size check.\n" + message
	}
	if hasCapacityMismatch {
		message = "[FAIL]: Session capacity check.\n" + message
	} else {
		message = "[  OK]: Session capacity check.\n" + message
	}

	valid := !hasCapacityMismatch && !hasOversizedSchedule && !hasBrokenLink && !hasWrongOverlapFlag
	return valid, message
}

func holds(s *model.Student, session *model.RoomSession) bool {
	for _, held := range s.Schedule() {
		if held.ID == session.ID {
			return true
		}
	}
	return false
}

func contains(s []model.StudentID, e model.StudentID) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
