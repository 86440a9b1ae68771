package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

// ExportStudents writes one row per student and held session to the CSV
// file specified by the given path.
func ExportStudents(pop *model.Population, path string) (string, error) {
	rows := formatStudents(pop)
	if err := writeRows(&rows, path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportStudentsString formats the population like ExportStudents but
// returns the CSV text.
func ExportStudentsString(pop *model.Population) (string, error) {
	rows := formatStudents(pop)
	return gocsv.MarshalString(&rows)
}

// ExportReport writes state report rows to path.
func ExportReport(rows []*model.StateReportCSVRow, path string) (string, error) {
	if err := writeRows(&rows, path); err != nil {
		return "", err
	}
	return path, nil
}

func writeRows(rows any, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()
	if err := gocsv.MarshalFile(rows, out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatStudents(pop *model.Population) []*model.StudentScheduleCSVRow {
	var formatted []*model.StudentScheduleCSVRow
	for _, s := range pop.Students {
		schedule := s.Schedule()
		model.SortSessions(schedule)
		for _, session := range schedule {
			formatted = append(formatted, &model.StudentScheduleCSVRow{
				StudentID:   int(s.ID),
				SessionID:   int(session.ID),
				RoomRef:     session.RoomRef,
				Course:      session.Course,
				Start:       session.Start,
				End:         session.End,
				Overlapping: s.HasOverlappingCourses(),
			})
		}
	}
	return formatted
}
