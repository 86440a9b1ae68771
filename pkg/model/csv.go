package model

// SessionCSVRow is one record of the room schedule file. The file has
// exactly FieldsPerSession columns.
type SessionCSVRow struct {
	RoomRef         string `csv:"room_ref"`
	POI             int    `csv:"poi"`
	Building        string `csv:"building"`
	Floor           string `csv:"floor"`
	StartSTR        string `csv:"start"`
	EndSTR          string `csv:"end"`
	Course          string `csv:"course"`
	ParticipantsSTR string `csv:"participants"`
	Lecturer        string `csv:"lecturer"`
	Kind            string `csv:"kind"`
	Weekday         string `csv:"weekday"`
}

// FieldsPerSession is the fixed arity of a SessionCSVRow.
const FieldsPerSession = 11

type StudentScheduleCSVRow struct {
	StudentID   int    `csv:"student_id"`
	SessionID   int    `csv:"session_id"`
	RoomRef     string `csv:"room_ref"`
	Course      string `csv:"course"`
	Start       int64  `csv:"start"`
	End         int64  `csv:"end"`
	Overlapping bool   `csv:"overlapping"`
}

type StateReportCSVRow struct {
	Time       int64   `csv:"time"`
	Samples    int     `csv:"samples"`
	Ready      float64 `csv:"ready"`
	Class      float64 `csv:"class"`
	NonLecture float64 `csv:"non_lecture"`
	Done       float64 `csv:"done"`
}
