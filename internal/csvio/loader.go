package csvio

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/zeebo/blake3"

	"github.com/rhyrak/campus-schedule/internal/scheduler"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

// ErrMalformedRecord marks schedule files that cannot be loaded at all.
var ErrMalformedRecord = errors.New("malformed schedule record")

// Source is a loaded schedule file together with its fingerprint.
type Source struct {
	Path     string
	Digest   string
	Sessions []*model.RoomSession
}

// LoadSessions reads the room schedule file given in cfg.
func LoadSessions(cfg *scheduler.Configuration, delim rune, logger *slog.Logger) (*Source, error) {
	data, err := os.ReadFile(cfg.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, please make sure the file exists: %w", cfg.ScheduleFile, err)
	}
	dayStart, err := cfg.DayStartSeconds()
	if err != nil {
		return nil, err
	}
	sessions, err := ParseSessions(bytes.NewReader(data), delim, dayStart, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ScheduleFile, err)
	}
	return &Source{
		Path:     cfg.ScheduleFile,
		Digest:   Fingerprint(data),
		Sessions: sessions,
	}, nil
}

// ParseSessions decodes schedule rows. Every record must carry exactly
// model.FieldsPerSession fields. An unparsable participants field is
// logged and turns into capacity 0; any other bad field fails the load.
func ParseSessions(in io.Reader, delim rune, dayStart int64, logger *slog.Logger) ([]*model.RoomSession, error) {
	r := csv.NewReader(in)
	r.Comma = delim
	r.FieldsPerRecord = model.FieldsPerSession
	r.TrimLeadingSpace = true

	rows := []*model.SessionCSVRow{}
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: CSV entries should be exactly %d, does a line contain the delimiter? %v", ErrMalformedRecord, model.FieldsPerSession, err)
	}

	sessions := make([]*model.RoomSession, 0, len(rows))
	for i, row := range rows {
		session, err := sessionFromRow(model.SessionID(i), row, dayStart, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRecord, i+1, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func sessionFromRow(id model.SessionID, row *model.SessionCSVRow, dayStart int64, logger *slog.Logger) (*model.RoomSession, error) {
	start, err := scheduler.ClockSeconds(row.StartSTR)
	if err != nil {
		return nil, err
	}
	end, err := scheduler.ClockSeconds(row.EndSTR)
	if err != nil {
		return nil, err
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(row.ParticipantsSTR))
	if err != nil {
		logger.Warn("could not parse participants, using 0",
			"course", row.Course,
			"room", row.RoomRef,
			"value", row.ParticipantsSTR,
		)
		capacity = 0
	}
	return model.NewRoomSession(id, row.RoomRef, row.Course, start-dayStart, end-dayStart, capacity, row.POI)
}

// Fingerprint returns the hex blake3 digest of a schedule source.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
