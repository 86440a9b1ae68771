// Package snapshot stores an assigned population as zstd compressed,
// deterministically encoded CBOR.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

var ErrUnknownSession = errors.New("snapshot references unknown session")

// Snapshot is the serialisable form of a population. Relations are kept
// as arena indexes.
type Snapshot struct {
	RunID    string    `cbor:"1,keyasint" json:"run_id"`
	Digest   string    `cbor:"2,keyasint" json:"digest"`
	Seed     int64     `cbor:"3,keyasint" json:"seed"`
	Sessions []Session `cbor:"4,keyasint" json:"sessions"`
	Students []Student `cbor:"5,keyasint" json:"students"`
}

type Session struct {
	ID       int    `cbor:"1,keyasint" json:"id"`
	RoomRef  string `cbor:"2,keyasint" json:"room_ref"`
	Course   string `cbor:"3,keyasint" json:"course"`
	Start    int64  `cbor:"4,keyasint" json:"start"`
	End      int64  `cbor:"5,keyasint" json:"end"`
	Capacity int    `cbor:"6,keyasint" json:"capacity"`
	POI      int    `cbor:"7,keyasint" json:"poi"`
	Roster   []int  `cbor:"8,keyasint" json:"roster"`
}

type Student struct {
	ID          int   `cbor:"1,keyasint" json:"id"`
	MaxClasses  int   `cbor:"2,keyasint" json:"max_classes"`
	Sessions    []int `cbor:"3,keyasint" json:"sessions"`
	Overlapping bool  `cbor:"4,keyasint" json:"overlapping"`
	FirstStart  int64 `cbor:"5,keyasint" json:"first_start"`
	LastEnd     int64 `cbor:"6,keyasint" json:"last_end"`
}

var (
	encMode     cbor.EncMode
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// FromPopulation captures a population.
func FromPopulation(pop *model.Population, runID string, digest string, seed int64) *Snapshot {
	snap := &Snapshot{RunID: runID, Digest: digest, Seed: seed}
	for _, s := range pop.Sessions {
		roster := []int{}
		for _, id := range s.Roster() {
			roster = append(roster, int(id))
		}
		snap.Sessions = append(snap.Sessions, Session{
			ID:       int(s.ID),
			RoomRef:  s.RoomRef,
			Course:   s.Course,
			Start:    s.Start,
			End:      s.End,
			Capacity: s.Capacity,
			POI:      s.POI,
			Roster:   roster,
		})
	}
	for _, s := range pop.Students {
		sessions := []int{}
		for _, held := range s.Schedule() {
			sessions = append(sessions, int(held.ID))
		}
		snap.Students = append(snap.Students, Student{
			ID:          int(s.ID),
			MaxClasses:  s.MaxClasses(),
			Sessions:    sessions,
			Overlapping: s.HasOverlappingCourses(),
			FirstStart:  s.FirstLectureStart(),
			LastEnd:     s.LastLectureEnd(),
		})
	}
	return snap
}

// Population rebuilds the arena. Rosters are rebuilt from the students'
// schedules in student order.
func (s *Snapshot) Population() (*model.Population, error) {
	pop := &model.Population{}
	for i, session := range s.Sessions {
		rs, err := model.NewRoomSession(model.SessionID(i), session.RoomRef, session.Course, session.Start, session.End, session.Capacity, session.POI)
		if err != nil {
			return nil, err
		}
		pop.Sessions = append(pop.Sessions, rs)
	}
	for _, student := range s.Students {
		st := pop.NewStudent(student.MaxClasses)
		for _, id := range student.Sessions {
			rs, ok := pop.Session(model.SessionID(id))
			if !ok {
				return nil, fmt.Errorf("%w: student %d holds %d", ErrUnknownSession, student.ID, id)
			}
			if err := pop.Enroll(st, rs); err != nil {
				return nil, err
			}
		}
	}
	return pop, nil
}

// Marshal encodes and compresses the snapshot.
func Marshal(s *Snapshot) ([]byte, error) {
	data, err := encMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return zstdEncoder.EncodeAll(data, nil), nil
}

// Unmarshal reverses Marshal.
func Unmarshal(compressed []byte) (*Snapshot, error) {
	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

func Write(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
