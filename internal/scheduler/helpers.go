package scheduler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type Configuration struct {
	ScheduleFile         string  `yaml:"schedule_file" json:"schedule_file"`
	MapFile              string  `yaml:"map_file" json:"map_file"`
	StartPointsFile      string  `yaml:"start_points_file" json:"start_points_file"`
	ClassroomPointsFile  string  `yaml:"classroom_points_file" json:"classroom_points_file"`
	WaypointPointsFile   string  `yaml:"waypoint_points_file" json:"waypoint_points_file"`
	ExitPointsFile       string  `yaml:"exit_points_file" json:"exit_points_file"`
	ExportFile           string  `yaml:"export_file" json:"export_file"`
	ReportFile           string  `yaml:"report_file" json:"report_file"`
	SnapshotFile         string  `yaml:"snapshot_file" json:"snapshot_file"`
	DayStart             string  `yaml:"day_start" json:"day_start"`
	MaxClassesPerStudent int     `yaml:"max_classes_per_student" json:"max_classes_per_student"`
	OverlapProbability   float64 `yaml:"overlap_probability" json:"overlap_probability"`
	MinWait              int64   `yaml:"min_wait" json:"min_wait"`
	MaxWait              int64   `yaml:"max_wait" json:"max_wait"`
	MinSpeed             float64 `yaml:"min_speed" json:"min_speed"`
	MaxSpeed             float64 `yaml:"max_speed" json:"max_speed"`
	EndTime              int64   `yaml:"end_time" json:"end_time"`
	UpdateInterval       int64   `yaml:"update_interval" json:"update_interval"`
	SampleInterval       int64   `yaml:"sample_interval" json:"sample_interval"`
	ReportInterval       int64   `yaml:"report_interval" json:"report_interval"`
	Seed                 int64   `yaml:"seed" json:"seed"`
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		ScheduleFile:         "./data/fmi/fmi_schedule_tuesday.csv",
		MapFile:              "./data/fmi/fmi_map.wkt",
		StartPointsFile:      "./data/fmi/fmi_entrances.wkt",
		ClassroomPointsFile:  "./data/fmi/fmi_classrooms.wkt",
		WaypointPointsFile:   "./data/fmi/fmi_waypoints.wkt",
		ExitPointsFile:       "",
		ExportFile:           "students.csv",
		ReportFile:           "state_report.csv",
		SnapshotFile:         "population.snap",
		DayStart:             "08:00",
		MaxClassesPerStudent: model.DefaultMaxClassesPerStudent,
		OverlapProbability:   0.1,   // 10%
		MinWait:              300,   // 5 minutes
		MaxWait:              18300, // 5 hours past MinWait
		MinSpeed:             0.5,
		MaxSpeed:             1.5,
		EndTime:              43200, // 12 hours
		UpdateInterval:       1,
		SampleInterval:       60,
		ReportInterval:       600,
		Seed:                 1,
	}
}

// LoadConfiguration reads a configuration file over the defaults. Files
// ending in .json or .jsonc are read as JSON with comments, anything else
// as YAML. Unknown keys are rejected.
func LoadConfiguration(path string) (*Configuration, error) {
	cfg := NewDefaultConfiguration()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(cfg)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(cfg)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric parameters for consistency.
func (c *Configuration) Validate() error {
	var problems []string
	if c.OverlapProbability < 0 || c.OverlapProbability > 1 {
		problems = append(problems, fmt.Sprintf("overlap_probability %v outside [0, 1]", c.OverlapProbability))
	}
	if c.MaxClassesPerStudent < 1 {
		problems = append(problems, fmt.Sprintf("max_classes_per_student %d must be at least 1", c.MaxClassesPerStudent))
	}
	if c.MinWait < 0 || c.MinWait > c.MaxWait {
		problems = append(problems, fmt.Sprintf("min_wait %d must be within [0, max_wait %d]", c.MinWait, c.MaxWait))
	}
	if c.MinSpeed <= 0 || c.MinSpeed > c.MaxSpeed {
		problems = append(problems, fmt.Sprintf("speeds must satisfy 0 < min_speed (%v) <= max_speed (%v)", c.MinSpeed, c.MaxSpeed))
	}
	if c.UpdateInterval <= 0 {
		problems = append(problems, "update_interval must be positive")
	}
	if c.SampleInterval <= 0 {
		problems = append(problems, "sample_interval must be positive")
	}
	if c.ReportInterval < c.SampleInterval {
		problems = append(problems, fmt.Sprintf("report_interval %d must not be lower than sample_interval %d", c.ReportInterval, c.SampleInterval))
	}
	if _, err := c.DayStartSeconds(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// DayStartSeconds converts DayStart into seconds after midnight.
func (c *Configuration) DayStartSeconds() (int64, error) {
	return ClockSeconds(c.DayStart)
}

// ClockSeconds parses an "H:m" local time into seconds after midnight.
func ClockSeconds(value string) (int64, error) {
	t, err := time.Parse("15:4", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("time %q should be formatted as H:m: %w", value, err)
	}
	return int64(t.Hour()*3600 + t.Minute()*60), nil
}
