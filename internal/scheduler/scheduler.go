package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

// Assign builds a student population that fills every session up to its
// capacity.
//
// Sessions are visited in reverse input order. Each session first takes
// existing students, in creation order, that still have room and do not
// clash with it; a clashing student is still admitted with probability
// cfg.OverlapProbability. Remaining slots are filled with new students.
func Assign(sessions []*model.RoomSession, cfg *Configuration, rng *rand.Rand, logger *slog.Logger) (*model.Population, error) {
	pop := &model.Population{Sessions: sessions}

	// push everything, then pop
	stack := make([]*model.RoomSession, 0, len(sessions))
	stack = append(stack, sessions...)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := 0; i < len(pop.Students) && current.HasMoreSlots(); i++ {
			s := pop.Students[i]
			if s.IsFullyBooked() {
				continue
			}
			if !s.IsOverlappingForStudent(current) || rng.Float64() < cfg.OverlapProbability {
				if err := pop.Enroll(s, current); err != nil {
					return nil, fmt.Errorf("assigning session %d: %w", current.ID, err)
				}
			}
		}

		for current.HasMoreSlots() {
			s := pop.NewStudent(cfg.MaxClassesPerStudent)
			if err := pop.Enroll(s, current); err != nil {
				return nil, fmt.Errorf("assigning session %d: %w", current.ID, err)
			}
		}
	}

	stats := ComputeStats(pop)
	logger.Info("assigned schedules",
		"sessions", len(pop.Sessions),
		"students", stats.Students,
		"min_schedule", stats.MinSchedule,
		"max_schedule", stats.MaxSchedule,
		"overlapping_students", stats.OverlappingStudents,
	)
	return pop, nil
}

// Stats summarises schedule sizes across a population.
type Stats struct {
	Students            int
	MinSchedule         int
	MaxSchedule         int
	MeanSchedule        float64
	OverlappingStudents int
}

func ComputeStats(pop *model.Population) Stats {
	stats := Stats{Students: len(pop.Students)}
	if len(pop.Students) == 0 {
		return stats
	}
	stats.MinSchedule = len(pop.Students[0].Schedule())
	total := 0
	for _, s := range pop.Students {
		n := len(s.Schedule())
		total += n
		stats.MinSchedule = min(stats.MinSchedule, n)
		stats.MaxSchedule = max(stats.MaxSchedule, n)
		if s.HasOverlappingCourses() {
			stats.OverlappingStudents++
		}
	}
	stats.MeanSchedule = float64(total) / float64(len(pop.Students))
	return stats
}

// Scheduler runs the assignment once and hands out the same population on
// every later call. A new run needs a new Scheduler over freshly loaded
// sessions, since assignment fills their rosters.
type Scheduler struct {
	sessions []*model.RoomSession
	cfg      *Configuration
	rng      *rand.Rand
	logger   *slog.Logger

	mu  sync.Mutex
	pop *model.Population
}

func New(sessions []*model.RoomSession, cfg *Configuration, rng *rand.Rand, logger *slog.Logger) *Scheduler {
	return &Scheduler{sessions: sessions, cfg: cfg, rng: rng, logger: logger}
}

// Students returns the assigned population, computing it on first use.
func (s *Scheduler) Students() (*model.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pop != nil {
		return s.pop, nil
	}
	pop, err := Assign(s.sessions, s.cfg, s.rng, s.logger)
	if err != nil {
		return nil, err
	}
	s.pop = pop
	return pop, nil
}
