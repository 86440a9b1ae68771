package sim

import (
	"math/rand"

	"github.com/rhyrak/campus-schedule/internal/movement"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

// Host is one simulated agent walking the campus.
type Host struct {
	ID         int
	Student    *model.Student
	Controller *movement.Controller
	Location   model.Coord

	path       *movement.Path
	nextIndex  int
	nextMoveAt int64
}

func newHost(id int, student *model.Student, ctx *Context) (*Host, error) {
	if err := student.AttachHost(id); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(ctx.Rand.Int63()))
	ctrl := movement.NewController(student, ctx.Map, ctx.Clock, ctx.Places, ctx.Settings(), rng)
	h := &Host{
		ID:         id,
		Student:    student,
		Controller: ctrl,
	}
	h.Location = ctrl.InitialLocation()
	h.nextMoveAt = ctx.Clock.Now() + ctrl.GenerateWaitTime()
	return h, nil
}

// Moving reports whether the host is walking a path.
func (h *Host) Moving() bool {
	return h.path != nil
}

// update advances the host by dt seconds at time now.
func (h *Host) update(now int64, dt int64) {
	if h.path == nil {
		if now < h.nextMoveAt {
			return
		}
		path := h.Controller.GetPath()
		if path == nil || len(path.Waypoints) < 2 {
			// nowhere to go, retry on a later tick
			h.nextMoveAt = now + max(h.Controller.GenerateWaitTime(), dt)
			return
		}
		h.path = path
		h.nextIndex = 1
	}
	h.move(float64(dt) * h.path.Speed)
	if h.path == nil {
		h.nextMoveAt = now + h.Controller.GenerateWaitTime()
	}
}

func (h *Host) move(distance float64) {
	for distance > 0 && h.path != nil {
		target := h.path.Waypoints[h.nextIndex]
		remaining := h.Location.Distance(target)
		if remaining > distance {
			ratio := distance / remaining
			h.Location = model.Coord{
				X: h.Location.X + (target.X-h.Location.X)*ratio,
				Y: h.Location.Y + (target.Y-h.Location.Y)*ratio,
			}
			return
		}
		distance -= remaining
		h.Location = target
		h.nextIndex++
		if h.nextIndex >= len(h.path.Waypoints) {
			h.path = nil
		}
	}
}
