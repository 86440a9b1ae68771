// Package movement turns a student's schedule into destinations and wait
// times for a single agent.
package movement

import (
	"math/rand"

	"github.com/rhyrak/campus-schedule/internal/campusmap"
	"github.com/rhyrak/campus-schedule/pkg/model"
)

type State int

const (
	// Ready is the state before the first class of the day.
	Ready State = iota
	// Class means the agent heads to or attends a session.
	Class
	// NonLecture is a gap between sessions with more still to come.
	NonLecture
	// Done means no sessions remain today.
	Done
)

func (s State) String() string {
	switch s {
	case Ready:
		return "READY"
	case Class:
		return "CLASS"
	case NonLecture:
		return "NON_LECTURE"
	case Done:
		return "DONE"
	}
	return "UNKNOWN"
}

// Graph is the map and path service the controller routes on.
type Graph interface {
	NearestNode(p model.Coord) campusmap.NodeID
	ShortestPath(from, to campusmap.NodeID) []campusmap.NodeID
	Coord(id campusmap.NodeID) model.Coord
}

// Clock reports simulated seconds since the epoch.
type Clock interface {
	Now() int64
}

// Places are the point sets an agent chooses destinations from.
// Classrooms are indexed by RoomSession.POI. Exits fall back to Starts.
type Places struct {
	Starts     []model.Coord
	Classrooms []model.Coord
	Waypoints  []model.Coord
	Exits      []model.Coord
}

// Settings holds the tunables of the controller.
type Settings struct {
	MinWait  int64
	MaxWait  int64
	MinSpeed float64
	MaxSpeed float64
}

// Path is a waypoint route walked at a fixed speed in m/s.
type Path struct {
	Waypoints []model.Coord
	Speed     float64
}

// Controller is the per-agent state machine. It is not safe for concurrent
// use; each agent owns its controller.
type Controller struct {
	student  *model.Student
	graph    Graph
	clock    Clock
	places   Places
	settings Settings
	rng      *rand.Rand

	state    State
	current  *model.RoomSession
	exit     campusmap.NodeID
	hasExit  bool
	lastNode campusmap.NodeID
	location model.Coord
}

func NewController(student *model.Student, graph Graph, clock Clock, places Places, settings Settings, rng *rand.Rand) *Controller {
	if len(places.Exits) == 0 {
		places.Exits = places.Starts
	}
	return &Controller{
		student:  student,
		graph:    graph,
		clock:    clock,
		places:   places,
		settings: settings,
		rng:      rng,
		state:    Ready,
	}
}

// InitialLocation places the agent at the node nearest to a random
// starting point and remembers that node for the first path request.
func (c *Controller) InitialLocation() model.Coord {
	start := c.places.Starts[c.rng.Intn(len(c.places.Starts))]
	c.lastNode = c.graph.NearestNode(start)
	c.location = c.graph.Coord(c.lastNode)
	return c.location
}

// UpdateState re-evaluates the state for the given time.
func (c *Controller) UpdateState(now int64) {
	if c.current != nil && c.current.End <= now {
		c.current = nil
	}
	next := c.student.NextClass(now, c.rng)
	upcoming := c.student.UpcomingClass(now)
	switch {
	case next == nil && upcoming != nil:
		c.state = NonLecture
	case next != nil:
		c.current = next
		c.state = Class
	case upcoming == nil:
		c.state = Done
	}
}

// GetPath updates the state and returns the route to the next destination.
// It returns nil when the agent should stay where it is.
func (c *Controller) GetPath() *Path {
	c.UpdateState(c.clock.Now())

	destination, ok := c.destination()
	if !ok {
		return nil
	}
	nodes := c.graph.ShortestPath(c.lastNode, destination)
	if len(nodes) == 0 {
		return nil
	}
	path := &Path{
		Waypoints: make([]model.Coord, 0, len(nodes)),
		Speed:     c.generateSpeed(),
	}
	for _, n := range nodes {
		path.Waypoints = append(path.Waypoints, c.graph.Coord(n))
	}
	c.lastNode = destination
	c.location = c.graph.Coord(destination)
	return path
}

func (c *Controller) destination() (campusmap.NodeID, bool) {
	switch c.state {
	case Class:
		if c.current == nil || c.current.POI < 0 || c.current.POI >= len(c.places.Classrooms) {
			return 0, false
		}
		return c.graph.NearestNode(c.places.Classrooms[c.current.POI]), true
	case NonLecture:
		if len(c.places.Waypoints) == 0 {
			return 0, false
		}
		return c.graph.NearestNode(c.places.Waypoints[c.rng.Intn(len(c.places.Waypoints))]), true
	case Done:
		if !c.hasExit {
			if len(c.places.Exits) == 0 {
				return 0, false
			}
			c.exit = c.graph.NearestNode(c.places.Exits[c.rng.Intn(len(c.places.Exits))])
			c.hasExit = true
		}
		return c.exit, true
	}
	return 0, false
}

// GenerateWaitTime returns how many seconds the agent stays before its
// next path request.
func (c *Controller) GenerateWaitTime() int64 {
	now := c.clock.Now()
	switch c.state {
	case Ready:
		return max(0, c.student.FirstLectureStart()-now)
	case Class:
		if c.current == nil {
			return 0
		}
		return max(0, c.current.End-now)
	case NonLecture:
		wait := c.settings.MinWait
		if span := c.settings.MaxWait - c.settings.MinWait; span > 0 {
			wait += c.rng.Int63n(span + 1)
		}
		if upcoming := c.student.UpcomingClass(now); upcoming != nil {
			wait = min(wait, upcoming.Start-now)
		}
		return max(0, wait)
	}
	return 0
}

// IsActive always reports true: agents are scheduled outside class hours too.
func (c *Controller) IsActive() bool {
	return true
}

func (c *Controller) State() State {
	return c.state
}

// CurrentClass returns the session being attended, if any.
func (c *Controller) CurrentClass() *model.RoomSession {
	return c.current
}

// Location returns the nominal location of the agent: its last destination.
func (c *Controller) Location() model.Coord {
	return c.location
}

func (c *Controller) generateSpeed() float64 {
	return c.settings.MinSpeed + c.rng.Float64()*(c.settings.MaxSpeed-c.settings.MinSpeed)
}
