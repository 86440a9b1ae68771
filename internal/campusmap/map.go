package campusmap

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

var (
	ErrEmptyMap      = errors.New("map has no nodes")
	ErrDisconnected  = errors.New("map is not fully connected")
	ErrOutOfBounds   = errors.New("coordinate outside map bounds")
	ErrEmptyPointSet = errors.New("point set is empty")
)

type NodeID int

// Map is an undirected road graph. Nodes at equal coordinates are merged.
type Map struct {
	coords    []model.Coord
	neighbors [][]NodeID
	index     map[model.Coord]NodeID
	min, max  model.Coord
}

// LoadMap reads a WKT LINESTRING file and checks that the graph is connected.
func LoadMap(path string) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, please make sure the file exists: %w", path, err)
	}
	defer file.Close()
	m, err := ReadMap(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadMap parses a WKT road network from in.
func ReadMap(in io.Reader) (*Map, error) {
	lines, _, err := readWKT(in)
	if err != nil {
		return nil, err
	}
	m := New()
	for _, line := range lines {
		for i := range line {
			m.AddNode(line[i])
			if i > 0 {
				m.Connect(line[i-1], line[i])
			}
		}
	}
	if err := m.CheckConnected(); err != nil {
		return nil, err
	}
	return m, nil
}

func New() *Map {
	return &Map{
		index: make(map[model.Coord]NodeID),
		min:   model.Coord{X: math.Inf(1), Y: math.Inf(1)},
		max:   model.Coord{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// AddNode returns the node at c, creating it if needed.
func (m *Map) AddNode(c model.Coord) NodeID {
	if id, ok := m.index[c]; ok {
		return id
	}
	id := NodeID(len(m.coords))
	m.coords = append(m.coords, c)
	m.neighbors = append(m.neighbors, nil)
	m.index[c] = id
	m.min = model.Coord{X: math.Min(m.min.X, c.X), Y: math.Min(m.min.Y, c.Y)}
	m.max = model.Coord{X: math.Max(m.max.X, c.X), Y: math.Max(m.max.Y, c.Y)}
	return id
}

// Connect adds an undirected edge between the nodes at a and b.
func (m *Map) Connect(a, b model.Coord) {
	from, to := m.AddNode(a), m.AddNode(b)
	if from == to {
		return
	}
	for _, n := range m.neighbors[from] {
		if n == to {
			return
		}
	}
	m.neighbors[from] = append(m.neighbors[from], to)
	m.neighbors[to] = append(m.neighbors[to], from)
}

func (m *Map) Len() int {
	return len(m.coords)
}

// Coord returns the location of a node.
func (m *Map) Coord(id NodeID) model.Coord {
	return m.coords[id]
}

// Bounds returns the lower left and upper right corners of the map.
func (m *Map) Bounds() (model.Coord, model.Coord) {
	return m.min, m.max
}

// CheckConnected fails unless every node is reachable from node 0.
func (m *Map) CheckConnected() error {
	if len(m.coords) == 0 {
		return ErrEmptyMap
	}
	seen := make([]bool, len(m.coords))
	queue := []NodeID{0}
	seen[0] = true
	reached := 1
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range m.neighbors[n] {
			if !seen[next] {
				seen[next] = true
				reached++
				queue = append(queue, next)
			}
		}
	}
	if reached != len(m.coords) {
		return fmt.Errorf("%w: %d of %d nodes reachable", ErrDisconnected, reached, len(m.coords))
	}
	return nil
}

// CheckBounds fails if any point lies outside the map's bounding box.
func (m *Map) CheckBounds(points []model.Coord) error {
	for _, p := range points {
		if p.X < m.min.X || p.X > m.max.X || p.Y < m.min.Y || p.Y > m.max.Y {
			return fmt.Errorf("%w: (%v, %v) not within (%v, %v)-(%v, %v)", ErrOutOfBounds, p.X, p.Y, m.min.X, m.min.Y, m.max.X, m.max.Y)
		}
	}
	return nil
}

// NearestNode returns the node closest to p. Ties go to the lower ID.
func (m *Map) NearestNode(p model.Coord) NodeID {
	best := NodeID(0)
	bestDistance := math.Inf(1)
	for i, c := range m.coords {
		if d := c.Distance(p); d < bestDistance {
			best, bestDistance = NodeID(i), d
		}
	}
	return best
}

// ShortestPath returns the nodes from one node to another, both included.
// It returns nil when to cannot be reached.
func (m *Map) ShortestPath(from, to NodeID) []NodeID {
	if from == to {
		return []NodeID{from}
	}
	dist := make([]float64, len(m.coords))
	prev := make([]NodeID, len(m.coords))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[from] = 0
	pq := &queue{{node: from}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if item.node == to {
			break
		}
		if item.distance > dist[item.node] {
			continue
		}
		for _, next := range m.neighbors[item.node] {
			d := dist[item.node] + m.coords[item.node].Distance(m.coords[next])
			if d < dist[next] {
				dist[next] = d
				prev[next] = item.node
				heap.Push(pq, queueItem{node: next, distance: d})
			}
		}
	}
	if math.IsInf(dist[to], 1) {
		return nil
	}
	var path []NodeID
	for n := to; n != -1; n = prev[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type queueItem struct {
	node     NodeID
	distance float64
}

type queue []queueItem

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].distance < q[j].distance }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(queueItem)) }
func (q *queue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
