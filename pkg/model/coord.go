package model

import "math"

// Coord is a planar map coordinate in meters.
type Coord struct {
	X float64 `json:"x" cbor:"1,keyasint"`
	Y float64 `json:"y" cbor:"2,keyasint"`
}

// Distance returns the euclidean distance between two coordinates.
func (c Coord) Distance(other Coord) float64 {
	return math.Hypot(c.X-other.X, c.Y-other.Y)
}
