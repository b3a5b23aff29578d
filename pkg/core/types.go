// pkg/core/types.go
package core

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// VisitThreshold is the distance below which a waypoint counts as visited.
const VisitThreshold = 1000.0

// Position3D represents a world-space coordinate
type Position3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vec returns the position as a mathgl vector.
func (p Position3D) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// PositionFromVec converts a mathgl vector back to a Position3D.
func PositionFromVec(v mgl64.Vec3) Position3D {
	return Position3D{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Distance returns the Euclidean distance between two positions.
func (p Position3D) Distance(other Position3D) float64 {
	return p.Vec().Sub(other.Vec()).Len()
}

// Color is an 8-bit RGB triple
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Gray is the color given to visited waypoints.
var Gray = Color{R: 128, G: 128, B: 128}

// Waypoint is a named GPS point owned by the waypoint store.
// A nil Position means the waypoint has not been geolocated yet.
type Waypoint struct {
	ID          uint
	Name        string
	Description string
	Position    *Position3D
	Visible     bool
	Color       Color
}

// Status returns the lifecycle status encoded in the waypoint name.
func (w Waypoint) Status() Status {
	return StatusOf(w.Name)
}

// Update is a proposed rename/recolor of an existing waypoint.
type Update struct {
	ID          uint
	Name        string
	Description string
	Position    *Position3D
	Color       Color
	Status      Status
}

// RaycastHit is the result of a successful camera raycast
type RaycastHit struct {
	Position Position3D
	EntityID int64
	Type     string
}

// Broadcaster is a radio-emitting entity reported by an antenna
type Broadcaster struct {
	EntityID int64
	Name     string
	Position Position3D
}

// TickStats summarizes one tick for metric sinks
type TickStats struct {
	Owner       string
	Time        time.Time
	Waypoints   int
	Transitions int
	Failed      int
	Displayed   bool
}
