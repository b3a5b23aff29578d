// Package sim is a stand-in host: a grid moving along a route with a
// camera, an antenna, and a text surface.
package sim

import (
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/scoutpb/scout/internal/program"
	"github.com/scoutpb/scout/pkg/core"
)

type asteroid struct {
	kind     string
	entityID int64
	center   mgl64.Vec3
	radius   float64
}

// World implements the program's host interfaces. It is driven by a
// single goroutine and does no locking.
type World struct {
	route    []mgl64.Vec3
	legs     []float64 // cumulative distance at the end of each leg
	speed    float64
	traveled float64
	position mgl64.Vec3

	camera       *Camera
	antenna      *Antenna
	asteroids    []asteroid
	broadcasters []core.Broadcaster
	surface      *Surface
}

// NewWorld builds a world from s.
func NewWorld(s Scenario) *World {
	w := &World{
		speed:   s.Grid.Speed,
		surface: &Surface{},
	}

	for _, p := range s.Grid.Route {
		w.route = append(w.route, p.Vec())
	}
	if len(w.route) > 0 {
		w.position = w.route[0]
	}
	w.buildLegs()

	if c := s.Camera; c != nil {
		w.camera = &Camera{
			world:      w,
			name:       c.Name,
			functional: !c.Broken,
			available:  c.InitialRange,
			maxRange:   c.MaxRange,
			chargeRate: c.ChargeRate,
			direction:  c.Direction.Vec().Normalize(),
		}
	}
	if a := s.Antenna; a != nil {
		w.antenna = &Antenna{world: w, name: a.Name, rng: a.Range}
	}
	for _, a := range s.Asteroids {
		w.asteroids = append(w.asteroids, asteroid{
			kind:     a.Type,
			entityID: a.EntityID,
			center:   a.Center.Vec(),
			radius:   a.Radius,
		})
	}
	for _, b := range s.Broadcasters {
		w.broadcasters = append(w.broadcasters, core.Broadcaster{
			EntityID: b.EntityID,
			Name:     b.Name,
			Position: b.Position,
		})
	}
	return w
}

// buildLegs precomputes the closed route's cumulative leg lengths.
func (w *World) buildLegs() {
	if len(w.route) < 2 {
		return
	}
	total := 0.0
	for i := range w.route {
		next := w.route[(i+1)%len(w.route)]
		total += next.Sub(w.route[i]).Len()
		w.legs = append(w.legs, total)
	}
}

// Advance moves the grid and charges the camera by dt.
func (w *World) Advance(dt time.Duration) {
	if w.camera != nil {
		w.camera.charge(dt)
	}
	if len(w.legs) == 0 || w.speed == 0 {
		return
	}

	loop := w.legs[len(w.legs)-1]
	if loop == 0 {
		return
	}
	w.traveled = math.Mod(w.traveled+w.speed*dt.Seconds(), loop)

	start := 0.0
	for i, end := range w.legs {
		if w.traveled <= end {
			from := w.route[i]
			to := w.route[(i+1)%len(w.route)]
			t := 0.0
			if end > start {
				t = (w.traveled - start) / (end - start)
			}
			w.position = from.Add(to.Sub(from).Mul(t))
			return
		}
		start = end
	}
}

// Teleport places the grid at p and stops route following.
func (w *World) Teleport(p core.Position3D) {
	w.position = p.Vec()
	w.speed = 0
}

func (w *World) Position() core.Position3D {
	return core.PositionFromVec(w.position)
}

// FindCamera returns nil unless a camera named name exists.
func (w *World) FindCamera(name string) program.Camera {
	if w.camera == nil || w.camera.name != name {
		return nil
	}
	return w.camera
}

// FindAntenna returns nil unless an antenna named name exists.
func (w *World) FindAntenna(name string) program.Antenna {
	if w.antenna == nil || w.antenna.name != name {
		return nil
	}
	return w.antenna
}

func (w *World) Surface() program.Surface {
	return w.surface
}

// Panel exposes the concrete surface for reading back its text.
func (w *World) Panel() *Surface {
	return w.surface
}

// Broadcasters lists the broadcasters within the reference antenna's range,
// nearest first.
func (w *World) Broadcasters(ref program.Antenna) []core.Broadcaster {
	rng := math.Inf(1)
	if a, ok := ref.(*Antenna); ok {
		rng = a.rng
	}
	origin := ref.Position()

	var out []core.Broadcaster
	for _, b := range w.broadcasters {
		if b.Position.Distance(origin) <= rng {
			out = append(out, b)
		}
	}
	sortByDistance(out, origin)
	return out
}

func sortByDistance(bs []core.Broadcaster, origin core.Position3D) {
	sort.SliceStable(bs, func(i, j int) bool {
		return bs[i].Position.Distance(origin) < bs[j].Position.Distance(origin)
	})
}

// Antenna is the grid's radio antenna.
type Antenna struct {
	world *World
	name  string
	rng   float64
}

// Position is the grid position; blocks share it.
func (a *Antenna) Position() core.Position3D {
	return a.world.Position()
}

// Surface keeps the last text written to it.
type Surface struct {
	text   string
	writes int
}

func (s *Surface) WriteText(text string) {
	s.text = text
	s.writes++
}

func (s *Surface) Text() string {
	return s.text
}

func (s *Surface) Writes() int {
	return s.writes
}
