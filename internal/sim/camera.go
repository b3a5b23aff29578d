package sim

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/scoutpb/scout/pkg/core"
)

// Camera raycasts along a fixed direction from the grid. Each scan spends
// its range from the available budget, which recharges while raycast is on.
type Camera struct {
	world      *World
	name       string
	functional bool
	raycast    bool
	available  float64
	maxRange   float64
	chargeRate float64
	direction  mgl64.Vec3
}

func (c *Camera) IsFunctional() bool { return c.functional }

func (c *Camera) EnableRaycast(enabled bool) { c.raycast = enabled }

func (c *Camera) AvailableScanRange() float64 { return c.available }

func (c *Camera) CanScan(rng float64) bool {
	return c.functional && c.raycast && rng <= c.available
}

// SetFunctional breaks or repairs the camera.
func (c *Camera) SetFunctional(ok bool) { c.functional = ok }

// Raycast spends rng and returns the nearest asteroid surface hit.
func (c *Camera) Raycast(rng float64) (core.RaycastHit, bool) {
	if !c.CanScan(rng) {
		return core.RaycastHit{}, false
	}
	c.available -= rng

	origin := c.world.position
	best := math.Inf(1)
	var hit core.RaycastHit
	for _, a := range c.world.asteroids {
		t, ok := intersectSphere(origin, c.direction, a.center, a.radius)
		if !ok || t > rng || t >= best {
			continue
		}
		best = t
		hit = core.RaycastHit{
			Position: core.PositionFromVec(origin.Add(c.direction.Mul(t))),
			EntityID: a.entityID,
			Type:     a.kind,
		}
	}
	return hit, !math.IsInf(best, 1)
}

func (c *Camera) charge(dt time.Duration) {
	if !c.raycast {
		return
	}
	c.available = math.Min(c.maxRange, c.available+c.chargeRate*dt.Seconds())
}

// intersectSphere returns the distance along the unit ray dir from origin
// to the first point on the sphere. An origin inside the sphere hits the
// far wall.
func intersectSphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
