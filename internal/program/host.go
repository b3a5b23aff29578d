package program

import "github.com/scoutpb/scout/pkg/core"

// WaypointStore lists, creates, and rewrites the owner's GPS points.
// storage.Backend satisfies it.
type WaypointStore interface {
	ListWaypoints(owner string) ([]core.Waypoint, error)
	CreateWaypoint(owner string, w *core.Waypoint, hit *core.RaycastHit) error
	UpdateWaypoint(owner string, u core.Update) error
}

// Grid is the vehicle the programmable block sits on. The Find methods
// return nil when no block of that name exists.
type Grid interface {
	Position() core.Position3D
	FindCamera(name string) Camera
	FindAntenna(name string) Antenna
	Surface() Surface
}

// Camera is the ranging sensor used for raycasts.
type Camera interface {
	IsFunctional() bool
	EnableRaycast(enabled bool)
	AvailableScanRange() float64
	CanScan(rng float64) bool
	// Raycast reports false when nothing was hit.
	Raycast(rng float64) (core.RaycastHit, bool)
}

// Antenna is the reference device for broadcaster lookups.
type Antenna interface {
	Position() core.Position3D
}

// BroadcastDirectory lists the radio broadcasters visible to an antenna.
type BroadcastDirectory interface {
	Broadcasters(ref Antenna) []core.Broadcaster
}

// Surface is a text panel. WriteText replaces the whole content.
type Surface interface {
	WriteText(text string)
}

// TickReporter receives per-tick stats.
type TickReporter interface {
	ReportTick(stats core.TickStats)
}
