// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/scoutpb/scout/pkg/core"
)

// ErrUnknownType is returned when the configured storage type is not recognized.
var ErrUnknownType = errors.New("unknown storage type")

// Backend is the waypoint store. Waypoints are scoped by owner, the
// programmable block that created them. There are no transactions across
// calls, and updates addressed to a stale ID are silently ignored.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// ListWaypoints returns the owner's waypoints in creation order.
	ListWaypoints(owner string) ([]core.Waypoint, error)

	// CreateWaypoint stores w and assigns its ID. hit, when non-nil, is the
	// raycast that produced the waypoint and is kept as metadata.
	CreateWaypoint(owner string, w *core.Waypoint, hit *core.RaycastHit) error

	// UpdateWaypoint rewrites name, description, position, and color.
	UpdateWaypoint(owner string, u core.Update) error
}
