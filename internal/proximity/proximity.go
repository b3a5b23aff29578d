// Package proximity decides which waypoints the observer has reached and
// pushes the resulting rename/recolor back to the waypoint store.
package proximity

import (
	"fmt"
	"strings"

	"github.com/scoutpb/scout/pkg/core"
)

// Updater persists a single waypoint update.
type Updater interface {
	UpdateWaypoint(owner string, u core.Update) error
}

// Evaluate returns one update per waypoint that is geolocated, strictly
// closer than threshold and not already tagged Visited, in input order.
//
// A waypoint with no lifecycle tag passes the Visited check and is
// recolored, but its name comes back unchanged since there is no
// "Unvisited" to replace.
func Evaluate(observer core.Position3D, waypoints []core.Waypoint, threshold float64) []core.Update {
	var updates []core.Update
	for _, w := range waypoints {
		if w.Position == nil {
			continue
		}
		if observer.Distance(*w.Position) >= threshold {
			continue
		}
		if strings.Contains(w.Name, core.TagVisited) {
			continue
		}

		name := strings.Replace(w.Name, core.TagUnvisited, core.TagVisited, 1)
		updates = append(updates, core.Update{
			ID:          w.ID,
			Name:        name,
			Description: w.Description,
			Position:    w.Position,
			Color:       core.Gray,
			Status:      core.StatusOf(name),
		})
	}
	return updates
}

// ApplyResult summarizes one Apply pass.
type ApplyResult struct {
	Applied int
	Failed  int
	Errors  []error
}

// Apply writes updates one at a time in order. There is no rollback and no
// retry: a failed update is recorded and the rest are still attempted.
func Apply(store Updater, owner string, updates []core.Update) ApplyResult {
	var res ApplyResult
	for _, u := range updates {
		if err := store.UpdateWaypoint(owner, u); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("updating waypoint %d: %w", u.ID, err))
			continue
		}
		res.Applied++
	}
	return res
}
