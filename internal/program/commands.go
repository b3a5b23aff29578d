package program

import (
	"fmt"
	"strings"

	"github.com/scoutpb/scout/internal/dispatcher"
	"github.com/scoutpb/scout/pkg/core"
)

// asteroidMarker is counted in existing names to number new points.
const asteroidMarker = "Asteroid"

// handleCreate raycasts forward from the camera and stores a GPS point at
// the hit.
func (p *Program) handleCreate(dispatcher.Event) (any, error) {
	camera, err := p.findCamera()
	if err != nil {
		return nil, err
	}
	camera.EnableRaycast(true)

	rng := p.sensor.ScanRange
	if camera.AvailableScanRange() < rng {
		return nil, ErrRangeTooShort
	}
	if !camera.CanScan(rng) {
		return nil, ErrCannotScan
	}

	hit, ok := camera.Raycast(rng)
	if !ok {
		p.echo.Echo(msgNoHit)
		return nil, nil
	}

	if !p.loaded {
		if err := p.loadSnapshot(); err != nil {
			return nil, err
		}
	}

	w := &core.Waypoint{
		Name:        p.nameFor(hit),
		Description: fmt.Sprintf("EntityId:%d", hit.EntityID),
		Position:    &hit.Position,
		Visible:     true,
		Color:       p.palette.Next(),
	}
	if err := p.store.CreateWaypoint(p.owner, w, &hit); err != nil {
		return nil, fmt.Errorf("failed to create waypoint: %w", err)
	}

	p.echo.Echo("Created GPS: " + w.Name)
	return w, nil
}

// nameFor numbers the hit after the asteroid points already known and
// tags it by how far it is from the grid.
func (p *Program) nameFor(hit core.RaycastHit) string {
	n := 0
	for _, w := range p.snapshot {
		if strings.Contains(w.Name, asteroidMarker) {
			n++
		}
	}

	status := core.StatusVisited
	if hit.Position.Distance(p.grid.Position()) > core.VisitThreshold {
		status = core.StatusUnvisited
	}
	return core.TaggedName(fmt.Sprintf("%s #%d", hit.Type, n+1), status)
}

func (p *Program) loadSnapshot() error {
	waypoints, err := p.store.ListWaypoints(p.owner)
	if err != nil {
		return fmt.Errorf("failed to list waypoints: %w", err)
	}
	p.snapshot = waypoints
	p.loaded = true
	return nil
}

// handleTest echoes the names of broadcasters the antenna can see.
func (p *Program) handleTest(dispatcher.Event) (any, error) {
	antenna := p.grid.FindAntenna(p.sensor.AntennaName)
	if antenna == nil || p.directory == nil {
		return nil, ErrNoAntenna
	}

	broadcasters := p.directory.Broadcasters(antenna)
	if len(broadcasters) == 0 {
		p.echo.Echo(fmt.Sprintf("no broadcasters: %d", len(broadcasters)))
		return broadcasters, nil
	}

	names := make([]string, 0, len(broadcasters))
	for _, b := range broadcasters {
		names = append(names, b.Name)
	}
	p.echo.Echo(strings.Join(names, "\n"))
	return broadcasters, nil
}
