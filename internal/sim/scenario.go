package sim

import (
	"errors"
	"fmt"
	"os"

	"github.com/scoutpb/scout/internal/geo"
	"github.com/scoutpb/scout/pkg/core"
	"gopkg.in/yaml.v3"
)

// Scenario describes the simulated grid and its surroundings.
type Scenario struct {
	Grid         GridSpec          `yaml:"grid"`
	Camera       *CameraSpec       `yaml:"camera"`
	Antenna      *AntennaSpec      `yaml:"antenna"`
	Asteroids    []AsteroidSpec    `yaml:"asteroids"`
	Broadcasters []BroadcasterSpec `yaml:"broadcasters"`
	// Waypoints are GPS clipboard strings used to seed an empty store.
	Waypoints []string `yaml:"waypoints"`
}

// GridSpec moves the grid along a closed route at a constant speed.
type GridSpec struct {
	Route []core.Position3D `yaml:"route"`
	Speed float64           `yaml:"speed"` // m/s
}

type CameraSpec struct {
	Name      string          `yaml:"name"`
	Broken    bool            `yaml:"broken"`
	Direction core.Position3D `yaml:"direction"`
	// scan range budget, charged while raycast is enabled
	InitialRange float64 `yaml:"initial_range"`
	MaxRange     float64 `yaml:"max_range"`
	ChargeRate   float64 `yaml:"charge_rate"` // m/s
}

type AntennaSpec struct {
	Name  string  `yaml:"name"`
	Range float64 `yaml:"range"`
}

type AsteroidSpec struct {
	Type     string          `yaml:"type"`
	EntityID int64           `yaml:"entity_id"`
	Center   core.Position3D `yaml:"center"`
	Radius   float64         `yaml:"radius"`
}

type BroadcasterSpec struct {
	Name     string          `yaml:"name"`
	EntityID int64           `yaml:"entity_id"`
	Position core.Position3D `yaml:"position"`
}

// LoadScenario reads a YAML scenario and fills in defaults.
func LoadScenario(path string) (Scenario, error) {
	var s Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read scenario: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("scenario %s: %w", path, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// DefaultScenario is a small belt used when no scenario file is configured.
func DefaultScenario() Scenario {
	s := Scenario{
		Grid: GridSpec{
			Route: []core.Position3D{{}, {X: 6000}, {X: 6000, Z: 4000}},
			Speed: 100,
		},
		Camera:  &CameraSpec{Direction: core.Position3D{X: 1}},
		Antenna: &AntennaSpec{},
		Asteroids: []AsteroidSpec{
			{EntityID: 73001, Center: core.Position3D{X: 3000, Z: 10}, Radius: 250},
			{EntityID: 73002, Center: core.Position3D{X: 9000, Y: 40}, Radius: 600},
		},
		Broadcasters: []BroadcasterSpec{
			{Name: "Relay Alpha", EntityID: 91001, Position: core.Position3D{X: 2000, Y: 500}},
		},
		Waypoints: []string{"GPS:Home Base:0:0:0:#FF75C9F1:"},
	}
	s.applyDefaults()
	return s
}

func (s *Scenario) applyDefaults() {
	if c := s.Camera; c != nil {
		if c.Name == "" {
			c.Name = "Camera"
		}
		if c.MaxRange == 0 {
			c.MaxRange = 200000
		}
		if c.InitialRange == 0 {
			c.InitialRange = c.MaxRange
		}
		if c.ChargeRate == 0 {
			c.ChargeRate = 2000
		}
		if c.Direction == (core.Position3D{}) {
			c.Direction = core.Position3D{Z: -1}
		}
	}
	if a := s.Antenna; a != nil {
		if a.Name == "" {
			a.Name = "Antenna"
		}
		if a.Range == 0 {
			a.Range = 50000
		}
	}
	for i := range s.Asteroids {
		if s.Asteroids[i].Type == "" {
			s.Asteroids[i].Type = "Asteroid"
		}
	}
}

// Validate checks values that would make the world unusable.
func (s Scenario) Validate() error {
	var errs []error
	if s.Grid.Speed < 0 {
		errs = append(errs, errors.New("grid.speed must not be negative"))
	}
	for i, a := range s.Asteroids {
		if a.Radius <= 0 {
			errs = append(errs, fmt.Errorf("asteroids[%d]: radius must be positive", i))
		}
	}
	if c := s.Camera; c != nil && c.InitialRange > c.MaxRange {
		errs = append(errs, errors.New("camera.initial_range exceeds camera.max_range"))
	}
	for _, w := range s.Waypoints {
		if _, err := geo.ParseGPS(w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SeedWaypoints returns the scenario's waypoints, white when no color is given.
func (s Scenario) SeedWaypoints() ([]core.Waypoint, error) {
	out := make([]core.Waypoint, 0, len(s.Waypoints))
	for _, raw := range s.Waypoints {
		g, err := geo.ParseGPS(raw)
		if err != nil {
			return nil, err
		}
		c := core.Color{R: 255, G: 255, B: 255}
		if g.HasColor {
			c = g.Color
		}
		pos := g.Position
		out = append(out, core.Waypoint{
			Name:     g.Name,
			Position: &pos,
			Visible:  true,
			Color:    c,
		})
	}
	return out, nil
}
