// Package program runs the scout loop: keep the GPS list on the block's
// text surface, mark nearby points visited, and handle typed commands.
package program

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/scoutpb/scout/internal/config"
	"github.com/scoutpb/scout/internal/dispatcher"
	"github.com/scoutpb/scout/internal/display"
	"github.com/scoutpb/scout/internal/logging"
	"github.com/scoutpb/scout/internal/palette"
	"github.com/scoutpb/scout/internal/proximity"
	"github.com/scoutpb/scout/pkg/core"
)

// Trigger tells Main why it was invoked.
type Trigger uint8

const (
	// TriggerTick is the periodic update.
	TriggerTick Trigger = 1 << iota
	// TriggerTerminal is a run with a typed argument.
	TriggerTerminal
)

// Status messages shown to the player verbatim.
var (
	ErrNoCamera      = errors.New("No camera found")
	ErrCameraBroken  = errors.New("Camera is not functional")
	ErrRangeTooShort = errors.New("Camera range is too short")
	ErrCannotScan    = errors.New("Camera cannot scan")
	ErrNoAntenna     = errors.New("no antennas")
)

const (
	msgSetup = "Setup Success"
	msgNoHit = "Raycast did not hit anything"
)

// Options wires a Program to its host.
type Options struct {
	Owner     string
	Sensor    config.SensorConfig
	Store     WaypointStore
	Grid      Grid
	Directory BroadcastDirectory
	Echo      Echo
	Palette   *palette.Generator
	// Reporter is optional.
	Reporter TickReporter
	Logger   *slog.Logger
}

// Program is the scout script. Main must not be called concurrently.
type Program struct {
	owner     string
	sensor    config.SensorConfig
	store     WaypointStore
	grid      Grid
	directory BroadcastDirectory
	echo      Echo
	palette   *palette.Generator
	reporter  TickReporter
	logger    *slog.Logger

	dispatcher *dispatcher.Dispatcher

	// waypoints as of the last tick; nil until the first tick
	snapshot []core.Waypoint
	loaded   bool
	ticks    atomic.Int64
}

// New builds a Program and registers its commands.
func New(opts Options) (*Program, error) {
	if opts.Store == nil || opts.Grid == nil {
		return nil, errors.New("program needs a waypoint store and a grid")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Echo == nil {
		opts.Echo = NewEcho(nil, opts.Logger)
	}
	if opts.Palette == nil {
		opts.Palette = palette.New(0)
	}

	d, err := dispatcher.New(opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	p := &Program{
		owner:      opts.Owner,
		sensor:     opts.Sensor,
		store:      opts.Store,
		grid:       opts.Grid,
		directory:  opts.Directory,
		echo:       opts.Echo,
		palette:    opts.Palette,
		reporter:   opts.Reporter,
		logger:     opts.Logger,
		dispatcher: d,
	}

	d.Register("create", p.handleCreate, dispatcher.Logged())
	d.Register("test", p.handleTest, dispatcher.Logged())

	p.echo.Echo(msgSetup)
	return p, nil
}

// Main is the entry point the host calls. A tick runs before the command
// when both arrive together. Unknown commands are ignored.
func (p *Program) Main(argument string, trigger Trigger) {
	if trigger&TriggerTick != 0 {
		p.tick()
	}

	if argument == "" {
		return
	}

	_, err := p.dispatcher.Dispatch(dispatcher.Event{
		Command:   argument,
		Timestamp: time.Now(),
	})
	switch {
	case err == nil:
	case errors.Is(err, dispatcher.ErrUnknownCommand):
		p.logger.Debug("ignoring command", "argument", argument)
	default:
		p.echo.Echo(err.Error())
	}
}

// Ticks returns how many ticks have run.
func (p *Program) Ticks() int64 {
	return p.ticks.Load()
}

// TickContext names the block and the current tick for log records.
func (p *Program) TickContext() logging.TickContext {
	return logging.TickContext{Owner: p.owner, Tick: p.ticks.Load()}
}

func (p *Program) tick() {
	p.ticks.Add(1)
	observer := p.grid.Position()

	waypoints, err := p.store.ListWaypoints(p.owner)
	if err != nil {
		p.logger.Error("failed to list waypoints", "error", err)
		waypoints = nil
	}
	p.snapshot = waypoints
	p.loaded = true

	stats := core.TickStats{
		Owner:     p.owner,
		Time:      time.Now(),
		Waypoints: len(waypoints),
	}
	stats.Displayed = p.refreshDisplay(observer, waypoints)

	updates := proximity.Evaluate(observer, waypoints, core.VisitThreshold)
	result := proximity.Apply(p.store, p.owner, updates)
	for _, err := range result.Errors {
		p.logger.Warn("waypoint update failed", "error", err)
	}
	if result.Applied > 0 {
		p.logger.Info("marked waypoints visited", "count", result.Applied)
	}
	stats.Transitions = result.Applied
	stats.Failed = result.Failed

	if p.reporter != nil {
		p.reporter.ReportTick(stats)
	}
}

// refreshDisplay rewrites the surface and reports whether it did.
// Without a working camera the surface keeps its previous content.
func (p *Program) refreshDisplay(observer core.Position3D, waypoints []core.Waypoint) bool {
	surface := p.grid.Surface()

	if len(waypoints) == 0 {
		p.logger.Debug("no waypoints")
		surface.WriteText(display.Placeholder)
		return true
	}

	camera, err := p.findCamera()
	if err != nil {
		p.echo.Echo(err.Error())
		return false
	}
	camera.EnableRaycast(true)

	surface.WriteText(display.Format(observer, waypoints, camera.AvailableScanRange()))
	return true
}

func (p *Program) findCamera() (Camera, error) {
	camera := p.grid.FindCamera(p.sensor.CameraName)
	if camera == nil {
		return nil, ErrNoCamera
	}
	if !camera.IsFunctional() {
		return nil, ErrCameraBroken
	}
	return camera, nil
}
