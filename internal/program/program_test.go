package program

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/scoutpb/scout/internal/config"
	"github.com/scoutpb/scout/internal/display"
	"github.com/scoutpb/scout/internal/glyph"
	"github.com/scoutpb/scout/internal/palette"
	"github.com/scoutpb/scout/internal/storage/memory"
	"github.com/scoutpb/scout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "scout-pb"

type fakeCamera struct {
	functional bool
	raycast    bool
	available  float64
	canScan    bool
	hit        *core.RaycastHit
	scans      int
}

func (c *fakeCamera) IsFunctional() bool          { return c.functional }
func (c *fakeCamera) EnableRaycast(enabled bool)  { c.raycast = enabled }
func (c *fakeCamera) AvailableScanRange() float64 { return c.available }
func (c *fakeCamera) CanScan(float64) bool        { return c.canScan }
func (c *fakeCamera) Raycast(float64) (core.RaycastHit, bool) {
	c.scans++
	if c.hit == nil {
		return core.RaycastHit{}, false
	}
	return *c.hit, true
}

type fakeAntenna struct{}

func (fakeAntenna) Position() core.Position3D { return core.Position3D{} }

type fakeSurface struct {
	text   string
	writes int
}

func (s *fakeSurface) WriteText(text string) {
	s.text = text
	s.writes++
}

type fakeGrid struct {
	position core.Position3D
	camera   *fakeCamera
	antenna  *fakeAntenna
	surface  *fakeSurface
}

func (g *fakeGrid) Position() core.Position3D { return g.position }

func (g *fakeGrid) FindCamera(name string) Camera {
	if g.camera == nil || name != "Camera" {
		return nil
	}
	return g.camera
}

func (g *fakeGrid) FindAntenna(name string) Antenna {
	if g.antenna == nil || name != "Antenna" {
		return nil
	}
	return g.antenna
}

func (g *fakeGrid) Surface() Surface { return g.surface }

type fakeDirectory struct {
	broadcasters []core.Broadcaster
}

func (d fakeDirectory) Broadcasters(Antenna) []core.Broadcaster { return d.broadcasters }

type recordingReporter struct {
	stats []core.TickStats
}

func (r *recordingReporter) ReportTick(s core.TickStats) { r.stats = append(r.stats, s) }

// failingStore lists from an inner store but fails every update.
type failingStore struct {
	*memory.Backend
	updates int
}

func (s *failingStore) UpdateWaypoint(string, core.Update) error {
	s.updates++
	return errors.New("store offline")
}

// unreadableStore fails every list.
type unreadableStore struct {
	*memory.Backend
}

func (s unreadableStore) ListWaypoints(string) ([]core.Waypoint, error) {
	return nil, errors.New("store offline")
}

type harness struct {
	prog     *Program
	store    *memory.Backend
	grid     *fakeGrid
	echoes   []string
	reporter *recordingReporter
}

func newHarness(t *testing.T, store WaypointStore) *harness {
	t.Helper()
	h := &harness{
		grid: &fakeGrid{
			camera: &fakeCamera{
				functional: true,
				available:  40000,
				canScan:    true,
			},
			antenna: &fakeAntenna{},
			surface: &fakeSurface{},
		},
		reporter: &recordingReporter{},
	}
	if store == nil {
		h.store = memory.New(config.MemoryConfig{})
		store = h.store
	}

	prog, err := New(Options{
		Owner: owner,
		Sensor: config.SensorConfig{
			CameraName:  "Camera",
			AntennaName: "Antenna",
			ScanRange:   40000,
		},
		Store:     store,
		Grid:      h.grid,
		Directory: fakeDirectory{},
		Echo:      EchoFunc(func(m string) { h.echoes = append(h.echoes, m) }),
		Palette:   palette.NewFromRand(rand.New(rand.NewSource(7))),
		Reporter:  h.reporter,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	h.prog = prog
	h.echoes = nil
	return h
}

func (h *harness) add(t *testing.T, name string, pos *core.Position3D, c core.Color) *core.Waypoint {
	t.Helper()
	w := &core.Waypoint{Name: name, Position: pos, Visible: true, Color: c}
	require.NoError(t, h.store.CreateWaypoint(owner, w, nil))
	return w
}

func TestNewEchoesSetup(t *testing.T) {
	var got []string
	_, err := New(Options{
		Store: memory.New(config.MemoryConfig{}),
		Grid:  &fakeGrid{surface: &fakeSurface{}},
		Echo:  EchoFunc(func(m string) { got = append(got, m) }),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Setup Success"}, got)
}

func TestNewRequiresStoreAndGrid(t *testing.T) {
	_, err := New(Options{Grid: &fakeGrid{}})
	assert.Error(t, err)

	_, err = New(Options{Store: memory.New(config.MemoryConfig{})})
	assert.Error(t, err)
}

func TestTick_EmptyListShowsPlaceholder(t *testing.T) {
	h := newHarness(t, nil)

	h.prog.Main("", TriggerTick)

	assert.Equal(t, display.Placeholder, h.grid.surface.text)
	assert.Empty(t, h.echoes)
	require.Len(t, h.reporter.stats, 1)
	assert.Equal(t, 0, h.reporter.stats[0].Waypoints)
	assert.Equal(t, int64(1), h.prog.Ticks())
}

func TestTick_RendersAndMarksVisited(t *testing.T) {
	h := newHarness(t, nil)
	near := h.add(t, "Asteroid #1 (Unvisited)", &core.Position3D{X: 400}, core.Color{R: 255, G: 100, B: 90})
	h.add(t, "Asteroid #2 (Unvisited)", &core.Position3D{X: 5000}, core.Color{R: 90, G: 255, B: 100})

	h.prog.Main("", TriggerTick)

	want := "Raycast range: 40000\n" +
		string(glyph.Encode(255, 100, 90)) + " Asteroid #1 (Unvisited) - 400.00m\n" +
		string(glyph.Encode(90, 255, 100)) + " Asteroid #2 (Unvisited) - 5000.00m\n"
	assert.Equal(t, want, h.grid.surface.text)
	assert.True(t, h.grid.camera.raycast, "display enables raycast")

	list, err := h.store.ListWaypoints(owner)
	require.NoError(t, err)
	assert.Equal(t, near.ID, list[0].ID)
	assert.Equal(t, "Asteroid #1 (Visited)", list[0].Name)
	assert.Equal(t, core.Gray, list[0].Color)
	assert.Equal(t, "Asteroid #2 (Unvisited)", list[1].Name)

	require.Len(t, h.reporter.stats, 1)
	assert.Equal(t, core.TickStats{
		Owner:       owner,
		Time:        h.reporter.stats[0].Time,
		Waypoints:   2,
		Transitions: 1,
		Displayed:   true,
	}, h.reporter.stats[0])
}

func TestTick_SecondTickIsStable(t *testing.T) {
	h := newHarness(t, nil)
	h.add(t, "Asteroid #1 (Unvisited)", &core.Position3D{X: 10}, core.Color{R: 255})

	h.prog.Main("", TriggerTick)
	h.prog.Main("", TriggerTick)

	assert.Equal(t, 1, h.reporter.stats[0].Transitions)
	assert.Equal(t, 0, h.reporter.stats[1].Transitions)
	assert.Contains(t, h.grid.surface.text, "Asteroid #1 (Visited) - 10.00m")
}

func TestTick_MissingCameraSkipsDisplayButChecksProximity(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.camera = nil
	h.grid.surface.text = "stale"
	h.add(t, "Asteroid #1 (Unvisited)", &core.Position3D{Y: 999}, core.Color{R: 255})

	h.prog.Main("", TriggerTick)

	assert.Equal(t, "stale", h.grid.surface.text)
	assert.Equal(t, []string{"No camera found"}, h.echoes)

	list, _ := h.store.ListWaypoints(owner)
	assert.Equal(t, "Asteroid #1 (Visited)", list[0].Name)
	assert.False(t, h.reporter.stats[0].Displayed)
}

func TestTick_BrokenCamera(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.camera.functional = false
	h.add(t, "Base", &core.Position3D{X: 5000}, core.Color{R: 255})

	h.prog.Main("", TriggerTick)

	assert.Equal(t, []string{"Camera is not functional"}, h.echoes)
	assert.Zero(t, h.grid.surface.writes)
}

func TestTick_UpdateFailuresAreCounted(t *testing.T) {
	inner := memory.New(config.MemoryConfig{})
	for _, x := range []float64{1, 2} {
		w := &core.Waypoint{Name: "Asteroid (Unvisited)", Position: &core.Position3D{X: x}}
		require.NoError(t, inner.CreateWaypoint(owner, w, nil))
	}
	store := &failingStore{Backend: inner}
	h := newHarness(t, store)

	h.prog.Main("", TriggerTick)

	assert.Equal(t, 2, store.updates, "a failure does not stop later updates")
	assert.Equal(t, 2, h.reporter.stats[0].Failed)
	assert.Equal(t, 0, h.reporter.stats[0].Transitions)
}

func TestTick_ListFailureShowsPlaceholder(t *testing.T) {
	inner := memory.New(config.MemoryConfig{})
	w := &core.Waypoint{Name: "Asteroid (Unvisited)", Position: &core.Position3D{X: 1}}
	require.NoError(t, inner.CreateWaypoint(owner, w, nil))
	h := newHarness(t, unreadableStore{Backend: inner})

	h.prog.Main("", TriggerTick)

	assert.Equal(t, display.Placeholder, h.grid.surface.text)
	require.Len(t, h.reporter.stats, 1)
	assert.Equal(t, 0, h.reporter.stats[0].Waypoints)
	assert.Equal(t, 0, h.reporter.stats[0].Transitions)

	got, err := inner.ListWaypoints(owner)
	require.NoError(t, err)
	assert.Equal(t, "Asteroid (Unvisited)", got[0].Name, "nothing is marked visited")
}

func TestCreate_FarHitIsUnvisited(t *testing.T) {
	h := newHarness(t, nil)
	h.add(t, "Asteroid #1 (Visited)", &core.Position3D{X: 10}, core.Gray)
	h.add(t, "Base", &core.Position3D{X: 20}, core.Gray)
	h.grid.camera.hit = &core.RaycastHit{
		Position: core.Position3D{X: 1200, Y: 500},
		EntityID: 73,
		Type:     "Asteroid",
	}

	h.prog.Main("", TriggerTick)
	h.echoes = nil
	h.prog.Main("CREATE", TriggerTerminal)

	assert.Equal(t, []string{"Created GPS: Asteroid #2 (Unvisited)"}, h.echoes)

	list, _ := h.store.ListWaypoints(owner)
	require.Len(t, list, 3)
	created := list[2]
	assert.Equal(t, "Asteroid #2 (Unvisited)", created.Name)
	assert.Equal(t, "EntityId:73", created.Description)
	assert.Equal(t, core.Position3D{X: 1200, Y: 500}, *created.Position)
	assert.True(t, created.Visible)

	rec, ok := h.store.GetRecord(created.ID)
	require.True(t, ok)
	assert.Equal(t, int64(73), rec.Hit.EntityID)
}

func TestCreate_NearHitIsVisited(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.camera.hit = &core.RaycastHit{Position: core.Position3D{X: 1000}, EntityID: 1, Type: "Asteroid"}

	h.prog.Main("create", TriggerTerminal)

	assert.Equal(t, []string{"Created GPS: Asteroid #1 (Visited)"}, h.echoes)
}

func TestCreate_UsesHitType(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.camera.hit = &core.RaycastHit{Position: core.Position3D{Z: 30000}, EntityID: 5, Type: "LargeGrid"}

	h.prog.Main("create", TriggerTerminal)

	assert.Equal(t, []string{"Created GPS: LargeGrid #1 (Unvisited)"}, h.echoes)
}

func TestCreate_Aborts(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(g *fakeGrid)
		echo   string
		noScan bool
	}{
		{"no camera", func(g *fakeGrid) { g.camera = nil }, "No camera found", true},
		{"broken camera", func(g *fakeGrid) { g.camera.functional = false }, "Camera is not functional", true},
		{"range too short", func(g *fakeGrid) { g.camera.available = 39999.5 }, "Camera range is too short", true},
		{"cannot scan", func(g *fakeGrid) { g.camera.canScan = false }, "Camera cannot scan", true},
		{"no hit", func(g *fakeGrid) {}, "Raycast did not hit anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			tt.setup(h.grid)

			h.prog.Main("create", TriggerTerminal)

			assert.Equal(t, []string{tt.echo}, h.echoes)
			if h.grid.camera != nil {
				assert.Equal(t, !tt.noScan, h.grid.camera.scans > 0)
			}
			list, _ := h.store.ListWaypoints(owner)
			assert.Empty(t, list)
		})
	}
}

func TestTest_NoAntenna(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.antenna = nil

	h.prog.Main("test", TriggerTerminal)

	assert.Equal(t, []string{"no antennas"}, h.echoes)
}

func TestTest_NoBroadcasters(t *testing.T) {
	h := newHarness(t, nil)

	h.prog.Main("Test", TriggerTerminal)

	assert.Equal(t, []string{"no broadcasters: 0"}, h.echoes)
}

func TestTest_ListsBroadcasters(t *testing.T) {
	h := newHarness(t, nil)
	h.prog.directory = fakeDirectory{broadcasters: []core.Broadcaster{
		{Name: "Relay Alpha", EntityID: 1},
		{Name: "Mining Base", EntityID: 2},
	}}

	h.prog.Main("test", TriggerTerminal)

	assert.Equal(t, []string{"Relay Alpha\nMining Base"}, h.echoes)
}

func TestUnknownCommandIgnored(t *testing.T) {
	h := newHarness(t, nil)

	h.prog.Main("launch", TriggerTerminal)
	h.prog.Main("create now", TriggerTerminal)

	assert.Empty(t, h.echoes)
	assert.Zero(t, h.grid.camera.scans)
}

func TestPaddedCommandIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.grid.camera.hit = &core.RaycastHit{Position: core.Position3D{X: 5000}, EntityID: 2, Type: "Asteroid"}

	h.prog.Main(" create ", TriggerTerminal)
	h.prog.Main("create\n", TriggerTerminal)
	h.prog.Main(" ", TriggerTerminal)

	assert.Empty(t, h.echoes)
	assert.Zero(t, h.grid.camera.scans)

	h.prog.Main("CREATE", TriggerTerminal)
	assert.Equal(t, []string{"Created GPS: Asteroid #1 (Unvisited)"}, h.echoes)
}

func TestTickRunsBeforeCommand(t *testing.T) {
	h := newHarness(t, nil)
	h.add(t, "Asteroid #1 (Unvisited)", &core.Position3D{X: 50}, core.Color{R: 255})
	h.grid.camera.hit = &core.RaycastHit{Position: core.Position3D{X: 5000}, EntityID: 2, Type: "Asteroid"}

	h.prog.Main("create", TriggerTick|TriggerTerminal)

	require.Len(t, h.echoes, 1)
	assert.Equal(t, "Created GPS: Asteroid #2 (Unvisited)", h.echoes[0])
	assert.True(t, strings.HasPrefix(h.grid.surface.text, "Raycast range: 40000\n"))
}

func TestTickContext(t *testing.T) {
	h := newHarness(t, nil)
	h.prog.Main("", TriggerTick)
	h.prog.Main("", TriggerTick)

	tc := h.prog.TickContext()
	assert.Equal(t, owner, tc.Owner)
	assert.Equal(t, int64(2), tc.Tick)
}
