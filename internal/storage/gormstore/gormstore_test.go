package gormstore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/scoutpb/scout/internal/database"
	"github.com/scoutpb/scout/internal/model"
	"github.com/scoutpb/scout/internal/storage"
	"github.com/scoutpb/scout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Backend = (*Backend)(nil)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "scout.db"), zerolog.Nop())
	require.NoError(t, err)

	b := New(db, zerolog.Nop())
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestCreateAndList(t *testing.T) {
	b := newBackend(t)

	w1 := &core.Waypoint{
		Name:        "Asteroid #1 (Unvisited)",
		Description: "EntityId:42",
		Position:    &core.Position3D{X: 1500.25, Y: -20, Z: 3},
		Visible:     true,
		Color:       core.Color{R: 230, G: 90, B: 120},
	}
	w2 := &core.Waypoint{Name: "Base", Visible: true}

	require.NoError(t, b.CreateWaypoint("pb", w1, &core.RaycastHit{EntityID: 42, Type: "Asteroid"}))
	require.NoError(t, b.CreateWaypoint("pb", w2, nil))
	require.NoError(t, b.CreateWaypoint("other", &core.Waypoint{Name: "foreign"}, nil))

	assert.NotZero(t, w1.ID)
	assert.Greater(t, w2.ID, w1.ID)

	list, err := b.ListWaypoints("pb")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, *w1, list[0])
	assert.Equal(t, "Base", list[1].Name)
	assert.Nil(t, list[1].Position)

	extra, err := b.Extra(w1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WaypointExtra{EntityID: 42, HitType: "Asteroid"}, extra)
}

func TestUpdateWaypoint(t *testing.T) {
	b := newBackend(t)

	w := &core.Waypoint{
		Name:     "Asteroid #1 (Unvisited)",
		Position: &core.Position3D{X: 10, Y: 20, Z: 30},
		Color:    core.Color{R: 255, G: 100, B: 90},
	}
	require.NoError(t, b.CreateWaypoint("pb", w, nil))

	require.NoError(t, b.UpdateWaypoint("pb", core.Update{
		ID:       w.ID,
		Name:     "Asteroid #1 (Visited)",
		Position: w.Position,
		Color:    core.Gray,
		Status:   core.StatusVisited,
	}))

	list, err := b.ListWaypoints("pb")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Asteroid #1 (Visited)", list[0].Name)
	assert.Equal(t, core.Gray, list[0].Color)
	assert.Equal(t, core.Position3D{X: 10, Y: 20, Z: 30}, *list[0].Position)

	var row model.Waypoint
	require.NoError(t, b.db.First(&row, w.ID).Error)
	assert.Equal(t, "Visited", row.Status)
}

func TestUpdateStaleIDIsNoop(t *testing.T) {
	b := newBackend(t)

	w := &core.Waypoint{Name: "keep"}
	require.NoError(t, b.CreateWaypoint("pb", w, nil))

	assert.NoError(t, b.UpdateWaypoint("pb", core.Update{ID: w.ID + 100, Name: "ghost"}))
	assert.NoError(t, b.UpdateWaypoint("intruder", core.Update{ID: w.ID, Name: "hijack"}))

	list, err := b.ListWaypoints("pb")
	require.NoError(t, err)
	assert.Equal(t, "keep", list[0].Name)
}

func TestListEmpty(t *testing.T) {
	b := newBackend(t)

	list, err := b.ListWaypoints("pb")
	require.NoError(t, err)
	assert.Empty(t, list)
}
