package convert

import (
	"testing"

	"github.com/scoutpb/scout/internal/model"
	"github.com/scoutpb/scout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaypointToModel(t *testing.T) {
	w := core.Waypoint{
		ID:          4,
		Name:        "Asteroid #4 (Unvisited)",
		Description: "EntityId:77",
		Position:    &core.Position3D{X: 1, Y: 2, Z: 3},
		Visible:     true,
		Color:       core.Color{R: 10, G: 20, B: 30},
	}

	m := WaypointToModel("pb-1", w, model.WaypointExtra{EntityID: 77, HitType: "Asteroid"})

	assert.Equal(t, uint(4), m.ID)
	assert.Equal(t, "pb-1", m.Owner)
	assert.Equal(t, "Unvisited", m.Status)
	assert.Equal(t, model.Color{R: 10, G: 20, B: 30}, m.Color)
	require.NotNil(t, m.Position)
	assert.JSONEq(t, `{"entityId":77,"hitType":"Asteroid"}`, string(m.Extra))

	back := WaypointToCore(m)
	assert.Equal(t, w, back)
}

func TestWaypointToCore_NoPosition(t *testing.T) {
	m := WaypointToModel("pb", core.Waypoint{Name: "Pending"}, model.WaypointExtra{})
	assert.Nil(t, m.Position)
	assert.JSONEq(t, `{}`, string(m.Extra))

	assert.Nil(t, WaypointToCore(m).Position)
}

func TestUpdateColumns(t *testing.T) {
	cols := UpdateColumns(core.Update{
		Name:   "Asteroid #1 (Visited)",
		Color:  core.Gray,
		Status: core.StatusVisited,
	})

	assert.Equal(t, "Asteroid #1 (Visited)", cols["name"])
	assert.Equal(t, uint8(128), cols["color_r"])
	assert.Equal(t, "Visited", cols["status"])
	assert.Nil(t, cols["position"])
}

func TestExtraFromJSON(t *testing.T) {
	assert.Equal(t, model.WaypointExtra{}, ExtraFromJSON(nil))
	assert.Equal(t, model.WaypointExtra{EntityID: 5}, ExtraFromJSON([]byte(`{"entityId":5}`)))
	assert.Equal(t, model.WaypointExtra{}, ExtraFromJSON([]byte(`not json`)))
}
