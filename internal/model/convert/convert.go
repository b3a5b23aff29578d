// Package convert translates between GORM models and core types
package convert

import (
	"encoding/json"

	"github.com/scoutpb/scout/internal/geo"
	"github.com/scoutpb/scout/internal/model"
	"github.com/scoutpb/scout/pkg/core"
	"gorm.io/datatypes"
)

// WaypointToCore converts a GORM Waypoint to a core.Waypoint.
func WaypointToCore(w model.Waypoint) core.Waypoint {
	out := core.Waypoint{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Visible:     w.Visible,
		Color:       core.Color{R: w.Color.R, G: w.Color.G, B: w.Color.B},
	}
	if w.Position != nil {
		out.Position = geo.PositionFromPoint(w.Position.Point)
	}
	return out
}

// WaypointToModel converts a core.Waypoint to a GORM Waypoint for owner.
func WaypointToModel(owner string, w core.Waypoint, extra model.WaypointExtra) model.Waypoint {
	return model.Waypoint{
		ID:          w.ID,
		Owner:       owner,
		Name:        w.Name,
		Description: w.Description,
		Position:    PositionToPoint(w.Position),
		Visible:     w.Visible,
		Color:       model.Color{R: w.Color.R, G: w.Color.G, B: w.Color.B},
		Status:      w.Status().String(),
		Extra:       ExtraToJSON(extra),
	}
}

// UpdateColumns returns the column set written for an update.
func UpdateColumns(u core.Update) map[string]any {
	return map[string]any{
		"name":        u.Name,
		"description": u.Description,
		"position":    PositionToPoint(u.Position),
		"color_r":     u.Color.R,
		"color_g":     u.Color.G,
		"color_b":     u.Color.B,
		"status":      u.Status.String(),
	}
}

// PositionToPoint converts an optional position to an optional WKB point.
func PositionToPoint(p *core.Position3D) *model.Point {
	if p == nil {
		return nil
	}
	return &model.Point{Point: geo.PointFromPosition(p)}
}

// ExtraToJSON encodes the extra payload; an empty payload encodes as {}.
func ExtraToJSON(extra model.WaypointExtra) datatypes.JSON {
	b, err := json.Marshal(extra)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// ExtraFromJSON decodes the extra payload, tolerating empty columns.
func ExtraFromJSON(raw datatypes.JSON) model.WaypointExtra {
	var extra model.WaypointExtra
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &extra)
	}
	return extra
}
