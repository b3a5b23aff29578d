package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/scoutpb/scout/pkg/core"
)

// Positions are stored as XYZ points in WKB so SQLite and Postgres share a
// column format without any spatial extension.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Position3DFromString parses an "x,y,z" string into a core.Position3D.
// The z component may be omitted and defaults to 0.
func Position3DFromString(coords string) (core.Position3D, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return core.Position3D{}, ErrInvalidCoordinates
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
		vals[i] = v
	}
	return core.Position3D{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// PointFromPosition converts a position to an XYZ point. A nil position
// yields an empty point.
func PointFromPosition(p *core.Position3D) geom.Point {
	if p == nil {
		return geom.NewEmptyPoint(geom.DimXYZ)
	}
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	})
}

// PositionFromPoint converts a point back to a position; empty points
// yield nil.
func PositionFromPoint(pt geom.Point) *core.Position3D {
	c, ok := pt.Coordinates()
	if !ok {
		return nil
	}
	return &core.Position3D{X: c.XY.X, Y: c.XY.Y, Z: c.Z}
}
