package model

import (
	"database/sql/driver"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Waypoint{},
}

// Waypoint is the persisted form of a GPS point
type Waypoint struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Owner       string    `json:"owner" gorm:"size:127;index:idx_waypoint_owner"`
	Name        string    `json:"name" gorm:"size:255"`
	Description string    `json:"description" gorm:"size:255"`
	// nil when the waypoint has not been geolocated
	Position *Point        `json:"position"`
	Visible  bool          `json:"visible"`
	Color    Color         `json:"color" gorm:"embedded;embeddedPrefix:color_"`
	Status   string        `json:"status" gorm:"size:16"`
	Extra    datatypes.JSON `json:"extra"`
}

func (*Waypoint) TableName() string {
	return "waypoints"
}

// Color holds the RGB channels in separate columns
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// WaypointExtra is the JSON payload kept in Waypoint.Extra
type WaypointExtra struct {
	EntityID int64  `json:"entityId,omitempty"`
	HitType  string `json:"hitType,omitempty"`
}

// Point stores an XYZ point as WKB.
type Point struct {
	geom.Point
}

// GormDBDataType picks a binary column type for the active dialect.
func (Point) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "bytea"
	default:
		return "blob"
	}
}

// Value implements driver.Valuer.
func (p Point) Value() (driver.Value, error) {
	return p.Point.Value()
}

// Scan implements sql.Scanner.
func (p *Point) Scan(src interface{}) error {
	return p.Point.Scan(src)
}
