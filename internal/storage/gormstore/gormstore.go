// Package gormstore persists waypoints through GORM (SQLite or Postgres).
package gormstore

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scoutpb/scout/internal/database"
	"github.com/scoutpb/scout/internal/model"
	"github.com/scoutpb/scout/internal/model/convert"
	"github.com/scoutpb/scout/pkg/core"
	"gorm.io/gorm"
)

// Backend is a storage.Backend over a *gorm.DB
type Backend struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New wraps an open database. Call Init before use.
func New(db *gorm.DB, logger zerolog.Logger) *Backend {
	return &Backend{db: db, logger: logger}
}

// Init migrates the schema
func (b *Backend) Init() error {
	return database.Migrate(b.db, b.logger)
}

// Close releases the underlying connection pool
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// ListWaypoints returns the owner's waypoints ordered by ID
func (b *Backend) ListWaypoints(owner string) ([]core.Waypoint, error) {
	var rows []model.Waypoint
	if err := b.db.Where("owner = ?", owner).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list waypoints: %w", err)
	}

	out := make([]core.Waypoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert.WaypointToCore(r))
	}
	return out, nil
}

// CreateWaypoint inserts w and copies the generated ID back
func (b *Backend) CreateWaypoint(owner string, w *core.Waypoint, hit *core.RaycastHit) error {
	var extra model.WaypointExtra
	if hit != nil {
		extra.EntityID = hit.EntityID
		extra.HitType = hit.Type
	}

	row := convert.WaypointToModel(owner, *w, extra)
	row.ID = 0
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create waypoint: %w", err)
	}
	w.ID = row.ID

	b.logger.Debug().Uint("id", row.ID).Str("owner", owner).Str("name", row.Name).Msg("Created waypoint")
	return nil
}

// UpdateWaypoint writes u. No matching row is not an error.
func (b *Backend) UpdateWaypoint(owner string, u core.Update) error {
	res := b.db.Model(&model.Waypoint{}).
		Where("id = ? AND owner = ?", u.ID, owner).
		UpdateColumns(convert.UpdateColumns(u))
	if res.Error != nil {
		return fmt.Errorf("failed to update waypoint %d: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		b.logger.Debug().Uint("id", u.ID).Str("owner", owner).Msg("Update matched no waypoint")
	}
	return nil
}

// Extra returns the raycast metadata stored with a waypoint
func (b *Backend) Extra(id uint) (model.WaypointExtra, error) {
	var row model.Waypoint
	if err := b.db.Select("id", "extra").First(&row, id).Error; err != nil {
		return model.WaypointExtra{}, fmt.Errorf("failed to load waypoint %d: %w", id, err)
	}
	return convert.ExtraFromJSON(row.Extra), nil
}
