package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/scoutpb/scout/internal/config"
	"github.com/scoutpb/scout/internal/database"
	"github.com/scoutpb/scout/internal/sim"
	"github.com/scoutpb/scout/internal/storage"
	"github.com/scoutpb/scout/internal/storage/gormstore"
	"github.com/scoutpb/scout/internal/storage/memory"
	"gorm.io/gorm"
)

func createStorageBackend(storageCfg config.StorageConfig, log zerolog.Logger) (storage.Backend, error) {
	switch strings.ToLower(storageCfg.Type) {
	case "postgres":
		db, err := getDB(log)
		if err != nil {
			return nil, err
		}
		Logger.Info("GORM storage backend initialized", "dialect", db.Dialector.Name())
		return gormstore.New(db, log), nil

	case "sqlite":
		db, err := database.GetSqliteDB(storageCfg.SQLite.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
		}
		Logger.Info("SQLite storage backend initialized")
		return gormstore.New(db, log), nil

	case "memory", "":
		Logger.Info("Memory storage backend initialized")
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownType, storageCfg.Type)
	}
}

// getDB connects to the Postgres database, and if it fails, it will use a
// local SQLite DB in memory
func getDB(log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.GetPostgresDB(database.PostgresDSN(), log)
	if err == nil {
		return db, nil
	}

	SlogManager.WriteLog("getDB", "Failed to connect to Postgres DB, trying SQLite: "+err.Error(), "WARN")
	db, err = database.GetSqliteDB("", log)
	if err != nil {
		return nil, fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	return db, nil
}

// seedWaypoints imports the scenario's waypoints into an empty store.
func seedWaypoints(backend storage.Backend, owner string, scenario sim.Scenario) (int, error) {
	existing, err := backend.ListWaypoints(owner)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seeds, err := scenario.SeedWaypoints()
	if err != nil {
		return 0, err
	}
	for i := range seeds {
		if err := backend.CreateWaypoint(owner, &seeds[i], nil); err != nil {
			return i, err
		}
	}
	return len(seeds), nil
}
