package main

import (
	"fmt"

	"github.com/drallgood/bookshelf-api/internal/books"
	"github.com/drallgood/bookshelf-api/internal/config"
	"github.com/drallgood/bookshelf-api/internal/database"
	"github.com/drallgood/bookshelf-api/internal/filestore"
	"github.com/drallgood/bookshelf-api/internal/logger"
)

// openStore builds the Store selected by cfg.Storage.Driver. The returned
// close function releases any held connections.
func openStore(cfg *config.Config, log *logger.Logger) (books.Store, func(), error) {
	if cfg.Storage.Driver.IsFile() {
		format := filestore.FormatJSON
		if cfg.Storage.Driver == config.DriverYAML {
			format = filestore.FormatYAML
		}
		store := filestore.New(cfg.Storage.Path, format, log)
		log.Info("Using file store", map[string]interface{}{
			"path":   store.Path(),
			"format": string(format),
		})
		return store, func() {}, nil
	}

	dbCfg, err := database.ConfigFromApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDatabase(dbCfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return database.NewStore(db), closeDB, nil
}
