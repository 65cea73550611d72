// Command bookshelf-api serves the books HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/drallgood/bookshelf-api/internal/api"
	"github.com/drallgood/bookshelf-api/internal/books"
	"github.com/drallgood/bookshelf-api/internal/config"
	"github.com/drallgood/bookshelf-api/internal/logger"
	"github.com/drallgood/bookshelf-api/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Get().Error("Application failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "bookshelf-api",
		Usage:   "Serve the bookshelf HTTP API",
		Version: fmt.Sprintf("%s (%s) %s", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "storage-driver",
				Usage:   "Storage driver (json, yaml, sqlite, postgresql, mysql, mariadb)",
				EnvVars: []string{"STORAGE_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "storage-path",
				Usage:   "Path of the book file or sqlite database",
				EnvVars: []string{"STORAGE_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "Add sample books to the configured store",
				Action: seed,
			},
		},
	}
}

// loadConfig reads the configuration file and environment, then applies
// any flags set on the command line
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.IsSet("storage-driver") {
		cfg.Storage.Driver = config.ParseStorageDriver(c.String("storage-driver"))
	}
	if c.IsSet("storage-path") {
		cfg.Storage.Path = c.String("storage-path")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Setup(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     logger.ParseLogFormat(cfg.Logging.Format),
		TimeFormat: time.RFC3339,
	})
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.Get()

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := books.NewRepository(store, log)
	srv := server.New(cfg, api.NewHandler(repo, log), log)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Info("Server started", map[string]interface{}{
		"version": version,
		"addr":    srv.Addr(),
		"storage": string(cfg.Storage.Driver),
	})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped", nil)
	return nil
}

func seed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.Get()

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	ids, err := seedBooks(c.Context, books.NewRepository(store, log))
	if err != nil {
		return err
	}

	log.Info("Seeded books", map[string]interface{}{
		"count":   len(ids),
		"storage": string(cfg.Storage.Driver),
	})
	return nil
}

func seedBooks(ctx context.Context, repo *books.Repository) ([]string, error) {
	ids := make([]string, 0, len(books.SeedData()))
	for _, p := range books.SeedData() {
		book, err := repo.Create(ctx, p)
		if err != nil {
			return ids, fmt.Errorf("failed to seed %q: %w", p.Name, err)
		}
		ids = append(ids, book.ID)
	}
	return ids, nil
}
