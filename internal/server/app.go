// Package server wires the FieldKeeper server together: configuration,
// logging, database and Redis connections, photo blob storage, services,
// and the HTTP API, with signal-driven graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fieldkeeper/internal/logging"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/config"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/services"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/storage"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	rdb               *redis.Client
	authService       *services.AuthService
	photoService      *services.PhotoService
	collectionService *services.CollectionService
	sessionService    *services.SessionService
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})

	blobs, err := newBlobStore(c)
	if err != nil {
		return nil, fmt.Errorf("blob storage init error: %w", err)
	}

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		rdb:               rdb,
		authService:       services.NewAuthService(db, rm),
		photoService:      services.NewPhotoService(db, rm, blobs, logger),
		collectionService: services.NewCollectionService(db, rm),
		sessionService:    services.NewSessionService(rdb, c.SessionValidityDuration),
	}, nil
}

// newBlobStore picks the photo blob backend from config. Disk is the
// default; "s3" points at an S3-compatible endpoint such as MinIO.
func newBlobStore(c *config.Config) (storage.BlobStore, error) {
	switch c.PhotoStorage {
	case "s3":
		return storage.NewS3Store(storage.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		}), nil
	case "disk", "":
		return storage.NewDiskStore(c.UploadDir)
	default:
		return nil, fmt.Errorf("unknown photo storage backend %q", c.PhotoStorage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config, app.logger,
		app.authService, app.photoService, app.collectionService, app.sessionService,
		app.db, app.rdb)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if app.config.SeedDemoData {
		if err := services.SeedDemoUsers(ctx, app.authService, app.logger); err != nil {
			app.logger.Error(ctx, "seeding demo users", "error", err)
		}
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error(ctx, "closing redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}
