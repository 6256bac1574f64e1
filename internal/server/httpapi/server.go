// Package httpapi exposes the FieldKeeper services over a JSON HTTP API.
// Handlers validate input, call into the service layer, and translate
// sentinel errors into HTTP status codes; they hold no business logic of
// their own.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/fieldkeeper/internal/logging"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/config"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/services"
)

// shutdownTimeout bounds how long in-flight requests may run once the
// server has been asked to stop.
const shutdownTimeout = 5 * time.Second

type authSvc interface {
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ToUserResponse(u *models.User) *models.UserResponse
}

type photoSvc interface {
	Save(ctx context.Context, originalFilename, contentType string, data []byte, metadata models.JSONMap) (*models.Photo, error)
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	Open(ctx context.Context, photo *models.Photo) (io.ReadCloser, error)
}

type collectionSvc interface {
	Create(ctx context.Context, userID int64, in services.CreateCollectionInput) (*models.DataCollection, error)
	GetByID(ctx context.Context, id int64) (*models.DataCollection, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.DataCollection, error)
	MarkSynchronized(ctx context.Context, id int64, synchronized bool, syncError *string) error
	DashboardStats(ctx context.Context, userID int64) (*models.DashboardStats, error)
}

type sessionSvc interface {
	Create(ctx context.Context, userID int64) (*models.Session, error)
	Refresh(ctx context.Context, token string) (*models.Session, error)
	Destroy(ctx context.Context, token string) error
}

type HTTPServer struct {
	address       string
	logger        logging.Logger
	auth          authSvc
	photos        photoSvc
	collections   collectionSvc
	sessions      sessionSvc
	db            *sql.DB
	rdb           *redis.Client
	jwtSecret     []byte
	tokenValidity time.Duration
	rateLimit     int
	rateWindow    time.Duration
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, a authSvc, p photoSvc, c collectionSvc, sess sessionSvc, db *sql.DB, rdb *redis.Client) *HTTPServer {
	return &HTTPServer{
		address:       cfg.EndpointAddrHTTP,
		logger:        l.With("module", "http_server"),
		auth:          a,
		photos:        p,
		collections:   c,
		sessions:      sess,
		db:            db,
		rdb:           rdb,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
		rateLimit:     cfg.LoginRateLimit,
		rateWindow:    cfg.LoginRateWindow,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation in-flight requests get shutdownTimeout
// to complete.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
