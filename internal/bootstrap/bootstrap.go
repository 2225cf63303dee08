// Package bootstrap assembles the Coldsweat web application from its
// configuration. Building it has no side effects on the process streams;
// serving it is left to the caller.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	rediscache "github.com/Yathushan/coldsweat/internal/infrastructure/cache/redis"
	"github.com/Yathushan/coldsweat/internal/infrastructure/fetcher"
	natspub "github.com/Yathushan/coldsweat/internal/infrastructure/messaging/nats"
	"github.com/Yathushan/coldsweat/internal/infrastructure/metrics"
	"github.com/Yathushan/coldsweat/internal/infrastructure/persistence/sqlstore"
	"github.com/Yathushan/coldsweat/internal/infrastructure/session"
	httpiface "github.com/Yathushan/coldsweat/internal/interfaces/http"
	"github.com/Yathushan/coldsweat/internal/interfaces/http/middleware"
	"github.com/Yathushan/coldsweat/pkg/config"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

// StaticURL is where pages load their stylesheets, scripts and images from.
// It may be a root path ("/static"), a subdirectory ("/coldsweat/static") or
// an absolute URL ("http://media.example.com/static"), never with a trailing
// slash. STATIC_URL overrides it.
const StaticURL = "/static"

// Version is reported on the about page.
var Version = "dev"

// Options carry the pieces only the standalone server uses.
type Options struct {
	Metrics      *metrics.Metrics
	LoginLimiter func(http.Handler) http.Handler
}

// Application is the assembled web application.
type Application struct {
	// Handler is the exception-guarded application, ready to be served.
	Handler http.Handler
	Store   *sqlstore.Store

	closers []func() error
}

// New builds the application for a single CGI request.
func New(cfg *config.Config, log *logger.Logger) (*Application, error) {
	return NewWithOptions(context.Background(), cfg, log, Options{})
}

func NewWithOptions(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*Application, error) {
	staticURL := StaticURL
	if cfg.App.StaticURL != "" {
		staticURL = cfg.App.StaticURL
	}
	if err := config.ValidateStaticURL(staticURL); err != nil {
		return nil, err
	}

	if err := EnsureDataDir(cfg.Database); err != nil {
		return nil, err
	}

	store, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app := &Application{Store: store}
	app.closers = append(app.closers, store.Close)

	credentials := service.NewCredentials()
	createUser := usecase.NewCreateUserUseCase(store, credentials, log)
	if cfg.Database.AutoMigrate {
		if _, err := usecase.NewSetupUseCase(store, createUser, log).Execute(ctx, false); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	var cache port.Cache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			// Stats are only cached, never stored in Redis.
			log.Warn("Redis unavailable, stats will not be cached", "error", err.Error())
		} else {
			cache = redisCache
			app.closers = append(app.closers, redisCache.Close)
		}
	}

	var publisher port.EventPublisher = natspub.NewNoopPublisher(log)
	if cfg.NATS.Enabled {
		natsPublisher, err := natspub.NewNATSPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Warn("NATS unavailable, feed events will be dropped", "error", err.Error())
		} else {
			publisher = natsPublisher
			app.closers = append(app.closers, natsPublisher.Close)
		}
	}

	sessionStore := session.NewDBStore(store, cfg.App.SessionMaxAge, []byte(cfg.App.SessionSecret))
	sessionStore.Options.Secure = cfg.App.SecureCookies

	marker := usecase.NewMarkEntryUseCase(store, cache, log)
	inner := httpiface.NewColdsweatApp(staticURL, httpiface.Deps{
		ListEntries:  usecase.NewListEntriesUseCase(store, store, log),
		ShowEntry:    usecase.NewShowEntryUseCase(store, store, marker),
		MarkEntry:    marker,
		MarkAllRead:  usecase.NewMarkAllReadUseCase(store, cache, log),
		ListFeeds:    usecase.NewListFeedsUseCase(store),
		ShowFeed:     usecase.NewShowFeedUseCase(store),
		AddFeed:      usecase.NewAddFeedUseCase(store, fetcher.NewHTTPChecker(cfg.App.CheckTimeout, cfg.App.UserAgent), publisher, cache, cfg.NATS.Subject, log),
		Authenticate: usecase.NewAuthenticateUseCase(store, credentials, log),
		GetStats:     usecase.NewGetStatsUseCase(store, cache, log),
		Sessions:     sessionStore,
		Metrics:      opts.Metrics,
		LoginLimiter: opts.LoginLimiter,
		Version:      Version,
		Logger:       log,
	})

	app.Handler = guard(inner, cfg.App.Debug, opts.Metrics, log)
	return app, nil
}

// EnsureDataDir creates the directory holding the SQLite database file.
func EnsureDataDir(db config.DatabaseConfig) error {
	if db.Engine != config.EngineSQLite {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(db.Filename), 0o750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// guard wraps app in the exception middleware.
func guard(app http.Handler, debug bool, m *metrics.Metrics, log *logger.Logger) http.Handler {
	return middleware.Exception(log, middleware.ExceptionOptions{
		Debug:   debug,
		OnPanic: m.PanicRecovered,
	})(app)
}

// PurgeSessions deletes expired web sessions.
func (a *Application) PurgeSessions(ctx context.Context) (int64, error) {
	return a.Store.DeleteExpiredSessions(ctx, time.Now().UTC())
}

// Close releases the database and broker connections in reverse order.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
