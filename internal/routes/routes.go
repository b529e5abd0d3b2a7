package routes

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/paynova/console/internal/authapi"
	"github.com/paynova/console/internal/authflow"
	"github.com/paynova/console/internal/config"
	"github.com/paynova/console/internal/dashboard"
	"github.com/paynova/console/internal/middleware"
	"github.com/paynova/console/internal/session"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. The session store
// is restored here, before any guarded route is registered, so a guard never
// runs against unknown session state.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	storage, err := selectStorage(d)
	if err != nil {
		return err
	}

	store := session.NewStore(storage)
	if err := store.Load(context.Background()); err != nil {
		// Storage trouble degrades to a logged-out console, never a crash.
		d.Logger.Warn("session restore failed, starting unauthenticated", "error", err)
	}

	api := authapi.New(d.Cfg.AuthAPIURL, d.Cfg.AuthAPITimeout)
	ctrl := authflow.NewController(api, store)
	authHandler := authflow.NewHandler(ctrl, store)
	dashHandler := dashboard.NewHandler()

	v1 := app.Group("/api/v1")

	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit)
	RegisterAuthRoutes(v1, authHandler, rateLimiter)

	protected := v1.Group("", middleware.RequireSession(store))
	protected.Get("/me", authHandler.Me)
	RegisterDashboardRoutes(protected, middleware.RequireVerified(store), dashHandler)

	return nil
}

// selectStorage picks the durable backend: Postgres when a pool is wired,
// Redis when a cache is wired, otherwise a JSON file under the config dir.
func selectStorage(d Deps) (session.Storage, error) {
	switch {
	case d.DB != nil:
		return session.NewPostgresStorage(d.DB), nil
	case d.Cache != nil:
		return session.NewRedisStorage(d.Cache), nil
	default:
		fs, err := session.NewFileStorage(d.Cfg.SessionFile)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}
