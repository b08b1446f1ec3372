package server

import (
	"context"
	"time"

	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/auth"
	"github.com/cj-tomlin/skate-project/internal/cache"
	"github.com/cj-tomlin/skate-project/internal/config"
	"github.com/cj-tomlin/skate-project/internal/parks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Cache *cache.Accessor
	Log   *zap.Logger
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "skate-api",
		ErrorHandler: apperr.Handler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Cache: cache.FromConfig(cfg, redisClient, log),
		Log:   log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		if s.DB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()
			if err := s.DB.Ping(ctx); err != nil {
				return apperr.Unavailable(err, "database unavailable")
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.Cfg.AccessTokenTTL, s.DB)
	jwtMiddleware := auth.JWTMiddleware(authSvc)
	parkSvc := parks.NewService(
		parks.NewRepository(s.DB, s.Cfg.MaxPageSize),
		s.Cache,
		s.Cfg.DefaultPageSize,
		s.Cfg.MaxPageSize,
	)

	api := s.App.Group("/api/v1")
	auth.RegisterRoutes(api.Group("/auth"), authSvc, jwtMiddleware)
	auth.RegisterUserRoutes(api.Group("/users"), authSvc, jwtMiddleware)
	parks.RegisterRoutes(api.Group("/parks"), parkSvc, jwtMiddleware)
	parks.RegisterFeatureRoutes(api.Group("/features"), parkSvc, jwtMiddleware)
}
