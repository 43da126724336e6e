package server

import (
	"github.com/M4ts99/friendspo-sub000/internal/auth"
	"github.com/M4ts99/friendspo-sub000/internal/config"
	"github.com/M4ts99/friendspo-sub000/internal/leaderboard"
	"github.com/M4ts99/friendspo-sub000/internal/league"
	"github.com/M4ts99/friendspo-sub000/internal/session"
	"github.com/M4ts99/friendspo-sub000/internal/social"
	"github.com/M4ts99/friendspo-sub000/internal/stats"
	"github.com/M4ts99/friendspo-sub000/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	sessionSvc := session.NewService(s.DB, s.Stream)
	statsSvc := stats.NewService(sessionSvc, stats.Windows{
		HistoryLimit:         s.Cfg.StatsHistoryLimit,
		StreakDays:           s.Cfg.StreakWindowDays,
		RegularitySampleSize: s.Cfg.RegularitySampleSize,
	})
	socialSvc := social.NewService(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	session.RegisterRoutes(s.App.Group("/sessions"), sessionSvc, jwtMiddleware)
	stats.RegisterRoutes(s.App.Group("/stats"), statsSvc, jwtMiddleware)
	social.RegisterRoutes(s.App.Group("/social"), socialSvc, jwtMiddleware)
	league.RegisterRoutes(s.App.Group("/leagues"), league.NewService(s.DB), jwtMiddleware)
	leaderboard.RegisterRoutes(s.App.Group("/leaderboards"), leaderboard.NewService(s.DB, statsSvc, socialSvc), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
