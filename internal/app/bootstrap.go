package app

import (
	"backend/internal/app/auth"
	"backend/internal/app/board"
	"backend/internal/app/comment"
	"backend/internal/app/favorite"
	"backend/internal/app/health"
	"backend/internal/app/invitation"
	"backend/internal/app/topic"
	"backend/internal/app/user"
	"backend/internal/app/vote"
	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/db/seeder"
	"backend/internal/providers/geoip"
	"backend/internal/providers/minio"
	"backend/internal/providers/redis"
	"backend/internal/router"
	"backend/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)

	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider, avatar uploads disabled", zap.Error(err))
		minioProvider = nil
	}

	var geoProvider *geoip.Provider
	if cfg.GeoIPDBPath != "" {
		geoProvider, err = geoip.NewProvider(cfg.GeoIPDBPath, logger)
		if err != nil {
			logger.Warn("Failed to load GeoIP database, comment geo tags disabled", zap.Error(err))
			geoProvider = nil
		}
	}

	eventBus := utils.NewEventBus()

	userRepo := user.NewRepository(dbConn)
	inviteRepo := invitation.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	topicRepo := topic.NewRepository(dbConn)
	commentRepo := comment.NewRepository(dbConn)

	userService := user.NewService(userRepo, redisProvider, minioProvider, logger)
	inviteService := invitation.NewService(inviteRepo, userRepo, userService, cfg.LegacyAdminUsername, logger)
	boardService := board.NewService(boardRepo, cfg.LegacyAdminUsername)
	authService := auth.NewService(userRepo, userService, inviteService, dbConn, redisProvider, eventBus, cfg, logger)
	commentService := comment.NewService(commentRepo, userRepo, dbConn, geoProvider, eventBus, logger)
	topicService := topic.NewService(topicRepo, boardService, commentService, userRepo, userService, eventBus, cfg.DailyTopicLimit, logger)
	voteService := vote.NewService(dbConn, logger)
	favoriteService := favorite.NewService(dbConn)

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	authHandler := auth.NewHandler(authService, logger)
	userHandler := user.NewHandler(userService, logger)
	inviteHandler := invitation.NewHandler(inviteService, logger)
	boardHandler := board.NewHandler(boardService, userRepo, userService, logger)
	topicHandler := topic.NewHandler(topicService, logger)
	commentHandler := comment.NewHandler(commentService, logger)
	voteHandler := vote.NewHandler(voteService, logger)
	favoriteHandler := favorite.NewHandler(favoriteService, logger)

	r := router.NewRouter(logger, cfg.JWTSecret)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterAuthRoutes(authHandler)
	r.RegisterUserRoutes(userHandler)
	r.RegisterInvitationRoutes(inviteHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterTopicRoutes(topicHandler)
	r.RegisterCommentRoutes(commentHandler)
	r.RegisterVoteRoutes(voteHandler)
	r.RegisterFavoriteRoutes(favoriteHandler)
	r.RegisterSwaggerRoutes()

	// Registration and content events currently only feed the audit log.
	go func() {
		for event := range eventBus.SubscribeCh() {
			logger.Info("Event", zap.String("event", event.Event), zap.Any("data", event.Data))
		}
	}()

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
