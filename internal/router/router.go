package router

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
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	Engine       *gin.Engine
	authRequired gin.HandlerFunc
}

func NewRouter(logger *zap.Logger, jwtSecret string) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{
		Engine:       engine,
		authRequired: middleware.AuthRequired(jwtSecret),
	}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterAuthRoutes(handler auth.Handler) {
	auth.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterInvitationRoutes(handler invitation.Handler) {
	invitation.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterTopicRoutes(handler topic.Handler) {
	topic.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterCommentRoutes(handler comment.Handler) {
	comment.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterVoteRoutes(handler vote.Handler) {
	vote.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterFavoriteRoutes(handler favorite.Handler) {
	favorite.RegisterRoutes(r.Engine.Group("/api"), handler, r.authRequired)
}

func (r *Router) RegisterSwaggerRoutes() {
	r.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
