package topic

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.GET("/topics", handler.List)
	rg.POST("/topics", authRequired, handler.Create)
	rg.POST("/topics/:id/analysis", authRequired, handler.StoreAnalysis)
	rg.POST("/topics/poll/vote", authRequired, handler.CastPollVote)
}
