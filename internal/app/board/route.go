package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.POST("/boards/check-access", authRequired, handler.CheckAccess)
	rg.GET("/boards/requirements", handler.ListRequirements)
}
