package comment

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.POST("/comments", authRequired, handler.Create)
}
