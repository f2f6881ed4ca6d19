package favorite

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.POST("/favorite", authRequired, handler.Toggle)
}
