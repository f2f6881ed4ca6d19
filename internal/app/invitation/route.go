package invitation

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.POST("/invitations/generate", authRequired, handler.Generate)
	rg.POST("/invitations/validate", handler.Validate)
	rg.GET("/invitations/my-codes", authRequired, handler.ListMine)
}
