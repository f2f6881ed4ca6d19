package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.GET("/users/:id", handler.GetProfile)
	rg.POST("/users/avatar", authRequired, handler.UploadAvatar)
}
