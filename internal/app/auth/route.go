package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler, authRequired gin.HandlerFunc) {
	rg.POST("/auth/register", handler.Register)
	rg.POST("/auth/login", handler.Login)
	rg.GET("/auth/me", authRequired, handler.Me)
	rg.GET("/auth/registration-status", handler.RegistrationStatus)
}
