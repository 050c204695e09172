package auth

import (
	"NeuraFlow/controllers"
	"NeuraFlow/middleware"
	tokenstore "NeuraFlow/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Register registers /register and /login, and the protected /logout.
func Register(g *gin.RouterGroup, db *gorm.DB, iss *tokenstore.Issuer, secureCookie bool, logger *zap.Logger) {
	ctrl := controllers.NewAuthController(db, iss, secureCookie, logger)
	g.POST("/register", ctrl.Register)
	g.POST("/login", ctrl.Login)
	g.POST("/logout", middleware.AuthMiddleware(iss), ctrl.Logout)
}
