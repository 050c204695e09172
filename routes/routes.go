package routes

import (
	"net/http"

	"NeuraFlow/middleware"
	svc "NeuraFlow/pkg/services"
	tokenstore "NeuraFlow/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authRoutes "NeuraFlow/routes/auth"
	convRoutes "NeuraFlow/routes/conversation"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	DB           *gorm.DB
	Issuer       *tokenstore.Issuer
	Session      *svc.Session
	Limiter      *middleware.Limiter
	SecureCookie bool
	Logger       *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "NeuraFlow chat backend running"})
	})

	authRoutes.Register(r.Group("/api/auth"), d.DB, d.Issuer, d.SecureCookie, d.Logger)

	convRoutes.Register(r.Group("/"), d.Session, d.Issuer, d.Limiter, false, d.Logger)
	convRoutes.Register(r.Group("/api/chat"), d.Session, d.Issuer, d.Limiter, true, d.Logger)
}
