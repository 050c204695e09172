package conversation

import (
	"NeuraFlow/controllers"
	"NeuraFlow/middleware"
	svc "NeuraFlow/pkg/services"
	tokenstore "NeuraFlow/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register registers the chat routes on g. Analyze is open to anonymous
// callers; everything else requires a token. byID also mounts GET /:id.
func Register(g *gin.RouterGroup, session *svc.Session, iss *tokenstore.Issuer, limiter *middleware.Limiter, byID bool, logger *zap.Logger) {
	ctrl := controllers.NewChatController(session, logger)

	analyze := []gin.HandlerFunc{middleware.OptionalAuth(iss)}
	if limiter != nil {
		analyze = append(analyze, limiter.RateLimit())
	}
	g.POST("/analyze", append(analyze, ctrl.Analyze)...)

	protected := g.Group("")
	protected.Use(middleware.AuthMiddleware(iss))
	protected.POST("/save", ctrl.Save)
	protected.GET("/history", ctrl.History)
	protected.GET("/conversation/:id", ctrl.GetConversation)
	if byID {
		protected.GET("/:id", ctrl.GetConversation)
	}
}
