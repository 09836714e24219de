package api

import (
	"net/http"

	"inboxmind-backend/internal/auth/delivery"
	authUsecase "inboxmind-backend/internal/auth/usecase"
	emailDelivery "inboxmind-backend/internal/email/delivery"
	emailUsecase "inboxmind-backend/internal/email/usecase"
	"inboxmind-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, emailUc emailUsecase.EmailUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc, cfg)
	emailHandler := emailDelivery.NewEmailHandler(emailUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.GET("/google/login", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(delivery.AuthMiddleware(authUc))
		{
			emails.POST("", emailHandler.CreateEmail)
			emails.GET("", emailHandler.ListEmails)
			emails.GET("/analytics", emailHandler.Analytics)
			emails.GET("/digest", emailHandler.Digest)
			emails.PATCH("/:id/type", emailHandler.OverrideType)
			emails.DELETE("/:id", emailHandler.DeleteEmail)
			emails.POST("/reclassify", emailHandler.Reclassify)
			emails.POST("/summarize", emailHandler.Summarize)
			emails.POST("/sync", emailHandler.SyncGmail)
			emails.POST("/sync/imap", emailHandler.SyncIMAP)
		}
	}
}
