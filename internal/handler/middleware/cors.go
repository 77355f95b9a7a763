package middleware

import (
	"log/slog"

	"featured-slots/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the browser cross-origin filter from operator
// config. The pool API carries no cookies, so credentials stay off unless
// explicitly enabled.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	slog.Info("CORS configured",
		"allow_origins", cfg.AllowOrigins,
		"allow_credentials", cfg.AllowCredentials,
	)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
