package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what NewRouter wires together
type RouterConfig struct {
	Legal    *LegalHandler
	Audio    *AudioHandler
	Identity *Identity
	Gatherer prometheus.Gatherer // Optional; /metrics is not mounted when nil

	// MaxUploadBytes caps upload request bodies, plus room for the other
	// form fields. 0 leaves them uncapped.
	MaxUploadBytes int64
}

// NewRouter registers all routes on a new engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	registerRoutes(r, cfg)
	return r
}

func registerRoutes(r *gin.Engine, cfg RouterConfig) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/static/audio/:name", cfg.Audio.Serve)

	api := r.Group("/api")
	api.Use(cfg.Identity.Middleware())
	{
		uploadLimit := MaxBodySize(0)
		if cfg.MaxUploadBytes > 0 {
			uploadLimit = MaxBodySize(cfg.MaxUploadBytes + multipartOverhead)
		}

		api.POST("/verdict", uploadLimit, cfg.Legal.Verdict)

		api.POST("/chat", cfg.Legal.Chat)
		api.POST("/assistant", cfg.Legal.Assistant)
		api.GET("/chat/history", cfg.Legal.History)

		api.POST("/voice-chat", cfg.Legal.Voice)
		api.POST("/voice-file", uploadLimit, cfg.Legal.VoiceFile)

		api.POST("/feedback", cfg.Legal.Feedback)

		admin := api.Group("/admin")
		admin.Use(RequireRole(RoleAdmin))
		{
			admin.GET("/cases", cfg.Legal.RecentCases)
			admin.GET("/feedback", cfg.Legal.RecentFeedback)
		}
	}
}
