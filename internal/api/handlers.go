package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wikiqa/internal/cache"
	"wikiqa/internal/config"
	"wikiqa/internal/qa"
)

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": gin.H{"message": msg}})
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"qa": gin.H{
				"backend":     cfg.QA.Backend,
				"model":       cfg.QA.Model,
				"model_type":  cfg.QA.ModelType,
				"n_best_size": cfg.QA.NBestSize,
			},
			"wikipedia": gin.H{
				"api_url":       cfg.Wikipedia.APIURL,
				"summary_chars": cfg.Wikipedia.SummaryChars,
			},
			"ui": cfg.UI,
		})
	}
}

// GET /api/status
func StatusHandler(b *qa.Breaker, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		out := gin.H{"breaker": nil, "cache": nil}
		if b != nil {
			out["breaker"] = b.Stats()
		}
		if sp, ok := c.(cache.StatsProvider); ok {
			out["cache"] = sp.Stats()
		}
		ctx.JSON(http.StatusOK, out)
	}
}
