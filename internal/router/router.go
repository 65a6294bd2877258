package router

import (
	"github.com/gin-gonic/gin"
	"github.com/user/celluloid/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 搜索 API ====================
	api := r.Group("/api")
	{
		api.POST("/search", h.SearchFilms)
		api.POST("/color-search", h.ColorSearch)
		api.POST("/word-search", h.WordSearch)

		api.POST("/films", h.UpsertFilm)
		api.GET("/films/:id/similar", h.SimilarFilms)
		api.POST("/films/fetch-meta", h.FetchMeta)
		api.GET("/trending", h.Trending)
	}
}
