package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/celluloid/internal/utils"
)

// FetchMetaRequest 抓取电影元数据请求
type FetchMetaRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Trending 热门搜索词
// GET /api/trending
func (h *Handler) Trending(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if hours <= 0 || hours > 720 {
		hours = 24
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	queries, err := h.Repos.SearchLog.GetTrending(hours, limit)
	if err != nil {
		log.Printf("[Handler] 热门搜索查询失败: %v", err)
		utils.InternalServerError(c, "热门搜索查询失败")
		return
	}

	utils.Success(c, queries)
}

// FetchMeta 从 Letterboxd 抓取电影元数据
// POST /api/films/fetch-meta
func (h *Handler) FetchMeta(c *gin.Context) {
	var req FetchMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "url 参数非法")
		return
	}

	meta, err := h.Fetcher.FetchMeta(c.Request.Context(), req.URL)
	if err != nil {
		log.Printf("[Handler] 元数据抓取失败: %v", err)
		utils.Error(c, http.StatusBadGateway, "元数据抓取失败")
		return
	}

	utils.Success(c, meta)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "site": h.Config.SiteName})
}
