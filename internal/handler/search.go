package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/celluloid/internal/utils"
)

// SearchRequest 自然语言搜索请求
type SearchRequest struct {
	UserInput string `json:"userInput" binding:"required"`
	Limit     int    `json:"limit" binding:"omitempty,min=1,max=50"`
}

// ColorSearchRequest 色彩搜索请求
// color 模式需要 color；palette 模式需要 movieId 或 hexCodes 二选一
type ColorSearchRequest struct {
	SearchType string `json:"searchType" binding:"required,oneof=color palette"`
	Color      string `json:"color" binding:"omitempty,hexcolor"`
	MovieID    int    `json:"movieId" binding:"omitempty,min=1"`
	HexCodes   string `json:"hexCodes" binding:"omitempty,hexlist"`
}

// WordSearchRequest 标签搜索请求
type WordSearchRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1,max=7,dive,min=1"`
}

// SearchFilms 自然语言搜索
// POST /api/search
func (h *Handler) SearchFilms(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SearchError(c, http.StatusBadRequest, "userInput 不能为空")
		return
	}

	outcome, err := h.Search.Search(c.Request.Context(), req.UserInput, req.Limit)
	if err != nil {
		log.Printf("[Handler] 搜索失败: %v", err)
		utils.SearchError(c, http.StatusInternalServerError, "搜索失败")
		return
	}

	// 搜索日志异步落库，失败不影响响应
	ipHash := utils.HashIP(c.ClientIP())
	go func() {
		if err := h.Repos.SearchLog.Log(req.UserInput, outcome.QueryInfo.SearchType, len(outcome.Results), ipHash); err != nil {
			log.Printf("[Handler] 搜索日志写入失败: %v", err)
		}
	}()

	utils.SearchSuccess(c, outcome.Results, gin.H{
		"query_info": outcome.QueryInfo,
	})
}

// ColorSearch 色彩搜索
// POST /api/color-search
func (h *Handler) ColorSearch(c *gin.Context) {
	var req ColorSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SearchError(c, http.StatusBadRequest, "请求参数非法")
		return
	}

	switch req.SearchType {
	case "color":
		if req.Color == "" {
			utils.SearchError(c, http.StatusBadRequest, "color 模式需要 color 参数")
			return
		}
		results, err := h.Color.SearchByColor(c.Request.Context(), req.Color)
		if err != nil {
			log.Printf("[Handler] 单色搜索失败: %v", err)
			utils.SearchError(c, http.StatusInternalServerError, "色彩搜索失败")
			return
		}
		utils.SearchSuccess(c, results, nil)

	case "palette":
		if req.MovieID == 0 && req.HexCodes == "" {
			utils.SearchError(c, http.StatusBadRequest, "palette 模式需要 movieId 或 hexCodes")
			return
		}
		results, err := h.Color.SearchByPalette(c.Request.Context(), req.MovieID, req.HexCodes)
		if err != nil {
			log.Printf("[Handler] 色板搜索失败: %v", err)
			utils.SearchError(c, http.StatusInternalServerError, "色彩搜索失败")
			return
		}
		utils.SearchSuccess(c, results, nil)
	}
}

// WordSearch 标签搜索
// POST /api/word-search
func (h *Handler) WordSearch(c *gin.Context) {
	var req WordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SearchError(c, http.StatusBadRequest, "keywords 需要 1-7 个非空标签")
		return
	}

	results, err := h.Word.Search(c.Request.Context(), req.Keywords)
	if err != nil {
		log.Printf("[Handler] 标签搜索失败: %v", err)
		utils.SearchError(c, http.StatusInternalServerError, "标签搜索失败")
		return
	}

	utils.SearchSuccess(c, results, nil)
}

// SimilarFilms 相似电影
// GET /api/films/:id/similar
func (h *Handler) SimilarFilms(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "电影 ID 非法")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	results, err := h.Search.SimilarToFilm(c.Request.Context(), id, limit)
	if err != nil {
		log.Printf("[Handler] 相似电影查询失败: %v", err)
		utils.InternalServerError(c, "相似电影查询失败")
		return
	}

	utils.Success(c, results)
}
