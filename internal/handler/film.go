package handler

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
)

// FilmUpsertRequest 电影美学档案写入请求
type FilmUpsertRequest struct {
	ID               int      `json:"id" binding:"omitempty,min=1"`
	Title            string   `json:"title" binding:"required"`
	Year             int      `json:"year" binding:"required,min=1888,max=2100"`
	AestheticSummary string   `json:"aesthetic_summary" binding:"required"`
	Synopsis         string   `json:"synopsis"`
	DepictedDecade   string   `json:"depicted_decade"`
	HexCodes         string   `json:"hex_codes" binding:"omitempty,hexlist"`
	Moods            []string `json:"moods"`
	LetterboxdLink   string   `json:"letterboxd_link" binding:"omitempty,url"`
}

// UpsertFilm 创建或更新电影档案
// POST /api/films
// 写入后 embedding 置空，等待回填任务按新的美学描述重新计算
func (h *Handler) UpsertFilm(c *gin.Context) {
	var req FilmUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "电影档案字段非法")
		return
	}

	film := &model.Film{
		ID:               req.ID,
		Title:            req.Title,
		Year:             req.Year,
		AestheticSummary: req.AestheticSummary,
		Synopsis:         req.Synopsis,
		DepictedDecade:   req.DepictedDecade,
		HexCodes:         req.HexCodes,
		Moods:            req.Moods,
		LetterboxdLink:   req.LetterboxdLink,
	}

	if err := h.Repos.Film.Upsert(film); err != nil {
		log.Printf("[Handler] 电影档案写入失败: %v", err)
		utils.InternalServerError(c, "电影档案写入失败")
		return
	}

	utils.Success(c, gin.H{"id": film.ID})
}
