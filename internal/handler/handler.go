package handler

import (
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/repository"
	"github.com/user/celluloid/internal/service"
	"github.com/user/celluloid/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos   *repository.Repositories
	Config  *config.Config
	Search  *service.SearchService
	Color   *service.ColorService
	Word    *service.WordService
	Fetcher *service.LetterboxdFetcher
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 上游客户端
	llm := utils.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	embedder := utils.NewEmbeddingClient(cfg.OpenAIAPIKey)

	// 搜索类服务
	classifier := service.NewClassifierService(llm)
	searchSvc := service.NewSearchService(repos.Film, llm, embedder, classifier, cfg.Search)
	colorSvc := service.NewColorService(repos.Film, cfg.Search)
	wordSvc := service.NewWordService(repos.Film, llm, embedder, cfg.Search)

	return &Handler{
		Repos:   repos,
		Config:  cfg,
		Search:  searchSvc,
		Color:   colorSvc,
		Word:    wordSvc,
		Fetcher: service.NewLetterboxdFetcher(),
	}
}
