package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
	"golang.org/x/sync/singleflight"
)

// 关键词生成也失败时的兜底描述
const (
	fallbackCrimeKeywords   = "moody noir lighting, rain-slicked streets, smoke-filled interiors, deep shadows and amber streetlights"
	fallbackDefaultKeywords = "cinematic atmosphere, evocative lighting, rich color palette, painterly composition"
)

// SearchOutcome 一次搜索的结果与裁定摘要
type SearchOutcome struct {
	Results   []model.FilmResult `json:"results"`
	QueryInfo model.QueryInfo    `json:"query_info"`
}

// SearchService 搜索编排：路由到向量 / 主题 / 混合检索，并处理兜底链
type SearchService struct {
	films      FilmStore
	llm        LLMClient
	embedder   Embedder
	classifier *ClassifierService
	cfg        config.SearchConfig
	sf         singleflight.Group
	outcomes   *utils.SearchCache[SearchOutcome]
}

// NewSearchService 创建搜索服务
func NewSearchService(films FilmStore, llm LLMClient, embedder Embedder, classifier *ClassifierService, cfg config.SearchConfig) *SearchService {
	return &SearchService{
		films:      films,
		llm:        llm,
		embedder:   embedder,
		classifier: classifier,
		cfg:        cfg,
		outcomes:   utils.NewSearchCache[SearchOutcome](500, 5*time.Minute),
	}
}

// Search 自然语言搜索入口
// 1. 分类器裁定检索类型
// 2. 按类型路由，主题结果不足时走兜底链
// 3. 同词请求用 singleflight 合并，结果短 TTL 缓存
func (s *SearchService) Search(ctx context.Context, userInput string, limit int) (*SearchOutcome, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	key := fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(userInput)), limit)
	if cached, found := s.outcomes.Get(key); found {
		return &cached, nil
	}

	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		outcome, err := s.doSearch(ctx, userInput, limit)
		if err != nil {
			return nil, err
		}
		s.outcomes.Set(key, *outcome)
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*SearchOutcome), nil
}

func (s *SearchService) doSearch(ctx context.Context, userInput string, limit int) (*SearchOutcome, error) {
	verdict, err := s.classifier.Classify(ctx, userInput)
	if err != nil {
		return nil, err
	}

	info := model.QueryInfo{
		SearchType:        verdict.SearchType,
		AestheticKeywords: verdict.AestheticKeywords,
		Confidence:        verdict.Confidence,
	}

	var results []model.FilmResult
	switch verdict.SearchType {
	case model.SearchTypeAesthetic:
		keywords := verdict.AestheticKeywords
		if keywords == "" {
			keywords = userInput
		}
		results, err = s.AestheticSearch(ctx, keywords, limit)

	case model.SearchTypeThematic:
		results, err = s.thematicWithFallback(ctx, verdict, limit, &info)

	case model.SearchTypeHybrid:
		results, err = s.HybridSearch(ctx, verdict.AestheticKeywords, verdict.RecommendedMovies, limit, &info)
	}
	if err != nil {
		return nil, err
	}

	return &SearchOutcome{Results: results, QueryInfo: info}, nil
}

// AestheticSearch 美学检索：关键词 → 向量 → 近邻查询
// 按 limit 的倍数取候选再截断；零结果不是错误
func (s *SearchService) AestheticSearch(ctx context.Context, keywords string, limit int) ([]model.FilmResult, error) {
	if strings.TrimSpace(keywords) == "" {
		return []model.FilmResult{}, nil
	}

	emb, err := s.embedder.GenerateEmbedding(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("生成查询向量失败: %w", err)
	}

	scored, err := s.films.SearchByEmbedding(pgvector.NewVector(emb), s.cfg.SimilarityThreshold, limit*s.cfg.CandidateMultiplier)
	if err != nil {
		return nil, fmt.Errorf("向量检索失败: %w", err)
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]model.FilmResult, 0, len(scored))
	for _, sf := range scored {
		results = append(results, model.NewFilmResult(sf.Film, sf.Similarity))
	}
	return results, nil
}

// ThematicSearch 主题检索：候选影片列表 → (片名模糊 AND 年份) OR 组合查询
// 列表为空直接返回空，不发查询
func (s *SearchService) ThematicSearch(ctx context.Context, movies []model.RecommendedFilm, limit int) ([]model.FilmResult, error) {
	if len(movies) == 0 {
		return []model.FilmResult{}, nil
	}

	films, err := s.films.FindByTitleYear(movies, limit*s.cfg.ThematicMultiplier)
	if err != nil {
		return nil, fmt.Errorf("主题检索失败: %w", err)
	}

	if len(films) > limit {
		films = films[:limit]
	}

	results := make([]model.FilmResult, 0, len(films))
	for _, f := range films {
		results = append(results, model.NewFilmResult(f, 1.0))
	}
	return results, nil
}

// thematicSufficient 纯主题检索的结果量是否足够
// 不足时触发兜底关键词生成（阈值与混合检索的接受阈值是两回事）
func (s *SearchService) thematicSufficient(count, limit int) bool {
	floor := s.cfg.ThematicMinFloor
	ratioMin := int(s.cfg.ThematicMinRatio * float64(limit))
	min := floor
	if ratioMin > min {
		min = ratioMin
	}
	return count >= min
}

// thematicWithFallback 主题检索，结果不足时生成兜底关键词转美学检索
func (s *SearchService) thematicWithFallback(ctx context.Context, verdict *model.QueryClassification, limit int, info *model.QueryInfo) ([]model.FilmResult, error) {
	results, err := s.ThematicSearch(ctx, verdict.RecommendedMovies, limit)
	if err != nil {
		return nil, err
	}

	if s.thematicSufficient(len(results), limit) {
		return results, nil
	}

	log.Printf("[SearchService] 主题检索结果不足 (%d/%d)，转美学兜底", len(results), limit)
	keywords := verdict.AestheticKeywords
	if keywords == "" {
		keywords = s.FallbackKeywords(ctx, verdict.RecommendedMovies)
	}
	info.FallbackUsed = true
	info.AestheticKeywords = keywords
	return s.AestheticSearch(ctx, keywords, limit)
}

// HybridSearch 混合检索：有候选影片先走主题检索，
// 结果达到 limit×HybridAcceptRatio（含边界）直接采用，否则弃掉转美学检索
func (s *SearchService) HybridSearch(ctx context.Context, keywords string, movies []model.RecommendedFilm, limit int, info *model.QueryInfo) ([]model.FilmResult, error) {
	if len(movies) > 0 {
		thematic, err := s.ThematicSearch(ctx, movies, limit)
		if err != nil {
			return nil, err
		}
		if float64(len(thematic)) >= s.cfg.HybridAcceptRatio*float64(limit) {
			return thematic, nil
		}
		log.Printf("[SearchService] 混合检索：主题结果 %d 条未达标，转美学检索", len(thematic))
		if info != nil {
			info.FallbackUsed = true
		}
	}

	if keywords == "" {
		keywords = s.FallbackKeywords(ctx, movies)
		if info != nil {
			info.AestheticKeywords = keywords
		}
	}
	return s.AestheticSearch(ctx, keywords, limit)
}

// SimilarToFilm 以某部电影自己的向量找相近电影（"更多同感"入口）
func (s *SearchService) SimilarToFilm(ctx context.Context, filmID, limit int) ([]model.FilmResult, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	film, err := s.films.FindByID(filmID)
	if err != nil {
		return nil, err
	}
	if film == nil {
		return nil, fmt.Errorf("电影不存在: %d", filmID)
	}

	scored, err := s.films.FindSimilarByID(filmID, limit)
	if err != nil {
		return nil, fmt.Errorf("相似检索失败: %w", err)
	}

	results := make([]model.FilmResult, 0, len(scored))
	for _, sf := range scored {
		results = append(results, model.NewFilmResult(sf.Film, sf.Similarity))
	}
	return results, nil
}

// FallbackKeywords 为一组没查到的影片生成貌似合理的美学描述
// 模型也失败时退回硬编码的默认描述（按片名粗略分流）
func (s *SearchService) FallbackKeywords(ctx context.Context, movies []model.RecommendedFilm) string {
	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		titles = append(titles, m.Title)
	}
	joined := strings.Join(titles, ", ")

	prompt := fmt.Sprintf(
		"这些电影没有检索到：%s。用一行英文短语描述这类电影的视觉美学（配色、光线、质感），逗号分隔，不要解释。",
		joined,
	)
	keywords, err := s.llm.Complete(ctx, prompt)
	if err == nil && strings.TrimSpace(keywords) != "" {
		return strings.TrimSpace(keywords)
	}

	log.Printf("[SearchService] 兜底关键词生成失败，使用默认描述: %v", err)
	lowered := strings.ToLower(joined)
	if strings.Contains(lowered, "crime") || strings.Contains(lowered, "gangster") {
		return fallbackCrimeKeywords
	}
	return fallbackDefaultKeywords
}
