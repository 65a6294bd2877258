package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
)

// decadeWordRe 兜底的年代词探测（模型分类失败时用）
var decadeWordRe = regexp.MustCompile(`(?i)^(19[0-9]0s|20[0-9]0s|twenties|thirties|forties|fifties|sixties|seventies|eighties|nineties|noughties)$`)

// decadeLookup 年代词 → 规范的 "19X0s"/"20X0s" 写法
var decadeLookup = map[string]string{
	"twenties":  "1920s",
	"thirties":  "1930s",
	"forties":   "1940s",
	"fifties":   "1950s",
	"sixties":   "1960s",
	"seventies": "1970s",
	"eighties":  "1980s",
	"nineties":  "1990s",
	"noughties": "2000s",
	"1920s":     "1920s",
	"1930s":     "1930s",
	"1940s":     "1940s",
	"1950s":     "1950s",
	"1960s":     "1960s",
	"1970s":     "1970s",
	"1980s":     "1980s",
	"1990s":     "1990s",
	"2000s":     "2000s",
	"2010s":     "2010s",
	"2020s":     "2020s",
}

// WordService 标签搜索：用户挑选的 1-7 个词，分桶后做双向量检索
type WordService struct {
	films    FilmStore
	llm      LLMClient
	embedder Embedder
	cfg      config.SearchConfig
}

// NewWordService 创建标签搜索服务
func NewWordService(films FilmStore, llm LLMClient, embedder Embedder, cfg config.SearchConfig) *WordService {
	return &WordService{films: films, llm: llm, embedder: embedder, cfg: cfg}
}

const bucketPromptTemplate = `把下面的电影搜索标签分到三个桶里：
- decade：年代词（如 "1970s"、"eighties"）
- aesthetic：视觉美学词（色彩、光线、质感，如 "neon"、"pastel"、"grainy"）
- context：题材/语境词（地点、职业、情绪，如 "detective"、"paris"、"melancholy"）

只输出 JSON：{"decade":[],"aesthetic":[],"context":[]}

标签：%s`

// ClassifyTags 标签分桶，模型失败时退回正则+均分的本地规则
func (s *WordService) ClassifyTags(ctx context.Context, words []string) *model.KeywordBuckets {
	raw, err := s.llm.CompleteJSON(ctx, fmt.Sprintf(bucketPromptTemplate, strings.Join(words, ", ")))
	if err == nil {
		var buckets model.KeywordBuckets
		if jsonErr := json.Unmarshal([]byte(utils.ExtractJSONBlock(raw)), &buckets); jsonErr == nil {
			return &buckets
		}
		log.Printf("[WordService] 标签分桶结果解析失败，使用本地规则")
	} else {
		log.Printf("[WordService] 标签分桶调用失败，使用本地规则: %v", err)
	}
	return fallbackBuckets(words)
}

// fallbackBuckets 本地分桶规则：正则挑出年代词，其余均分为美学/语境两半
func fallbackBuckets(words []string) *model.KeywordBuckets {
	buckets := &model.KeywordBuckets{}
	rest := make([]string, 0, len(words))
	for _, w := range words {
		if decadeWordRe.MatchString(strings.TrimSpace(w)) {
			buckets.Decade = append(buckets.Decade, w)
			continue
		}
		rest = append(rest, w)
	}

	half := (len(rest) + 1) / 2
	buckets.Aesthetic = rest[:half]
	buckets.Context = rest[half:]
	return buckets
}

// NormalizeDecade 把年代词规范为 "19X0s"/"20X0s"
// 不认识的词返回空串，调用方丢弃该过滤条件而不是报错
func NormalizeDecade(word string) string {
	normalized, ok := decadeLookup[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		log.Printf("[WordService] 未识别的年代词，忽略: %q", word)
		return ""
	}
	return normalized
}

// Search 标签搜索入口
// 分桶 → 规范化年代 → 分别生成语境/美学向量 → 存储层合并打分 → 去重截断
func (s *WordService) Search(ctx context.Context, keywords []string) ([]model.FilmResult, error) {
	buckets := s.ClassifyTags(ctx, keywords)

	var decade *string
	if len(buckets.Decade) > 0 {
		if d := NormalizeDecade(buckets.Decade[0]); d != "" {
			decade = &d
		}
	}

	contextEmb, err := s.embedFor(ctx, buckets.Context)
	if err != nil {
		return nil, err
	}
	aestheticEmb, err := s.embedFor(ctx, buckets.Aesthetic)
	if err != nil {
		return nil, err
	}

	if contextEmb == nil && aestheticEmb == nil && decade == nil {
		return []model.FilmResult{}, nil
	}

	rows, err := s.films.SearchByKeywordEmbeddings(decade, contextEmb, aestheticEmb, s.cfg.WordTopK)
	if err != nil {
		return nil, fmt.Errorf("关键词检索失败: %w", err)
	}

	// 按 ID 去重，先出现的保留
	seen := make(map[int]bool, len(rows))
	results := make([]model.FilmResult, 0, s.cfg.WordTopK)
	for _, row := range rows {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		results = append(results, model.NewFilmResult(row.Film, row.CombinedScore*100))
		if len(results) >= s.cfg.WordTopK {
			break
		}
	}
	return results, nil
}

// embedFor 把一个桶的词拼起来生成向量，空桶返回 nil
func (s *WordService) embedFor(ctx context.Context, words []string) (*pgvector.Vector, error) {
	joined := strings.TrimSpace(strings.Join(words, " "))
	if joined == "" {
		return nil, nil
	}
	emb, err := s.embedder.GenerateEmbedding(ctx, joined)
	if err != nil {
		return nil, fmt.Errorf("生成标签向量失败: %w", err)
	}
	v := pgvector.NewVector(emb)
	return &v, nil
}
