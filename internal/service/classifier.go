package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
)

// ErrBadVerdict 模型输出不符合约定的 JSON 结构
// 与网络/接口错误区分开，调用方可以据此决定是否重试
var ErrBadVerdict = errors.New("分类器输出不符合约定结构")

// 分类器裁定最多携带的候选影片数
const maxRecommendedMovies = 12

// ClassifierService 自然语言查询分类器
// 把用户的自由文本交给大模型，得到 检索类型 + 候选影片 + 美学关键词 的裁定
type ClassifierService struct {
	llm      LLMClient
	verdicts *utils.SearchCache[model.QueryClassification]
}

// NewClassifierService 创建分类器
func NewClassifierService(llm LLMClient) *ClassifierService {
	return &ClassifierService{
		llm:      llm,
		verdicts: utils.NewSearchCache[model.QueryClassification](1000, 1*time.Hour),
	}
}

const classifyPromptTemplate = `你是一个电影美学搜索引擎的查询路由器。用户按"观感"找电影：配色、氛围、年代质感，而不是按类型或剧情。

把下面的查询分类为三种检索方式之一：
- "aesthetic"：查询描述的是视觉感受、色彩、氛围（如"暖黄色调的怀旧画面"）
- "thematic"：查询指向具体影片、导演或明确题材，应该按片名+年份检索
- "hybrid"：两者兼有，先按片名检索、不足时退回美学检索

只输出 JSON，结构如下：
{"search_type":"aesthetic|thematic|hybrid","recommended_movies":[{"title":"片名","year":1974}],"aesthetic_keywords":"英文视觉关键词串","confidence":0.0}

示例：
查询：movies that look like wes anderson pastel symmetry
{"search_type":"aesthetic","recommended_movies":[],"aesthetic_keywords":"pastel color palette, symmetrical composition, whimsical production design","confidence":0.92}

查询：films like chinatown
{"search_type":"hybrid","recommended_movies":[{"title":"Chinatown","year":1974},{"title":"L.A. Confidential","year":1997}],"aesthetic_keywords":"sun-bleached noir, amber haze, 1970s Los Angeles","confidence":0.85}

查询：the godfather 1972
{"search_type":"thematic","recommended_movies":[{"title":"The Godfather","year":1972}],"aesthetic_keywords":null,"confidence":0.97}

用户查询：%s`

// Classify 对一次查询做裁定
func (s *ClassifierService) Classify(ctx context.Context, userInput string) (*model.QueryClassification, error) {
	normalized := strings.ToLower(strings.TrimSpace(userInput))
	if cached, found := s.verdicts.Get(normalized); found {
		return &cached, nil
	}

	raw, err := s.llm.CompleteJSON(ctx, fmt.Sprintf(classifyPromptTemplate, userInput))
	if err != nil {
		return nil, fmt.Errorf("分类器调用失败: %w", err)
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return nil, err
	}

	s.verdicts.Set(normalized, *verdict)
	return verdict, nil
}

// parseVerdict 解析并校验模型输出
// 解析失败或字段非法都归为 ErrBadVerdict
func parseVerdict(raw string) (*model.QueryClassification, error) {
	cleaned := utils.ExtractJSONBlock(raw)

	var verdict model.QueryClassification
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVerdict, err)
	}

	switch verdict.SearchType {
	case model.SearchTypeAesthetic, model.SearchTypeThematic, model.SearchTypeHybrid:
	default:
		return nil, fmt.Errorf("%w: 未知检索类型 %q", ErrBadVerdict, verdict.SearchType)
	}

	if verdict.Confidence < 0 {
		verdict.Confidence = 0
	}
	if verdict.Confidence > 1 {
		verdict.Confidence = 1
	}

	if len(verdict.RecommendedMovies) > maxRecommendedMovies {
		verdict.RecommendedMovies = verdict.RecommendedMovies[:maxRecommendedMovies]
	}

	return &verdict, nil
}
