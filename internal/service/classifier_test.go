package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/celluloid/internal/model"
)

// 模型输出带 ```json 围栏时能正常解析
func TestParseVerdictFencedJSON(t *testing.T) {
	raw := "```json\n" +
		`{"search_type":"hybrid","recommended_movies":[{"title":"Chinatown","year":1974}],"aesthetic_keywords":"sun-bleached noir","confidence":0.85}` +
		"\n```"

	verdict, err := parseVerdict(raw)
	require.NoError(t, err)
	assert.Equal(t, model.SearchTypeHybrid, verdict.SearchType)
	require.Len(t, verdict.RecommendedMovies, 1)
	assert.Equal(t, "Chinatown", verdict.RecommendedMovies[0].Title)
	assert.Equal(t, 1974, verdict.RecommendedMovies[0].Year)
	assert.Equal(t, "sun-bleached noir", verdict.AestheticKeywords)
	assert.InDelta(t, 0.85, verdict.Confidence, 1e-9)
}

// 非法结构统一归为 ErrBadVerdict
func TestParseVerdictBadOutput(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"search_type":"semantic","confidence":0.5}`,
		`{"search_type":"","confidence":0.5}`,
	}
	for _, raw := range cases {
		_, err := parseVerdict(raw)
		assert.ErrorIs(t, err, ErrBadVerdict, "输入: %q", raw)
	}
}

// 置信度钳制到 [0,1]
func TestParseVerdictClampsConfidence(t *testing.T) {
	high, err := parseVerdict(`{"search_type":"aesthetic","confidence":1.7}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.Confidence)

	low, err := parseVerdict(`{"search_type":"aesthetic","confidence":-0.2}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, low.Confidence)
}

// 候选影片超量时截断
func TestParseVerdictTrimsMovies(t *testing.T) {
	raw := `{"search_type":"thematic","recommended_movies":[`
	for i := 0; i < 20; i++ {
		if i > 0 {
			raw += ","
		}
		raw += `{"title":"Film","year":1970}`
	}
	raw += `],"confidence":0.9}`

	verdict, err := parseVerdict(raw)
	require.NoError(t, err)
	assert.Len(t, verdict.RecommendedMovies, maxRecommendedMovies)
}

// 同一查询（忽略大小写与首尾空白）命中缓存，不重复调用模型
func TestClassifyCachesVerdict(t *testing.T) {
	calls := 0
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			calls++
			return `{"search_type":"aesthetic","aesthetic_keywords":"pastel","confidence":0.9}`, nil
		},
	}
	svc := NewClassifierService(llm)

	first, err := svc.Classify(context.Background(), "Pastel Symmetry")
	require.NoError(t, err)
	second, err := svc.Classify(context.Background(), "  pastel symmetry ")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.AestheticKeywords, second.AestheticKeywords)
}

// 模型输出非法时不污染缓存
func TestClassifyBadVerdictNotCached(t *testing.T) {
	calls := 0
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			calls++
			if calls == 1 {
				return "garbage", nil
			}
			return `{"search_type":"thematic","confidence":0.8}`, nil
		},
	}
	svc := NewClassifierService(llm)

	_, err := svc.Classify(context.Background(), "the godfather")
	assert.ErrorIs(t, err, ErrBadVerdict)

	verdict, err := svc.Classify(context.Background(), "the godfather")
	require.NoError(t, err)
	assert.Equal(t, model.SearchTypeThematic, verdict.SearchType)
	assert.Equal(t, 2, calls)
}
