package service

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/celluloid/internal/model"
)

func TestNormalizeDecade(t *testing.T) {
	assert.Equal(t, "1980s", NormalizeDecade("eighties"))
	assert.Equal(t, "1980s", NormalizeDecade(" Eighties "))
	assert.Equal(t, "1960s", NormalizeDecade("1960s"))
	assert.Equal(t, "2000s", NormalizeDecade("noughties"))
	// 不认识的词丢弃过滤条件而不是报错
	assert.Equal(t, "", NormalizeDecade("nonsense"))
}

// 本地分桶规则：正则挑出年代词，其余前一半归美学、后一半归语境
func TestFallbackBuckets(t *testing.T) {
	buckets := fallbackBuckets([]string{"1970s", "neon", "detective", "paris"})

	assert.Equal(t, []string{"1970s"}, buckets.Decade)
	assert.Equal(t, []string{"neon", "detective"}, buckets.Aesthetic)
	assert.Equal(t, []string{"paris"}, buckets.Context)
}

func TestFallbackBucketsDecadeWords(t *testing.T) {
	buckets := fallbackBuckets([]string{"eighties", "2010s"})
	assert.Equal(t, []string{"eighties", "2010s"}, buckets.Decade)
	assert.Empty(t, buckets.Aesthetic)
	assert.Empty(t, buckets.Context)
}

// 标签搜索：存储层返回的重复行按 ID 去重，结果不超过 WordTopK
func TestWordSearchDeduplicates(t *testing.T) {
	row := func(id int, score float64) model.WordSearchRow {
		return model.WordSearchRow{Film: testFilm(id, "Film", 1985), CombinedScore: score}
	}

	store := &stubStore{
		searchByKeywordEmbeddings: func(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
			assert.Nil(t, decade)
			assert.NotNil(t, contextEmb)
			assert.NotNil(t, aestheticEmb)
			return []model.WordSearchRow{
				row(1, 0.9), row(2, 0.8), row(1, 0.7), row(3, 0.6),
			}, nil
		},
	}
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			return `{"decade":[],"aesthetic":["neon"],"context":["paris"]}`, nil
		},
	}
	svc := NewWordService(store, llm, &stubEmbedder{}, testSearchConfig())

	results, err := svc.Search(context.Background(), []string{"neon", "paris"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []int{results[0].MovieID, results[1].MovieID, results[2].MovieID}, []int{1, 2, 3})
	// 分值是合并分 ×100
	assert.InDelta(t, 90.0, results[0].SimilarityScore, 1e-9)
}

// 结果量超过 WordTopK 时截断
func TestWordSearchTruncatesToTopK(t *testing.T) {
	store := &stubStore{
		searchByKeywordEmbeddings: func(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
			rows := make([]model.WordSearchRow, 10)
			for i := range rows {
				rows[i] = model.WordSearchRow{Film: testFilm(i+1, "Film", 1990), CombinedScore: 0.5}
			}
			return rows, nil
		},
	}
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			return `{"decade":[],"aesthetic":["grainy"],"context":[]}`, nil
		},
	}
	svc := NewWordService(store, llm, &stubEmbedder{}, testSearchConfig())

	results, err := svc.Search(context.Background(), []string{"grainy"})
	require.NoError(t, err)
	assert.Len(t, results, testSearchConfig().WordTopK)
}

// 分桶模型失败时走本地规则，年代词转成过滤条件
func TestWordSearchFallbackBucketsAndDecade(t *testing.T) {
	var gotDecade *string
	store := &stubStore{
		searchByKeywordEmbeddings: func(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
			gotDecade = decade
			return nil, nil
		},
	}
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			return "", assert.AnError
		},
	}
	svc := NewWordService(store, llm, &stubEmbedder{}, testSearchConfig())

	_, err := svc.Search(context.Background(), []string{"eighties", "neon"})
	require.NoError(t, err)
	require.NotNil(t, gotDecade)
	assert.Equal(t, "1980s", *gotDecade)
}

// 全部桶为空时不发查询
func TestWordSearchNothingToQuery(t *testing.T) {
	store := &stubStore{
		searchByKeywordEmbeddings: func(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
			t.Fatal("空桶不应触发查询")
			return nil, nil
		},
	}
	llm := &stubLLM{
		completeJSON: func(ctx context.Context, prompt string) (string, error) {
			return `{"decade":[],"aesthetic":[],"context":[]}`, nil
		},
	}
	svc := NewWordService(store, llm, &stubEmbedder{}, testSearchConfig())

	results, err := svc.Search(context.Background(), []string{"???"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
