package service

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/model"
)

// 测试用桩：只实现用到的方法，未设置的方法返回零值

type stubStore struct {
	findByID                  func(id int) (*model.Film, error)
	findByTitleYear           func(pairs []model.RecommendedFilm, limit int) ([]model.Film, error)
	searchByEmbedding         func(emb pgvector.Vector, threshold float64, count int) ([]model.ScoredFilm, error)
	findSimilarByID           func(id, limit int) ([]model.ScoredFilm, error)
	searchByKeywordEmbeddings func(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error)
	listWithPalette           func() ([]model.Film, error)
}

func (s *stubStore) FindByID(id int) (*model.Film, error) {
	if s.findByID == nil {
		return nil, nil
	}
	return s.findByID(id)
}

func (s *stubStore) FindByTitleYear(pairs []model.RecommendedFilm, limit int) ([]model.Film, error) {
	if s.findByTitleYear == nil {
		return nil, nil
	}
	return s.findByTitleYear(pairs, limit)
}

func (s *stubStore) SearchByEmbedding(emb pgvector.Vector, threshold float64, count int) ([]model.ScoredFilm, error) {
	if s.searchByEmbedding == nil {
		return nil, nil
	}
	return s.searchByEmbedding(emb, threshold, count)
}

func (s *stubStore) FindSimilarByID(id, limit int) ([]model.ScoredFilm, error) {
	if s.findSimilarByID == nil {
		return nil, nil
	}
	return s.findSimilarByID(id, limit)
}

func (s *stubStore) SearchByKeywordEmbeddings(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
	if s.searchByKeywordEmbeddings == nil {
		return nil, nil
	}
	return s.searchByKeywordEmbeddings(decade, contextEmb, aestheticEmb, count)
}

func (s *stubStore) ListWithPalette() ([]model.Film, error) {
	if s.listWithPalette == nil {
		return nil, nil
	}
	return s.listWithPalette()
}

type stubLLM struct {
	complete     func(ctx context.Context, prompt string) (string, error)
	completeJSON func(ctx context.Context, prompt string) (string, error)
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	if s.complete == nil {
		return "", nil
	}
	return s.complete(ctx, prompt)
}

func (s *stubLLM) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	if s.completeJSON == nil {
		return "", nil
	}
	return s.completeJSON(ctx, prompt)
}

type stubEmbedder struct {
	calls int
	embed func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.embed == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return s.embed(ctx, text)
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultLimit:        10,
		CandidateMultiplier: 5,
		ThematicMultiplier:  2,
		SimilarityThreshold: 0.35,
		HybridAcceptRatio:   0.7,
		ThematicMinRatio:    0.3,
		ThematicMinFloor:    3,
		ColorTopK:           7,
		WordTopK:            7,
	}
}

func testFilm(id int, title string, year int) model.Film {
	return model.Film{ID: id, Title: title, Year: year}
}
