package service

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/model"
)

// LLMClient 托管大模型接口（分类、兜底关键词生成）
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// Embedder 托管向量生成接口
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// FilmStore service 层需要的数据访问最小集合
type FilmStore interface {
	FindByID(id int) (*model.Film, error)
	FindByTitleYear(pairs []model.RecommendedFilm, limit int) ([]model.Film, error)
	SearchByEmbedding(emb pgvector.Vector, threshold float64, count int) ([]model.ScoredFilm, error)
	FindSimilarByID(id, limit int) ([]model.ScoredFilm, error)
	SearchByKeywordEmbeddings(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error)
	ListWithPalette() ([]model.Film, error)
}
