package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Film 电影美学档案
// Embedding 在入库时为 NULL，由 backfill 任务批量计算；
// 依赖向量的查询在 SQL 层跳过 NULL 行。
type Film struct {
	ID               int              `json:"id" db:"id"`
	Title            string           `json:"title" db:"title" gorm:"index"`
	Year             int              `json:"year" db:"year" gorm:"index"`
	AestheticSummary string           `json:"aesthetic_summary" db:"aesthetic_summary"`
	Synopsis         string           `json:"synopsis" db:"synopsis"`
	DepictedDecade   string           `json:"depicted_decade" db:"depicted_decade" gorm:"index"` // 影片故事所处的年代（非上映年份），如 "1970s"
	HexCodes         string           `json:"hex_codes" db:"hex_codes"`                          // 逗号分隔的主色调色板，如 "#1A2B3C,#FFEEDD"
	Moods            pq.StringArray   `json:"moods" db:"moods" gorm:"type:text[]"`
	LetterboxdLink   string           `json:"letterboxd_link" db:"letterboxd_link"`
	Embedding        *pgvector.Vector `json:"-" db:"embedding" gorm:"type:vector(1536)"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at" gorm:"index"`
}

// ScoredFilm 电影加一个临时的相似度分值，仅用于排序和截断，不落库
type ScoredFilm struct {
	Film       `gorm:"embedded"`
	Similarity float64 `json:"similarity" db:"similarity"`
}

// WordSearchRow 关键词检索返回行：双向量相似度与合并分值由存储层计算
type WordSearchRow struct {
	Film                `gorm:"embedded"`
	ContextSimilarity   float64 `json:"context_similarity" db:"context_similarity"`
	AestheticSimilarity float64 `json:"aesthetic_similarity" db:"aesthetic_similarity"`
	CombinedScore       float64 `json:"combined_score" db:"combined_score"`
}

// FilmResult 返回给前端的扁平化投影
type FilmResult struct {
	MovieID          int     `json:"movie_id"`
	MovieTitle       string  `json:"movie_title"`
	Year             int     `json:"year"`
	AestheticSummary string  `json:"aesthetic_summary"`
	DepictedDecade   string  `json:"depicted_decade"`
	HexCodes         string  `json:"hex_codes"`
	LetterboxdLink   string  `json:"letterboxd_link"`
	SimilarityScore  float64 `json:"similarity_score"`
}

// NewFilmResult 由电影和分值构造投影
func NewFilmResult(f Film, score float64) FilmResult {
	return FilmResult{
		MovieID:          f.ID,
		MovieTitle:       f.Title,
		Year:             f.Year,
		AestheticSummary: f.AestheticSummary,
		DepictedDecade:   f.DepictedDecade,
		HexCodes:         f.HexCodes,
		LetterboxdLink:   f.LetterboxdLink,
		SimilarityScore:  score,
	}
}
