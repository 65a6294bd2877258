package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/user/celluloid/internal/model"
	"gorm.io/gorm"
)

type FilmRepository struct {
	db *gorm.DB
}

func NewFilmRepository(db *gorm.DB) *FilmRepository {
	return &FilmRepository{db: db}
}

// FindByID 根据 ID 查找电影
func (r *FilmRepository) FindByID(id int) (*model.Film, error) {
	var film model.Film
	err := r.db.Where("id = ?", id).First(&film).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// FindByTitleYear 按 (片名模糊匹配 AND 年份相等) 的 OR 组合查找
// pairs 为空时由调用方拦截，这里不做查询
func (r *FilmRepository) FindByTitleYear(pairs []model.RecommendedFilm, limit int) ([]model.Film, error) {
	if len(pairs) == 0 {
		return []model.Film{}, nil
	}

	conds := make([]string, 0, len(pairs))
	args := make([]interface{}, 0, len(pairs)*2)
	for _, p := range pairs {
		conds = append(conds, "(title ILIKE ? AND year = ?)")
		args = append(args, "%"+p.Title+"%", p.Year)
	}

	var films []model.Film
	err := r.db.Where(strings.Join(conds, " OR "), args...).
		Limit(limit).
		Find(&films).Error
	return films, err
}

// SearchByEmbedding 向量近邻检索：余弦相似度高于阈值的前 count 条
// embedding 为 NULL 的行在这里被跳过
func (r *FilmRepository) SearchByEmbedding(emb pgvector.Vector, threshold float64, count int) ([]model.ScoredFilm, error) {
	var results []model.ScoredFilm
	err := r.db.Raw(`
		SELECT *, 1 - (embedding <=> ?) AS similarity
		FROM films
		WHERE embedding IS NOT NULL
		  AND 1 - (embedding <=> ?) > ?
		ORDER BY embedding <=> ?
		LIMIT ?
	`, emb, emb, threshold, emb, count).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FindSimilarByID 以某部电影自己的向量做近邻检索（不含自身）
func (r *FilmRepository) FindSimilarByID(id, limit int) ([]model.ScoredFilm, error) {
	var results []model.ScoredFilm
	err := r.db.Raw(`
		SELECT f.*, 1 - (f.embedding <=> s.embedding) AS similarity
		FROM films f
		JOIN films s ON s.id = ?
		WHERE f.id <> s.id
		  AND f.embedding IS NOT NULL
		  AND s.embedding IS NOT NULL
		ORDER BY f.embedding <=> s.embedding
		LIMIT ?
	`, id, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchByKeywordEmbeddings 关键词检索：可选年代过滤 + 最多两个查询向量
// context / aesthetic 两个相似度都对同一个 embedding 列打分，
// combined_score 取在场分项的等权平均
func (r *FilmRepository) SearchByKeywordEmbeddings(decade *string, contextEmb, aestheticEmb *pgvector.Vector, count int) ([]model.WordSearchRow, error) {
	ctxExpr := "0"
	aesExpr := "0"
	var args []interface{}

	if contextEmb != nil {
		ctxExpr = "1 - (embedding <=> ?)"
		args = append(args, *contextEmb)
	}
	if aestheticEmb != nil {
		aesExpr = "1 - (embedding <=> ?)"
		args = append(args, *aestheticEmb)
	}

	var combinedExpr string
	switch {
	case contextEmb != nil && aestheticEmb != nil:
		combinedExpr = "(1 - (embedding <=> ?) + 1 - (embedding <=> ?)) / 2"
		args = append(args, *contextEmb, *aestheticEmb)
	case contextEmb != nil:
		combinedExpr = "1 - (embedding <=> ?)"
		args = append(args, *contextEmb)
	case aestheticEmb != nil:
		combinedExpr = "1 - (embedding <=> ?)"
		args = append(args, *aestheticEmb)
	default:
		combinedExpr = "0"
	}

	where := "embedding IS NOT NULL"
	if contextEmb == nil && aestheticEmb == nil {
		// 纯年代筛选：不依赖向量
		where = "1=1"
	}
	if decade != nil {
		where += " AND depicted_decade = ?"
		args = append(args, *decade)
	}

	orderBy := "combined_score DESC"
	if contextEmb == nil && aestheticEmb == nil {
		orderBy = "year DESC"
	}

	args = append(args, count)

	var rows []model.WordSearchRow
	err := r.db.Raw(`
		SELECT *,
		       `+ctxExpr+` AS context_similarity,
		       `+aesExpr+` AS aesthetic_similarity,
		       `+combinedExpr+` AS combined_score
		FROM films
		WHERE `+where+`
		ORDER BY `+orderBy+`
		LIMIT ?
	`, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWithPalette 取出所有带调色板的电影（色彩搜索候选集）
func (r *FilmRepository) ListWithPalette() ([]model.Film, error) {
	var films []model.Film
	err := r.db.Where("hex_codes <> ''").Find(&films).Error
	return films, err
}

// ListMissingEmbedding 取出 id 大于游标且尚无向量的一页电影（回填任务用）
func (r *FilmRepository) ListMissingEmbedding(afterID, limit int) ([]model.Film, error) {
	var films []model.Film
	err := r.db.Where("embedding IS NULL AND id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&films).Error
	return films, err
}

// UpdateEmbedding 回写向量
func (r *FilmRepository) UpdateEmbedding(id int, emb pgvector.Vector) error {
	return r.db.Model(&model.Film{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"embedding":  emb,
			"updated_at": time.Now(),
		}).Error
}

// Upsert 创建或更新电影（入库脚本用）
func (r *FilmRepository) Upsert(film *model.Film) error {
	film.UpdatedAt = time.Now()
	if film.ID > 0 {
		return r.db.Save(film).Error
	}
	return r.db.Create(film).Error
}
