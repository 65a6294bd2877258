package repository

import (
	"fmt"
	"time"

	"github.com/user/celluloid/internal/model"
	"github.com/user/celluloid/internal/utils"
	"gorm.io/gorm"
)

type SearchLogRepository struct {
	db *gorm.DB
}

func NewSearchLogRepository(db *gorm.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// Log 记录搜索日志
func (r *SearchLogRepository) Log(query, searchType string, resultCount int, ipHash string) error {
	entry := &model.SearchLog{
		Query:       query,
		SearchType:  searchType,
		ResultCount: resultCount,
		IPHash:      ipHash,
		CreatedAt:   time.Now(),
	}
	return r.db.Create(entry).Error
}

// GetTrending 获取最近 hours 小时内的热门查询
func (r *SearchLogRepository) GetTrending(hours, limit int) ([]*model.TrendingQuery, error) {
	cacheKey := fmt.Sprintf("trending:%d:%d", hours, limit)
	if cached, found := utils.CacheGet(cacheKey); found {
		if queries, ok := cached.([]*model.TrendingQuery); ok {
			return queries, nil
		}
	}

	var queries []*model.TrendingQuery
	err := r.db.Raw(`
		SELECT query, COUNT(*) AS count, MAX(created_at) AS last_searched_at
		FROM search_logs
		WHERE created_at > NOW() - INTERVAL '1 hour' * ?
		GROUP BY query
		ORDER BY count DESC
		LIMIT ?
	`, hours, limit).Scan(&queries).Error
	if err != nil {
		return nil, err
	}

	utils.CacheSet(cacheKey, queries, 30*time.Minute)
	return queries, nil
}

// DeleteOldLogs 清理超过指定天数的搜索日志
func (r *SearchLogRepository) DeleteOldLogs(days int) (int64, error) {
	result := r.db.Exec(`
		DELETE FROM search_logs
		WHERE created_at < NOW() - INTERVAL '1 day' * ?
	`, days)
	return result.RowsAffected, result.Error
}
