package model

import (
	"time"
)

// SearchLog 搜索日志（记录自然语言查询与路由结果）
type SearchLog struct {
	ID          int       `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	SearchType  string    `json:"search_type" db:"search_type"`
	ResultCount int       `json:"result_count" db:"result_count"`
	IPHash      string    `json:"ip_hash" db:"ip_hash"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"index"`
}

// TrendingQuery 热门查询统计
type TrendingQuery struct {
	Query          string    `json:"query" db:"query"`
	Count          int       `json:"count" db:"count"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
}
